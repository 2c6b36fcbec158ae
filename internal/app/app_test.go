package app

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Skotchmaster/tossplace/internal/events"
	"github.com/Skotchmaster/tossplace/internal/models"
	"github.com/Skotchmaster/tossplace/internal/service/order"
	"github.com/Skotchmaster/tossplace/internal/service/payment"
	"github.com/Skotchmaster/tossplace/pkg/config"
	"github.com/Skotchmaster/tossplace/pkg/errs"
)

func testConfig(t *testing.T) config.Config {
	return config.Config{
		DBPath:          filepath.Join(t.TempDir(), "pos.db"),
		LogLevel:        "error",
		PasswordPepper:  "pepper",
		ReceiptSalt:     "salt",
		EventsTopic:     "pos_events",
		DefaultPageSize: 5,
	}
}

func TestNew_WiresServices(t *testing.T) {
	ctx := context.Background()

	a, err := New(ctx, testConfig(t), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.True(t, a.Store.IsConnected())
	assert.IsType(t, events.LogPublisher{}, a.Events)
	assert.Equal(t, 5, a.Orders.PageSize)

	_, err = a.Auth.Register(ctx, "cashier", "cashier@example.com", "secret1", "Cashier")
	require.NoError(t, err)
	_, err = a.Auth.Login(ctx, "cashier@example.com", "secret1")
	require.NoError(t, err)

	p, err := a.Catalog.Create(ctx, models.Product{Title: "Americano", Price: decimal.NewFromInt(4500), Quantity: 10})
	require.NoError(t, err)

	o, err := a.Orders.CreateOrder(ctx, order.CreateOrderRequest{
		CustomerName: "walk-in",
		Items:        []order.Item{{ProductID: p.ID, ProductName: p.Title, Quantity: 2, UnitPrice: p.Price}},
	})
	require.NoError(t, err)

	pay, err := a.Payments.Process(ctx, payment.ProcessRequest{OrderID: o.ID, Amount: o.TotalAmount, Method: models.MethodCash})
	require.NoError(t, err)
	require.NoError(t, a.Orders.CompleteOrder(ctx, o.ID))

	rev, err := a.Payments.GetDailyRevenue(ctx)
	require.NoError(t, err)
	assert.True(t, pay.Amount.Equal(rev))

	require.NoError(t, a.Close())
	assert.False(t, a.Store.IsConnected())

	_, err = a.Catalog.GetAllProducts(ctx)
	assert.ErrorIs(t, err, errs.ErrNotConnected)
}

func TestNew_FailsOnBadPath(t *testing.T) {
	cfg := testConfig(t)
	cfg.DBPath = filepath.Join(t.TempDir(), "missing", "pos.db")

	_, err := New(context.Background(), cfg, nil)
	assert.ErrorIs(t, err, errs.ErrConnection)
}

func TestNew_RequiresPepper(t *testing.T) {
	cfg := testConfig(t)
	cfg.PasswordPepper = ""

	_, err := New(context.Background(), cfg, nil)
	assert.Error(t, err)
}

func TestNew_KafkaPublisherWhenBrokersSet(t *testing.T) {
	cfg := testConfig(t)
	cfg.KafkaBrokers = []string{"localhost:9092"}

	a, err := New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	assert.IsType(t, &events.KafkaPublisher{}, a.Events)
}
