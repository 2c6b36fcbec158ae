package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/Skotchmaster/tossplace/internal/events"
	"github.com/Skotchmaster/tossplace/internal/repo"
	"github.com/Skotchmaster/tossplace/internal/service/auth"
	"github.com/Skotchmaster/tossplace/internal/service/catalog"
	"github.com/Skotchmaster/tossplace/internal/service/order"
	"github.com/Skotchmaster/tossplace/internal/service/payment"
	"github.com/Skotchmaster/tossplace/pkg/config"
	"github.com/Skotchmaster/tossplace/pkg/db"
)

// App holds one Store and the services built on it. It is created once
// per process; callers must treat an error from New as fatal.
type App struct {
	Config config.Config
	Log    *zap.SugaredLogger

	Store  *db.Store
	Events events.Publisher

	Auth     *auth.AuthService
	Catalog  *catalog.CatalogService
	Orders   *order.OrderService
	Payments *payment.PaymentService
}

func New(ctx context.Context, cfg config.Config, log *zap.SugaredLogger) (*App, error) {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	store := db.New(log.With("component", "store"))
	if err := store.Open(ctx, cfg.DBPath); err != nil {
		return nil, err
	}
	if err := store.ApplySchema(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}

	pub, err := newPublisher(cfg, log)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	r := repo.New(store)
	payments, err := payment.New(r, pub, cfg.ReceiptSalt)
	if err != nil {
		_ = pub.Close()
		_ = store.Close()
		return nil, err
	}

	orders := order.New(r, pub)
	orders.PageSize = cfg.DefaultPageSize

	return &App{
		Config:   cfg,
		Log:      log,
		Store:    store,
		Events:   pub,
		Auth:     auth.New(r, cfg.PasswordPepper),
		Catalog:  catalog.New(r),
		Orders:   orders,
		Payments: payments,
	}, nil
}

// newPublisher sends events to Kafka when brokers are configured and to
// the log otherwise.
func newPublisher(cfg config.Config, log *zap.SugaredLogger) (events.Publisher, error) {
	if len(cfg.KafkaBrokers) == 0 {
		return events.LogPublisher{Logger: log.With("component", "events")}, nil
	}
	pub, err := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.EventsTopic)
	if err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	log.Infow("kafka publisher ready", "brokers", cfg.KafkaBrokers, "topic", cfg.EventsTopic)
	return pub, nil
}

func (a *App) Close() error {
	return errors.Join(a.Events.Close(), a.Store.Close())
}
