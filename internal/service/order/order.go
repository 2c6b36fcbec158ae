package order

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Skotchmaster/tossplace/internal/events"
	"github.com/Skotchmaster/tossplace/internal/models"
	"github.com/Skotchmaster/tossplace/internal/repo"
	"github.com/Skotchmaster/tossplace/internal/util"
	"github.com/Skotchmaster/tossplace/pkg/errs"
	"github.com/Skotchmaster/tossplace/pkg/logging"
)

const DefaultPageSize = 10

type Item struct {
	ProductID   int64
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

type CreateOrderRequest struct {
	CustomerName  string
	Items         []Item
	PaymentMethod string
	Notes         string
}

type OrderService struct {
	Repo      *repo.GormRepo
	Publisher events.Publisher
	PageSize  int
	Now       func() time.Time
}

func New(r *repo.GormRepo, pub events.Publisher) *OrderService {
	return &OrderService{
		Repo:      r,
		Publisher: pub,
		PageSize:  DefaultPageSize,
		Now:       time.Now,
	}
}

func (s *OrderService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func numberPrefix(t time.Time) string {
	return "ORD-" + t.Local().Format("20060102") + "-"
}

func (s *OrderService) CreateOrder(ctx context.Context, req CreateOrderRequest) (*models.Order, error) {
	l := logging.FromContext(ctx).With("svc", "order.create", "customer", req.CustomerName)

	if len(req.Items) == 0 {
		l.Warnw("create_order_error", "reason", "no items")
		return nil, fmt.Errorf("%w: order must contain at least one item", errs.ErrValidation)
	}

	items := make([]models.OrderItem, 0, len(req.Items))
	total := decimal.Zero
	for i, it := range req.Items {
		if it.Quantity <= 0 {
			l.Warnw("create_order_error", "reason", "non-positive quantity", "item", i)
			return nil, fmt.Errorf("%w: item %d quantity must be positive", errs.ErrValidation, i+1)
		}
		if it.UnitPrice.IsNegative() {
			l.Warnw("create_order_error", "reason", "negative unit price", "item", i)
			return nil, fmt.Errorf("%w: item %d unit price must not be negative", errs.ErrValidation, i+1)
		}
		line := it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
		total = total.Add(line)
		items = append(items, models.OrderItem{
			ProductID:   it.ProductID,
			ProductName: strings.TrimSpace(it.ProductName),
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			TotalPrice:  line,
		})
	}

	now := s.now()
	o := models.Order{
		CustomerName:  strings.TrimSpace(req.CustomerName),
		OrderTime:     now.UTC(),
		Status:        models.OrderStatusPending,
		Items:         items,
		TotalAmount:   total,
		PaymentMethod: strings.TrimSpace(req.PaymentMethod),
		Notes:         req.Notes,
		CreatedAt:     now.UTC(),
		UpdatedAt:     now.UTC(),
	}

	if err := s.Repo.CreateOrder(ctx, &o, numberPrefix(now)); err != nil {
		l.Errorw("create_order_error", "error", err)
		return nil, err
	}

	l.Infow("create_order_success", "order_id", o.ID, "order_number", o.OrderNumber, "total", o.TotalAmount.String())
	s.publish(ctx, events.OrderCreated, &o)
	return &o, nil
}

func (s *OrderService) CompleteOrder(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.OrderStatusCompleted, events.OrderCompleted)
}

// CancelOrder does not restock the ordered products.
func (s *OrderService) CancelOrder(ctx context.Context, id int64) error {
	return s.transition(ctx, id, models.OrderStatusCancelled, events.OrderCancelled)
}

func (s *OrderService) transition(ctx context.Context, id int64, to models.OrderStatus, event string) error {
	l := logging.FromContext(ctx).With("svc", "order.transition", "order_id", id, "to", to)

	if err := s.Repo.TransitionOrder(ctx, id, models.OrderStatusPending, to); err != nil {
		l.Warnw("order_transition_error", "error", err)
		return err
	}

	o, err := s.Repo.GetOrder(ctx, id)
	if err != nil {
		return err
	}
	l.Infow("order_transition_success")
	s.publish(ctx, event, o)
	return nil
}

func (s *OrderService) publish(ctx context.Context, typ string, o *models.Order) {
	if s.Publisher == nil {
		return
	}
	e := events.New(typ, strconv.FormatInt(o.ID, 10), map[string]any{
		"order_id":     o.ID,
		"order_number": o.OrderNumber,
		"status":       string(o.Status),
		"total_amount": o.TotalAmount.String(),
	})
	if err := s.Publisher.Publish(ctx, e); err != nil {
		logging.FromContext(ctx).Warnw("publish_error", "svc", "order.publish", "type", typ, "error", err)
	}
}

func (s *OrderService) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	return s.Repo.GetOrder(ctx, id)
}

func (s *OrderService) GetTodayOrders(ctx context.Context) ([]models.Order, error) {
	from, to := util.DayBounds(s.now())
	return s.Repo.ListOrders(ctx, repo.OrderFilter{From: from, To: to})
}

func (s *OrderService) GetPendingOrders(ctx context.Context) ([]models.Order, error) {
	return s.Repo.ListOrders(ctx, repo.OrderFilter{Status: models.OrderStatusPending})
}

// GetOrders pages through all orders, newest first. A non-positive limit
// uses the service page size.
func (s *OrderService) GetOrders(ctx context.Context, limit, offset int) ([]models.Order, error) {
	limit, offset = util.Page(limit, offset, s.PageSize)
	return s.Repo.ListOrders(ctx, repo.OrderFilter{Limit: limit, Offset: offset})
}

func (s *OrderService) GetTodayRevenue(ctx context.Context) (decimal.Decimal, error) {
	from, to := util.DayBounds(s.now())
	return s.Repo.SumOrderTotals(ctx, repo.OrderFilter{
		Status: models.OrderStatusCompleted,
		From:   from,
		To:     to,
	})
}

func (s *OrderService) GetTotalOrdersCount(ctx context.Context) (int64, error) {
	return s.Repo.CountOrders(ctx, repo.OrderFilter{})
}

func (s *OrderService) GetPendingOrderCount(ctx context.Context) (int64, error) {
	return s.Repo.CountOrders(ctx, repo.OrderFilter{Status: models.OrderStatusPending})
}
