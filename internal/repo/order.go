package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Skotchmaster/tossplace/internal/models"
	"github.com/Skotchmaster/tossplace/pkg/errs"
)

type OrderFilter struct {
	Status models.OrderStatus
	From   time.Time
	To     time.Time
	Limit  int
	Offset int
}

func (f OrderFilter) apply(q *gorm.DB) *gorm.DB {
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("order_time >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("order_time < ?", f.To.UTC())
	}
	return q
}

func preloadItems(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// CreateOrder writes the order and its items in one transaction. The
// order number is prefix plus a four digit sequence counted from the
// orders already stored under that prefix.
func (r *GormRepo) CreateOrder(ctx context.Context, order *models.Order, prefix string) error {
	err := r.Store.Transaction(ctx, func(tx *gorm.DB) error {
		var seq int64
		if err := tx.Model(&models.Order{}).
			Where(`order_number LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
			Count(&seq).Error; err != nil {
			return err
		}
		order.OrderNumber = fmt.Sprintf("%s%04d", prefix, seq+1)

		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return err
		}

		for i := range order.Items {
			order.Items[i].OrderID = order.ID
		}
		if len(order.Items) > 0 {
			if err := tx.Create(&order.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		order.ID = 0
		order.OrderNumber = ""
		return translate(err, "order")
	}
	return nil
}

func (r *GormRepo) GetOrder(ctx context.Context, id int64) (*models.Order, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var o models.Order
	if err := conn.Preload("Items", preloadItems).Where("id = ?", id).First(&o).Error; err != nil {
		return nil, translate(err, "order")
	}
	return &o, nil
}

func (r *GormRepo) OrderExists(ctx context.Context, id int64) (bool, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return false, err
	}

	var count int64
	if err := conn.Model(&models.Order{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return false, translate(err, "order")
	}
	return count > 0, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, f OrderFilter) ([]models.Order, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	q := f.apply(conn.Model(&models.Order{})).
		Preload("Items", preloadItems).
		Order("order_time DESC").
		Order("id DESC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	orders := make([]models.Order, 0)
	if err := q.Find(&orders).Error; err != nil {
		return nil, translate(err, "orders")
	}
	return orders, nil
}

func (r *GormRepo) CountOrders(ctx context.Context, f OrderFilter) (int64, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := f.apply(conn.Model(&models.Order{})).Count(&count).Error; err != nil {
		return 0, translate(err, "orders")
	}
	return count, nil
}

// SumOrderTotals adds totals in decimal rather than with SQL SUM, which
// goes through floating point in SQLite.
func (r *GormRepo) SumOrderTotals(ctx context.Context, f OrderFilter) (decimal.Decimal, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	var totals []decimal.Decimal
	if err := f.apply(conn.Model(&models.Order{})).Pluck("total_amount", &totals).Error; err != nil {
		return decimal.Zero, translate(err, "orders")
	}
	return decimal.Sum(decimal.Zero, totals...), nil
}

// TransitionOrder moves an order from one status to another in a single
// conditional UPDATE.
func (r *GormRepo) TransitionOrder(ctx context.Context, id int64, from, to models.OrderStatus) error {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return err
	}

	res := conn.Model(&models.Order{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return translate(res.Error, "order")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	exists, err := r.OrderExists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: order %d", errs.ErrNotFound, id)
	}
	return fmt.Errorf("%w: order %d is not %s", errs.ErrInvalidState, id, from)
}
