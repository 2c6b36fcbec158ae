package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Skotchmaster/tossplace/internal/models"
	"github.com/Skotchmaster/tossplace/pkg/errs"
)

type PaymentFilter struct {
	OrderID int64
	Method  string
	Status  models.PaymentStatus
	From    time.Time
	To      time.Time
}

func (f PaymentFilter) apply(q *gorm.DB) *gorm.DB {
	if f.OrderID != 0 {
		q = q.Where("order_id = ?", f.OrderID)
	}
	if f.Method != "" {
		q = q.Where("method = ?", f.Method)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if !f.From.IsZero() {
		q = q.Where("transaction_time >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		q = q.Where("transaction_time < ?", f.To.UTC())
	}
	return q
}

func (r *GormRepo) CreatePayment(ctx context.Context, p *models.Payment) error {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return err
	}
	return translate(conn.Create(p).Error, "payment")
}

func (r *GormRepo) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	var p models.Payment
	if err := conn.Where("id = ?", id).First(&p).Error; err != nil {
		return nil, translate(err, "payment")
	}
	return &p, nil
}

// ListPayments returns matches in insertion order.
func (r *GormRepo) ListPayments(ctx context.Context, f PaymentFilter) ([]models.Payment, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return nil, err
	}

	payments := make([]models.Payment, 0)
	if err := f.apply(conn.Model(&models.Payment{})).Order("id ASC").Find(&payments).Error; err != nil {
		return nil, translate(err, "payments")
	}
	return payments, nil
}

func (r *GormRepo) CountPayments(ctx context.Context, f PaymentFilter) (int64, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return 0, err
	}

	var count int64
	if err := f.apply(conn.Model(&models.Payment{})).Count(&count).Error; err != nil {
		return 0, translate(err, "payments")
	}
	return count, nil
}

func (r *GormRepo) SumPayments(ctx context.Context, f PaymentFilter) (decimal.Decimal, error) {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return decimal.Zero, err
	}

	var amounts []decimal.Decimal
	if err := f.apply(conn.Model(&models.Payment{})).Pluck("amount", &amounts).Error; err != nil {
		return decimal.Zero, translate(err, "payments")
	}
	return decimal.Sum(decimal.Zero, amounts...), nil
}

func (r *GormRepo) TransitionPayment(ctx context.Context, id int64, from, to models.PaymentStatus) error {
	conn, err := r.Store.Conn(ctx)
	if err != nil {
		return err
	}

	res := conn.Model(&models.Payment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return translate(res.Error, "payment")
	}
	if res.RowsAffected == 1 {
		return nil
	}

	var count int64
	if err := conn.Model(&models.Payment{}).Where("id = ?", id).Count(&count).Error; err != nil {
		return translate(err, "payment")
	}
	if count == 0 {
		return fmt.Errorf("%w: payment %d", errs.ErrNotFound, id)
	}
	return fmt.Errorf("%w: payment %d is not %s", errs.ErrInvalidState, id, from)
}
