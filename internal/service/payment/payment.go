package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/speps/go-hashids/v2"

	"github.com/Skotchmaster/tossplace/internal/events"
	"github.com/Skotchmaster/tossplace/internal/models"
	"github.com/Skotchmaster/tossplace/internal/repo"
	"github.com/Skotchmaster/tossplace/internal/util"
	"github.com/Skotchmaster/tossplace/pkg/errs"
	"github.com/Skotchmaster/tossplace/pkg/logging"
)

const receiptMinLength = 10

type ProcessRequest struct {
	OrderID int64
	Amount  decimal.Decimal
	Method  string

	CardNumber string
	CVV        string
	Phone      string
	Notes      string
}

type PaymentService struct {
	Repo      *repo.GormRepo
	Publisher events.Publisher
	Now       func() time.Time

	receipts *hashids.HashID
}

func New(r *repo.GormRepo, pub events.Publisher, receiptSalt string) (*PaymentService, error) {
	hd := hashids.NewData()
	hd.Salt = receiptSalt
	hd.MinLength = receiptMinLength
	hd.Alphabet = "ABCDEFGHIJKLMNPQRSTUVWXYZ123456789"
	h, err := hashids.NewWithData(hd)
	if err != nil {
		return nil, fmt.Errorf("receipt encoder: %w", err)
	}

	return &PaymentService{
		Repo:      r,
		Publisher: pub,
		Now:       time.Now,
		receipts:  h,
	}, nil
}

func (s *PaymentService) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}

func validateRequest(req ProcessRequest) (string, error) {
	if err := ValidateCash(req.Amount); err != nil {
		return "", err
	}

	switch req.Method {
	case models.MethodCard:
		if err := ValidateCard(req.CardNumber, req.CVV); err != nil {
			return "", err
		}
		n := normalizeCard(req.CardNumber)
		return n[len(n)-4:], nil
	case models.MethodMobileWallet:
		return "", ValidateMobile(req.Phone)
	case models.MethodCash, models.MethodOnline:
		return "", nil
	default:
		return "", fmt.Errorf("%w: unsupported payment method %q", errs.ErrValidation, req.Method)
	}
}

// receiptNumber encodes the order id and the order's payment sequence,
// so a refunded order that is paid again gets a new receipt.
func (s *PaymentService) receiptNumber(ctx context.Context, orderID int64) (string, error) {
	seq, err := s.Repo.CountPayments(ctx, repo.PaymentFilter{OrderID: orderID})
	if err != nil {
		return "", err
	}
	code, err := s.receipts.EncodeInt64([]int64{orderID, seq + 1})
	if err != nil {
		return "", err
	}
	return "RCP-" + code, nil
}

// Process records a completed payment for an existing order. Rejected
// requests store nothing and publish a payment_failed event.
func (s *PaymentService) Process(ctx context.Context, req ProcessRequest) (*models.Payment, error) {
	req.Method = strings.TrimSpace(req.Method)
	l := logging.FromContext(ctx).With("svc", "payment.process", "order_id", req.OrderID, "method", req.Method)

	last4, err := validateRequest(req)
	if err != nil {
		l.Warnw("process_payment_error", "reason", err.Error())
		s.publishFailure(ctx, req, err)
		return nil, err
	}

	if err := s.checkOrder(ctx, req.OrderID); err != nil {
		l.Warnw("process_payment_error", "reason", err.Error())
		s.publishFailure(ctx, req, err)
		return nil, err
	}

	now := s.now().UTC()
	txID, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("transaction id: %w", err)
	}
	receipt, err := s.receiptNumber(ctx, req.OrderID)
	if err != nil {
		return nil, fmt.Errorf("receipt number: %w", err)
	}

	p := models.Payment{
		OrderID:         req.OrderID,
		TransactionID:   txID.String(),
		Method:          req.Method,
		Amount:          req.Amount,
		Status:          models.PaymentStatusCompleted,
		TransactionTime: now,
		CardLast4:       last4,
		ReceiptNumber:   receipt,
		Notes:           req.Notes,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.Repo.CreatePayment(ctx, &p); err != nil {
		l.Errorw("process_payment_error", "error", err)
		s.publishFailure(ctx, req, err)
		return nil, err
	}

	l.Infow("process_payment_success", "payment_id", p.ID, "transaction_id", p.TransactionID)
	s.publish(ctx, events.PaymentProcessed, &p, nil)
	return &p, nil
}

func (s *PaymentService) checkOrder(ctx context.Context, orderID int64) error {
	exists, err := s.Repo.OrderExists(ctx, orderID)
	if err != nil {
		return err
	}
	if !exists {
		return fmt.Errorf("%w: order %d", errs.ErrNotFound, orderID)
	}

	paid, err := s.Repo.CountPayments(ctx, repo.PaymentFilter{
		OrderID: orderID,
		Status:  models.PaymentStatusCompleted,
	})
	if err != nil {
		return err
	}
	if paid > 0 {
		return fmt.Errorf("%w: order %d already has a completed payment", errs.ErrConflict, orderID)
	}
	return nil
}

// Refund moves a completed payment to refunded. The order status is
// left as it is.
func (s *PaymentService) Refund(ctx context.Context, id int64) (*models.Payment, error) {
	l := logging.FromContext(ctx).With("svc", "payment.refund", "payment_id", id)

	if err := s.Repo.TransitionPayment(ctx, id, models.PaymentStatusCompleted, models.PaymentStatusRefunded); err != nil {
		l.Warnw("refund_error", "error", err)
		return nil, err
	}

	p, err := s.Repo.GetPayment(ctx, id)
	if err != nil {
		return nil, err
	}
	l.Infow("refund_success", "order_id", p.OrderID)
	s.publish(ctx, events.PaymentRefunded, p, nil)
	return p, nil
}

func (s *PaymentService) publishFailure(ctx context.Context, req ProcessRequest, reason error) {
	p := models.Payment{OrderID: req.OrderID, Method: req.Method, Amount: req.Amount, Status: models.PaymentStatusFailed}
	s.publish(ctx, events.PaymentFailed, &p, reason)
}

func (s *PaymentService) publish(ctx context.Context, typ string, p *models.Payment, reason error) {
	if s.Publisher == nil {
		return
	}
	data := map[string]any{
		"payment_id":     p.ID,
		"order_id":       p.OrderID,
		"method":         p.Method,
		"amount":         p.Amount.String(),
		"status":         string(p.Status),
		"transaction_id": p.TransactionID,
		"receipt_number": p.ReceiptNumber,
	}
	if reason != nil {
		data["reason"] = reason.Error()
	}
	if err := s.Publisher.Publish(ctx, events.New(typ, strconv.FormatInt(p.OrderID, 10), data)); err != nil {
		logging.FromContext(ctx).Warnw("publish_error", "svc", "payment.publish", "type", typ, "error", err)
	}
}

func (s *PaymentService) GetPayment(ctx context.Context, id int64) (*models.Payment, error) {
	return s.Repo.GetPayment(ctx, id)
}

// GetDailyRevenue sums payments that are completed now; refunds drop out
// even when the original payment was made today.
func (s *PaymentService) GetDailyRevenue(ctx context.Context) (decimal.Decimal, error) {
	from, to := util.DayBounds(s.now())
	return s.revenue(ctx, from, to)
}

func (s *PaymentService) GetMonthlyRevenue(ctx context.Context) (decimal.Decimal, error) {
	from, to := util.MonthBounds(s.now())
	return s.revenue(ctx, from, to)
}

func (s *PaymentService) revenue(ctx context.Context, from, to time.Time) (decimal.Decimal, error) {
	return s.Repo.SumPayments(ctx, repo.PaymentFilter{
		Status: models.PaymentStatusCompleted,
		From:   from,
		To:     to,
	})
}

func (s *PaymentService) GetPaymentsByMethod(ctx context.Context, method string) ([]models.Payment, error) {
	return s.Repo.ListPayments(ctx, repo.PaymentFilter{Method: method})
}

func (s *PaymentService) GetPaymentsByOrderID(ctx context.Context, orderID int64) ([]models.Payment, error) {
	return s.Repo.ListPayments(ctx, repo.PaymentFilter{OrderID: orderID})
}

// GetPaymentsByDate lists payments made on the local calendar day of day.
func (s *PaymentService) GetPaymentsByDate(ctx context.Context, day time.Time) ([]models.Payment, error) {
	from, to := util.DayBounds(day)
	return s.Repo.ListPayments(ctx, repo.PaymentFilter{From: from, To: to})
}
