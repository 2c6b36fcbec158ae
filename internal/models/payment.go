package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
	PaymentStatusRefunded  PaymentStatus = "refunded"
)

const (
	MethodCard         = "card"
	MethodCash         = "cash"
	MethodMobileWallet = "mobile_wallet"
	MethodOnline       = "online"
)

type Payment struct {
	ID              int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderID         int64           `gorm:"column:order_id"                    json:"order_id"`
	TransactionID   string          `gorm:"column:transaction_id"              json:"transaction_id"`
	Method          string          `gorm:"column:method"                      json:"method"`
	Amount          decimal.Decimal `gorm:"column:amount"                      json:"amount"`
	Status          PaymentStatus   `gorm:"column:status"                      json:"status"`
	TransactionTime time.Time       `gorm:"column:transaction_time"            json:"transaction_time"`
	CardLast4       string          `gorm:"column:card_last4"                  json:"card_last4,omitempty"`
	ReceiptNumber   string          `gorm:"column:receipt_number"              json:"receipt_number"`
	Notes           string          `gorm:"column:notes"                       json:"notes,omitempty"`
	CreatedAt       time.Time       `gorm:"column:created_at"                  json:"created_at"`
	UpdatedAt       time.Time       `gorm:"column:updated_at"                  json:"updated_at"`
}

func (Payment) TableName() string {
	return "payments"
}
