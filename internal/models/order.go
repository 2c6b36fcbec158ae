package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

type OrderItem struct {
	ID          int64           `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	OrderID     int64           `gorm:"column:order_id"                    json:"-"`
	ProductID   int64           `gorm:"column:product_id"                  json:"product_id"`
	ProductName string          `gorm:"column:product_name"                json:"product_name"`
	Quantity    int             `gorm:"column:quantity"                    json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"column:unit_price"                  json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"column:total_price"                 json:"total_price"`
}

func (OrderItem) TableName() string {
	return "order_items"
}

type Order struct {
	ID            int64           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OrderNumber   string          `gorm:"column:order_number"                json:"order_number"`
	CustomerName  string          `gorm:"column:customer_name"               json:"customer_name"`
	OrderTime     time.Time       `gorm:"column:order_time"                  json:"order_time"`
	Status        OrderStatus     `gorm:"column:status"                      json:"status"`
	Items         []OrderItem     `gorm:"foreignKey:OrderID"                 json:"items"`
	TotalAmount   decimal.Decimal `gorm:"column:total_amount"                json:"total_amount"`
	PaymentMethod string          `gorm:"column:payment_method"              json:"payment_method"`
	Notes         string          `gorm:"column:notes"                       json:"notes"`
	CreatedAt     time.Time       `gorm:"column:created_at"                  json:"created_at"`
	UpdatedAt     time.Time       `gorm:"column:updated_at"                  json:"updated_at"`
}

func (Order) TableName() string {
	return "orders"
}
