package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order statuses.
const (
	StatusPending   = "Pending"
	StatusCompleted = "Completed"
)

// nextStatus lists the transitions an admin may make. Setting the current
// status again is always allowed and changes nothing.
var nextStatus = map[string][]string{
	StatusPending:   {StatusCompleted},
	StatusCompleted: {},
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	_, ok := nextStatus[s]
	return ok
}

// CanTransition reports whether an order may move from one status to another.
func CanTransition(from, to string) bool {
	if from == to {
		return ValidStatus(to)
	}
	for _, s := range nextStatus[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Order is a single placed order. Rows are never deleted.
type Order struct {
	ID           uint            `gorm:"primaryKey"`
	UserID       uint            `gorm:"column:user_id;not null;index"`
	ShopID       uint            `gorm:"column:shop_id;not null;index"`
	ItemName     string          `gorm:"column:item_name;size:100;not null"`
	ItemPrice    decimal.Decimal `gorm:"column:item_price;type:decimal(10,2);not null"`
	Quantity     int             `gorm:"not null"`
	TotalPrice   decimal.Decimal `gorm:"column:total_price;type:decimal(10,2);not null"`
	CustomerName string          `gorm:"column:customer_name;size:100;not null"`
	OrderDate    time.Time       `gorm:"column:order_date;not null;index"`
	Status       string          `gorm:"size:20;not null;default:Pending"`
}

// OrderRow is an order joined with its shop name. ShopName is empty for
// orders whose shop no longer exists.
type OrderRow struct {
	Order
	ShopName string
}
