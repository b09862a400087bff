package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 訂單狀態，只能往前推進，不能倒退
const (
	StatusPending        = "pending"
	StatusOutForDelivery = "out_for_delivery"
	StatusDelivered      = "delivered"
)

var statusRank = map[string]int{
	StatusPending:        0,
	StatusOutForDelivery: 1,
	StatusDelivered:      2,
}

// 檢查狀態值是否合法
func IsValidStatus(status string) bool {
	_, ok := statusRank[status]
	return ok
}

// 檢查狀態轉移是否為往前推進
func IsForwardStatus(from string, to string) bool {
	fromRank, ok := statusRank[from]
	if !ok {
		return false
	}
	toRank, ok := statusRank[to]
	if !ok {
		return false
	}
	return toRank > fromRank
}

type Order struct {
	gorm.Model
	UserID         uint `gorm:"not null"`
	User           User
	DeliveryCrewID *uint
	DeliveryCrew   *User
	Status         string          `gorm:"not null;default:pending"`
	Date           time.Time       `gorm:"not null"`
	Total          decimal.Decimal `gorm:"type:decimal(8,2);not null"`
	OrderItems     []OrderItem
}
