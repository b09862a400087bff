package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 下單時從購物車項目複製出的快照，建立後不再修改
type OrderItem struct {
	gorm.Model
	OrderID    uint `gorm:"not null"`
	MenuItemID uint `gorm:"not null"`
	MenuItem   MenuItem
	Quantity   uint            `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(6,2);not null"`
}
