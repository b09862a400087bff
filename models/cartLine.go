package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// 購物車項目，每位使用者對同一餐點只會有一筆，重複加入時更新數量
type CartLine struct {
	gorm.Model
	UserID     uint `gorm:"not null;uniqueIndex:idx_user_menuitem"`
	MenuItemID uint `gorm:"not null;uniqueIndex:idx_user_menuitem"`
	MenuItem   MenuItem
	Quantity   uint            `gorm:"not null"`
	UnitPrice  decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	Price      decimal.Decimal `gorm:"type:decimal(6,2);not null"`
}
