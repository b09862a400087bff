package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type MenuItem struct {
	gorm.Model
	Title      string          `gorm:"not null"`
	Price      decimal.Decimal `gorm:"type:decimal(6,2);not null"`
	Featured   bool            `gorm:"not null;default:false"`
	CategoryID uint            `gorm:"not null"`
	Category   Category
}
