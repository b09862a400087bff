package models

import "gorm.io/gorm"

// 使用者角色，每位使用者只有一個角色標籤
const (
	RoleAdmin        = "admin"
	RoleManager      = "manager"
	RoleDeliveryCrew = "delivery_crew"
	RoleCustomer     = "customer"
)

type User struct {
	gorm.Model
	Username    string `gorm:"unique;not null"`
	Email       string `gorm:"unique;not null"`
	Password    string `gorm:"not null"`
	Role        string `gorm:"not null;default:customer"`
	Orders      []Order
	CartLines   []CartLine
	LoginTokens []LoginToken
}
