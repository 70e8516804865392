package model

import (
	"time"
)

// Client represents a customer of the print shop.
type Client struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"type:varchar(200)"`
	Address   string    `json:"address" gorm:"type:varchar(500)"`
	Phone     string    `json:"phone" gorm:"type:varchar(30)"`
	Email     string    `json:"email" gorm:"type:varchar(100)"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
}
