package model

import (
	"time"
)

// InventoryItem is a named product kept on record for one client. The
// ClientID reference is not enforced by the store; callers are expected to
// submit an existing client.
type InventoryItem struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	ClientID    uint      `json:"clientId" gorm:"index"`
	ItemName    string    `json:"itemName" gorm:"type:varchar(200)"`
	Description string    `json:"description,omitempty" gorm:"type:varchar(500)"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
}
