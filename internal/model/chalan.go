package model

import (
	"time"
)

// ClientSnapshot is the point-in-time copy of the client embedded in every
// chalan. Later edits to the client record do not rewrite issued chalans.
type ClientSnapshot struct {
	Name    string `json:"name" gorm:"type:varchar(200)"`
	Address string `json:"address" gorm:"type:varchar(500)"`
	Phone   string `json:"phone" gorm:"type:varchar(30)"`
	Email   string `json:"email" gorm:"type:varchar(100)"`
}

// ChalanItem is one line of a chalan. Sno values are kept dense 1..N within
// a chalan; TotalQty is derived from NoOfBoxes and CostPerBox but may be
// overridden by the operator (see the chalan package for the rules).
type ChalanItem struct {
	ID          uint    `json:"id" gorm:"primaryKey"`
	ChalanID    uint    `json:"-" gorm:"index"`
	Sno         int     `json:"sno"`
	Particulars string  `json:"particulars" gorm:"type:varchar(500)"`
	NoOfBoxes   int     `json:"noOfBoxes"`
	CostPerBox  float64 `json:"costPerBox"`
	TotalQty    float64 `json:"totalQty"`
}

// Chalan is a delivery receipt issued to a client. SerialNumber is assigned
// per client at creation time; items are owned rows with no independent
// lifecycle.
type Chalan struct {
	ID           uint           `json:"id" gorm:"primaryKey"`
	ClientID     uint           `json:"clientId" gorm:"index"`
	Client       ClientSnapshot `json:"client" gorm:"embedded;embeddedPrefix:client_"`
	SerialNumber int            `json:"serialNumber"`
	Date         string         `json:"date" gorm:"type:varchar(20)"`
	PODate       string         `json:"poDate" gorm:"type:varchar(20)"`
	PONumber     string         `json:"poNumber" gorm:"type:varchar(100)"`
	VehicleNo    string         `json:"vehicleNo" gorm:"type:varchar(50)"`
	Remarks      string         `json:"remarks" gorm:"type:varchar(500)"`
	Items        []ChalanItem   `json:"items" gorm:"foreignKey:ChalanID;constraint:OnDelete:CASCADE"`
	CreatedBy    string         `json:"createdBy" gorm:"type:varchar(100)"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"-"`
}
