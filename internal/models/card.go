package models

import (
	"time"
)

type Card struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	CardNumber string `gorm:"size:4;uniqueIndex" json:"card_number"` // last 4 digits
	CardName   string `gorm:"size:100" json:"card_name"`
	SheetName  string `gorm:"size:100" json:"sheet_name"`
	IsActive   bool   `gorm:"default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
