package models

import (
	"time"
)

// Match statuses for Transaction.MatchStatus. A pending transaction has no
// usage description; auto means the matching engine filled it in; manual
// means a person (or the assistant acting for one) did. Manual never reverts
// to pending.
const (
	MatchStatusPending = "pending"
	MatchStatusAuto    = "auto"
	MatchStatusManual  = "manual"
)

type Transaction struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	SessionID        uint      `gorm:"index" json:"session_id"`
	CardID           uint      `gorm:"index" json:"card_id"`
	TransactionDate  time.Time `gorm:"index" json:"transaction_date"`
	MerchantName     string    `gorm:"size:200;index" json:"merchant_name"`
	Amount           int64     `json:"amount"` // won, smallest unit
	Industry         string    `gorm:"size:100" json:"industry"`
	UsageDescription string    `gorm:"size:200" json:"usage_description"`
	Notes            string    `gorm:"size:500" json:"notes"`
	TaxCategory      string    `gorm:"size:50" json:"tax_category"`
	MatchStatus      string    `gorm:"size:20;index;default:pending" json:"match_status"`
	MatchedPatternID *uint     `json:"matched_pattern_id"`
	SyncedToSheets   bool      `gorm:"default:false" json:"synced_to_sheets"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
