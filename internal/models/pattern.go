package models

import (
	"time"
)

// Match types for Pattern.MatchType.
const (
	MatchTypeExact    = "exact"
	MatchTypeContains = "contains"
	MatchTypeRegex    = "regex"
)

// Pattern is a reusable merchant -> usage-description rule. A nil CardID
// means the pattern applies to every card.
type Pattern struct {
	ID               uint      `gorm:"primaryKey" json:"id"`
	MerchantName     string    `gorm:"size:200;index" json:"merchant_name"`
	UsageDescription string    `gorm:"size:200" json:"usage_description"`
	CardID           *uint     `gorm:"index" json:"card_id"`
	MatchType        string    `gorm:"size:20;default:exact" json:"match_type"`
	Priority         int       `gorm:"default:0" json:"priority"` // higher wins
	UseCount         int       `gorm:"default:0" json:"use_count"`
	CreatedBy        string    `gorm:"size:100" json:"created_by"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
