package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Session statuses for UploadSession.Status.
const (
	SessionStatusPending    = "pending"
	SessionStatusProcessing = "processing"
	SessionStatusCompleted  = "completed"
	SessionStatusSynced     = "synced"
)

// UploadSession is one statement-import batch. Deleting a session deletes
// its transactions.
type UploadSession struct {
	ID                uint           `gorm:"primaryKey" json:"id"`
	ReferenceID       uuid.UUID      `gorm:"type:uuid;uniqueIndex" json:"reference_id"`
	Filename          string         `gorm:"size:255" json:"filename"`
	UploadDate        time.Time      `json:"upload_date"`
	TotalTransactions int            `gorm:"default:0" json:"total_transactions"`
	MatchedCount      int            `gorm:"default:0" json:"matched_count"`
	PendingCount      int            `gorm:"default:0" json:"pending_count"`
	SkippedRows       int            `gorm:"default:0" json:"skipped_rows"`
	SkipReasons       datatypes.JSON `json:"skip_reasons"`
	Status            string         `gorm:"size:20;default:pending" json:"status"`
	CreatedBy         string         `gorm:"size:100" json:"created_by"`
	CreatedAt         time.Time      `json:"created_at"`
}
