package repository

import (
	"encoding/json"
	"time"

	"card-expense-backend/internal/models"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(filename, createdBy string) (*models.UploadSession, error) {
	session := &models.UploadSession{
		ReferenceID: uuid.New(),
		Filename:    filename,
		UploadDate:  time.Now(),
		Status:      models.SessionStatusProcessing,
		CreatedBy:   createdBy,
	}
	if err := r.db.Create(session).Error; err != nil {
		return nil, err
	}
	return session, nil
}

func (r *SessionRepository) GetByID(id uint) (*models.UploadSession, error) {
	var session models.UploadSession
	if err := r.db.First(&session, id).Error; err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *SessionRepository) GetRecent(limit int) ([]models.UploadSession, error) {
	var sessions []models.UploadSession
	err := r.db.Order("upload_date DESC").Limit(limit).Find(&sessions).Error
	return sessions, err
}

func (r *SessionRepository) UpdateStatus(id uint, status string) error {
	return r.db.Model(&models.UploadSession{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// Complete finalizes a session with its counts and skip report.
func (r *SessionRepository) Complete(id uint, total, matched, pending, skipped int, skipReasons map[string]int) error {
	reasonsJSON, err := json.Marshal(skipReasons)
	if err != nil {
		reasonsJSON = []byte("{}")
	}
	return r.db.Model(&models.UploadSession{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"total_transactions": total,
			"matched_count":      matched,
			"pending_count":      pending,
			"skipped_rows":       skipped,
			"skip_reasons":       datatypes.JSON(reasonsJSON),
			"status":             models.SessionStatusCompleted,
		}).Error
}

// Delete removes the session and every transaction it imported.
func (r *SessionRepository) Delete(id uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("session_id = ?", id).Delete(&models.Transaction{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.UploadSession{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
