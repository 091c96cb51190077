package repository

import (
	"time"

	"card-expense-backend/internal/models"

	"gorm.io/gorm"
)

type TransactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) *TransactionRepository {
	return &TransactionRepository{db: db}
}

func (r *TransactionRepository) DB() *gorm.DB {
	return r.db
}

func (r *TransactionRepository) GetByID(id uint) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.First(&tx, id).Error; err != nil {
		return nil, err
	}
	return &tx, nil
}

// Exists reports whether a transaction with the same card, date, merchant
// and amount is already stored. This is the ingestion dedup key.
func (r *TransactionRepository) Exists(cardID uint, date time.Time, merchantName string, amount int64) (bool, error) {
	var count int64
	err := r.db.Model(&models.Transaction{}).
		Where("card_id = ? AND transaction_date = ? AND merchant_name = ? AND amount = ?",
			cardID, date, merchantName, amount).
		Count(&count).Error
	return count > 0, err
}

func (r *TransactionRepository) Create(tx *models.Transaction) error {
	return r.db.Create(tx).Error
}

// UpdateMatch sets the classification fields on a transaction.
func (r *TransactionRepository) UpdateMatch(id uint, usageDescription string, patternID *uint, status string) error {
	return r.db.Model(&models.Transaction{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"usage_description":  usageDescription,
			"matched_pattern_id": patternID,
			"match_status":       status,
		}).Error
}

func (r *TransactionRepository) Save(tx *models.Transaction) error {
	return r.db.Save(tx).Error
}

// GetPendingByCard returns the card's still-unclassified transactions in
// statement order.
func (r *TransactionRepository) GetPendingByCard(cardID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.
		Where("card_id = ?", cardID).
		Where("match_status = ?", models.MatchStatusPending).
		Order("transaction_date ASC").Order("id ASC").
		Find(&txs).Error
	return txs, err
}

func (r *TransactionRepository) GetBySession(sessionID uint) ([]models.Transaction, error) {
	var txs []models.Transaction
	err := r.db.
		Where("session_id = ?", sessionID).
		Order("transaction_date ASC").Order("id ASC").
		Find(&txs).Error
	return txs, err
}

type TransactionFilter struct {
	CardID    *uint
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
	Search    string // merchant substring
}

func (r *TransactionRepository) List(filter TransactionFilter) ([]models.Transaction, error) {
	query := r.db.Model(&models.Transaction{})

	if filter.CardID != nil {
		query = query.Where("card_id = ?", *filter.CardID)
	}
	if filter.Status != "" {
		query = query.Where("match_status = ?", filter.Status)
	}
	if filter.StartDate != nil {
		query = query.Where("transaction_date >= ?", *filter.StartDate)
	}
	if filter.EndDate != nil {
		query = query.Where("transaction_date <= ?", *filter.EndDate)
	}
	if filter.Search != "" {
		query = query.Where("merchant_name LIKE ?", "%"+filter.Search+"%")
	}

	var txs []models.Transaction
	err := query.Order("transaction_date DESC").Order("id DESC").Find(&txs).Error
	return txs, err
}

func (r *TransactionRepository) DeleteBySession(sessionID uint) error {
	return r.db.Where("session_id = ?", sessionID).Delete(&models.Transaction{}).Error
}

type SessionStats struct {
	Total   int `json:"total"`
	Matched int `json:"matched"`
	Pending int `json:"pending"`
}

func (r *TransactionRepository) StatsBySession(sessionID uint) (SessionStats, error) {
	var stats SessionStats

	type row struct {
		MatchStatus string
		Count       int
	}
	var rows []row
	err := r.db.Model(&models.Transaction{}).
		Where("session_id = ?", sessionID).
		Select("match_status, COUNT(*) as count").
		Group("match_status").
		Scan(&rows).Error
	if err != nil {
		return stats, err
	}

	for _, row := range rows {
		stats.Total += row.Count
		if row.MatchStatus == models.MatchStatusPending {
			stats.Pending += row.Count
		} else {
			stats.Matched += row.Count
		}
	}
	return stats, nil
}
