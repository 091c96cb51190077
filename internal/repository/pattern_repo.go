package repository

import (
	"errors"
	"fmt"

	"card-expense-backend/internal/models"

	"gorm.io/gorm"
)

type PatternRepository struct {
	db *gorm.DB
}

func NewPatternRepository(db *gorm.DB) *PatternRepository {
	return &PatternRepository{db: db}
}

// Expose DB if needed
func (r *PatternRepository) DB() *gorm.DB {
	return r.db
}

func firstPattern(q *gorm.DB) (*models.Pattern, error) {
	var p models.Pattern
	if err := q.First(&p).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// GetAll lists patterns, optionally limited to one card (global patterns
// included) and/or one match type.
func (r *PatternRepository) GetAll(cardID *uint, matchType string) ([]models.Pattern, error) {
	query := r.db.Model(&models.Pattern{})
	if cardID != nil {
		query = query.Where("card_id = ? OR card_id IS NULL", *cardID)
	}
	if matchType != "" {
		query = query.Where("match_type = ?", matchType)
	}

	var patterns []models.Pattern
	err := query.Order("priority DESC").Order("use_count DESC").Find(&patterns).Error
	return patterns, err
}

func (r *PatternRepository) GetByID(id uint) (*models.Pattern, error) {
	var p models.Pattern
	if err := r.db.First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindCardExact returns the best card-scoped exact pattern for the merchant,
// highest priority first, ties broken by insertion order.
func (r *PatternRepository) FindCardExact(merchantName string, cardID uint) (*models.Pattern, error) {
	return firstPattern(r.db.
		Where("card_id = ?", cardID).
		Where("merchant_name = ?", merchantName).
		Where("match_type = ?", models.MatchTypeExact).
		Order("priority DESC").Order("id ASC"))
}

// FindGlobalExact returns the best global exact pattern for the merchant.
func (r *PatternRepository) FindGlobalExact(merchantName string) (*models.Pattern, error) {
	return firstPattern(r.db.
		Where("card_id IS NULL").
		Where("merchant_name = ?", merchantName).
		Where("match_type = ?", models.MatchTypeExact).
		Order("priority DESC").Order("id ASC"))
}

// ListContains returns every contains-type pattern in descending priority
// order. Candidate order matters: the matching engine takes the first hit.
func (r *PatternRepository) ListContains() ([]models.Pattern, error) {
	var patterns []models.Pattern
	err := r.db.
		Where("match_type = ?", models.MatchTypeContains).
		Order("priority DESC").Order("id ASC").
		Find(&patterns).Error
	return patterns, err
}

// ListRegex returns regex-type patterns in descending priority order. Only
// the ad-hoc pattern tester consults these.
func (r *PatternRepository) ListRegex() ([]models.Pattern, error) {
	var patterns []models.Pattern
	err := r.db.
		Where("match_type = ?", models.MatchTypeRegex).
		Order("priority DESC").Order("id ASC").
		Find(&patterns).Error
	return patterns, err
}

// FindExactByMerchant looks up an existing exact-type pattern for the
// merchant, preferring a card-scoped one, falling back to global. Used by
// the manual-match upsert. Returns nil when none exists.
func (r *PatternRepository) FindExactByMerchant(merchantName string, cardID *uint) (*models.Pattern, error) {
	if cardID != nil {
		p, err := r.FindCardExact(merchantName, *cardID)
		if err != nil || p != nil {
			return p, err
		}
	}
	return r.FindGlobalExact(merchantName)
}

func (r *PatternRepository) Create(p *models.Pattern) error {
	return r.db.Create(p).Error
}

func (r *PatternRepository) Update(id uint, updates map[string]interface{}) (*models.Pattern, error) {
	p, err := r.GetByID(id)
	if err != nil {
		return nil, err
	}
	if err := r.db.Model(p).Updates(updates).Error; err != nil {
		return nil, err
	}
	return p, nil
}

func (r *PatternRepository) Delete(id uint) error {
	result := r.db.Delete(&models.Pattern{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// IncrementUseCount bumps use_count in a single UPDATE so concurrent matches
// don't clobber each other.
func (r *PatternRepository) IncrementUseCount(id uint) error {
	return r.db.Model(&models.Pattern{}).
		Where("id = ?", id).
		UpdateColumn("use_count", gorm.Expr("use_count + 1")).
		Error
}

type PatternStats struct {
	TotalPatterns int64            `json:"total_patterns"`
	ByType        map[string]int64 `json:"by_type"`
	ByCard        map[string]int64 `json:"by_card"`
}

func (r *PatternRepository) Stats() (*PatternStats, error) {
	var patterns []models.Pattern
	if err := r.db.Find(&patterns).Error; err != nil {
		return nil, err
	}

	stats := &PatternStats{
		TotalPatterns: int64(len(patterns)),
		ByType:        map[string]int64{},
		ByCard:        map[string]int64{},
	}
	for _, p := range patterns {
		stats.ByType[p.MatchType]++
		if p.CardID == nil {
			stats.ByCard["common"]++
		} else {
			stats.ByCard[fmt.Sprintf("card_%d", *p.CardID)]++
		}
	}
	return stats, nil
}
