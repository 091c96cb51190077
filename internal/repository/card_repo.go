package repository

import (
	"errors"

	"card-expense-backend/internal/models"

	"gorm.io/gorm"
)

type CardRepository struct {
	db *gorm.DB
}

func NewCardRepository(db *gorm.DB) *CardRepository {
	return &CardRepository{db: db}
}

func (r *CardRepository) GetByID(id uint) (*models.Card, error) {
	var card models.Card
	if err := r.db.First(&card, id).Error; err != nil {
		return nil, err
	}
	return &card, nil
}

// GetByNumber looks up a card by its last-4 suffix. Returns nil when no such
// card is registered.
func (r *CardRepository) GetByNumber(cardNumber string) (*models.Card, error) {
	var card models.Card
	err := r.db.Where("card_number = ?", cardNumber).First(&card).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &card, nil
}

func (r *CardRepository) GetActive() ([]models.Card, error) {
	var cards []models.Card
	err := r.db.Where("is_active = ?", true).Order("id ASC").Find(&cards).Error
	return cards, err
}

func (r *CardRepository) List() ([]models.Card, error) {
	var cards []models.Card
	err := r.db.Order("id ASC").Find(&cards).Error
	return cards, err
}

func (r *CardRepository) Create(card *models.Card) error {
	return r.db.Create(card).Error
}
