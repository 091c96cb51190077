package handler

import (
	"errors"
	"net/http"

	"card-expense-backend/internal/models"
	"card-expense-backend/internal/repository"
	service "card-expense-backend/internal/services/ingestion"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CardHandler struct {
	cards   *repository.CardRepository
	service *service.Service
}

func NewCardHandler(cards *repository.CardRepository, s *service.Service) *CardHandler {
	return &CardHandler{cards: cards, service: s}
}

func (h *CardHandler) List(c *gin.Context) {
	cards, err := h.cards.List()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"cards": cards, "total": len(cards)})
}

func (h *CardHandler) Create(c *gin.Context) {
	var payload struct {
		CardNumber string `json:"card_number" binding:"required,len=4"`
		CardName   string `json:"card_name" binding:"required"`
		SheetName  string `json:"sheet_name"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload, card_number must be the 4-digit suffix"})
		return
	}

	existing, err := h.cards.GetByNumber(payload.CardNumber)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if existing != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "card already registered"})
		return
	}

	card := &models.Card{
		CardNumber: payload.CardNumber,
		CardName:   payload.CardName,
		SheetName:  payload.SheetName,
		IsActive:   true,
	}
	if err := h.cards.Create(card); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "card registered", "card": card})
}

// Rematch re-runs auto-matching over the card's pending transactions.
func (h *CardHandler) Rematch(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card ID"})
		return
	}

	result, err := h.service.RematchCard(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "card not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
