package handler

import (
	"errors"
	"net/http"
	"time"

	"card-expense-backend/internal/repository"
	"card-expense-backend/internal/services/classifier"
	service "card-expense-backend/internal/services/ingestion"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type TransactionHandler struct {
	service      *service.Service
	transactions *repository.TransactionRepository
}

func NewTransactionHandler(s *service.Service, transactions *repository.TransactionRepository) *TransactionHandler {
	return &TransactionHandler{service: s, transactions: transactions}
}

func (h *TransactionHandler) List(c *gin.Context) {
	var filter repository.TransactionFilter

	if raw := c.Query("card_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card_id"})
			return
		}
		filter.CardID = &id
	}
	filter.Status = c.Query("status")
	filter.Search = c.Query("search")
	if raw := c.Query("start_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid start_date, expected YYYY-MM-DD"})
			return
		}
		filter.StartDate = &t
	}
	if raw := c.Query("end_date"); raw != "" {
		t, err := time.Parse("2006-01-02", raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid end_date, expected YYYY-MM-DD"})
			return
		}
		filter.EndDate = &t
	}

	txs, err := h.transactions.List(filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs, "total": len(txs)})
}

// ManualMatch applies a human correction to one transaction and saves it as
// a pattern for future uploads.
func (h *TransactionHandler) ManualMatch(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid transaction ID"})
		return
	}

	var payload struct {
		UsageDescription string `json:"usage_description" binding:"required"`
		Notes            string `json:"notes"`
		TaxCategory      string `json:"tax_category"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.TaxCategory != "" && !classifier.ValidTaxCategory(payload.TaxCategory) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tax_category"})
		return
	}

	tx, err := h.service.ManualMatch(id, payload.UsageDescription, payload.Notes, payload.TaxCategory)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "transaction not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "transaction matched", "transaction": tx})
}
