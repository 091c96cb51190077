package handler

import (
	"net/http"
	"strconv"

	"card-expense-backend/internal/services/classifier"

	"github.com/gin-gonic/gin"
)

// ClassifierHandler surfaces the stateless classifiers to the manual-entry
// UI and the assistant's tools. Ingestion never goes through here.
type ClassifierHandler struct{}

func NewClassifierHandler() *ClassifierHandler {
	return &ClassifierHandler{}
}

// ClassifySuggestion is the typed tool payload: an explicit success flag
// plus the lexicon and tax-classifier outputs.
type ClassifySuggestion struct {
	Success       bool                      `json:"success"`
	MerchantName  string                    `json:"merchant_name"`
	Industry      *classifier.IndustryMatch `json:"industry,omitempty"`
	TaxCategory   string                    `json:"tax_category"`
	TaxConfidence float64                   `json:"tax_confidence"`
}

func (h *ClassifierHandler) Suggest(c *gin.Context) {
	merchant := c.Query("merchant")
	if merchant == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merchant query parameter required"})
		return
	}
	usage := c.Query("usage")
	var amount int64
	if raw := c.Query("amount"); raw != "" {
		v, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || v < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
			return
		}
		amount = v
	}

	industry, _ := classifier.LookupIndustryDetail(merchant)
	category, confidence := classifier.ClassifyWithConfidence(merchant, usage, amount)

	c.JSON(http.StatusOK, ClassifySuggestion{
		Success:       true,
		MerchantName:  merchant,
		Industry:      industry,
		TaxCategory:   category,
		TaxConfidence: confidence,
	})
}
