package handler

import (
	"errors"
	"net/http"

	"card-expense-backend/internal/models"
	"card-expense-backend/internal/repository"
	"card-expense-backend/internal/services/matching"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type PatternHandler struct {
	patterns *repository.PatternRepository
	engine   *matching.Engine
}

func NewPatternHandler(patterns *repository.PatternRepository, engine *matching.Engine) *PatternHandler {
	return &PatternHandler{patterns: patterns, engine: engine}
}

func validMatchType(t string) bool {
	return t == models.MatchTypeExact || t == models.MatchTypeContains || t == models.MatchTypeRegex
}

func (h *PatternHandler) List(c *gin.Context) {
	var cardID *uint
	if raw := c.Query("card_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card_id"})
			return
		}
		cardID = &id
	}
	matchType := c.Query("match_type")
	if matchType != "" && !validMatchType(matchType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match_type"})
		return
	}

	patterns, err := h.patterns.GetAll(cardID, matchType)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"patterns": patterns, "total": len(patterns)})
}

func (h *PatternHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pattern ID"})
		return
	}

	pattern, err := h.patterns.GetByID(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "pattern not found"})
		return
	}
	c.JSON(http.StatusOK, pattern)
}

func (h *PatternHandler) Create(c *gin.Context) {
	var payload struct {
		MerchantName     string `json:"merchant_name" binding:"required"`
		UsageDescription string `json:"usage_description" binding:"required"`
		CardID           *uint  `json:"card_id"`
		MatchType        string `json:"match_type"`
		Priority         int    `json:"priority"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}
	if payload.MatchType == "" {
		payload.MatchType = models.MatchTypeExact
	}
	if !validMatchType(payload.MatchType) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match_type"})
		return
	}

	if payload.MatchType == models.MatchTypeExact {
		existing, err := h.patterns.FindExactByMerchant(payload.MerchantName, payload.CardID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		if existing != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "pattern already registered"})
			return
		}
	}

	pattern := &models.Pattern{
		MerchantName:     payload.MerchantName,
		UsageDescription: payload.UsageDescription,
		CardID:           payload.CardID,
		MatchType:        payload.MatchType,
		Priority:         payload.Priority,
	}
	if err := h.patterns.Create(pattern); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pattern": pattern})
}

func (h *PatternHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pattern ID"})
		return
	}

	var payload struct {
		UsageDescription *string `json:"usage_description"`
		MatchType        *string `json:"match_type"`
		Priority         *int    `json:"priority"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	updates := map[string]interface{}{}
	if payload.UsageDescription != nil {
		updates["usage_description"] = *payload.UsageDescription
	}
	if payload.MatchType != nil {
		if !validMatchType(*payload.MatchType) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid match_type"})
			return
		}
		updates["match_type"] = *payload.MatchType
	}
	if payload.Priority != nil {
		updates["priority"] = *payload.Priority
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	pattern, err := h.patterns.Update(id, updates)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pattern not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "pattern": pattern})
}

func (h *PatternHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid pattern ID"})
		return
	}

	if err := h.patterns.Delete(id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "pattern not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "pattern deleted"})
}

func (h *PatternHandler) Stats(c *gin.Context) {
	stats, err := h.patterns.Stats()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// TestMatch runs the diagnostic resolver, which also evaluates regex-type
// patterns that normal auto-matching skips.
func (h *PatternHandler) TestMatch(c *gin.Context) {
	var payload struct {
		MerchantName string `json:"merchant_name" binding:"required"`
		CardID       *uint  `json:"card_id"`
	}
	if err := c.BindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payload"})
		return
	}

	result, err := h.engine.TestPattern(payload.MerchantName, payload.CardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *PatternHandler) Suggest(c *gin.Context) {
	merchant := c.Query("merchant")
	if merchant == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "merchant query parameter required"})
		return
	}
	var cardID *uint
	if raw := c.Query("card_id"); raw != "" {
		id, err := parseID(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid card_id"})
			return
		}
		cardID = &id
	}

	suggestions, err := h.engine.Suggest(merchant, cardID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"suggestions": suggestions, "total": len(suggestions)})
}
