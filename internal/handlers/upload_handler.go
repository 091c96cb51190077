package handler

import (
	"io"
	"net/http"
	"strconv"

	"card-expense-backend/internal/repository"
	service "card-expense-backend/internal/services/ingestion"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	service  *service.Service
	sessions *repository.SessionRepository
}

func NewUploadHandler(s *service.Service, sessions *repository.SessionRepository) *UploadHandler {
	return &UploadHandler{service: s, sessions: sessions}
}

// Upload ingests a statement spreadsheet and returns the session counts.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file required"})
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read file"})
		return
	}

	result, err := h.service.IngestStatement(data, header.Filename, c.Query("created_by"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "upload failed, re-check the file format"})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *UploadHandler) ListSessions(c *gin.Context) {
	limit := 10
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}

	sessions, err := h.sessions.GetRecent(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sessions": sessions, "total": len(sessions)})
}

func (h *UploadHandler) GetSession(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	detail, err := h.service.SessionSummary(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, detail)
}

// DeleteSession removes a session and all of its imported transactions.
func (h *UploadHandler) DeleteSession(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session ID"})
		return
	}

	if err := h.sessions.Delete(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "session deleted"})
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	return uint(id), err
}
