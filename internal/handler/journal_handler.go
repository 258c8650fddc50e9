package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/verdeo/ecohabit/internal/dto"
	"github.com/verdeo/ecohabit/internal/service"
	"github.com/verdeo/ecohabit/pkg/response"
	pkgvalidator "github.com/verdeo/ecohabit/pkg/validator"
)

type JournalHandler struct {
	service service.JournalService
}

func NewJournalHandler(service service.JournalService) *JournalHandler {
	return &JournalHandler{service: service}
}

func (h *JournalHandler) GetJournal(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	limit := queryInt(c, "limit", 30)
	page := queryInt(c, "page", 1)

	journal, err := h.service.Entries(c.Request.Context(), userID, limit, page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"entries":    journal.Entries,
		"stats":      journal.Stats,
		"pagination": journal.Pagination,
	})
}

func (h *JournalHandler) GetDate(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	detail, err := h.service.DayDetail(c.Request.Context(), userID, c.Param("date"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"date":    detail.Date,
		"actions": detail.Actions,
		"stats":   detail.Stats,
	})
}

func (h *JournalHandler) PostReflection(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.ReflectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": pkgvalidator.FormatValidationError(err)})
		return
	}

	reflection, err := h.service.UpsertReflection(c.Request.Context(), userID, c.Param("date"), input.Reflection)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "reflection": reflection})
}
