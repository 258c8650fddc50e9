package handler

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/verdeo/ecohabit/internal/dto"
	"github.com/verdeo/ecohabit/internal/service"
	"github.com/verdeo/ecohabit/pkg/response"
	pkgvalidator "github.com/verdeo/ecohabit/pkg/validator"
)

type ActionHandler struct {
	service service.ActionService
}

func NewActionHandler(service service.ActionService) *ActionHandler {
	return &ActionHandler{service: service}
}

func (h *ActionHandler) LogActions(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var req dto.LogActionsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": pkgvalidator.FormatValidationError(err)})
		return
	}

	result, err := h.service.LogActions(c.Request.Context(), userID, req.Actions)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"actions":    result.Actions,
		"new_badges": result.NewBadges,
		"stats":      result.Stats,
	})
}

func (h *ActionHandler) GetHistory(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	limit := queryInt(c, "limit", 50)
	page := queryInt(c, "page", 1)

	var from, to *time.Time
	if startStr := c.Query("startDate"); startStr != "" {
		if endStr := c.Query("endDate"); endStr != "" {
			if start, err := time.ParseInLocation("2006-01-02", startStr, time.Local); err == nil {
				if end, err := time.ParseInLocation("2006-01-02", endStr, time.Local); err == nil {
					endOfDay := end.AddDate(0, 0, 1)
					from, to = &start, &endOfDay
				}
			}
		}
	}

	actions, pagination, err := h.service.History(c.Request.Context(), userID, from, to, limit, page)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"actions":    actions,
		"pagination": pagination,
	})
}

func (h *ActionHandler) GetToday(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	actions, completed, err := h.service.Today(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"actions":   actions,
		"completed": completed,
	})
}

func (h *ActionHandler) GetStats(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	stats, err := h.service.Stats(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "stats": stats})
}

func queryInt(c *gin.Context, key string, fallback int) int {
	if v := c.Query(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
