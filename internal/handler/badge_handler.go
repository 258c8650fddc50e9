package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/verdeo/ecohabit/internal/service"
	"github.com/verdeo/ecohabit/pkg/response"
)

type BadgeHandler struct {
	badges service.BadgeService
	auth   service.AuthService
}

func NewBadgeHandler(badges service.BadgeService, auth service.AuthService) *BadgeHandler {
	return &BadgeHandler{badges: badges, auth: auth}
}

// GetBadges returns the full catalog with the viewer's unlock state and
// progress toward each locked badge.
func (h *BadgeHandler) GetBadges(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	badges, err := h.badges.BadgesForUser(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "badges": badges})
}

// GetMyBadges returns only the badges the viewer has unlocked.
func (h *BadgeHandler) GetMyBadges(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	user, err := h.auth.Me(c.Request.Context(), userID)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "badges": user.Badges})
}
