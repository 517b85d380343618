package handlers

import (
	"context"
	"net/http"
	"strconv"

	"clicker_webapp/internal/repository"
	"clicker_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type Referrals interface {
	Link(ctx context.Context, userID int64) (service.ReferralLink, error)
	Friends(ctx context.Context, userID int64, limit int) ([]repository.Friend, *repository.ReferralStats, error)
}

// ReferralHandler handles referral-related requests
type ReferralHandler struct {
	referrals Referrals
}

func NewReferralHandler(referrals Referrals) *ReferralHandler {
	return &ReferralHandler{referrals: referrals}
}

// GetReferralLink returns the code and the Mini App link for sharing
func (h *ReferralHandler) GetReferralLink(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	link, err := h.referrals.Link(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, link)
}

// GetFriends returns invited users with the inviter's referral stats
func (h *ReferralHandler) GetFriends(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "100"))
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	friends, stats, err := h.referrals.Friends(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"stats": stats, "friends": friends})
}
