package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ClaimRewardRequest struct {
	RewardID int64 `json:"reward_id" binding:"required"`
}

func (h *Handler) ListRewards(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	rewards, err := h.Economy.ListRewards(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rewards": rewards})
}

func (h *Handler) ClaimReward(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	var req ClaimRewardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "reward_id is required")
		return
	}

	r, err := h.Economy.ClaimReward(c.Request.Context(), userID, req.RewardID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"claimed": r})
}
