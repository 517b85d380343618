package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ClicksRequest struct {
	Clicks int64 `json:"clicks"`
}

func (h *Handler) Profile(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	prof, err := h.Economy.Profile(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, prof)
}

func (h *Handler) bindClicks(c *gin.Context) (int64, bool) {
	var req ClicksRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "clicks must be an integer")
		return 0, false
	}
	return req.Clicks, true
}

func (h *Handler) SyncClicks(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	clicks, ok := h.bindClicks(c)
	if !ok {
		return
	}

	res, err := h.Economy.SyncClicks(c.Request.Context(), userID, clicks)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Inspiration(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}
	clicks, ok := h.bindClicks(c)
	if !ok {
		return
	}

	res, err := h.Economy.UseInspiration(c.Request.Context(), userID, clicks)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) Replenishment(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	p, err := h.Economy.UseReplenishment(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"energy": p.Stats.Energy, "replenishments": p.Stats.Replenishments})
}

func (h *Handler) Promote(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	rank, err := h.Economy.PromoteRank(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"rank": rank})
}

// Transactions returns the user's recent coin movements.
func (h *Handler) Transactions(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		unauthorized(c)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	txs, err := h.Economy.ListTransactions(c.Request.Context(), userID, limit)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactions": txs})
}
