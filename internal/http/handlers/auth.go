package handlers

import (
	"net/http"

	"clicker_webapp/internal/service"

	"github.com/gin-gonic/gin"
)

type AuthRequest struct {
	InitData string `json:"init_data" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

func requestMeta(c *gin.Context) service.RequestMeta {
	return service.RequestMeta{IP: c.ClientIP(), UserAgent: c.Request.UserAgent()}
}

// Auth exchanges Mini App init data for a token pair, registering the user on
// first launch.
func (h *Handler) Auth(c *gin.Context) {
	var req AuthRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "init_data is required")
		return
	}
	if len(req.InitData) > 4096 {
		badRequest(c, "init_data too long")
		return
	}

	res, err := h.Accounts.Authenticate(c.Request.Context(), req.InitData, requestMeta(c))
	if err != nil {
		writeError(c, err)
		return
	}

	status := http.StatusOK
	if res.Registered {
		status = http.StatusCreated
	}
	c.JSON(status, res)
}

func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "refresh_token is required")
		return
	}

	res, err := h.Accounts.Refresh(c.Request.Context(), req.RefreshToken, requestMeta(c))
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
