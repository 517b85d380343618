package handlers

import (
	"errors"
	"net/http"

	"clicker_webapp/internal/domain"
	"clicker_webapp/internal/logger"

	"github.com/gin-gonic/gin"
)

var kindStatus = map[domain.ErrorKind]int{
	domain.KindInvalidInput:      http.StatusBadRequest,
	domain.KindInvalidCredential: http.StatusUnauthorized,

	domain.KindUserNotFound:   http.StatusNotFound,
	domain.KindRewardNotFound: http.StatusNotFound,
	domain.KindTaskNotFound:   http.StatusNotFound,

	domain.KindRankTooLow: http.StatusLocked,
	domain.KindTaskLocked: http.StatusLocked,

	domain.KindConditionUnverifiable: http.StatusUnprocessableEntity,
}

// statusFor maps a rule kind to an HTTP status. Unlisted rule kinds are state
// conflicts.
func statusFor(kind domain.ErrorKind) int {
	if s, ok := kindStatus[kind]; ok {
		return s
	}
	return http.StatusConflict
}

// writeError renders rule errors as {"error": kind, "message": text} and
// hides infrastructure errors behind a 500.
func writeError(c *gin.Context, err error) {
	var ruleErr *domain.Error
	if errors.As(err, &ruleErr) {
		c.JSON(statusFor(ruleErr.Kind), gin.H{"error": ruleErr.Kind, "message": ruleErr.Message})
		return
	}

	_ = c.Error(err)
	logger.WithContext(c.Request.Context()).Error("request failed", "path", c.FullPath(), "error", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal", "message": "internal error"})
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": domain.KindInvalidInput, "message": msg})
}

func unauthorized(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{"error": domain.KindInvalidCredential, "message": "unauthorized"})
}
