package middleware

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"finsim/internal/shared/constants"
	"finsim/internal/shared/errors"
	"finsim/internal/shared/logger"
	"finsim/internal/shared/utils"
)

// UserIdentity reads the caller id the trusted gateway put into X-User-ID.
// Authentication happens upstream; a missing or malformed header is
// rejected here.
func UserIdentity(log logger.Interface) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := c.GetHeader(constants.HeaderXUserID)
		if raw == "" {
			utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
			c.Abort()
			return
		}

		userID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil || userID == 0 {
			log.Warnw("malformed user identity header", "value", raw)
			utils.ErrorResponseWithError(c, errors.NewUnauthorizedError("invalid user identity"))
			c.Abort()
			return
		}

		c.Set(constants.ContextKeyUserID, uint(userID))
		c.Next()
	}
}

// RequireUserID returns the authenticated user id. When absent it writes a
// 401 response and returns false.
func RequireUserID(c *gin.Context) (uint, bool) {
	if v, exists := c.Get(constants.ContextKeyUserID); exists {
		if userID, ok := v.(uint); ok && userID != 0 {
			return userID, true
		}
	}
	utils.ErrorResponse(c, http.StatusUnauthorized, "missing user identity")
	return 0, false
}

// RequestID propagates X-Request-ID, generating one via the caller-supplied
// generator when the client sent none.
func RequestID(generate func() string) gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(constants.HeaderXRequestID)
		if requestID == "" {
			requestID = generate()
		}
		c.Set(constants.ContextKeyRequestID, requestID)
		c.Header(constants.HeaderXRequestID, requestID)
		c.Next()
	}
}
