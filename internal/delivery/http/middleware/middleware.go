package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"market-catalog/internal/config"
	entity "market-catalog/internal/domain"
	utils "market-catalog/pkg"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const RequesterKey = "requester"

type UserFinder interface {
	FindUserByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
}

// AuthRequired resolves the bearer token to a stored user. Missing, invalid or
// expired tokens and unknown users are all rejected with 401.
func AuthRequired(jwtCfg config.JWTConfig, users UserFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if auth == "" {
			unauthorized(c, "missing token")
			return
		}

		parts := strings.Split(auth, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			unauthorized(c, "invalid token format")
			return
		}

		claims, err := utils.ValidateToken(parts[1], jwtCfg)
		if err != nil {
			unauthorized(c, "invalid or expired token")
			return
		}

		user, err := users.FindUserByID(c.Request.Context(), claims.UserID)
		if err != nil {
			if errors.Is(err, entity.ErrUserNotFound) {
				unauthorized(c, "unknown user")
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": "unexpected_error", "message": err.Error()})
			return
		}

		c.Set(RequesterKey, user)
		c.Next()
	}
}

// CurrentUser returns the user set by AuthRequired, or nil.
func CurrentUser(c *gin.Context) *entity.User {
	v, ok := c.Get(RequesterKey)
	if !ok {
		return nil
	}
	user, _ := v.(*entity.User)
	return user
}

func unauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "unauthorized", "message": message})
}

func RequestLogger(logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}
		attrs := []any{
			"event", "http_request",
			"module", "delivery/http",
			"layer", "transport",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration_ms", time.Since(start).Milliseconds(),
		}
		if c.Writer.Status() >= http.StatusInternalServerError {
			logger.Error("request failed", attrs...)
			return
		}
		logger.Info("request completed", attrs...)
	}
}
