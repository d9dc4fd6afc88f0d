package middleware

import (
	"context"
	"time"

	"procurement/internal/repository"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// TrackActivity bumps the authenticated user's last-activity timestamp and
// recorded IP after each request. Runs after the auth middleware so the user
// id is already in the context; the update happens off the request path.
func TrackActivity(users repository.UserRepository, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		userID, ok := c.Get("userID")
		if !ok {
			return
		}
		id, ok := userID.(string)
		if !ok || id == "" {
			return
		}
		ip := c.ClientIP()

		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := users.TouchActivity(ctx, id, ip); err != nil {
				log.Warn("failed to record user activity", zap.String("user_id", id), zap.Error(err))
			}
		}()
	}
}
