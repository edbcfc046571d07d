package middleware

import (
	"context"

	"github.com/ahmed8601/kahramana-site/pkg/storefront"
	"github.com/ahmed8601/kahramana-site/pkg/utils"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SessionName is the cookie holding the browser session.
const SessionName = "kahramana_session"

const (
	sessionIDKey = "sid"

	// ContextStorefront is the gin context key of the session's controller.
	ContextStorefront = "storefront"
	contextSessionID = "sessionId"
)

// LoadStorefront middleware - attaches the session's storefront controller,
// issuing a session id on the first request
func LoadStorefront(registry *storefront.Registry, log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)

		sid, _ := session.Get(sessionIDKey).(string)
		if sid == "" {
			sid = uuid.NewString()
			session.Set(sessionIDKey, sid)
			if err := session.Save(); err != nil {
				log.Error("session save failed", zap.Error(err))
				utils.InternalServerErrorResponse(c, "Internal server error")
				c.Abort()
				return
			}
		}

		// A dropped request must not interrupt the cart restore.
		ctx := context.WithoutCancel(c.Request.Context())

		ctrl, err := registry.Get(ctx, sid)
		if err != nil {
			log.Error("storefront unavailable", zap.String("session", sid), zap.Error(err))
			utils.InternalServerErrorResponse(c, "Internal server error")
			c.Abort()
			return
		}

		c.Set(contextSessionID, sid)
		c.Set(ContextStorefront, ctrl)
		c.Next()
	}
}
