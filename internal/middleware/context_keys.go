package middleware

import (
	"github.com/gigbridge/gigbridge_backend/internal/core/domain"
	"github.com/gin-gonic/gin"
)

const actorCtxKey = contextKey("actor")

// GetActorFromContext retrieves the authenticated actor (user id + marketplace
// role) from the Gin request context. Returns false when auth did not run.
func GetActorFromContext(c *gin.Context) (domain.ActorContext, bool) {
	actorVal := c.Request.Context().Value(actorCtxKey)
	if actorVal == nil {
		return domain.ActorContext{}, false
	}
	actor, ok := actorVal.(domain.ActorContext)
	return actor, ok
}
