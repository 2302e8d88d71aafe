package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/sitefixhq/sitefix/model"
)

// Identity headers supplied by the authenticating gateway. Session issuance
// is an external collaborator; this service trusts the resolved identity.
const (
	UserIDHeader       = "X-User-Id"
	OrganizationHeader = "X-Organization-Id"
	RoleHeader         = "X-User-Role"
	DisplayNameHeader  = "X-User-Name"

	actorKey = "actor"
)

// IdentityMiddleware extracts the per-request actor from the identity
// headers and rejects calls with an incomplete identity context.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor := model.Actor{
			UserID:         c.GetHeader(UserIDHeader),
			OrganizationID: c.GetHeader(OrganizationHeader),
			Role:           c.GetHeader(RoleHeader),
			DisplayName:    c.GetHeader(DisplayNameHeader),
		}

		if actor.UserID == "" || actor.OrganizationID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing identity context"})
			return
		}
		if actor.Role != model.RoleGM && actor.Role != model.RoleContractor {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unknown role"})
			return
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFromContext returns the actor stored by IdentityMiddleware.
func ActorFromContext(c *gin.Context) model.Actor {
	if v, ok := c.Get(actorKey); ok {
		if actor, ok := v.(model.Actor); ok {
			return actor
		}
	}
	return model.Actor{}
}
