package middleware

import (
	"context"

	"go-leave/internal/domain"
	"go-leave/internal/shared/contextutil"

	"github.com/gin-gonic/gin"
)

// ActorResolver is satisfied by user.Service.
type ActorResolver interface {
	ResolveActor(ctx context.Context, userID string) (domain.Actor, error)
}

// ResolveActor loads the caller behind the token and stores it in the
// request context. It must run after AuthMiddleware.
func ResolveActor(resolver ActorResolver) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			abortWith(c, ErrTokenNotFound)
			return
		}

		actor, err := resolver.ResolveActor(c.Request.Context(), userID)
		if err != nil {
			abortWith(c, err)
			return
		}

		c.Set("user_id_validated", actor.ID.String())
		c.Request = c.Request.WithContext(contextutil.WithActor(c.Request.Context(), actor))
		c.Next()
	}
}

func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := contextutil.GetActor(c.Request.Context())
		if !ok {
			abortWith(c, ErrTokenNotFound)
			return
		}
		if !actor.IsAdmin {
			abortWith(c, ErrAdminRequired)
			return
		}
		c.Next()
	}
}
