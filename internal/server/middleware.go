package server

import (
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"

	obscontext "github.com/pgdesk/pgdesk/internal/observability/context"
	"github.com/pgdesk/pgdesk/internal/ownerctx"
)

const ownerHeader = "X-Owner-ID"

// OwnerContext resolves the active owner from the X-Owner-ID header, falling
// back to the configured default owner for single-property deployments.
func (s *Server) OwnerContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		ownerID, err := s.resolveOwner(c)
		if err != nil {
			AbortWithError(c, err)
			return
		}

		ctx := ownerctx.WithOwnerID(c.Request.Context(), ownerID)
		ctx = obscontext.WithOwnerID(ctx, ownerID.String())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

func (s *Server) resolveOwner(c *gin.Context) (snowflake.ID, error) {
	raw := strings.TrimSpace(c.GetHeader(ownerHeader))
	if raw == "" {
		if s.cfg.DefaultOwnerID != 0 {
			return snowflake.ID(s.cfg.DefaultOwnerID), nil
		}
		return 0, ErrUnauthorized
	}

	ownerID, err := snowflake.ParseString(raw)
	if err != nil || ownerID == 0 {
		return 0, ErrUnauthorized
	}
	return ownerID, nil
}
