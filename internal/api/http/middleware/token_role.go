package middleware

import (
	"strings"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	CtxRole    = "token_role"
	CtxSubject = "token_subject"
	CtxEmail   = "token_email"
	CtxBearer  = "token_present"
)

// TokenRoleMiddleware reads the caller's role from the Bearer token without
// enforcing auth. Signatures are not checked: the API verifies tokens, this
// only decides which navigation routes a front end should offer.
// - No token: RoleUnknown, CtxBearer false
// - Undecodable token: RoleUnknown, CtxBearer true
func TokenRoleMiddleware(namespace string, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		role := session.RoleUnknown
		token := extractToken(c)
		if token != "" {
			claims, err := session.DecodeClaims(token, namespace)
			if err != nil {
				logger.Debug("bearer token not decodable", zap.Error(err))
			} else {
				role = session.DeriveRole(claims.Roles)
				c.Set(CtxSubject, claims.Subject)
				c.Set(CtxEmail, claims.Email)
			}
		}

		c.Set(CtxRole, role)
		c.Set(CtxBearer, token != "")
		c.Next()
	}
}

// Role returns the role set by TokenRoleMiddleware.
func Role(c *gin.Context) session.Role {
	if v, ok := c.Get(CtxRole); ok {
		if r, ok := v.(session.Role); ok {
			return r
		}
	}
	return session.RoleUnknown
}

// HasBearer reports whether the request carried a Bearer token at all.
func HasBearer(c *gin.Context) bool {
	return c.GetBool(CtxBearer)
}

func Subject(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxSubject))
}

func Email(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxEmail))
}

// extractToken extracts the Bearer token from the Authorization header
func extractToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return ""
}
