package http

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/api/http/middleware"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/rolegate"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/routes"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type ResolveResponse struct {
	Role     string            `json:"role"`
	Subject  string            `json:"subject,omitempty"`
	Email    string            `json:"email,omitempty"`
	Name     string            `json:"name,omitempty"`
	Pattern  string            `json:"pattern"`
	Path     string            `json:"path"`
	Params   map[string]string `json:"params,omitempty"`
	Fallback bool              `json:"fallback"`
}

// RouteHandler resolves front-end paths against the navigation tree as the
// caller's token would see it.
type RouteHandler struct {
	namespace string
	logger    *zap.Logger
}

func NewRouteHandler(namespace string, logger *zap.Logger) *RouteHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RouteHandler{namespace: namespace, logger: logger}
}

func (h *RouteHandler) Resolve(c *gin.Context) {
	path := strings.TrimSpace(c.Query("path"))
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path query parameter is required"})
		return
	}

	role := middleware.Role(c)
	authed := middleware.HasBearer(c)

	table := rolegate.Gate(routes.DefaultTable(), role)
	router := routes.NewRouter(table, func() bool { return authed }, h.logger)

	m, err := router.Push(path)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, routes.ErrRouteNotFound) {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ResolveResponse{
		Role:     role.String(),
		Subject:  middleware.Subject(c),
		Email:    middleware.Email(c),
		Name:     m.Name,
		Pattern:  m.Pattern,
		Path:     m.Path,
		Params:   m.Params,
		Fallback: m.Fallback(),
	})
}

func (h *RouteHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/routes/resolve", middleware.TokenRoleMiddleware(h.namespace, h.logger), h.Resolve)
}
