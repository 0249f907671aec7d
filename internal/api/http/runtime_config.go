package http

import (
	"net/http"
	"os"

	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/config"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/logging"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RuntimeConfigHandler serves /config.json rendered from a template with the
// AUTH0_APP_* environment values.
type RuntimeConfigHandler struct {
	templatePath string
	lookup       func(string) string
	logger       *zap.Logger
}

// NewRuntimeConfigHandler reads templatePath on every request; an empty path
// serves config.DefaultRuntimeTemplate. lookup defaults to os.Getenv.
func NewRuntimeConfigHandler(templatePath string, lookup func(string) string, logger *zap.Logger) *RuntimeConfigHandler {
	if lookup == nil {
		lookup = os.Getenv
	}
	return &RuntimeConfigHandler{templatePath: templatePath, lookup: lookup, logger: logger}
}

func (h *RuntimeConfigHandler) ServeConfig(c *gin.Context) {
	tmpl := []byte(config.DefaultRuntimeTemplate)
	if h.templatePath != "" {
		data, err := os.ReadFile(h.templatePath)
		if err != nil {
			logging.NewLogger(c.Request.Context(), h.logger).LogError("serve_config", err)
			c.String(http.StatusInternalServerError, "Internal Server Error")
			return
		}
		tmpl = data
	}

	c.Data(http.StatusOK, "application/json", config.RenderRuntimeTemplate(tmpl, h.lookup))
}

func (h *RuntimeConfigHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/config.json", h.ServeConfig)
}
