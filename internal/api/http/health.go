package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthResponse reports token store health. TokenStoreBackend is "file" for
// the local store, otherwise the pinger's Backend() or "remote".
type HealthResponse struct {
	Status            string    `json:"status"`
	Timestamp         time.Time `json:"timestamp"`
	Service           string    `json:"service"`
	Version           string    `json:"version"`
	TokenStore        string    `json:"token_store,omitempty"`
	TokenStoreBackend string    `json:"token_store_backend"`
}

// Pinger is implemented by token stores with a remote backend.
type Pinger interface {
	Ping(ctx context.Context) error
}

type backendNamer interface {
	Backend() string
}

type HealthHandler struct {
	serviceName string
	version     string
	store       Pinger
}

// NewHealthHandler reports token store health when store is non-nil.
func NewHealthHandler(serviceName, version string, store Pinger) *HealthHandler {
	return &HealthHandler{
		serviceName: serviceName,
		version:     version,
		store:       store,
	}
}

func (h *HealthHandler) HealthCheck(c *gin.Context) {
	storeStatus, backend := "local", "file"
	if h.store != nil {
		backend = "remote"
		if n, ok := h.store.(backendNamer); ok {
			backend = n.Backend()
		}

		pingCtx, cancel := context.WithTimeout(c.Request.Context(), 1*time.Second)
		defer cancel()

		if err := h.store.Ping(pingCtx); err != nil {
			storeStatus = "down"
		} else {
			storeStatus = "up"
		}
	}

	c.JSON(http.StatusOK, HealthResponse{
		Status:            "healthy",
		Timestamp:         time.Now().UTC(),
		Service:           h.serviceName,
		Version:           h.version,
		TokenStore:        storeStatus,
		TokenStoreBackend: backend,
	})
}

func (h *HealthHandler) RegisterRoutes(r gin.IRouter) {
	r.GET("/health", h.HealthCheck)
	r.GET("/healthz", h.HealthCheck)
}
