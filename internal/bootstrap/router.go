package bootstrap

import (
	"time"

	httpapi "github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/api/http"
	"github.com/Infinities-ICT-Solutions/project-dashboard-cli/internal/api/http/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

type RouterDeps struct {
	ServiceName    string
	Version        string
	RolesNamespace string
	ConfigTemplate string
	Store          httpapi.Pinger
	Gatherer       prometheus.Gatherer
	Logger         *zap.Logger
}

// BuildRouter assembles the shell server: runtime config, health, route
// resolution and metrics.
func BuildRouter(dep RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RequestIDHeader},
		ExposeHeaders:   []string{middleware.RequestIDHeader},
		MaxAge:          12 * time.Hour,
	}))
	r.Use(middleware.RequestIDMiddleware(dep.Logger))

	healthHandler := httpapi.NewHealthHandler(dep.ServiceName, dep.Version, dep.Store)
	healthHandler.RegisterRoutes(r)

	configHandler := httpapi.NewRuntimeConfigHandler(dep.ConfigTemplate, nil, dep.Logger)
	configHandler.RegisterRoutes(r)

	routeHandler := httpapi.NewRouteHandler(dep.RolesNamespace, dep.Logger)
	routeHandler.RegisterRoutes(r)

	if dep.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(dep.Gatherer, promhttp.HandlerOpts{})))
	}

	return r
}
