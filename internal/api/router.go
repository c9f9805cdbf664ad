package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/domain"
	"github.com/persistorai/kinnet/internal/middleware"
)

// RouterDeps holds all dependencies needed by the router.
type RouterDeps struct {
	Log         *logrus.Logger
	Network     domain.NetworkService
	Persons     domain.PersonService
	Store       Pinger
	StoreDriver string
	CORSOrigins []string
	Version     string
}

// Router-level limits.
const (
	maxBodySize = 32 << 20 // graphs posted for analysis can be large
	rateLimit   = 50
	rateBurst   = 100
)

func setupMiddleware(ctx context.Context, r *gin.Engine, deps *RouterDeps) {
	r.SetTrustedProxies(nil) //nolint:errcheck // nil always succeeds.
	r.Use(middleware.RequestID(deps.Log))
	r.Use(ginLogger(deps.Log))
	r.Use(gin.Recovery())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.MaxBodySize(maxBodySize))

	if len(deps.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:  deps.CORSOrigins,
			AllowMethods:  []string{"GET", "POST", "OPTIONS"},
			AllowHeaders:  []string{"Content-Type", middleware.RequestIDHeader},
			ExposeHeaders: []string{middleware.RequestIDHeader},
			MaxAge:        1 * time.Hour,
		}))
	}

	r.Use(middleware.NewRateLimiter(ctx, rateLimit, rateBurst).Handler())
	r.Use(middleware.PrometheusMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func registerRoutes(api *gin.RouterGroup, deps *RouterDeps) {
	health := NewHealthHandler(deps.Store, deps.Log, deps.Version, deps.StoreDriver)
	network := NewNetworkHandler(deps.Network, deps.Log)
	persons := NewPersonHandler(deps.Persons, deps.Log)

	api.GET("/health", health.Liveness)
	api.GET("/ready", health.Readiness)

	api.POST("/network", network.Build)
	api.POST("/network/analyze", network.Analyze)
	api.POST("/network/centrality", network.Centrality)
	api.POST("/network/layout", network.Layout)
	api.POST("/network/export", network.Export)
	api.POST("/network/import", network.Import)

	api.GET("/persons/:id", persons.Get)
}

// NewRouter creates the Gin engine with all middleware and routes. ctx bounds
// the rate limiter's background cleanup.
func NewRouter(ctx context.Context, deps *RouterDeps) http.Handler {
	r := gin.New()
	setupMiddleware(ctx, r, deps)
	registerRoutes(r.Group("/api/v1"), deps)

	return r
}
