package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "docrecon/docs"
	"docrecon/internal/domain"
	"docrecon/internal/handler"
	"docrecon/internal/metrics"
	"docrecon/internal/middleware"
	"docrecon/internal/service"
)

// Options carries the cross-cutting settings of the HTTP surface.
type Options struct {
	Logger         *zap.Logger
	Metrics        *metrics.Metrics
	AllowedOrigins []string
	MaxBodyBytes   int64
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(
	opts Options,
	authSvc service.AuthService,
	comparisonH *handler.ComparisonHandler,
	healthH *handler.HealthHandler,
) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery(opts.Logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(opts.Logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))
	r.Use(opts.Metrics.Middleware())
	r.Use(middleware.MaxBodySize(opts.MaxBodyBytes))

	// Health checks and scraping
	r.GET("/healthz", healthH.Liveness)
	r.GET("/readyz", healthH.Readiness)
	r.GET("/metrics", gin.WrapH(opts.Metrics.Handler()))

	// API documentation
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")

	// Protected routes - require valid JWT
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(authSvc))

	comparisons := protected.Group("/comparisons")
	comparisons.POST("", comparisonH.Create)
	comparisons.POST("/batch", comparisonH.Batch)
	comparisons.GET("", comparisonH.List)
	comparisons.GET("/:id", comparisonH.GetByID)
	comparisons.GET("/:id/report", comparisonH.Report)
	comparisons.GET("/:id/archive", comparisonH.ArchiveURL)
	comparisons.DELETE("/:id", middleware.RequireRole(domain.RoleAdmin), comparisonH.Delete)

	return r
}
