package main

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/sales-dashboard-api/api/swagger"
	"github.com/noah-isme/sales-dashboard-api/internal/handler"
	"github.com/noah-isme/sales-dashboard-api/internal/middleware"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
	"github.com/noah-isme/sales-dashboard-api/internal/repository"
	"github.com/noah-isme/sales-dashboard-api/internal/service"
	"github.com/noah-isme/sales-dashboard-api/pkg/config"
	"github.com/noah-isme/sales-dashboard-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/sales-dashboard-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/sales-dashboard-api/pkg/middleware/requestid"
)

type routerDeps struct {
	auth      *service.AuthService
	dashboard *service.DashboardService
	exports   *service.ExportService
	directory *service.DirectoryService
	cache     *service.CacheService
	metrics   *service.MetricsService
	db        *sqlx.DB
	redis     *repository.CacheRepository
}

func newRouter(cfg *config.Config, logr *zap.Logger, deps routerDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(deps.metrics))

	metricsHandler := handler.NewMetricsHandler(deps.metrics, map[string]handler.Pinger{
		"database": deps.db,
		"redis":    handler.PingFunc(deps.redis.Ping),
	})
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(deps.auth)
	dashboardHandler := handler.NewDashboardHandler(deps.dashboard)
	exportHandler := handler.NewExportHandler(deps.exports)
	filterHandler := handler.NewFilterHandler(deps.directory)
	cacheHandler := handler.NewCacheHandler(deps.cache)

	api := r.Group("/" + strings.Trim(cfg.APIPrefix, "/"))
	api.Use(middleware.WithResponseMeta())

	public := api.Group("/auth")
	public.POST("/otp", authHandler.RequestOTP)
	public.POST("/verify", authHandler.VerifyOTP)
	public.POST("/refresh", authHandler.Refresh)

	secured := api.Group("")
	secured.Use(middleware.JWT(deps.auth))
	secured.POST("/auth/logout", authHandler.Logout)
	secured.GET("/auth/session", authHandler.Session)
	secured.GET("/profile", authHandler.Profile)

	secured.GET("/filters/options", filterHandler.Options)
	secured.GET("/dashboard", dashboardHandler.Summary)
	secured.GET("/samples", dashboardHandler.Samples)
	secured.GET("/samples/export", exportHandler.Samples)
	secured.GET("/orders", dashboardHandler.Orders)
	secured.GET("/orders/export", exportHandler.Orders)
	secured.GET("/orders/customers", dashboardHandler.Customers)
	secured.GET("/orders/customers/export", exportHandler.Customers)

	secured.DELETE("/cache/me", cacheHandler.ClearMine)
	secured.DELETE("/cache", middleware.RequireRoles(models.RoleProgramTeam), cacheHandler.ClearAll)
	secured.GET("/metrics/summary", metricsHandler.Summary)

	return r
}
