package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/sales-dashboard-api/internal/repository"
	"github.com/noah-isme/sales-dashboard-api/internal/service"
	"github.com/noah-isme/sales-dashboard-api/pkg/cache"
	"github.com/noah-isme/sales-dashboard-api/pkg/config"
	"github.com/noah-isme/sales-dashboard-api/pkg/database"
	"github.com/noah-isme/sales-dashboard-api/pkg/export"
	"github.com/noah-isme/sales-dashboard-api/pkg/logger"
	"github.com/noah-isme/sales-dashboard-api/pkg/mailer"
	"github.com/noah-isme/sales-dashboard-api/pkg/scheduler"
)

// @title Sales Dashboard API
// @version 1.0.0
// @description Hierarchy scoped sample request and order dashboards
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := database.NewPostgres(ctx, cfg.Database)
	if err != nil {
		logr.Fatal("failed to connect database", zap.Error(err))
	}
	defer db.Close()

	redisClient, err := cache.NewRedis(ctx, cfg.Redis)
	if err != nil {
		logr.Fatal("failed to connect redis", zap.Error(err))
	}
	defer redisClient.Close()

	location := loadLocation(cfg.Export.TimeZone, logr)

	employees := repository.NewEmployeeRepository(db, cfg.Tables.Employees)
	samples := repository.NewSampleRequestRepository(db, cfg.Tables.SampleRequests)
	orders := repository.NewOrderRepository(db, cfg.Tables.Orders)
	quotas := repository.NewQuotaRepository(db, cfg.Tables.Quota)
	codes := repository.NewVerificationCodeRepository(db)
	sessions := repository.NewSessionRepository(db)

	cacheStore := repository.NewCacheRepository(redisClient)
	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(cacheStore, metrics, service.CacheServiceConfig{
		Enabled:    cfg.Dashboard.CacheEnabled,
		DefaultTTL: cfg.Dashboard.CacheTTL,
		Prefix:     cfg.Dashboard.CachePrefix,
	}, logr)

	directory := service.NewDirectoryService(employees, service.DirectoryServiceConfig{
		OrderLinesOfBusiness: cfg.Directory.OrderLinesOfBusiness,
	}, logr)
	scope := service.NewScopeService(directory, cfg.Directory.EnforceSubtree, logr)
	records := service.NewRecordService(service.RecordServiceParams{
		Scope:    scope,
		Samples:  samples,
		Orders:   orders,
		Quotas:   quotas,
		Metrics:  metrics,
		Location: location,
		Logger:   logr,
	})
	dashboard := service.NewDashboardService(service.DashboardServiceParams{
		Records: records,
		Cache:   cacheSvc,
		Metrics: metrics,
		Config: service.DashboardServiceConfig{
			TaskTimeout:       cfg.Dashboard.TaskTimeout,
			CacheTTL:          cfg.Dashboard.CacheTTL,
			RankingSize:       cfg.Dashboard.RankingSize,
			CustomerChartSize: cfg.Dashboard.CustomerChartSize,
		},
		Logger: logr,
	})
	exports := service.NewExportService(service.ExportServiceParams{
		Records:  records,
		Metrics:  metrics,
		Location: location,
		CSV:      export.NewCSVExporter(),
		PDF:      export.NewPDFExporter(),
		XLSX:     export.NewXLSXExporter(),
		Logger:   logr,
	})

	var mail mailer.Mailer = mailer.NewLogMailer(logr)
	if cfg.Mail.Enabled {
		ses, err := mailer.NewSESMailer(ctx, cfg.Mail, logr)
		if err != nil {
			logr.Fatal("failed to init ses mailer", zap.Error(err))
		}
		mail = ses
	}

	authParams := service.AuthServiceParams{
		Directory: directory,
		Codes:     codes,
		Sessions:  sessions,
		Mailer:    mail,
		Cache:     cacheSvc,
		Metrics:   metrics,
		Validator: validator.New(),
		Config: service.AuthConfig{
			AccessTokenSecret:  cfg.JWT.Secret,
			AccessTokenExpiry:  cfg.JWT.Expiration,
			RefreshTokenExpiry: cfg.JWT.RefreshExpiration,
			Issuer:             cfg.JWT.Issuer,
			OTPLength:          cfg.OTP.Length,
			OTPTTL:             cfg.OTP.TTL,
			OTPMaxAttempts:     cfg.OTP.MaxAttempts,
			OTPResendInterval:  cfg.OTP.ResendInterval,
			LoginTeams:         cfg.Directory.LoginTeams,
			MailSubject:        cfg.Mail.Subject,
		},
		Logger: logr,
	}

	var warmup *service.WarmupService
	if cfg.Warmup.Enabled && cacheSvc.Enabled() {
		warmup = service.NewWarmupService(dashboard, service.WarmupConfig{
			Workers: cfg.Warmup.Workers,
			Retries: cfg.Warmup.Retries,
		}, logr)
		warmup.Start(ctx)
		defer warmup.Stop()
		authParams.Listener = warmup
	}
	auth := service.NewAuthService(authParams)

	if cfg.Maintenance.Enabled {
		jobs := scheduler.New(loadLocation(cfg.Maintenance.TimeZone, logr), time.Minute, logr)
		maintenance := service.NewMaintenanceService(codes, sessions, logr)
		if err := jobs.Register("purge_expired_auth", cfg.Maintenance.CleanupSpec, maintenance.PurgeExpired); err != nil {
			logr.Fatal("failed to register maintenance job", zap.Error(err))
		}
		jobs.Start()
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
			defer cancel()
			jobs.Stop(stopCtx)
		}()
	}

	router := newRouter(cfg, logr, routerDeps{
		auth:      auth,
		dashboard: dashboard,
		exports:   exports,
		directory: directory,
		cache:     cacheSvc,
		metrics:   metrics,
		db:        db,
		redis:     cacheStore,
	})

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func loadLocation(name string, logr *zap.Logger) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logr.Warn("unknown time zone, using UTC", zap.String("zone", name), zap.Error(err))
		return time.UTC
	}
	return loc
}
