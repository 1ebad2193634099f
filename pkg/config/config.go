package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Env             string
	Port            int
	APIPrefix       string
	ShutdownTimeout time.Duration

	Database    DatabaseConfig
	Tables      TablesConfig
	Redis       RedisConfig
	JWT         JWTConfig
	OTP         OTPConfig
	Mail        MailConfig
	Directory   DirectoryConfig
	Dashboard   DashboardConfig
	Export      ExportConfig
	Maintenance MaintenanceConfig
	Warmup      WarmupConfig
	CORS        CORSConfig
	Log         LogConfig
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// TablesConfig names the externally managed tables. Order and quota tables carry a season suffix
// and are swapped every academic year.
type TablesConfig struct {
	Employees      string
	SampleRequests string
	Orders         string
	Quota          string
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret            string
	Issuer            string
	Expiration        time.Duration
	RefreshExpiration time.Duration
}

// OTPConfig tunes one-time passcode issuance.
type OTPConfig struct {
	Length         int
	TTL            time.Duration
	MaxAttempts    int
	ResendInterval time.Duration
}

// MailConfig configures SES delivery. When disabled codes are written to the log.
type MailConfig struct {
	Enabled   bool
	Region    string
	FromEmail string
	ReplyTo   string
	Subject   string
}

// DirectoryConfig holds the roster rules used for login and scope re-validation.
type DirectoryConfig struct {
	LoginTeams           []string
	OrderLinesOfBusiness []string
	EnforceSubtree       bool
}

// DashboardConfig governs page composition and result caching.
type DashboardConfig struct {
	CacheEnabled      bool
	CacheTTL          time.Duration
	CachePrefix       string
	TaskTimeout       time.Duration
	RankingSize       int
	CustomerChartSize int
}

type ExportConfig struct {
	TimeZone string
}

// MaintenanceConfig drives the cron based purge of expired auth artefacts.
type MaintenanceConfig struct {
	Enabled     bool
	CleanupSpec string
	TimeZone    string
}

// WarmupConfig sizes the post-login cache warm-up queue.
type WarmupConfig struct {
	Enabled bool
	Workers int
	Retries int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type LogConfig struct {
	Level  string
	Format string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")
	cfg.ShutdownTimeout = parseDuration(v.GetString("SHUTDOWN_TIMEOUT"), 10*time.Second)

	cfg.Database = DatabaseConfig{
		Host:            v.GetString("DB_HOST"),
		Port:            v.GetInt("DB_PORT"),
		User:            v.GetString("DB_USER"),
		Password:        v.GetString("DB_PASSWORD"),
		Name:            v.GetString("DB_NAME"),
		SSLMode:         v.GetString("DB_SSL_MODE"),
		MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
		MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
		ConnMaxLifetime: parseDuration(v.GetString("DB_CONN_MAX_LIFETIME"), time.Hour),
	}

	cfg.Tables = TablesConfig{
		Employees:      v.GetString("TABLE_EMPLOYEES"),
		SampleRequests: v.GetString("TABLE_SAMPLE_REQUESTS"),
		Orders:         v.GetString("TABLE_ORDERS"),
		Quota:          v.GetString("TABLE_QUOTA"),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{
		Secret:            v.GetString("JWT_SECRET"),
		Issuer:            v.GetString("JWT_ISSUER"),
		Expiration:        parseDuration(v.GetString("JWT_EXPIRATION"), 12*time.Hour),
		RefreshExpiration: parseDuration(v.GetString("REFRESH_TOKEN_EXPIRATION"), 7*24*time.Hour),
	}

	cfg.OTP = OTPConfig{
		Length:         v.GetInt("OTP_LENGTH"),
		TTL:            parseDuration(v.GetString("OTP_TTL"), 10*time.Minute),
		MaxAttempts:    v.GetInt("OTP_MAX_ATTEMPTS"),
		ResendInterval: parseDuration(v.GetString("OTP_RESEND_INTERVAL"), 30*time.Second),
	}

	cfg.Mail = MailConfig{
		Enabled:   v.GetBool("MAIL_ENABLED"),
		Region:    v.GetString("SES_AWS_REGION"),
		FromEmail: v.GetString("SES_FROM_EMAIL"),
		ReplyTo:   v.GetString("SES_REPLY_TO"),
		Subject:   v.GetString("MAIL_SUBJECT"),
	}

	cfg.Directory = DirectoryConfig{
		LoginTeams:           splitAndTrim(v.GetString("LOGIN_TEAMS")),
		OrderLinesOfBusiness: splitAndTrim(v.GetString("ORDER_LINES_OF_BUSINESS")),
		EnforceSubtree:       v.GetBool("SCOPE_ENFORCE_SUBTREE"),
	}

	cfg.Dashboard = DashboardConfig{
		CacheEnabled:      v.GetBool("DASHBOARD_CACHE_ENABLED"),
		CacheTTL:          parseDuration(v.GetString("DASHBOARD_CACHE_TTL"), 5*time.Minute),
		CachePrefix:       v.GetString("DASHBOARD_CACHE_PREFIX"),
		TaskTimeout:       parseDuration(v.GetString("DASHBOARD_TASK_TIMEOUT"), 15*time.Second),
		RankingSize:       v.GetInt("DASHBOARD_RANKING_SIZE"),
		CustomerChartSize: v.GetInt("DASHBOARD_CUSTOMER_CHART_SIZE"),
	}

	cfg.Export = ExportConfig{TimeZone: v.GetString("EXPORT_TIMEZONE")}

	cfg.Maintenance = MaintenanceConfig{
		Enabled:     v.GetBool("ENABLE_MAINTENANCE"),
		CleanupSpec: v.GetString("MAINTENANCE_CLEANUP_SPEC"),
		TimeZone:    v.GetString("MAINTENANCE_TIMEZONE"),
	}

	cfg.Warmup = WarmupConfig{
		Enabled: v.GetBool("ENABLE_CACHE_WARMUP"),
		Workers: v.GetInt("WARMUP_WORKERS"),
		Retries: v.GetInt("WARMUP_RETRIES"),
	}

	cfg.CORS = CORSConfig{AllowedOrigins: splitAndTrim(v.GetString("ALLOWED_ORIGINS"))}

	cfg.Log = LogConfig{
		Level:  v.GetString("LOG_LEVEL"),
		Format: v.GetString("LOG_FORMAT"),
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("ENV", EnvDevelopment)
	v.SetDefault("PORT", 8080)
	v.SetDefault("API_PREFIX", "/api/v1")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_USER", "postgres")
	v.SetDefault("DB_PASSWORD", "postgres")
	v.SetDefault("DB_NAME", "sales_dashboard")
	v.SetDefault("DB_SSL_MODE", "disable")
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 5)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")

	v.SetDefault("TABLE_EMPLOYEES", "emp_record")
	v.SetDefault("TABLE_SAMPLE_REQUESTS", "sample_request")
	v.SetDefault("TABLE_ORDERS", "order_form_k8_25_26")
	v.SetDefault("TABLE_QUOTA", "Sample Request Backend 26-27")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)

	v.SetDefault("JWT_SECRET", "dev_secret")
	v.SetDefault("JWT_ISSUER", "sales-dashboard-api")
	v.SetDefault("JWT_EXPIRATION", "12h")
	v.SetDefault("REFRESH_TOKEN_EXPIRATION", "168h")

	v.SetDefault("OTP_LENGTH", 6)
	v.SetDefault("OTP_TTL", "10m")
	v.SetDefault("OTP_MAX_ATTEMPTS", 3)
	v.SetDefault("OTP_RESEND_INTERVAL", "30s")

	v.SetDefault("MAIL_ENABLED", false)
	v.SetDefault("SES_AWS_REGION", "ap-south-1")
	v.SetDefault("SES_FROM_EMAIL", "")
	v.SetDefault("SES_REPLY_TO", "")
	v.SetDefault("MAIL_SUBJECT", "Sales Dashboard - Login Verification Code")

	v.SetDefault("LOGIN_TEAMS", "Sales,Program Team")
	v.SetDefault("ORDER_LINES_OF_BUSINESS", "K8 & Test Prep,K8")
	v.SetDefault("SCOPE_ENFORCE_SUBTREE", true)

	v.SetDefault("DASHBOARD_CACHE_ENABLED", true)
	v.SetDefault("DASHBOARD_CACHE_TTL", "5m")
	v.SetDefault("DASHBOARD_CACHE_PREFIX", "dashboard_cache_")
	v.SetDefault("DASHBOARD_TASK_TIMEOUT", "15s")
	v.SetDefault("DASHBOARD_RANKING_SIZE", 10)
	v.SetDefault("DASHBOARD_CUSTOMER_CHART_SIZE", 10)

	v.SetDefault("EXPORT_TIMEZONE", "Asia/Kolkata")

	v.SetDefault("ENABLE_MAINTENANCE", true)
	v.SetDefault("MAINTENANCE_CLEANUP_SPEC", "*/15 * * * *")
	v.SetDefault("MAINTENANCE_TIMEZONE", "Asia/Kolkata")

	v.SetDefault("ENABLE_CACHE_WARMUP", false)
	v.SetDefault("WARMUP_WORKERS", 2)
	v.SetDefault("WARMUP_RETRIES", 2)

	v.SetDefault("ALLOWED_ORIGINS", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}

	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}

	return d
}

func splitAndTrim(raw string) []string {
	if raw == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}

	return result
}
