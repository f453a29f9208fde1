package config

import (
	"errors"
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
	Env       string
	Port      int
	APIPrefix string

	Registrar RegistrarConfig
	Grid      GridConfig
	Audit     AuditConfig
	Overlay   OverlayConfig
	Redis     RedisConfig
	JWT       JWTConfig
	CORS      CORSConfig
	Log       LogConfig
}

// RegistrarConfig points the engine at the institution's system of record.
type RegistrarConfig struct {
	BaseURL      string
	ServiceToken string
	Timeout      time.Duration
	SemesterID   string
}

// GridConfig is the institutional scheduling policy: operating window, grid
// granularities and the default session length applied when a subject is
// placed without an explicit end time.
type GridConfig struct {
	StartHour             int
	EndHour               int
	InteractiveGranMins   int
	SummaryGranMins       int
	DefaultSessionMinutes int
	Days                  []string
}

// AuditConfig controls the local placement audit log.
type AuditConfig struct {
	Enabled  bool
	Database DatabaseConfig
}

// OverlayConfig tunes caching of professor busy-cell overlays.
type OverlayConfig struct {
	Enabled  bool
	CacheTTL time.Duration
}

type DatabaseConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	Name         string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
}

type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

type JWTConfig struct {
	Secret string
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
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	cfg := &Config{}

	cfg.Env = v.GetString("ENV")
	cfg.Port = v.GetInt("PORT")
	cfg.APIPrefix = v.GetString("API_PREFIX")

	cfg.Registrar = RegistrarConfig{
		BaseURL:      strings.TrimRight(v.GetString("REGISTRAR_BASE_URL"), "/"),
		ServiceToken: v.GetString("REGISTRAR_SERVICE_TOKEN"),
		Timeout:      parseDuration(v.GetString("REGISTRAR_TIMEOUT"), 10*time.Second),
		SemesterID:   v.GetString("REGISTRAR_SEMESTER_ID"),
	}

	cfg.Grid = GridConfig{
		StartHour:             v.GetInt("GRID_START_HOUR"),
		EndHour:               v.GetInt("GRID_END_HOUR"),
		InteractiveGranMins:   v.GetInt("GRID_INTERACTIVE_GRANULARITY"),
		SummaryGranMins:       v.GetInt("GRID_SUMMARY_GRANULARITY"),
		DefaultSessionMinutes: v.GetInt("GRID_DEFAULT_SESSION_MINUTES"),
		Days:                  splitAndTrim(v.GetString("GRID_DAYS")),
	}

	cfg.Audit = AuditConfig{
		Enabled: v.GetBool("ENABLE_AUDIT_LOG"),
		Database: DatabaseConfig{
			Host:         v.GetString("DB_HOST"),
			Port:         v.GetInt("DB_PORT"),
			User:         v.GetString("DB_USER"),
			Password:     v.GetString("DB_PASSWORD"),
			Name:         v.GetString("DB_NAME"),
			SSLMode:      v.GetString("DB_SSL_MODE"),
			MaxOpenConns: v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns: v.GetInt("DB_MAX_IDLE_CONNS"),
		},
	}

	cfg.Overlay = OverlayConfig{
		Enabled:  v.GetBool("ENABLE_OVERLAY_CACHE"),
		CacheTTL: parseDuration(v.GetString("OVERLAY_CACHE_TTL"), 5*time.Minute),
	}

	cfg.Redis = RedisConfig{
		Host:     v.GetString("REDIS_HOST"),
		Port:     v.GetInt("REDIS_PORT"),
		Password: v.GetString("REDIS_PASSWORD"),
		DB:       v.GetInt("REDIS_DB"),
	}

	cfg.JWT = JWTConfig{Secret: v.GetString("JWT_SECRET")}

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

	v.SetDefault("REGISTRAR_BASE_URL", "http://localhost:8000/api")
	v.SetDefault("REGISTRAR_TIMEOUT", "10s")

	v.SetDefault("GRID_START_HOUR", 7)
	v.SetDefault("GRID_END_HOUR", 21)
	v.SetDefault("GRID_INTERACTIVE_GRANULARITY", 30)
	v.SetDefault("GRID_SUMMARY_GRANULARITY", 60)
	v.SetDefault("GRID_DEFAULT_SESSION_MINUTES", 90)
	v.SetDefault("GRID_DAYS", "MON,TUE,WED,THU,FRI,SAT")

	v.SetDefault("DB_HOST", "localhost")
	v.SetDefault("DB_PORT", 5432)
	v.SetDefault("DB_SSL_MODE", "disable")

	v.SetDefault("REDIS_HOST", "localhost")
	v.SetDefault("REDIS_PORT", 6379)

	v.SetDefault("ENABLE_OVERLAY_CACHE", true)
	v.SetDefault("OVERLAY_CACHE_TTL", "5m")

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
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
