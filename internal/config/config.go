package config

import (
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/gogotex/gogotex/backend/go-workflow/pkg/logger"
)

// Config holds application configuration
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
	MinIO     MinIOConfig
	Keycloak  KeycloakConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
	Workflow  WorkflowConfig
}

type ServerConfig struct {
	Port         string
	Host         string
	Environment  string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type LogConfig struct {
	Level  string
	Format string
}

type MongoDBConfig struct {
	URI      string
	Database string
	Timeout  time.Duration
}

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
}

// Addr returns host:port, or "" when Redis is not configured.
func (r RedisConfig) Addr() string {
	if r.Host == "" {
		return ""
	}
	return r.Host + ":" + r.Port
}

type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

type KeycloakConfig struct {
	URL          string
	Realm        string
	ClientID     string
	ClientSecret string
}

type JWTConfig struct {
	Secret string
}

type RateLimitConfig struct {
	Enabled  bool
	UseRedis bool
	RPS      float64
	Burst    int
	Window   time.Duration
}

// WorkflowConfig configures locales and propagation.
type WorkflowConfig struct {
	LocalesFile        string
	Locales            string
	DefaultLocale      string
	ExcludedProperties []string
	RefSingleSuffixes  []string
	RefManySuffixes    []string
	RefMapSuffixes     []string
	IdentityCacheTTL   time.Duration
	HistoryLimit       int
	ArchiveCommits     bool
	AreaPreviewTypes   []string
	DocsCollection     string
	CommitsCollection  string
}

// LoadConfig loads configuration from environment variables and .env file
func LoadConfig() (*Config, error) {
	_ = godotenv.Load(".env")

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", "5002")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("SERVER_ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("LOG_FORMAT", "text")
	viper.SetDefault("MONGODB_DATABASE", "workflow")
	viper.SetDefault("MONGODB_TIMEOUT", 10)
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("MINIO_BUCKET", "workflow-commits")
	viper.SetDefault("RATE_LIMIT_ENABLED", true)
	viper.SetDefault("RATE_LIMIT_RPS", 10)
	viper.SetDefault("RATE_LIMIT_BURST", 20)
	viper.SetDefault("RATE_LIMIT_WINDOW", 60)
	viper.SetDefault("WORKFLOW_LOCALES", "en")
	viper.SetDefault("WORKFLOW_EXCLUDED_PROPERTIES", "_id,workflowGuid,workflowLocale,workflowSubmitted,workflowImportedFrom,workflowModified,workflowLastCommitted,workflowRevision,trash,createdAt,updatedAt")
	viper.SetDefault("WORKFLOW_REF_SINGLE_SUFFIXES", "Id")
	viper.SetDefault("WORKFLOW_REF_MANY_SUFFIXES", "Ids")
	viper.SetDefault("WORKFLOW_REF_MAP_SUFFIXES", "Relationships")
	viper.SetDefault("WORKFLOW_IDENTITY_CACHE_TTL", 300)
	viper.SetDefault("WORKFLOW_HISTORY_LIMIT", 50)
	viper.SetDefault("WORKFLOW_ARCHIVE_COMMITS", true)
	viper.SetDefault("WORKFLOW_AREA_PREVIEW_TYPES", "page")
	viper.SetDefault("WORKFLOW_DOCS_COLLECTION", "docs")
	viper.SetDefault("WORKFLOW_COMMITS_COLLECTION", "commits")

	cfg := &Config{
		Server: ServerConfig{
			Port:         viper.GetString("SERVER_PORT"),
			Host:         viper.GetString("SERVER_HOST"),
			Environment:  viper.GetString("SERVER_ENVIRONMENT"),
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 30 * time.Second,
		},
		Log: LogConfig{
			Level:  viper.GetString("LOG_LEVEL"),
			Format: viper.GetString("LOG_FORMAT"),
		},
		MongoDB: MongoDBConfig{
			URI:      viper.GetString("MONGODB_URI"),
			Database: viper.GetString("MONGODB_DATABASE"),
			Timeout:  time.Duration(viper.GetInt("MONGODB_TIMEOUT")) * time.Second,
		},
		Redis: RedisConfig{
			Host:     viper.GetString("REDIS_HOST"),
			Port:     viper.GetString("REDIS_PORT"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		MinIO: MinIOConfig{
			Endpoint:  viper.GetString("MINIO_ENDPOINT"),
			AccessKey: viper.GetString("MINIO_ACCESS_KEY"),
			SecretKey: os.Getenv("MINIO_SECRET_KEY"),
			UseSSL:    viper.GetBool("MINIO_USE_SSL"),
			Bucket:    viper.GetString("MINIO_BUCKET"),
		},
		Keycloak: KeycloakConfig{
			URL:          viper.GetString("KEYCLOAK_URL"),
			Realm:        viper.GetString("KEYCLOAK_REALM"),
			ClientID:     viper.GetString("KEYCLOAK_CLIENT_ID"),
			ClientSecret: viper.GetString("KEYCLOAK_CLIENT_SECRET"),
		},
		JWT: JWTConfig{
			Secret: os.Getenv("JWT_SECRET"),
		},
		RateLimit: RateLimitConfig{
			Enabled:  viper.GetBool("RATE_LIMIT_ENABLED"),
			UseRedis: viper.GetBool("RATE_LIMIT_USE_REDIS"),
			RPS:      viper.GetFloat64("RATE_LIMIT_RPS"),
			Burst:    viper.GetInt("RATE_LIMIT_BURST"),
			Window:   time.Duration(viper.GetInt("RATE_LIMIT_WINDOW")) * time.Second,
		},
		Workflow: WorkflowConfig{
			LocalesFile:        viper.GetString("WORKFLOW_LOCALES_FILE"),
			Locales:            viper.GetString("WORKFLOW_LOCALES"),
			DefaultLocale:      viper.GetString("WORKFLOW_DEFAULT_LOCALE"),
			ExcludedProperties: splitList(viper.GetString("WORKFLOW_EXCLUDED_PROPERTIES")),
			RefSingleSuffixes:  splitList(viper.GetString("WORKFLOW_REF_SINGLE_SUFFIXES")),
			RefManySuffixes:    splitList(viper.GetString("WORKFLOW_REF_MANY_SUFFIXES")),
			RefMapSuffixes:     splitList(viper.GetString("WORKFLOW_REF_MAP_SUFFIXES")),
			IdentityCacheTTL:   time.Duration(viper.GetInt("WORKFLOW_IDENTITY_CACHE_TTL")) * time.Second,
			HistoryLimit:       viper.GetInt("WORKFLOW_HISTORY_LIMIT"),
			ArchiveCommits:     viper.GetBool("WORKFLOW_ARCHIVE_COMMITS"),
			AreaPreviewTypes:   splitList(viper.GetString("WORKFLOW_AREA_PREVIEW_TYPES")),
			DocsCollection:     viper.GetString("WORKFLOW_DOCS_COLLECTION"),
			CommitsCollection:  viper.GetString("WORKFLOW_COMMITS_COLLECTION"),
		},
	}

	// Basic validation
	if cfg.JWT.Secret == "" && cfg.Keycloak.URL == "" {
		logger.Warnf("neither JWT_SECRET nor KEYCLOAK_URL is set; every workflow request will be rejected")
	}
	if cfg.MongoDB.URI == "" {
		logger.Warnf("MONGODB_URI is not set; using in-memory stores")
	}

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
