package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 應用配置
type Config struct {
	App         AppConfig        `mapstructure:"app"`
	Server      ServerConfig     `mapstructure:"server"`
	Database    DatabaseConfig   `mapstructure:"database"`
	Auth        AuthConfig       `mapstructure:"auth"`
	OpenRouter  OpenRouterConfig `mapstructure:"openrouter"`
	Cache       CacheConfig      `mapstructure:"cache"`
	RateLimit   RateLimitConfig  `mapstructure:"rate_limit"`
	Activities  ActivityConfig   `mapstructure:"activities"`
	CORS        CORSConfig       `mapstructure:"cors"`
	DedupWindow time.Duration    `mapstructure:"dedup_window"`
	LogLevel    string           `mapstructure:"log_level"`
}

// AppConfig 應用程式設定
type AppConfig struct {
	Env     string `mapstructure:"env"`
	Debug   bool   `mapstructure:"debug"`
	Version string `mapstructure:"version"`
	Name    string `mapstructure:"name"`
}

// ServerConfig 服務器配置
type ServerConfig struct {
	Port           int           `mapstructure:"port"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	WriteTimeout   time.Duration `mapstructure:"write_timeout"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	MaxBodyBytes   int64         `mapstructure:"max_body_bytes"`
}

// DatabaseConfig 資料庫設定
type DatabaseConfig struct {
	Path     string `mapstructure:"path"`
	LogLevel string `mapstructure:"log_level"`
}

// AuthConfig 認證設定
type AuthConfig struct {
	JWTSecret     string        `mapstructure:"jwt_secret"`
	JWTExpiration time.Duration `mapstructure:"jwt_expiration"`
	BcryptCost    int           `mapstructure:"bcrypt_cost"`
}

// OpenRouterConfig OpenRouter 配置
type OpenRouterConfig struct {
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Model       string        `mapstructure:"model"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Temperature float64       `mapstructure:"temperature"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxRetries  int           `mapstructure:"max_retries"`
	RetryWait   time.Duration `mapstructure:"retry_wait"`
}

// CacheConfig 緩存配置
type CacheConfig struct {
	Enabled         bool          `mapstructure:"enabled"`
	Backend         string        `mapstructure:"backend"`
	RedisAddr       string        `mapstructure:"redis_addr"`
	RedisPassword   string        `mapstructure:"redis_password"`
	RedisDB         int           `mapstructure:"redis_db"`
	MaxSize         int           `mapstructure:"max_size"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval"`
}

// RateLimitConfig 速率限制配置
type RateLimitConfig struct {
	Enabled  bool          `mapstructure:"enabled"`
	Requests int           `mapstructure:"requests"`
	Window   time.Duration `mapstructure:"window"`
}

// ActivityConfig 活動推薦參數
type ActivityConfig struct {
	DefaultLimit      int               `mapstructure:"default_limit"`
	MaxLimit          int               `mapstructure:"max_limit"`
	InterestBonus     int               `mapstructure:"interest_bonus"`
	ResourceBonus     int               `mapstructure:"resource_bonus"`
	PinnedNumerator   int               `mapstructure:"pinned_numerator"`
	PinnedDenominator int               `mapstructure:"pinned_denominator"`
	CategoryInterests map[string]string `mapstructure:"category_interests"`
}

// CORSConfig 跨域設定
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// CacheBackend 快取後端
const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

// LoadConfig 載入設定
func LoadConfig() (*Config, error) {
	// 加載 .env 文件，不存在時僅使用環境變數與預設值
	if err := godotenv.Load(); err != nil {
		fmt.Println("Warning: .env file not found, using environment and defaults")
	}

	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnv(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// logger 尚未初始化，改用 fmt.Println
	fmt.Println("Loading configuration",
		"openrouter_api_key:", maskAPIKey(config.OpenRouter.APIKey),
		"openrouter_model:", config.OpenRouter.Model,
		"database:", config.Database.Path,
	)

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// bindEnv 綁定不帶前綴的常用環境變數
func bindEnv(v *viper.Viper) {
	bindings := map[string]string{
		"server.port":              "SERVER_PORT",
		"database.path":            "DATABASE_PATH",
		"auth.jwt_secret":          "JWT_SECRET",
		"auth.jwt_expiration":      "JWT_EXPIRATION",
		"openrouter.api_key":       "OPENROUTER_API_KEY",
		"openrouter.model":         "OPENROUTER_MODEL",
		"openrouter.max_tokens":    "MODEL_MAX_TOKENS",
		"openrouter.base_url":      "OPENROUTER_BASE_URL",
		"cache.enabled":            "CACHE_ENABLED",
		"cache.backend":            "CACHE_BACKEND",
		"cache.redis_addr":         "REDIS_ADDR",
		"cache.redis_password":     "REDIS_PASSWORD",
		"rate_limit.enabled":       "RATE_LIMIT_ENABLED",
		"rate_limit.requests":      "RATE_LIMIT_REQUESTS",
		"rate_limit.window":        "RATE_LIMIT_WINDOW",
		"cors.allowed_origins":     "CORS_ALLOWED_ORIGINS",
		"activities.default_limit": "ACTIVITIES_DEFAULT_LIMIT",
		"dedup_window":             "DEDUP_WINDOW",
		"log_level":                "LOG_LEVEL",
	}
	for key, env := range bindings {
		_ = v.BindEnv(key, env)
	}
}

// maskAPIKey 遮罩 API Key，只顯示前後各 4 個字符
func maskAPIKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}

// setDefaults 設定預設值
func setDefaults(v *viper.Viper) {
	v.SetDefault("app.env", "development")
	v.SetDefault("app.debug", true)
	v.SetDefault("app.version", "1.0.0")
	v.SetDefault("app.name", "health-heroes")

	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "90s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.request_timeout", "80s")
	v.SetDefault("server.max_body_bytes", 1<<20)

	v.SetDefault("database.path", "health_heroes.db")
	v.SetDefault("database.log_level", "warn")

	v.SetDefault("auth.jwt_secret", "")
	v.SetDefault("auth.jwt_expiration", "72h")
	v.SetDefault("auth.bcrypt_cost", 10)

	v.SetDefault("openrouter.api_key", "")
	v.SetDefault("openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("openrouter.model", "anthropic/claude-3.5-sonnet")
	v.SetDefault("openrouter.max_tokens", 2000)
	v.SetDefault("openrouter.temperature", 0.7)
	v.SetDefault("openrouter.timeout", "60s")
	v.SetDefault("openrouter.max_retries", 2)
	v.SetDefault("openrouter.retry_wait", "3s")

	v.SetDefault("cache.enabled", true)
	v.SetDefault("cache.backend", CacheBackendMemory)
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.max_size", 1000)
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("cache.cleanup_interval", "10m")

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests", 20)
	v.SetDefault("rate_limit.window", "1m")

	v.SetDefault("activities.default_limit", 6)
	v.SetDefault("activities.max_limit", 50)
	v.SetDefault("activities.interest_bonus", 10)
	v.SetDefault("activities.resource_bonus", 5)
	v.SetDefault("activities.pinned_numerator", 2)
	v.SetDefault("activities.pinned_denominator", 3)
	v.SetDefault("activities.category_interests", DefaultCategoryInterests())

	v.SetDefault("cors.allowed_origins", []string{"*"})
	v.SetDefault("dedup_window", "2s")
	v.SetDefault("log_level", "info")
}

// DefaultCategoryInterests 活動類別對應的興趣標籤
func DefaultCategoryInterests() map[string]string {
	return map[string]string{
		"games":    "sports",
		"cooking":  "cooking",
		"creative": "arts",
		"nature":   "outdoor",
		"reading":  "reading",
		"science":  "science",
	}
}

// validateConfig 驗證設定
func validateConfig(config *Config) error {
	if config.Server.Port <= 0 || config.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", config.Server.Port)
	}
	if config.Server.MaxBodyBytes <= 0 {
		return fmt.Errorf("invalid server max body bytes")
	}

	if config.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if len(config.Auth.JWTSecret) < 16 {
		return fmt.Errorf("JWT_SECRET must be at least 16 characters")
	}
	if config.Auth.JWTExpiration <= 0 {
		return fmt.Errorf("invalid jwt expiration")
	}

	if config.OpenRouter.MaxRetries < 0 {
		return fmt.Errorf("invalid openrouter max retries")
	}

	if config.Cache.Enabled {
		switch config.Cache.Backend {
		case CacheBackendMemory:
			if config.Cache.MaxSize <= 0 {
				return fmt.Errorf("invalid cache max size")
			}
			if config.Cache.CleanupInterval <= 0 {
				return fmt.Errorf("invalid cache cleanup interval")
			}
		case CacheBackendRedis:
			if config.Cache.RedisAddr == "" {
				return fmt.Errorf("redis address is required for redis cache backend")
			}
		default:
			return fmt.Errorf("unknown cache backend %q", config.Cache.Backend)
		}
		if config.Cache.TTL <= 0 {
			return fmt.Errorf("invalid cache ttl")
		}
	}

	if config.RateLimit.Enabled && (config.RateLimit.Requests <= 0 || config.RateLimit.Window <= 0) {
		return fmt.Errorf("invalid rate limit settings")
	}

	a := config.Activities
	if a.DefaultLimit <= 0 || a.MaxLimit < a.DefaultLimit {
		return fmt.Errorf("invalid activity limits")
	}
	if a.InterestBonus < 0 || a.ResourceBonus < 0 {
		return fmt.Errorf("activity bonuses must not be negative")
	}
	if a.PinnedDenominator <= 0 || a.PinnedNumerator < 0 || a.PinnedNumerator > a.PinnedDenominator {
		return fmt.Errorf("invalid activity pinned ratio")
	}

	return nil
}
