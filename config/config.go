package config

import (
	"catalogo_server/structs"
	"sync"
	"time"
)

var (
	configInstance *structs.Config
	configOnce     sync.Once
)

func GetConfig() *structs.Config {
	configOnce.Do(func() {
		configInstance = &structs.Config{
			Server: &structs.ServerConfig{
				AppName:        getEnvAsString("APP_NAME", "Catalogo_no_env"),
				Environment:    getEnvAsString("APP_ENV", "development"),
				Port:           getEnvAsString("APP_PORT", ":8082"),
				ReadTimeout:    getEnvAsTimeDuration("SERVER_READ_TIME_OUT", 15*time.Second),
				WriteTimeout:   getEnvAsTimeDuration("SERVER_WRITE_TIME_OUT", 15*time.Second),
				IdleTimeout:    getEnvAsTimeDuration("SERVER_IDLE_TIME_OUT", 60*time.Second),
				MaxHeaderBytes: getEnvAsInt("SERVER_MAX_HEADER_BYTES", 1<<20), // 1 MB
				CookieDomain:   getEnvAsString("COOKIE_DOMAIN", ""),
			},
			Cors: &structs.CorsConfig{
				AllowedOrigins:   getEnvAsSlice("CORS_ALLOW_ORIGINS", []string{"http://localhost:3000"}),
				AllowedMethods:   getEnvAsSlice("CORS_ALLOW_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
				AllowedHeaders:   getEnvAsSlice("CORS_ALLOW_HEADERS", []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Confirm"}),
				AllowCredentials: getEnvAsBool("CORS_ALLOW_CREDENTIALS", true),
				ExposedHeaders:   getEnvAsSlice("CORS_EXPOSED_HEADERS", []string{"Content-Length"}),
				MaxAge:           getEnvAsInt("CORS_MAX_AGE", 300),
			},
			Database: &structs.DatabaseConfig{
				Driver:         getEnvAsString("DB_DRIVER", "pgdriver"),
				Host:           getEnvAsString("DB_HOST", "localhost"),
				Port:           getEnvAsInt("DB_PORT", 5432),
				User:           getEnvAsString("DB_USER", "postgres"),
				Password:       getEnvAsString("DB_PASSWORD", "password"),
				Name:           getEnvAsString("DB_NAME", "catalogo_db"),
				SSLMode:        getEnvAsString("DB_SSLMODE", "disable"),
				MaxConns:       getEnvAsInt("DB_MAX_CONNS", 10),
				MinConns:       getEnvAsInt("DB_MIN_CONNS", 2),
				MaxLifetime:    getEnvAsTimeDuration("DB_MAX_LIFETIME", 30*time.Minute),
				MaxIdleTime:    getEnvAsTimeDuration("DB_MAX_IDLE_TIME", 5*time.Minute),
				ReadTimeout:    getEnvAsTimeDuration("DB_READ_TIMEOUT", 5*time.Second),
				WriteTimeout:   getEnvAsTimeDuration("DB_WRITE_TIMEOUT", 5*time.Second),
				ReadAttempts:   getEnvAsInt("DB_READ_ATTEMPTS", 3),
				RetryBaseDelay: getEnvAsTimeDuration("DB_RETRY_BASE_DELAY", 100*time.Millisecond),
				RetryMaxDelay:  getEnvAsTimeDuration("DB_RETRY_MAX_DELAY", 2*time.Second),
				AutoMigrate:    getEnvAsBool("DB_AUTO_MIGRATE", true),
			},
			Cache: &structs.CacheConfig{
				Enabled:         getEnvAsBool("CACHE_ENABLED", false),
				Address:         getEnvAsString("CACHE_ADDRESS", "localhost:6379"),
				Username:        getEnvAsString("CACHE_USERNAME", ""),
				Password:        getEnvAsString("CACHE_PASSWORD", ""),
				DB:              getEnvAsInt("CACHE_DB", 0),
				PoolSize:        getEnvAsInt("CACHE_POOL_SIZE", 10),
				MinIdleConns:    getEnvAsInt("CACHE_MIN_IDLE_CONNS", 2),
				MaxIdleConns:    getEnvAsInt("CACHE_MAX_IDLE_CONNS", 5),
				PoolTimeout:     getEnvAsTimeDuration("CACHE_POOL_TIMEOUT", 4*time.Second),
				IdleTimeout:     getEnvAsTimeDuration("CACHE_IDLE_TIMEOUT", 5*time.Minute),
				DialTimeout:     getEnvAsTimeDuration("CACHE_DIAL_TIMEOUT", 5*time.Second),
				ReadTimeout:     getEnvAsTimeDuration("CACHE_READ_TIMEOUT", 3*time.Second),
				WriteTimeout:    getEnvAsTimeDuration("CACHE_WRITE_TIMEOUT", 3*time.Second),
				MaxRetries:      getEnvAsInt("CACHE_MAX_RETRIES", 3),
				MinRetryBackoff: getEnvAsTimeDuration("CACHE_MIN_RETRY_BACKOFF", 8*time.Millisecond),
				MaxRetryBackoff: getEnvAsTimeDuration("CACHE_MAX_RETRY_BACKOFF", 512*time.Millisecond),
				ProductListTTL:  getEnvAsTimeDuration("CACHE_PRODUCT_LIST_TTL", 5*time.Minute),
			},
			Auth: &structs.AuthConfig{
				SessionTokenSecret: getEnvAsString("AUTH_SESSION_TOKEN_SECRET", "default_session_secret"),
				SessionTokenExpiry: getEnvAsTimeDuration("AUTH_SESSION_TOKEN_EXPIRY", 12*time.Hour),
				SessionCookieName:  getEnvAsString("AUTH_SESSION_COOKIE", "session"),
			},
			Email: &structs.EmailConfig{
				Enabled:  getEnvAsBool("EMAIL_ENABLED", false),
				ApiKey:   getEnvAsString("RESEND_API_KEY", ""),
				From:     getEnvAsString("EMAIL_FROM", "Catalogo <no-reply@localhost>"),
				NotifyTo: getEnvAsSlice("EMAIL_NOTIFY_TO", nil),
			},
			Drafts: &structs.DraftConfig{
				IdleTTL: getEnvAsTimeDuration("DRAFT_TTL", 2*time.Hour),
			},
			RateLimit: &structs.RateLimitConfig{
				Enabled:     getEnvAsBool("RATE_LIMIT_ENABLED", false),
				AdminLimit:  getEnvAsInt("RATE_LIMIT_ADMIN", 300),
				AdminWindow: getEnvAsTimeDuration("RATE_LIMIT_ADMIN_WINDOW", time.Minute),
			},
		}
	})
	return configInstance
}

func GetLogLevel() string {
	if GetConfig().Server.Environment == "production" {
		return "info"
	}
	return "debug"
}

func IsProduction() bool {
	return GetConfig().Server.Environment == "production"
}
