package structs

import "time"

type Config struct {
	Server    *ServerConfig
	Cors      *CorsConfig
	Database  *DatabaseConfig
	Cache     *CacheConfig
	Auth      *AuthConfig
	Email     *EmailConfig
	Drafts    *DraftConfig
	RateLimit *RateLimitConfig
}

type ServerConfig struct {
	AppName        string        // Catalogo
	Environment    string        // development, production
	Port           string        // :8082
	ReadTimeout    time.Duration // in seconds
	WriteTimeout   time.Duration // in seconds
	IdleTimeout    time.Duration // in seconds
	MaxHeaderBytes int           // in bytes
	CookieDomain   string        // empty outside production
}

type CorsConfig struct {
	AllowedOrigins   []string
	AllowedMethods   []string
	AllowedHeaders   []string
	ExposedHeaders   []string
	AllowCredentials bool
	MaxAge           int // in seconds
}

type DatabaseConfig struct {
	Driver         string // pgdriver, pgx
	Host           string
	Port           int
	User           string
	Password       string
	Name           string
	SSLMode        string
	MaxConns       int
	MinConns       int
	MaxLifetime    time.Duration
	MaxIdleTime    time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	ReadAttempts   int           // reads only, writes run once
	RetryBaseDelay time.Duration // doubles per attempt
	RetryMaxDelay  time.Duration
	AutoMigrate    bool
}

type CacheConfig struct {
	Enabled         bool
	Address         string
	Username        string
	Password        string
	DB              int
	PoolSize        int
	MinIdleConns    int
	MaxIdleConns    int
	PoolTimeout     time.Duration
	IdleTimeout     time.Duration
	DialTimeout     time.Duration
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	MaxRetries      int
	MinRetryBackoff time.Duration
	MaxRetryBackoff time.Duration
	ProductListTTL  time.Duration
}

type AuthConfig struct {
	SessionTokenSecret string
	SessionTokenExpiry time.Duration
	SessionCookieName  string
}

type EmailConfig struct {
	Enabled  bool
	ApiKey   string
	From     string
	NotifyTo []string // staff addresses for shipment notifications
}

type DraftConfig struct {
	IdleTTL time.Duration // drafts untouched for longer are discarded
}

type RateLimitConfig struct {
	Enabled     bool
	AdminLimit  int
	AdminWindow time.Duration
}
