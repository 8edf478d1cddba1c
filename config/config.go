package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

const (
	AuthProviderFirebase = "firebase"
	AuthProviderJWT      = "jwt"
)

type Config struct {
	Port    string `env:"PORT,default=8080"`
	GinMode string `env:"GIN_MODE,default=release"`
	// FrontendOrigins is a ';' separated list of allowed CORS origins
	FrontendOrigins string `env:"FE_ORIGINS,default=*"`

	DB        DBConfig
	Auth      AuthConfig
	Storage   StorageConfig
	Log       LogConfig
	RateLimit RateLimitConfig
	Jobs      JobsConfig

	// RedisURL switches the reaction count cache to redis when set
	RedisURL string `env:"REDIS_URL"`
}

type DBConfig struct {
	Host            string        `env:"DB_HOST,default=127.0.0.1:3306"`
	User            string        `env:"DB_USER,default=root"`
	Password        string        `env:"DB_PASSWORD"`
	Name            string        `env:"DB_NAME,default=billix"`
	TLS             string        `env:"DB_TLS,default=false"`
	MaxOpenConns    int           `env:"DB_MAX_OPEN_CONNS,default=20"`
	MaxIdleConns    int           `env:"DB_MAX_IDLE_CONNS,default=10"`
	ConnMaxIdleTime time.Duration `env:"DB_CONN_MAX_IDLE_TIME,default=5m"`
}

// DSN builds a go-sql-driver/mysql data source name. multiStatements is only
// needed by migrations.
func (dbc *DBConfig) DSN(multiStatements bool) string {
	dsn := fmt.Sprintf("%v:%v@tcp(%v)/%v?tls=%v&parseTime=true&loc=UTC",
		dbc.User, dbc.Password, dbc.Host, dbc.Name, dbc.TLS)
	if multiStatements {
		dsn += "&multiStatements=true"
	}
	return dsn
}

type AuthConfig struct {
	Provider  string `env:"AUTH_PROVIDER,default=firebase"`
	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER"`
}

type StorageConfig struct {
	Bucket string `env:"STORAGE_BUCKET,default=billix-uploads.appspot.com"`
}

type LogConfig struct {
	Level  string `env:"LOG_LEVEL,default=info"`
	Format string `env:"LOG_FORMAT,default=json"`
}

type RateLimitConfig struct {
	PerSecond float64 `env:"RATE_LIMIT_PER_SECOND,default=5"`
	Burst     int     `env:"RATE_LIMIT_BURST,default=20"`
}

type JobsConfig struct {
	RefreshGroupTree string `env:"JOB_REFRESH_GROUP_TREE,default=@every 20m"`
	ExpireRelief     string `env:"JOB_EXPIRE_RELIEF,default=@every 1h"`
	CancelStaleSwaps string `env:"JOB_CANCEL_STALE_SWAPS,default=@every 15m"`
	DrawGiveaway     string `env:"JOB_DRAW_GIVEAWAY,default=@every 1h"`
	// RateLimiterCleanup drops idle per-user token buckets
	RateLimiterCleanup string `env:"JOB_RATE_LIMITER_CLEANUP,default=@every 10m"`
}

func (c *Config) Origins() []string {
	var origins []string
	for _, origin := range strings.Split(c.FrontendOrigins, ";") {
		if origin = strings.TrimSpace(origin); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

func (c *Config) validate() error {
	switch c.Auth.Provider {
	case AuthProviderFirebase:
	case AuthProviderJWT:
		if c.Auth.JWTSecret == "" {
			return fmt.Errorf("JWT_SECRET is required when AUTH_PROVIDER=%v", AuthProviderJWT)
		}
	default:
		return fmt.Errorf("unknown AUTH_PROVIDER %q", c.Auth.Provider)
	}
	if c.RateLimit.PerSecond <= 0 || c.RateLimit.Burst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

// Load reads the optional .env files and then decodes the environment
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, file := range envFiles {
		// a missing .env is fine, the environment may already be populated
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := envdecode.Decode(&cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decoding config from env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
