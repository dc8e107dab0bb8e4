package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

// Config holds all application configuration, read from the environment.
type Config struct {
	Port           string   `env:"PORT" envDefault:"8080"`
	MongoURI       string   `env:"MONGO_URI,required"`
	JWTSecret      string   `env:"JWT_SECRET,required"`
	JWTExpiry      string   `env:"JWT_EXPIRY" envDefault:"24h"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`

	Redis RedisConfig

	Alerts AlertConfig
}

// RedisConfig holds the Redis connection and pool settings.
type RedisConfig struct {
	URL          string        `env:"REDIS_URL"`
	Host         string        `env:"REDIS_HOST" envDefault:"localhost"`
	Port         string        `env:"REDIS_PORT" envDefault:"6379"`
	Password     string        `env:"REDIS_PASSWORD"`
	DB           int           `env:"REDIS_DB" envDefault:"0"`
	PoolSize     int           `env:"REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"REDIS_MIN_IDLE_CONNS" envDefault:"5"`
	MaxRetries   int           `env:"REDIS_MAX_RETRIES" envDefault:"3"`
	RetryDelay   time.Duration `env:"REDIS_RETRY_DELAY" envDefault:"1s"`
	DialTimeout  time.Duration `env:"REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	PoolTimeout  time.Duration `env:"REDIS_POOL_TIMEOUT" envDefault:"4s"`
}

// AlertConfig carries the alerting policy thresholds and the background
// refresh interval. Zero thresholds fall back to the evaluator defaults.
type AlertConfig struct {
	UrgentKm        int           `env:"ALERT_URGENT_KM" envDefault:"500"`
	WarningKm       int           `env:"ALERT_WARNING_KM" envDefault:"1500"`
	UrgentDays      int           `env:"ALERT_URGENT_DAYS" envDefault:"10"`
	WarningDays     int           `env:"ALERT_WARNING_DAYS" envDefault:"30"`
	RefreshInterval time.Duration `env:"ALERT_REFRESH_INTERVAL" envDefault:"5m"`
}

// Load reads configuration from environment variables, loading a local .env
// file first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
