package config

import (
	"time"

	"github.com/caarlos0/env/v10"
)

// Config centraliza la configuración del servicio.
type Config struct {
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`
	AppEnv      string `env:"APP_ENV" envDefault:"production"`
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	RedisAddr           string        `env:"REDIS_ADDR"`
	RedisPassword       string        `env:"REDIS_PASSWORD"`
	RedisDB             int           `env:"REDIS_DB" envDefault:"0"`
	RegionCountCacheTTL time.Duration `env:"REGION_COUNT_CACHE_TTL" envDefault:"5m"`

	JWTSecret string `env:"JWT_SECRET"`
	JWTIssuer string `env:"JWT_ISSUER" envDefault:"portal-exporta"`

	ReclassifyWorkers      int  `env:"RECLASSIFY_WORKERS" envDefault:"4"`
	ActivityLookbackMonths int  `env:"ACTIVITY_LOOKBACK_MONTHS" envDefault:"24"`
	RunMigrations          bool `env:"RUN_MIGRATIONS" envDefault:"true"`
}

// IsDevelopment indica si el servicio corre en modo desarrollo.
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// LoadConfig carga la configuración desde variables de entorno.
func LoadConfig() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, err
	}
	if cfg.ReclassifyWorkers <= 0 {
		cfg.ReclassifyWorkers = 1
	}
	if cfg.ActivityLookbackMonths <= 0 {
		cfg.ActivityLookbackMonths = 24
	}
	return &cfg, nil
}
