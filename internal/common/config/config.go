package config

import (
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
)

type Config struct {
	Debug bool `env:"DEBUG" envDefault:"false"`

	Server struct {
		Port   int    `env:"PORT" envDefault:"8080"`
		Origin string `env:"ORIGIN" envDefault:"http://localhost:3000"`
	}

	Redis RedisConfig

	PaymentsAPI struct {
		BaseURL string `env:"PAYMENTS_API_URL" envDefault:"https://qe-api.services.staging.cloudwalk.network"`
		// Zero leaves the transport default in place.
		Timeout   time.Duration `env:"PAYMENTS_API_TIMEOUT" envDefault:"0s"`
		StoreName string        `env:"RECEIPT_STORE_NAME" envDefault:"Loja Exemplo"`
	}

	Receipt struct {
		UserCacheTTL time.Duration `env:"RECEIPT_USER_CACHE_TTL" envDefault:"1m"`
	}

	Directory struct {
		Path string `env:"DIRECTORY_PATH" envDefault:"data/users.json"`
	}

	Session struct {
		TTL          time.Duration `env:"SESSION_TTL" envDefault:"24h"`
		PollInterval time.Duration `env:"POLL_INTERVAL" envDefault:"5s"`
		PollCooldown time.Duration `env:"POLL_COOLDOWN" envDefault:"3s"`
	}

	Workers struct {
		BalanceSyncStream string `env:"BALANCE_SYNC_STREAM" envDefault:"ledger:balance-sync"`
		BalanceSyncGroup  string `env:"BALANCE_SYNC_GROUP" envDefault:"balance_sync_workers"`
	}
}

type RedisConfig struct {
	Host     string `env:"REDIS_HOST" envDefault:"localhost"`
	Port     int    `env:"REDIS_PORT" envDefault:"6379"`
	Password string `env:"REDIS_PASSWORD" envDefault:""`
	DB       int    `env:"REDIS_DB" envDefault:"0"`
}

func Load() *Config {
	// .env is optional; production sets variables directly
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		panic(err)
	}

	return cfg
}
