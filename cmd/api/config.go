package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/fastprodman/finrecon/internal/config"
)

type apiConfig struct {
	Port            uint16        `env:"APP_PORT" default:"8080"`
	LogLevel        slog.Level    `env:"APP_LOG_LEVEL" default:"INFO"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" default:"15s"`
	RequestTimeout  time.Duration `env:"APP_REQUEST_TIMEOUT" default:"60s"`
	CORSOrigins     []string      `env:"CORS_ALLOWED_ORIGINS" default:""`

	Postgres config.PostgresConfig
	Recon    config.ReconConfig
	Redis    config.RedisConfig
	AMQP     config.AMQPConfig
}

func (c *apiConfig) location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Recon.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Recon.Timezone, err)
	}

	return loc, nil
}
