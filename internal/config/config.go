package config

import "time"

type PostgresConfig struct {
	DSN             string        `env:"PG_DSN"`
	MaxOpenConns    int           `env:"PG_MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns    int           `env:"PG_MAX_IDLE_CONNS" default:"5"`
	ConnMaxIdleTime time.Duration `env:"PG_CONN_MAX_IDLE_TIME" default:"5m"`
	ConnMaxLifetime time.Duration `env:"PG_CONN_MAX_LIFETIME" default:"30m"`
}

type ReconConfig struct {
	// PageSize is the keyset page size used for every source table scan.
	PageSize int `env:"RECON_PAGE_SIZE" default:"5000"`
	// MaxRows caps each table scan; 0 scans everything.
	MaxRows int `env:"RECON_MAX_ROWS" default:"0"`
	// Workers bounds per-wallet fold parallelism; 0 uses GOMAXPROCS.
	Workers int `env:"RECON_WORKERS" default:"0"`

	Schedule   string        `env:"RECON_SCHEDULE" default:"@every 30s"`
	RunTimeout time.Duration `env:"RECON_RUN_TIMEOUT" default:"25s"`
	Presets    []string      `env:"RECON_PRESETS" default:"all_time,today,last_30_days"`
	Timezone   string        `env:"BUSINESS_TIMEZONE" default:"America/Sao_Paulo"`
}

// RedisConfig enables the shared snapshot cache when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" default:""`
	Password string        `env:"REDIS_PASSWORD" default:""`
	DB       int           `env:"REDIS_DB" default:"0"`
	TTL      time.Duration `env:"REDIS_SNAPSHOT_TTL" default:"0s"`
}

// AMQPConfig enables alert publishing when URL is set.
type AMQPConfig struct {
	URL      string `env:"AMQP_URL" default:""`
	Exchange string `env:"AMQP_EXCHANGE" default:"finance"`
}
