package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Service  Service  `envconfig:"SERVICE"`
	Database Database `envconfig:"DATABASE"`
	Subgraph Subgraph `envconfig:"SUBGRAPH"`
	Ingest   Ingest   `envconfig:"INGEST"`
}

type Service struct {
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	APIPort     string `envconfig:"API_PORT" default:"8080"`
	Host        string `envconfig:"HOST" default:"localhost:8080"`
}

type Database struct {
	URL                string `envconfig:"URL" required:"true"`
	MaxOpenConns       int    `envconfig:"MAX_OPEN_CONNS" default:"10"`
	MaxIdleConns       int    `envconfig:"MAX_IDLE_CONNS" default:"5"`
	ConnMaxLifetimeSec int    `envconfig:"CONN_MAX_LIFETIME_SEC" default:"3600"`
	AutoMigrate        bool   `envconfig:"AUTO_MIGRATE" default:"false"`
}

// Subgraph holds one query endpoint per supported chain. An empty value
// means the chain is recognized but cannot be seeded.
type Subgraph struct {
	EthereumMainnet string `envconfig:"ETHEREUM_MAINNET_API"`
	EthereumGoerli  string `envconfig:"ETHEREUM_GOERLI_API"`
	OptimismMainnet string `envconfig:"OPTIMISM_MAINNET_API"`
	FantomMainnet   string `envconfig:"FANTOM_MAINNET_API"`
	FantomTestnet   string `envconfig:"FANTOM_TESTNET_API"`
	TimeoutSec      int    `envconfig:"TIMEOUT_SEC" default:"30"`
}

type Ingest struct {
	PageSize  int `envconfig:"PAGE_SIZE" default:"1000"`
	BatchSize int `envconfig:"BATCH_SIZE" default:"1000"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	if cfg.Ingest.PageSize <= 0 {
		return nil, fmt.Errorf("INGEST_PAGE_SIZE must be positive, got %d", cfg.Ingest.PageSize)
	}
	if cfg.Ingest.BatchSize <= 0 {
		return nil, fmt.Errorf("INGEST_BATCH_SIZE must be positive, got %d", cfg.Ingest.BatchSize)
	}

	return &cfg, nil
}
