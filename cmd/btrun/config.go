package main

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// envConfig holds flag defaults taken from the environment. Explicit flags
// win over the environment.
type envConfig struct {
	LogLevel    string `env:"BTRUN_LOG_LEVEL" envDefault:"info"`
	LogFormat   string `env:"BTRUN_LOG_FORMAT" envDefault:"console"`
	Ticks       uint64 `env:"BTRUN_TICKS" envDefault:"10000"`
	MetricsAddr string `env:"BTRUN_METRICS_ADDR"`
}

func loadEnv() (envConfig, error) {
	var cfg envConfig
	if err := env.Parse(&cfg); err != nil {
		return envConfig{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
