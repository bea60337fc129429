package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Options are the server process settings, loaded from environment
// variables.
type Options struct {
	Addr             string        `env:"ADDR" envDefault:":8080"`
	DataDir          string        `env:"DATA_DIR" envDefault:"data"`
	BalanceFile      string        `env:"BALANCE_FILE"`
	DBPath           string        `env:"DB_PATH"`
	RecoveryInterval time.Duration `env:"RECOVERY_INTERVAL" envDefault:"60s"`
}

// OptionsFromEnv parses Options from the process environment.
func OptionsFromEnv() (Options, error) {
	var o Options
	if err := env.Parse(&o); err != nil {
		return Options{}, fmt.Errorf("parse env: %w", err)
	}
	return o, nil
}
