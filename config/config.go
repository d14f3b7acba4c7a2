// Package config loads server settings from the environment.
package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Server holds the duel server settings. Flags layered on top of these
// values override them per invocation.
type Server struct {
	Addr      string `env:"CANNONADE_ADDR"       envDefault:":8080"`
	ClientDir string `env:"CANNONADE_CLIENT_DIR"`
	DBPath    string `env:"CANNONADE_DB"         envDefault:"cannonade.db"`
	NoQR      bool   `env:"CANNONADE_NO_QR"      envDefault:"false"`
}

// Load parses server settings from environment variables.
func Load() (Server, error) {
	var cfg Server
	if err := env.Parse(&cfg); err != nil {
		return Server{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}
