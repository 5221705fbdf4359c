package config

import (
	"context"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/kinbot/pkg/log"
)

type RecapConfig struct {
	Enabled  bool   `env:"RECAP_ENABLED" envDefault:"true"`
	Schedule string `env:"RECAP_SCHEDULE" envDefault:"0 3 * * 1"`
}

func NewRecapConfig(ctx context.Context) *RecapConfig {
	c := &RecapConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse Recap config")
	}
	return c
}
