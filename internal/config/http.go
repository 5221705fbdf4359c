package config

import (
	"context"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/kinbot/pkg/log"
)

type HTTPConfig struct {
	Addr         string        `env:"HTTP_ADDR" envDefault:":8080"`
	JobToken     string        `env:"JOB_TOKEN"`
	ReadTimeout  time.Duration `env:"HTTP_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout time.Duration `env:"HTTP_WRITE_TIMEOUT"`
}

// writeTimeoutSlack covers backoff between attempts and the store writes
// around the completion.
const writeTimeoutSlack = 30 * time.Second

// ResolveWriteTimeout fills an unset write timeout so a chat turn that uses
// every completion attempt still gets its response written.
func (c *HTTPConfig) ResolveWriteTimeout(llmTimeout time.Duration, attempts int) {
	if c.WriteTimeout > 0 {
		return
	}
	if attempts < 1 {
		attempts = 1
	}
	c.WriteTimeout = llmTimeout*time.Duration(attempts) + writeTimeoutSlack
}

func NewHTTPConfig(ctx context.Context) *HTTPConfig {
	c := &HTTPConfig{}
	if err := env.Parse(c); err != nil {
		log.FromCtx(ctx).Fatal().Err(err).Msg("failed to parse HTTP config")
	}
	return c
}
