package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/sandevgo/kinbot/internal/core"
)

type PolicyConfig struct {
	AllowFlirt bool `env:"ALLOW_FLIRT" envDefault:"true"`
	AllowAdult bool `env:"ALLOW_ADULT" envDefault:"false"`
}

// EnvPolicy re-reads the content flags from the environment on every call,
// so a changed flag applies to the next turn without a restart.
type EnvPolicy struct {
	// Lookup overrides os.LookupEnv when set.
	Lookup func(string) (string, bool)
}

func NewEnvPolicy() *EnvPolicy {
	return &EnvPolicy{}
}

func (p *EnvPolicy) Policy() core.Policy {
	c := PolicyConfig{}
	opts := env.Options{}
	if p.Lookup != nil {
		opts.Environment = lookupEnvironment(p.Lookup)
	}
	if err := env.ParseWithOptions(&c, opts); err != nil {
		// malformed flags fall back to the safe defaults
		return core.Policy{AllowFlirtation: true, AllowAdultContent: false}
	}
	return core.Policy{
		AllowFlirtation:   c.AllowFlirt,
		AllowAdultContent: c.AllowAdult,
	}
}

func lookupEnvironment(lookup func(string) (string, bool)) map[string]string {
	vars := make(map[string]string)
	for _, key := range []string{"ALLOW_FLIRT", "ALLOW_ADULT"} {
		if v, ok := lookup(key); ok {
			vars[key] = v
		}
	}
	return vars
}
