package installer

import (
	"github.com/sandevgo/kinbot/internal/config"
	"github.com/sandevgo/kinbot/pkg/env"
)

// InstallState collects the answers as the config structs the runtime parses,
// so the written .env round-trips through the same env tags.
type InstallState struct {
	App      config.AppConfig
	Provider config.ProviderConfig
	Policy   config.PolicyConfig
	HTTP     config.HTTPConfig
	Recap    config.RecapConfig
	Telegram config.TelegramConfig
}

func NewInstallState() *InstallState {
	return &InstallState{
		App:      config.AppConfig{EnableHTTP: true},
		Provider: config.ProviderConfig{Provider: "openai"},
		Policy:   config.PolicyConfig{AllowFlirt: true},
		HTTP:     config.HTTPConfig{Addr: ":8080"},
		Recap:    config.RecapConfig{Enabled: true, Schedule: "0 3 * * 1"},
	}
}

// Render returns the .env content for the collected answers.
func (s *InstallState) Render() (string, error) {
	configs := []any{&s.App, &s.Provider, &s.Policy, &s.HTTP, &s.Recap}
	if s.App.EnableTelegram {
		configs = append(configs, &s.Telegram)
	}
	return env.MarshalEnv(configs...)
}
