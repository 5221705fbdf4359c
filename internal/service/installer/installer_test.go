package installer

import (
	"os"
	"path/filepath"
	"testing"

	cenv "github.com/caarlos0/env/v11"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"
	"github.com/sandevgo/kinbot/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	enter = tea.KeyMsg{Type: tea.KeyEnter}
	down  = tea.KeyMsg{Type: tea.KeyDown}
)

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

type driver struct {
	t   *testing.T
	m   model
	cmd tea.Cmd
}

func (d *driver) send(msgs ...tea.Msg) {
	d.t.Helper()
	for _, msg := range msgs {
		next, cmd := d.m.Update(msg)
		d.m = next.(model)
		d.cmd = cmd
	}
}

func TestWizard_TelegramFlow(t *testing.T) {
	envPath := filepath.Join(t.TempDir(), ".env")
	d := &driver{t: t, m: newModel(getSteps(envPath))}
	d.m.Init()

	d.send(tea.WindowSizeMsg{Width: 80, Height: 40})
	d.send(down, enter)              // anthropic
	d.send(typed("sk-ant-1"), enter) // api key
	d.send(enter)                    // first suggested model
	d.send(down, enter)              // no flirtation
	d.send(down, enter)              // http + telegram
	d.send(typed("123:abc"), enter)  // bot token
	d.send(typed("x"), enter)        // invalid owner id stays on the step
	assert.NotNil(t, d.m.steps[d.m.currentStep].(*InputStep).err)
	d.send(tea.KeyMsg{Type: tea.KeyBackspace}, typed("42"), enter)
	d.send(typed("c1"), enter) // companion
	d.send(enter)              // generated job token

	require.NotNil(t, d.cmd)
	d.send(d.cmd()) // save step runs on its init message

	s := d.m.state
	assert.Equal(t, "anthropic", s.Provider.Provider)
	assert.Equal(t, "sk-ant-1", s.Provider.AnthropicAPIKey)
	assert.Equal(t, "claude-sonnet-4-5", s.Provider.Model)
	assert.False(t, s.Policy.AllowFlirt)
	assert.True(t, s.App.EnableHTTP)
	assert.True(t, s.App.EnableTelegram)
	assert.Equal(t, int64(42), s.Telegram.OwnerID)
	assert.Equal(t, "c1", s.Telegram.CompanionID)
	assert.NotEmpty(t, s.HTTP.JobToken)
	assert.Equal(t, len(d.m.steps), d.m.currentStep)

	vars, err := godotenv.Read(envPath)
	require.NoError(t, err)
	assert.Equal(t, "false", vars["ALLOW_FLIRT"])
	assert.Equal(t, "123:abc", vars["TELEGRAM_TOKEN"])

	var tg config.TelegramConfig
	require.NoError(t, cenv.ParseWithOptions(&tg, cenv.Options{Environment: vars}))
	assert.Equal(t, int64(42), tg.OwnerID)

	var policy config.PolicyConfig
	require.NoError(t, cenv.ParseWithOptions(&policy, cenv.Options{Environment: vars}))
	assert.False(t, policy.AllowFlirt)
}

func TestWizard_SkipsProviderSpecificSteps(t *testing.T) {
	d := &driver{t: t, m: newModel(getSteps(filepath.Join(t.TempDir(), ".env")))}

	d.send(enter) // openai
	_, isAPIKey := d.m.steps[d.m.currentStep].(*InputStep)
	assert.True(t, isAPIKey)
	assert.Equal(t, 3, d.m.currentStep)

	d.send(enter) // empty key is rejected for openai
	assert.Equal(t, 3, d.m.currentStep)
}

func TestRender_OmitsTelegramWhenDisabled(t *testing.T) {
	s := NewInstallState()
	s.Telegram.Token = "secret"

	out, err := s.Render()
	require.NoError(t, err)
	assert.NotContains(t, out, "TELEGRAM_TOKEN")
	assert.Contains(t, out, "ALLOW_FLIRT=true\n")
	assert.Contains(t, out, "LLM_PROVIDER=openai\n")
	assert.Contains(t, out, "RECAP_SCHEDULE=0 3 * * 1\n")
}

func TestSaveEnv_RefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ".env")
	require.NoError(t, SaveEnv(path, NewInstallState()))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	assert.Error(t, SaveEnv(path, NewInstallState()))
}
