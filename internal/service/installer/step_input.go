package installer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// InputStep collects one free-text answer.
type InputStep struct {
	input textinput.Model
	title string
	// defaultValue is used when the user submits an empty line.
	defaultValue func(state *InstallState) string
	skip         func(state *InstallState) bool
	apply        func(state *InstallState, value string) error
	err          error
}

func newInput(placeholder string, secret bool) textinput.Model {
	ti := textinput.New()
	ti.Focus()
	ti.CharLimit = 255
	ti.Width = 50
	ti.Placeholder = placeholder
	if secret {
		ti.EchoMode = textinput.EchoPassword
		ti.EchoCharacter = '*'
	}
	return ti
}

func provider(state *InstallState) string {
	return state.Provider.Provider
}

func NewCustomURLStep() Step {
	return &InputStep{
		input: newInput("https://api.example.com", false),
		title: "Enter Custom OpenAI-compatible Base URL",
		skip:  func(s *InstallState) bool { return provider(s) != "custom" },
		apply: func(s *InstallState, v string) error {
			if v == "" {
				return fmt.Errorf("base URL is required")
			}
			s.Provider.CustomOpenAIBaseURL = v
			return nil
		},
	}
}

func NewOllamaURLStep() Step {
	return &InputStep{
		input:        newInput("http://localhost:11434", false),
		title:        "Enter Ollama Base URL",
		defaultValue: func(*InstallState) string { return "http://localhost:11434" },
		skip:         func(s *InstallState) bool { return provider(s) != "ollama" },
		apply: func(s *InstallState, v string) error {
			s.Provider.OllamaBaseURL = v
			return nil
		},
	}
}

// NewAPIKeyStep writes the key into the field matching the chosen provider.
func NewAPIKeyStep() Step {
	return &InputStep{
		input: newInput("sk-...", true),
		title: "Enter your API Key (optional for Ollama and custom endpoints)",
		apply: func(s *InstallState, v string) error {
			switch provider(s) {
			case "openai":
				s.Provider.OpenAIAPIKey = v
			case "anthropic":
				s.Provider.AnthropicAPIKey = v
			case "openrouter":
				s.Provider.OpenRouterAPIKey = v
			case "ollama":
				s.Provider.OllamaAPIKey = v
				return nil
			case "custom":
				s.Provider.CustomOpenAIAPIKey = v
				return nil
			}
			if v == "" {
				return fmt.Errorf("API key is required")
			}
			return nil
		},
	}
}

func NewCustomModelStep() Step {
	return &InputStep{
		input: newInput("model-name", false),
		title: "Enter the model name",
		skip:  func(s *InstallState) bool { return provider(s) != "custom" },
		apply: func(s *InstallState, v string) error {
			if v == "" {
				return fmt.Errorf("model is required")
			}
			s.Provider.Model = v
			return nil
		},
	}
}

func telegramDisabled(s *InstallState) bool {
	return !s.App.EnableTelegram
}

func NewTelegramTokenStep() Step {
	return &InputStep{
		input: newInput("123456789:ABCDEF...", true),
		title: "Enter your Telegram Bot Token",
		skip:  telegramDisabled,
		apply: func(s *InstallState, v string) error {
			if v == "" {
				return fmt.Errorf("token is required")
			}
			s.Telegram.Token = v
			return nil
		},
	}
}

func NewTelegramOwnerStep() Step {
	return &InputStep{
		input: newInput("123456789", false),
		title: "Enter your Telegram User ID (Owner)",
		skip:  telegramDisabled,
		apply: func(s *InstallState, v string) error {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil || id <= 0 {
				return fmt.Errorf("owner ID must be a positive number")
			}
			s.Telegram.OwnerID = id
			return nil
		},
	}
}

func NewTelegramCompanionStep() Step {
	return &InputStep{
		input: newInput("companion id from 'kin companion create'", false),
		title: "Enter the Companion ID Telegram should talk to",
		skip:  telegramDisabled,
		apply: func(s *InstallState, v string) error {
			if v == "" {
				return fmt.Errorf("companion ID is required")
			}
			s.Telegram.CompanionID = v
			return nil
		},
	}
}

func NewJobTokenStep() Step {
	generated := uuid.NewString()
	return &InputStep{
		input:        newInput(generated, true),
		title:        "Enter a token for the recap job endpoints (empty to generate)",
		defaultValue: func(*InstallState) string { return generated },
		skip:         func(s *InstallState) bool { return !s.App.EnableHTTP },
		apply: func(s *InstallState, v string) error {
			s.HTTP.JobToken = v
			return nil
		},
	}
}

func (s *InputStep) Skip(state *InstallState) bool {
	return s.skip != nil && s.skip(state)
}

func (s *InputStep) Init(state *InstallState) tea.Cmd {
	return textinput.Blink
}

func (s *InputStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)

	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		val := strings.TrimSpace(s.input.Value())
		if val == "" && s.defaultValue != nil {
			val = s.defaultValue(state)
		}
		if err := s.apply(state, val); err != nil {
			s.err = err
			return s, cmd
		}
		return nil, nil
	}
	return s, cmd
}

func (s *InputStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + ":\n\n" + s.input.View() + "\n\n")
	if s.err != nil {
		b.WriteString(errorStyle.Render(s.err.Error()) + "\n\n")
	}
	b.WriteString("(press enter to confirm)\n")
	return b.String()
}
