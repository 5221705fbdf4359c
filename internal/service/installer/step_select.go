package installer

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

type choice struct {
	label string
	value string
}

// SelectStep lets the user pick one of a fixed set of choices.
type SelectStep struct {
	title   string
	choices []choice
	cursor  int
	apply   func(state *InstallState, value string)
}

func NewProviderStep() Step {
	return &SelectStep{
		title: "Select your AI Provider:",
		choices: []choice{
			{"OpenAI", "openai"},
			{"Anthropic", "anthropic"},
			{"OpenRouter", "openrouter"},
			{"Ollama", "ollama"},
			{"Custom (OpenAI-compatible)", "custom"},
		},
		apply: func(state *InstallState, v string) { state.Provider.Provider = v },
	}
}

func NewPolicyStep() Step {
	return &SelectStep{
		title: "Allow PG-13 flirtation?",
		choices: []choice{
			{"Yes", "true"},
			{"No", "false"},
		},
		apply: func(state *InstallState, v string) { state.Policy.AllowFlirt = v == "true" },
	}
}

func NewChannelStep() Step {
	return &SelectStep{
		title: "Select your Chat Channels:",
		choices: []choice{
			{"HTTP API", "http"},
			{"HTTP API + Telegram", "http+telegram"},
			{"Telegram only", "telegram"},
		},
		apply: func(state *InstallState, v string) {
			state.App.EnableHTTP = strings.Contains(v, "http")
			state.App.EnableTelegram = strings.Contains(v, "telegram")
		},
	}
}

func (s *SelectStep) Init(state *InstallState) tea.Cmd {
	return nil
}

func (s *SelectStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if s.cursor > 0 {
				s.cursor--
			}
		case "down", "j":
			if s.cursor < len(s.choices)-1 {
				s.cursor++
			}
		case "enter":
			s.apply(state, s.choices[s.cursor].value)
			return nil, nil
		}
	}
	return s, nil
}

func (s *SelectStep) View(state *InstallState) string {
	var b strings.Builder
	b.WriteString(s.title + "\n\n")
	for i, c := range s.choices {
		if s.cursor == i {
			b.WriteString(selStyle.Render(fmt.Sprintf("> %s", c.label)) + "\n")
		} else {
			b.WriteString(itemStyle.Render(fmt.Sprintf("  %s", c.label)) + "\n")
		}
	}
	b.WriteString("\n(press ctrl+c to quit)\n")
	return b.String()
}
