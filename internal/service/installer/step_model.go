package installer

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

var suggestedModels = map[string][]string{
	"openai":     {"gpt-5", "gpt-5-mini", "gpt-4.1", "gpt-4o-mini"},
	"anthropic":  {"claude-sonnet-4-5", "claude-opus-4-1", "claude-haiku-4-5"},
	"openrouter": {"openai/gpt-5", "anthropic/claude-sonnet-4.5", "google/gemini-2.5-flash", "meta-llama/llama-3.3-70b-instruct"},
	"ollama":     {"llama3.1", "qwen2.5", "mistral-nemo", "gemma2"},
}

// ModelStep offers the known models of the chosen provider.
type ModelStep struct {
	list list.Model
}

func NewModelStep() Step {
	l := list.New([]list.Item{}, list.NewDefaultDelegate(), 0, 0)
	l.Title = "Select AI Model"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.Styles.Title = titleStyle

	return &ModelStep{list: l}
}

func (s *ModelStep) Skip(state *InstallState) bool {
	return len(suggestedModels[provider(state)]) == 0
}

func (s *ModelStep) Init(state *InstallState) tea.Cmd {
	var items []list.Item
	for _, id := range suggestedModels[provider(state)] {
		items = append(items, item{id: id, title: id, desc: fmt.Sprintf("Provider: %s", provider(state))})
	}
	return s.list.SetItems(items)
}

func (s *ModelStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	// Update list size
	s.list.SetSize(width, height-4)

	var cmd tea.Cmd
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "enter" {
		wasFiltering := s.list.FilterState() == list.Filtering
		s.list, cmd = s.list.Update(msg)

		if wasFiltering || s.list.FilterState() == list.Filtering {
			return s, cmd
		}

		if i, ok := s.list.SelectedItem().(item); ok {
			state.Provider.Model = i.id
			return nil, nil
		}
		return s, cmd
	}

	s.list, cmd = s.list.Update(msg)
	return s, cmd
}

func (s *ModelStep) View(state *InstallState) string {
	return s.list.View()
}
