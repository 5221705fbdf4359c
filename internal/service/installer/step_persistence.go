package installer

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
)

// SaveEnvStep writes the collected configuration to the .env file
type SaveEnvStep struct {
	path  string
	err   error
	saved bool
}

func NewSaveEnvStep(path string) Step {
	return &SaveEnvStep{path: path}
}

func (s *SaveEnvStep) Init(state *InstallState) tea.Cmd {
	return func() tea.Msg { return nextMsg{} }
}

func (s *SaveEnvStep) Update(msg tea.Msg, state *InstallState, width, height int) (Step, tea.Cmd) {
	if s.saved {
		return nil, nil
	}

	// Perform save synchronously (fast operation)
	if err := SaveEnv(s.path, state); err != nil {
		s.err = err
		return s, nil
	}

	s.saved = true
	return nil, nil // Signal completion
}

func (s *SaveEnvStep) View(state *InstallState) string {
	if s.err != nil {
		return errorStyle.Render(fmt.Sprintf("Error: %v", s.err)) + "\n\n(press ctrl+c to quit)\n"
	}
	if s.saved {
		return "Configuration saved successfully!\n"
	}
	return "Saving configuration...\n"
}

// SaveEnv writes state to path and refuses to overwrite an existing file.
func SaveEnv(path string, state *InstallState) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create runtime directory: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf(".env file already exists at %s", path)
	}

	content, err := state.Render()
	if err != nil {
		return err
	}
	return os.WriteFile(path, []byte(content), 0600)
}
