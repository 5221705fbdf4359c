package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/kinbot/internal/core"
)

const anthropicMaxTokens = 4096

type Anthropic struct {
	baseProvider
}

func NewAnthropic(apiKey, model string) *Anthropic {
	return &Anthropic{
		baseProvider: newBaseProvider("https://api.anthropic.com", apiKey, model),
	}
}

// Complete lifts system instructions into the top-level system field, which
// is where the Messages API expects them. Blank turns are dropped: the API
// rejects empty content, and a stored empty reply would otherwise fail every
// later prompt that includes it.
func (a *Anthropic) Complete(ctx context.Context, prompt []core.Instruction) (string, error) {
	type msg struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	}

	var system []string
	messages := make([]msg, 0, len(prompt))
	for _, m := range prompt {
		if m.Role == core.RoleSystem {
			system = append(system, m.Content)
			continue
		}
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		messages = append(messages, msg{Role: m.Role, Content: m.Content})
	}

	payload := map[string]any{
		"model":      a.model,
		"max_tokens": anthropicMaxTokens,
		"messages":   messages,
	}
	if len(system) > 0 {
		payload["system"] = strings.Join(system, "\n\n")
	}

	headers := map[string]string{
		"x-api-key":         a.apiKey,
		"anthropic-version": "2023-06-01",
	}

	data, err := a.postJSON(ctx, "/v1/messages", payload, headers)
	if err != nil {
		return "", err
	}

	var result struct {
		Content []struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return "", fmt.Errorf("decode: %w", err)
	}

	var text strings.Builder
	for _, c := range result.Content {
		if c.Type == "text" {
			text.WriteString(c.Text)
		}
	}
	return text.String(), nil
}
