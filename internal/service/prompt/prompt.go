package prompt

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sandevgo/kinbot/internal/core"
)

const recapDirective = `Summarize the conversation into 1-2 short paragraphs focusing on:
- relationship context (PG-13)
- user preferences
- notable moments
Avoid sensitive personal data unless clearly provided and relevant.`

// ChatInput is everything a chat prompt is built from.
// History must already be oldest first and Memories already ranked.
type ChatInput struct {
	Policy      core.Policy
	Memories    []core.Memory
	Companion   core.Companion
	History     []core.Message
	UserMessage string
}

type memoryFact struct {
	Key        string `json:"key"`
	Value      string `json:"value"`
	Importance int    `json:"importance"`
}

// ComposeChat returns the system directive, the history and the new user message, in that order.
func ComposeChat(in ChatInput) []core.Instruction {
	out := make([]core.Instruction, 0, len(in.History)+2)
	out = append(out, core.Instruction{Role: core.RoleSystem, Content: chatDirective(in)})
	for _, m := range in.History {
		out = append(out, core.Instruction{Role: m.Role, Content: m.Content})
	}
	return append(out, core.Instruction{Role: core.RoleUser, Content: in.UserMessage})
}

// ComposeRecap returns the summary directive followed by every message in the given order.
func ComposeRecap(messages []core.Message) []core.Instruction {
	out := make([]core.Instruction, 0, len(messages)+1)
	out = append(out, core.Instruction{Role: core.RoleSystem, Content: recapDirective})
	for _, m := range messages {
		out = append(out, core.Instruction{Role: m.Role, Content: m.Content})
	}
	return out
}

func chatDirective(in ChatInput) string {
	facts := make([]memoryFact, 0, len(in.Memories))
	for _, m := range in.Memories {
		facts = append(facts, memoryFact{Key: m.Key, Value: m.Value, Importance: m.Importance})
	}

	persona := in.Companion.Persona
	if persona == nil {
		persona = map[string]any{}
	}

	lines := []string{
		"You are an AI companion. Be warm, consistent, and respectful.",
		"Never claim to be human. Do not encourage emotional dependency or exclusivity.",
		"Avoid guilt, threats, or pressure to keep the user chatting.",
		"If asked for adult/explicit content and ALLOW_ADULT is false, politely refuse and offer PG-13 alternatives.",
		fmt.Sprintf("Flirtation is %s (PG-13).", allowed(in.Policy.AllowFlirtation)),
		fmt.Sprintf("Adult explicit content is %s.", allowed(in.Policy.AllowAdultContent)),
		"User-editable memories (facts and preferences): " + toJSON(facts, "[]"),
		"Companion persona: " + toJSON(persona, "{}"),
		fmt.Sprintf("Tone level (0..100): %d", in.Companion.ToneLevel),
	}
	return strings.Join(lines, "\n")
}

func allowed(ok bool) string {
	if ok {
		return "allowed"
	}
	return "not allowed"
}

// toJSON keeps <, > and & literal; map keys come out sorted.
func toJSON(v any, fallback string) string {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return fallback
	}
	return strings.TrimSuffix(buf.String(), "\n")
}
