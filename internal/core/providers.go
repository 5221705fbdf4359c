package core

import "context"

// Completer turns an ordered prompt into text. It may return an empty string.
type Completer interface {
	Complete(ctx context.Context, prompt []Instruction) (string, error)
}

type PolicySource interface {
	Policy() Policy
}
