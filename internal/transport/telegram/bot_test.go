package telegram

import (
	"errors"
	"fmt"
	"testing"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/stretchr/testify/assert"
)

func TestUserID(t *testing.T) {
	assert.Equal(t, "telegram-42", userID(42))
}

func TestUserFacingError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "not found", err: fmt.Errorf("load: %w", core.ErrNotFound), want: "companion not found, check TELEGRAM_COMPANION_ID"},
		{name: "completion", err: fmt.Errorf("%w: timeout", core.ErrCompletion), want: "the model did not answer, please try again"},
		{name: "other", err: errors.New("disk full"), want: "error: disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, userFacingError(tt.err))
		})
	}
}
