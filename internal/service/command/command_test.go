package command

import (
	"context"
	"testing"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/sandevgo/kinbot/internal/service/companion"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCompanions struct {
	tone       int
	remembered []core.Memory
}

func (f *fakeCompanions) Get(ctx context.Context, id string) (companion.Profile, error) {
	if id != "c1" {
		return companion.Profile{}, core.ErrNotFound
	}
	return companion.Profile{
		Companion: core.Companion{ID: id, Name: "Mira", ToneLevel: f.tone},
		Memories:  f.remembered,
	}, nil
}

func (f *fakeCompanions) SetTone(ctx context.Context, id string, tone int) (core.Companion, error) {
	if err := core.ValidateLevel("toneLevel", tone); err != nil {
		return core.Companion{}, err
	}
	f.tone = tone
	return core.Companion{ID: id, ToneLevel: tone}, nil
}

func (f *fakeCompanions) Remember(ctx context.Context, companionID, key, value string, importance *int) (core.Memory, error) {
	m := core.Memory{CompanionID: companionID, Key: key, Value: value, Importance: core.DefaultImportance}
	if importance != nil {
		m.Importance = *importance
	}
	f.remembered = append(f.remembered, m)
	return m, nil
}

func newTestRouter() (*Router, *fakeCompanions) {
	f := &fakeCompanions{tone: 20}
	return New(NewCommands(f)), f
}

func TestRouter_NotACommand(t *testing.T) {
	r, _ := newTestRouter()
	_, handled := r.Execute(context.Background(), "c1", "hello there")
	assert.False(t, handled)
}

func TestRouter_UnknownCommand(t *testing.T) {
	r, _ := newTestRouter()
	out, handled := r.Execute(context.Background(), "c1", "/dance")
	assert.True(t, handled)
	assert.Equal(t, "Unknown command: /dance", out)
}

func TestRouter_Help(t *testing.T) {
	r, _ := newTestRouter()
	out, handled := r.Execute(context.Background(), "c1", "/help")
	require.True(t, handled)
	assert.Contains(t, out, "/profile")
	assert.Contains(t, out, "/remember")
	assert.Contains(t, out, "/tone")
}

func TestTone(t *testing.T) {
	r, f := newTestRouter()

	out, _ := r.Execute(context.Background(), "c1", "/tone")
	assert.Contains(t, out, "`20`")

	out, _ = r.Execute(context.Background(), "c1", "/tone@kin_bot 70")
	assert.Contains(t, out, "Tone set to 70")
	assert.Equal(t, 70, f.tone)

	out, _ = r.Execute(context.Background(), "c1", "/tone 150")
	assert.Contains(t, out, "/tone failed")
	assert.Equal(t, 70, f.tone)

	out, _ = r.Execute(context.Background(), "c1", "/tone loud")
	assert.Contains(t, out, "/tone failed")
}

func TestRemember(t *testing.T) {
	tests := []struct {
		name           string
		input          string
		wantKey        string
		wantValue      string
		wantImportance int
	}{
		{name: "simple", input: "/remember color blue", wantKey: "color", wantValue: "blue", wantImportance: core.DefaultImportance},
		{name: "multi word", input: "/remember birthday March 3rd", wantKey: "birthday", wantValue: "March 3rd", wantImportance: core.DefaultImportance},
		{name: "importance", input: "/remember birthday March 3rd !90", wantKey: "birthday", wantValue: "March 3rd", wantImportance: 90},
		{name: "bang value without importance slot", input: "/remember mood !90", wantKey: "mood", wantValue: "!90", wantImportance: core.DefaultImportance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, f := newTestRouter()
			_, handled := r.Execute(context.Background(), "c1", tt.input)
			require.True(t, handled)
			require.Len(t, f.remembered, 1)
			assert.Equal(t, tt.wantKey, f.remembered[0].Key)
			assert.Equal(t, tt.wantValue, f.remembered[0].Value)
			assert.Equal(t, tt.wantImportance, f.remembered[0].Importance)
		})
	}
}

func TestRemember_Usage(t *testing.T) {
	r, f := newTestRouter()
	out, _ := r.Execute(context.Background(), "c1", "/remember color")
	assert.Contains(t, out, "Usage")
	assert.Empty(t, f.remembered)
}

func TestProfile(t *testing.T) {
	r, _ := newTestRouter()

	out, _ := r.Execute(context.Background(), "c1", "/profile")
	assert.Contains(t, out, "Mira")
	assert.Contains(t, out, "nothing yet")

	r.Execute(context.Background(), "c1", "/remember color blue")
	out, _ = r.Execute(context.Background(), "c1", "/profile")
	assert.Contains(t, out, "color: blue (50)")

	out, _ = r.Execute(context.Background(), "missing", "/profile")
	assert.Contains(t, out, "/profile failed")
}
