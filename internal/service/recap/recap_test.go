package recap

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/sandevgo/kinbot/internal/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

type fakeStore struct {
	companions map[string]bool
	messages   map[string][]core.Message
	recaps     []core.Recap
	failLoad   map[string]error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		companions: map[string]bool{},
		messages:   map[string][]core.Message{},
		failLoad:   map[string]error{},
	}
}

// seed adds a companion with n messages one minute apart.
func (s *fakeStore) seed(companionID string, n int) {
	s.companions[companionID] = true
	for i := 0; i < n; i++ {
		role := core.RoleUser
		if i%2 == 1 {
			role = core.RoleAssistant
		}
		s.messages[companionID] = append(s.messages[companionID], core.Message{
			ID:          int64(i + 1),
			UserID:      "u1",
			CompanionID: companionID,
			Role:        role,
			Content:     fmt.Sprintf("%s message %d", companionID, i),
			CreatedAt:   t0.Add(time.Duration(i) * time.Minute),
		})
	}
}

func (s *fakeStore) CreateCompanion(ctx context.Context, c core.Companion) (core.Companion, error) {
	return c, nil
}

func (s *fakeStore) GetCompanion(ctx context.Context, id string) (core.Companion, error) {
	if !s.companions[id] {
		return core.Companion{}, core.ErrNotFound
	}
	return core.Companion{ID: id}, nil
}

func (s *fakeStore) SetToneLevel(ctx context.Context, id string, tone int) (core.Companion, error) {
	return core.Companion{}, nil
}

func (s *fakeStore) ListCompanionIDs(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.companions))
	for id := range s.companions {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func (s *fakeStore) AddMessage(ctx context.Context, userID, companionID, role, content string) (core.Message, error) {
	return core.Message{}, nil
}

func (s *fakeStore) GetRecent(ctx context.Context, userID, companionID string, limit int) ([]core.Message, error) {
	return nil, nil
}

func (s *fakeStore) GetChronological(ctx context.Context, companionID string, limit int) ([]core.Message, error) {
	if err := s.failLoad[companionID]; err != nil {
		return nil, err
	}
	msgs := s.messages[companionID]
	if len(msgs) > limit {
		msgs = msgs[:limit]
	}
	return msgs, nil
}

func (s *fakeStore) AddRecap(ctx context.Context, companionID, summary string, start, end time.Time) (core.Recap, error) {
	rc := core.Recap{
		ID:          fmt.Sprintf("r%d", len(s.recaps)+1),
		CompanionID: companionID,
		Summary:     summary,
		RangeStart:  start,
		RangeEnd:    end,
	}
	s.recaps = append(s.recaps, rc)
	return rc, nil
}

func (s *fakeStore) AddRecapIfAbsent(ctx context.Context, companionID, summary string, start, end time.Time) (core.Recap, bool, error) {
	if _, err := s.FindRecapByRange(ctx, companionID, start, end); err == nil {
		return core.Recap{}, false, nil
	}
	rc, err := s.AddRecap(ctx, companionID, summary, start, end)
	return rc, err == nil, err
}

func (s *fakeStore) FindRecapByRange(ctx context.Context, companionID string, start, end time.Time) (core.Recap, error) {
	for _, rc := range s.recaps {
		if rc.CompanionID == companionID && rc.RangeStart.Equal(start) && rc.RangeEnd.Equal(end) {
			return rc, nil
		}
	}
	return core.Recap{}, core.ErrNotFound
}

type fakeCompleter struct {
	calls   int
	prompts [][]core.Instruction
	err     error
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt []core.Instruction) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return "", f.err
	}
	return "They talked about hiking and coffee.", nil
}

func newTestRecapper(s *fakeStore, ai core.Completer) *Recapper {
	return NewRecapper(s, s, s, ai, nil)
}

func TestRecapOne_Created(t *testing.T) {
	s := newFakeStore()
	s.seed("c1", 25)
	ai := &fakeCompleter{}

	out, err := newTestRecapper(s, ai).RecapOne(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, out.Status)
	require.NotNil(t, out.Recap)
	assert.Equal(t, s.messages["c1"][0].CreatedAt, out.Recap.RangeStart)
	assert.Equal(t, s.messages["c1"][24].CreatedAt, out.Recap.RangeEnd)
	assert.Equal(t, "They talked about hiking and coffee.", out.Recap.Summary)

	require.Len(t, ai.prompts, 1)
	require.Len(t, ai.prompts[0], 26)
	assert.Equal(t, core.RoleSystem, ai.prompts[0][0].Role)
	assert.Equal(t, "c1 message 0", ai.prompts[0][1].Content)
	assert.Equal(t, "c1 message 24", ai.prompts[0][25].Content)
}

func TestRecapOne_InsufficientHistory(t *testing.T) {
	for _, n := range []int{0, 1, MinMessages - 1} {
		t.Run(fmt.Sprintf("%d messages", n), func(t *testing.T) {
			s := newFakeStore()
			s.seed("c1", n)
			ai := &fakeCompleter{}
			r := newTestRecapper(s, ai)

			for i := 0; i < 2; i++ {
				out, err := r.RecapOne(context.Background(), "c1")
				require.NoError(t, err)
				assert.Equal(t, Outcome{Status: StatusSkipped, Reason: ReasonInsufficientHistory}, out)
			}
			assert.Zero(t, ai.calls)
			assert.Empty(t, s.recaps)
		})
	}
}

func TestRecapOne_ExactlyMinimum(t *testing.T) {
	s := newFakeStore()
	s.seed("c1", MinMessages)

	out, err := newTestRecapper(s, &fakeCompleter{}).RecapOne(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, StatusCreated, out.Status)
}

func TestRecapOne_WindowCapped(t *testing.T) {
	s := newFakeStore()
	s.seed("c1", WindowLimit+40)

	out, err := newTestRecapper(s, &fakeCompleter{}).RecapOne(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, s.messages["c1"][WindowLimit-1].CreatedAt, out.Recap.RangeEnd)
}

func TestRecapOne_DoesNotDeduplicate(t *testing.T) {
	s := newFakeStore()
	s.seed("c1", 25)
	r := newTestRecapper(s, &fakeCompleter{})

	for i := 0; i < 2; i++ {
		out, err := r.RecapOne(context.Background(), "c1")
		require.NoError(t, err)
		assert.Equal(t, StatusCreated, out.Status)
	}
	assert.Len(t, s.recaps, 2)
}

func TestRecapOne_UnknownCompanion(t *testing.T) {
	ai := &fakeCompleter{}
	_, err := newTestRecapper(newFakeStore(), ai).RecapOne(context.Background(), "missing")
	require.ErrorIs(t, err, core.ErrNotFound)
	assert.Zero(t, ai.calls)
}

func TestRecapOne_CompletionFailure(t *testing.T) {
	s := newFakeStore()
	s.seed("c1", 25)

	_, err := newTestRecapper(s, &fakeCompleter{err: errors.New("timeout")}).RecapOne(context.Background(), "c1")
	require.ErrorIs(t, err, core.ErrCompletion)
	assert.Empty(t, s.recaps)
}

func TestRecapAll_Idempotent(t *testing.T) {
	s := newFakeStore()
	s.seed("a", 25)
	s.seed("b", 30)
	s.seed("c", 5)
	ai := &fakeCompleter{}
	r := newTestRecapper(s, ai)

	first, err := r.RecapAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Created: 2, Skipped: 1, Failed: 0, Total: 3}, first)

	second, err := r.RecapAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Created: 0, Skipped: 3, Failed: 0, Total: 3}, second)
	assert.Len(t, s.recaps, 2)
	// duplicates are detected before the completion call
	assert.Equal(t, 2, ai.calls)
}

func TestRecapAll_FailureIsolation(t *testing.T) {
	s := newFakeStore()
	s.seed("a", 25)
	s.seed("b", 25)
	s.seed("c", 25)
	s.failLoad["b"] = errors.New("disk I/O error")

	res, err := newTestRecapper(s, &fakeCompleter{}).RecapAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Created: 2, Skipped: 0, Failed: 1, Total: 3}, res)
	assert.Len(t, s.recaps, 2)
}

func TestRecapAll_NoCompanions(t *testing.T) {
	res, err := newTestRecapper(newFakeStore(), &fakeCompleter{}).RecapAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchResult{}, res)
}

func TestRecapAll_LostRaceCountsAsSkipped(t *testing.T) {
	s := newFakeStore()
	s.seed("a", 25)
	racy := &racyStore{fakeStore: s}

	res, err := NewRecapper(s, s, racy, &fakeCompleter{}, nil).RecapAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, BatchResult{Skipped: 1, Total: 1}, res)
}

// racyStore reports no recap on lookup but loses the conditional insert.
type racyStore struct {
	*fakeStore
}

func (r *racyStore) AddRecapIfAbsent(ctx context.Context, companionID, summary string, start, end time.Time) (core.Recap, bool, error) {
	return core.Recap{}, false, nil
}
