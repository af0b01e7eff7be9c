package suggest_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sevenply/plybot/internal/database/models"
	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
	"github.com/sevenply/plybot/internal/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memorySuggestions implements suggest.Store with the same
// copy-apply-commit contract as the database model.
type memorySuggestions struct {
	mu      sync.Mutex
	records map[[2]uint64]*types.Suggestion
}

func newMemorySuggestions() *memorySuggestions {
	return &memorySuggestions{records: make(map[[2]uint64]*types.Suggestion)}
}

func (s *memorySuggestions) Create(_ context.Context, suggestion *types.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]uint64{suggestion.GuildID, suggestion.ID}
	if _, exists := s.records[key]; exists {
		return models.ErrSuggestionExists
	}

	stored := *suggestion
	s.records[key] = &stored

	return nil
}

func (s *memorySuggestions) Get(_ context.Context, guildID, id uint64) (*types.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored, ok := s.records[[2]uint64{guildID, id}]
	if !ok {
		return nil, models.ErrSuggestionNotFound
	}

	cp := *stored

	return &cp, nil
}

func (s *memorySuggestions) Transition(
	_ context.Context, guildID, id uint64,
	apply func(*types.Suggestion) error,
) (*types.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]uint64{guildID, id}

	stored, ok := s.records[key]
	if !ok {
		return nil, models.ErrSuggestionNotFound
	}

	next := *stored
	if err := apply(&next); err != nil {
		return nil, err
	}

	s.records[key] = &next
	cp := next

	return &cp, nil
}

// fixedTally returns preset counts and records clears.
type fixedTally struct {
	approve, deny int
	cleared       int
}

func (t *fixedTally) Count(context.Context, uint64, uint64) (int, int, error) {
	return t.approve, t.deny, nil
}

func (t *fixedTally) Clear(context.Context, uint64, uint64) {
	t.cleared++
}

type workflowClock struct {
	now time.Time
}

func (c *workflowClock) Now() time.Time { return c.now }

func setupWorkflow(t *testing.T, moderators ...uint64) (*suggest.Workflow, *memorySuggestions, *fixedTally) {
	t.Helper()

	store := newMemorySuggestions()
	tally := &fixedTally{}
	clock := &workflowClock{now: time.Date(2026, 5, 5, 16, 0, 0, 0, time.UTC)}

	hasModeration := func(_ context.Context, _, actorID uint64) bool {
		for _, id := range moderators {
			if id == actorID {
				return true
			}
		}
		return false
	}

	return suggest.NewWorkflow(store, tally, hasModeration, clock, zap.NewNop()), store, tally
}

func TestSubmit(t *testing.T) {
	t.Parallel()

	workflow, store, _ := setupWorkflow(t)

	suggestion, err := workflow.Submit(t.Context(), 1, 100, 10, 500, "  add a mini ramp  ")
	require.NoError(t, err)

	assert.Equal(t, "add a mini ramp", suggestion.Content)
	assert.Equal(t, enum.SuggestionStatusPending, suggestion.Status)
	assert.EqualValues(t, 500, suggestion.ThreadID)

	stored, err := store.Get(t.Context(), 1, 100)
	require.NoError(t, err)
	assert.Equal(t, enum.SuggestionStatusPending, stored.Status)
}

func TestSubmitRejectsEmptyContent(t *testing.T) {
	t.Parallel()

	workflow, store, _ := setupWorkflow(t)

	_, err := workflow.Submit(t.Context(), 1, 100, 10, 0, "   ")
	require.ErrorIs(t, err, types.ErrValidation)

	_, err = store.Get(t.Context(), 1, 100)
	require.ErrorIs(t, err, models.ErrSuggestionNotFound)
}

func TestSubmitDuplicate(t *testing.T) {
	t.Parallel()

	workflow, _, _ := setupWorkflow(t)

	_, err := workflow.Submit(t.Context(), 1, 100, 10, 0, "first")
	require.NoError(t, err)

	_, err = workflow.Submit(t.Context(), 1, 100, 10, 0, "second")
	require.ErrorIs(t, err, models.ErrSuggestionExists)
}

func TestDecideApprove(t *testing.T) {
	t.Parallel()

	workflow, store, tally := setupWorkflow(t, 99)
	ctx := t.Context()

	_, err := workflow.Submit(ctx, 1, 100, 10, 500, "add a mini ramp")
	require.NoError(t, err)

	tally.approve = 7
	tally.deny = 2

	decision, err := workflow.Decide(ctx, 1, 100, 99, true)
	require.NoError(t, err)

	suggestion := decision.Suggestion
	assert.Equal(t, enum.SuggestionStatusApproved, suggestion.Status)
	assert.Equal(t, 7, suggestion.ApproveCount)
	assert.Equal(t, 2, suggestion.DenyCount)
	assert.EqualValues(t, 99, suggestion.DeciderID)
	require.NotNil(t, suggestion.DecidedAt)
	assert.EqualValues(t, 500, decision.LockThread)

	stored, err := store.Get(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, enum.SuggestionStatusApproved, stored.Status)

	// The live vote sets are dropped once the counts are frozen.
	assert.Equal(t, 1, tally.cleared)
}

func TestDecideDeny(t *testing.T) {
	t.Parallel()

	workflow, _, _ := setupWorkflow(t, 99)
	ctx := t.Context()

	_, err := workflow.Submit(ctx, 1, 100, 10, 0, "remove the rails")
	require.NoError(t, err)

	decision, err := workflow.Decide(ctx, 1, 100, 99, false)
	require.NoError(t, err)
	assert.Equal(t, enum.SuggestionStatusDenied, decision.Suggestion.Status)
	assert.Zero(t, decision.LockThread)
}

func TestDecideUnauthorized(t *testing.T) {
	t.Parallel()

	workflow, store, _ := setupWorkflow(t, 99)
	ctx := t.Context()

	_, err := workflow.Submit(ctx, 1, 100, 10, 0, "add a mini ramp")
	require.NoError(t, err)

	_, err = workflow.Decide(ctx, 1, 100, 42, true)
	require.ErrorIs(t, err, types.ErrUnauthorized)

	stored, err := store.Get(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, enum.SuggestionStatusPending, stored.Status)
}

func TestDecideTwice(t *testing.T) {
	t.Parallel()

	workflow, store, tally := setupWorkflow(t, 99)
	ctx := t.Context()

	_, err := workflow.Submit(ctx, 1, 100, 10, 0, "add a mini ramp")
	require.NoError(t, err)

	tally.approve = 3

	_, err = workflow.Decide(ctx, 1, 100, 99, true)
	require.NoError(t, err)

	// The tally moved on, but a second decision must not touch the
	// frozen record.
	tally.approve = 50

	_, err = workflow.Decide(ctx, 1, 100, 99, false)
	require.ErrorIs(t, err, types.ErrInvalidState)

	stored, err := store.Get(ctx, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, enum.SuggestionStatusApproved, stored.Status)
	assert.Equal(t, 3, stored.ApproveCount)
	assert.Equal(t, 1, tally.cleared, "a rejected decision must not clear the tally again")
}

func TestDecideMissingSuggestion(t *testing.T) {
	t.Parallel()

	workflow, _, _ := setupWorkflow(t, 99)

	_, err := workflow.Decide(t.Context(), 1, 404, 99, true)
	require.ErrorIs(t, err, models.ErrSuggestionNotFound)
}
