package bot

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
	"github.com/sevenply/plybot/internal/dispatch"
	"github.com/sevenply/plybot/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// boostStore implements ranking.ActivityStore with the same
// copy-mutate-commit contract as the database model.
type boostStore struct {
	mu      sync.Mutex
	records map[[2]uint64]*types.ActivityRecord
}

func newBoostStore() *boostStore {
	return &boostStore{records: make(map[[2]uint64]*types.ActivityRecord)}
}

func (s *boostStore) Update(
	_ context.Context, guildID, userID uint64, now time.Time,
	mutate func(*types.ActivityRecord) (bool, error),
) (*types.ActivityRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]uint64{guildID, userID}

	current, ok := s.records[key]
	if !ok {
		current = types.NewActivityRecord(guildID, userID, now)
	}

	next := current.Clone()

	commit, err := mutate(next)
	if err != nil {
		return nil, err
	}

	if !commit {
		return next, nil
	}

	s.records[key] = next

	return next.Clone(), nil
}

func (s *boostStore) points(guildID, userID uint64) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[[2]uint64{guildID, userID}]
	if !ok {
		return 0
	}

	return record.Points
}

func setupBoostBot(t *testing.T, ident string) (*Bot, *boostStore) {
	t.Helper()

	store := newBoostStore()

	b := &Bot{
		dispatcher:  dispatch.New(1, ident, zap.NewNop()),
		accumulator: ranking.NewAccumulator(store, ranking.SystemClock(), zap.NewNop()),
		announcer:   NewAnnouncer(nil, zap.NewNop()),
		logger:      zap.NewNop(),
	}
	t.Cleanup(b.dispatcher.Shutdown)

	return b, store
}

func boostEntries(giverID, receiverID uint64, at time.Time) []ranking.Entry {
	return []ranking.Entry{
		{GuildID: 1, UserID: giverID, Kind: enum.ActivityKindGiveOneUp, Timestamp: at},
		{GuildID: 1, UserID: receiverID, Kind: enum.ActivityKindReceiveOneUp, Timestamp: at},
	}
}

func TestApplyBoostCreditsBothMembers(t *testing.T) {
	t.Parallel()

	b, store := setupBoostBot(t, "test_boost")
	at := time.Date(2026, 5, 5, 16, 0, 0, 0, time.UTC)

	err := b.applyBoost(t.Context(), &types.GuildSettings{}, boostEntries(10, 20, at))
	require.NoError(t, err)

	assert.EqualValues(t, 5, store.points(1, 10))
	assert.EqualValues(t, 25, store.points(1, 20))
}

func TestApplyBoostGiverCooldownAbortsPair(t *testing.T) {
	t.Parallel()

	b, store := setupBoostBot(t, "test_boost_cooldown")
	at := time.Date(2026, 5, 5, 16, 0, 0, 0, time.UTC)

	err := b.applyBoost(t.Context(), &types.GuildSettings{}, boostEntries(10, 20, at))
	require.NoError(t, err)

	err = b.applyBoost(t.Context(), &types.GuildSettings{}, boostEntries(10, 20, at.Add(time.Minute)))
	require.ErrorIs(t, err, types.ErrRateLimited)

	var cooldown *ranking.CooldownError
	require.ErrorAs(t, err, &cooldown)
	assert.Equal(t, enum.ActivityKindGiveOneUp, cooldown.Kind)
	assert.Equal(t, 29*time.Minute, cooldown.RetryAfter)

	// The receiver keeps only the first boost's credit.
	assert.EqualValues(t, 5, store.points(1, 10))
	assert.EqualValues(t, 25, store.points(1, 20))
}

func TestRetryMinutesRoundsUp(t *testing.T) {
	t.Parallel()

	assert.Equal(t, 29, retryMinutes(29*time.Minute))
	assert.Equal(t, 30, retryMinutes(29*time.Minute+time.Second))
	assert.Equal(t, 1, retryMinutes(10*time.Second))
}
