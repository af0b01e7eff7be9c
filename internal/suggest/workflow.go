package suggest

import (
	"context"
	"fmt"

	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
	"github.com/sevenply/plybot/internal/ranking"
	"go.uber.org/zap"
)

// Store is the persistence surface for suggestion records. Transition
// must apply the function under an atomic conditional write: it sees a
// private copy, and an error return aborts with stored state untouched.
type Store interface {
	Create(ctx context.Context, suggestion *types.Suggestion) error
	Get(ctx context.Context, guildID, id uint64) (*types.Suggestion, error)
	Transition(
		ctx context.Context, guildID, id uint64,
		apply func(*types.Suggestion) error,
	) (*types.Suggestion, error)
}

// VoteTally reads the live vote counts for a suggestion and drops them
// once a decision has frozen the counts into the record.
type VoteTally interface {
	Count(ctx context.Context, guildID, suggestionID uint64) (approve, deny int, err error)
	Clear(ctx context.Context, guildID, suggestionID uint64)
}

// CapabilityFunc reports whether the actor holds the moderation
// capability in the guild. It is supplied by the transport collaborator.
type CapabilityFunc func(ctx context.Context, guildID, actorID uint64) bool

// Workflow drives the suggestion state machine: Pending on creation, a
// single one-way transition to Approved or Denied.
type Workflow struct {
	store         Store
	tally         VoteTally
	hasModeration CapabilityFunc
	clock         ranking.Clock
	logger        *zap.Logger
}

// NewWorkflow creates a suggestion workflow.
func NewWorkflow(
	store Store, tally VoteTally, hasModeration CapabilityFunc,
	clock ranking.Clock, logger *zap.Logger,
) *Workflow {
	return &Workflow{
		store:         store,
		tally:         tally,
		hasModeration: hasModeration,
		clock:         clock,
		logger:        logger.Named("suggestions"),
	}
}

// Submit sanitizes the content and stores a new pending suggestion.
func (w *Workflow) Submit(
	ctx context.Context, guildID, id, authorID, threadID uint64, content string,
) (*types.Suggestion, error) {
	clean, err := SanitizeContent(content)
	if err != nil {
		return nil, err
	}

	suggestion := &types.Suggestion{
		GuildID:   guildID,
		ID:        id,
		AuthorID:  authorID,
		Content:   clean,
		Status:    enum.SuggestionStatusPending,
		ThreadID:  threadID,
		CreatedAt: w.clock.Now().UTC(),
	}

	if err := w.store.Create(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("failed to store suggestion: %w", err)
	}

	w.logger.Info("Suggestion created",
		zap.Uint64("guildID", guildID),
		zap.Uint64("suggestionID", id),
		zap.Uint64("authorID", authorID))

	return suggestion, nil
}

// Decision reports a completed staff decision, including the thread the
// transport should lock.
type Decision struct {
	Suggestion *types.Suggestion
	LockThread uint64
}

// Decide moves a pending suggestion to a terminal state. The actor must
// hold the moderation capability. The live tally is read exactly once
// and frozen into the record together with decider identity, timestamp
// and the new status. Deciding an already-decided suggestion returns
// ErrInvalidState and mutates nothing.
func (w *Workflow) Decide(
	ctx context.Context, guildID, id, actorID uint64, approve bool,
) (*Decision, error) {
	if !w.hasModeration(ctx, guildID, actorID) {
		return nil, fmt.Errorf("%w: actor %d", types.ErrUnauthorized, actorID)
	}

	approveCount, denyCount, err := w.tally.Count(ctx, guildID, id)
	if err != nil {
		return nil, fmt.Errorf("failed to read vote tally: %w", err)
	}

	status := enum.SuggestionStatusDenied
	if approve {
		status = enum.SuggestionStatusApproved
	}
	decidedAt := w.clock.Now().UTC()

	suggestion, err := w.store.Transition(ctx, guildID, id, func(s *types.Suggestion) error {
		if s.Status.Terminal() {
			return fmt.Errorf("%w: already %s", types.ErrInvalidState, s.Status)
		}

		s.Status = status
		s.ApproveCount = approveCount
		s.DenyCount = denyCount
		s.DeciderID = actorID
		s.DecidedAt = &decidedAt

		return nil
	})
	if err != nil {
		return nil, err
	}

	w.tally.Clear(ctx, guildID, id)

	w.logger.Info("Suggestion decided",
		zap.Uint64("guildID", guildID),
		zap.Uint64("suggestionID", id),
		zap.String("status", status.String()),
		zap.Int("approveCount", approveCount),
		zap.Int("denyCount", denyCount),
		zap.Uint64("deciderID", actorID))

	return &Decision{Suggestion: suggestion, LockThread: suggestion.ThreadID}, nil
}
