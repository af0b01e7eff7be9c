package ranking_test

import (
	"testing"

	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/database/types/enum"
	"github.com/sevenply/plybot/internal/ranking"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyMessage(t *testing.T) {
	t.Parallel()

	entries, err := ranking.Classify(&ranking.RawEvent{
		Type:    enum.EventTypeMessage,
		GuildID: 1,
		ActorID: 10,
		Content: "just skated the new park",
	})
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, enum.ActivityKindChatMessage, entries[0].Kind)
	assert.EqualValues(t, 10, entries[0].UserID)
}

func TestClassifyMessageWithMedia(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		content     string
		attachments []string
		kind        enum.ActivityKind
	}{
		{"image attachment", "check this", []string{"clip.PNG"}, enum.ActivityKindMediaShare},
		{"video attachment", "", []string{"line.mov"}, enum.ActivityKindMediaShare},
		{"media link", "https://cdn.example.com/clip.mp4", nil, enum.ActivityKindMediaShare},
		{"media link with query", "https://cdn.example.com/clip.webm?v=2", nil, enum.ActivityKindMediaShare},
		{"non-media attachment", "notes", []string{"setup.txt"}, enum.ActivityKindChatMessage},
		{"plain link", "https://example.com/page", nil, enum.ActivityKindChatMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			entries, err := ranking.Classify(&ranking.RawEvent{
				Type:        enum.EventTypeMessage,
				GuildID:     1,
				ActorID:     10,
				Content:     tt.content,
				Attachments: tt.attachments,
			})
			require.NoError(t, err)
			require.Len(t, entries, 1)
			assert.Equal(t, tt.kind, entries[0].Kind)
		})
	}
}

func TestClassifyReaction(t *testing.T) {
	t.Parallel()

	entries, err := ranking.Classify(&ranking.RawEvent{
		Type:     enum.EventTypeReactionAdd,
		GuildID:  1,
		ActorID:  10,
		AuthorID: 20,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, enum.ActivityKindGiveReaction, entries[0].Kind)
	assert.EqualValues(t, 10, entries[0].UserID)
	assert.Equal(t, enum.ActivityKindReceiveReaction, entries[1].Kind)
	assert.EqualValues(t, 20, entries[1].UserID)
}

func TestClassifySelfReaction(t *testing.T) {
	t.Parallel()

	entries, err := ranking.Classify(&ranking.RawEvent{
		Type:     enum.EventTypeReactionAdd,
		GuildID:  1,
		ActorID:  10,
		AuthorID: 10,
	})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClassifyReactionRemove(t *testing.T) {
	t.Parallel()

	entries, err := ranking.Classify(&ranking.RawEvent{
		Type:     enum.EventTypeReactionRemove,
		GuildID:  1,
		ActorID:  10,
		AuthorID: 20,
	})
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestClassifyBoost(t *testing.T) {
	t.Parallel()

	entries, err := ranking.Classify(&ranking.RawEvent{
		Type:     enum.EventTypeCommandInvoked,
		GuildID:  1,
		ActorID:  10,
		TargetID: 20,
		Command:  ranking.BoostCommand,
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, enum.ActivityKindGiveOneUp, entries[0].Kind)
	assert.EqualValues(t, 10, entries[0].UserID)
	assert.Equal(t, enum.ActivityKindReceiveOneUp, entries[1].Kind)
	assert.EqualValues(t, 20, entries[1].UserID)
}

func TestClassifySelfBoost(t *testing.T) {
	t.Parallel()

	_, err := ranking.Classify(&ranking.RawEvent{
		Type:     enum.EventTypeCommandInvoked,
		GuildID:  1,
		ActorID:  10,
		TargetID: 10,
		Command:  ranking.BoostCommand,
	})
	require.ErrorIs(t, err, types.ErrValidation)
}

func TestClassifyTrickCommands(t *testing.T) {
	t.Parallel()

	for _, command := range []string{"trick", "tricklist", "skatefact", "skatehistory", "brand", "skater", "crew", "TRICK"} {
		entries, err := ranking.Classify(&ranking.RawEvent{
			Type:    enum.EventTypeCommandInvoked,
			GuildID: 1,
			ActorID: 10,
			Command: command,
		})
		require.NoError(t, err, command)
		require.Len(t, entries, 1, command)
		assert.Equal(t, enum.ActivityKindTrickCommand, entries[0].Kind)
	}
}

func TestClassifyUnknownCommand(t *testing.T) {
	t.Parallel()

	entries, err := ranking.Classify(&ranking.RawEvent{
		Type:    enum.EventTypeCommandInvoked,
		GuildID: 1,
		ActorID: 10,
		Command: "help",
	})
	require.NoError(t, err)
	assert.Empty(t, entries)
}
