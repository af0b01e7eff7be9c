package suggest_test

import (
	"strings"
	"testing"

	"github.com/sevenply/plybot/internal/database/types"
	"github.com/sevenply/plybot/internal/suggest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeContent(t *testing.T) {
	t.Parallel()

	clean, err := suggest.SanitizeContent("  add a mini ramp to the park  ")
	require.NoError(t, err)
	assert.Equal(t, "add a mini ramp to the park", clean)
}

func TestSanitizeContentStripsControlCharacters(t *testing.T) {
	t.Parallel()

	clean, err := suggest.SanitizeContent("line one\x00\x07\nline two\tend")
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\tend", clean)
}

func TestSanitizeContentCapsLength(t *testing.T) {
	t.Parallel()

	clean, err := suggest.SanitizeContent(strings.Repeat("a", suggest.MaxContentLength+500))
	require.NoError(t, err)
	assert.Len(t, clean, suggest.MaxContentLength)
}

func TestSanitizeContentIdempotent(t *testing.T) {
	t.Parallel()

	// Pre-sanitized content passes through unchanged, so callers can
	// validate before side effects and submit the cleaned text later.
	clean, err := suggest.SanitizeContent("  add a\x00 mini ramp  ")
	require.NoError(t, err)

	again, err := suggest.SanitizeContent(clean)
	require.NoError(t, err)
	assert.Equal(t, clean, again)
}

func TestSanitizeContentRejectsEmpty(t *testing.T) {
	t.Parallel()

	for _, content := range []string{"", "   ", "\n\t\n", "\x00\x01"} {
		_, err := suggest.SanitizeContent(content)
		require.ErrorIs(t, err, types.ErrValidation)
	}
}
