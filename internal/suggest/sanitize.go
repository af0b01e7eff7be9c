package suggest

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sevenply/plybot/internal/database/types"
)

// MaxContentLength caps suggestion text, leaving headroom under the
// platform's 2000-character message limit.
const MaxContentLength = 1900

// SanitizeContent strips null bytes and control characters (keeping
// newlines and tabs), caps the length, and trims surrounding whitespace.
// Content that is empty after trimming is rejected with ErrValidation.
func SanitizeContent(content string) (string, error) {
	var b strings.Builder
	b.Grow(len(content))

	for _, r := range content {
		if unicode.IsControl(r) && r != '\n' && r != '\r' && r != '\t' {
			continue
		}
		b.WriteRune(r)
	}

	clean := b.String()
	if runes := []rune(clean); len(runes) > MaxContentLength {
		clean = string(runes[:MaxContentLength])
	}

	clean = strings.TrimSpace(clean)
	if clean == "" {
		return "", fmt.Errorf("%w: suggestion content is empty", types.ErrValidation)
	}

	return clean, nil
}
