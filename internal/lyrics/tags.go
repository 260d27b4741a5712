// internal/lyrics/tags.go

package lyrics

import (
	"regexp"
	"strings"
)

var leadingTagRE = regexp.MustCompile(`(?i)^(?:` + Vocabulary + `)\b`)

// FormatTags returns each raw block with its leading tag upper-cased
// (“Verse 1: …” → “VERSE 1: …”).  The rest of the block is left untouched.
// It does not use ParseSection, so a short inline tag is still upper-cased.
func FormatTags(blocks []string) []string {
	out := make([]string, len(blocks))
	for i, b := range blocks {
		out[i] = leadingTagRE.ReplaceAllStringFunc(b, strings.ToUpper)
	}
	return out
}
