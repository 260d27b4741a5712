// internal/lyrics/parse.go
//
// Lyrics Tag Parser.
//
// Context
// -------
// Catalog lyrics are an ordered list of raw blocks.  A block may open with a
// structural label (“Verse 1:”, “Chorus”, “Bridge\n…”) or may be bare text.
// ParseSection separates the label from the body using three rules, tried in
// strict order:
//
//   1. label + “:”             → trusted; body follows the colon.
//   2. label + newline         → trusted; body follows the newline.
//   3. label + inline blanks   → accepted only when the remainder is longer
//                                than MinInlineBody runes.
//
// Anything else is unlabeled and keeps its full (trimmed) text as body.
//
// Notes
// -----
// • Labels are returned verbatim, in the author's capitalisation.
// • The label must sit at the very start of the block.
// • Oxford commas, two spaces after periods.

package lyrics

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Vocabulary is the closed set of recognised section names as a regexp
// alternation.  “Verse” always carries a number.
const Vocabulary = `Verse[ \t]+\d+|Pre-Chorus|Chorus|Bridge|Intro|Outro|Interlude|Tag|Refrain|Hook`

// MinInlineBody is the remainder length a bare inline label needs before it
// is trusted.  “Bridge ok” stays a lyric line.
const MinInlineBody = 10

var (
	colonRE   = regexp.MustCompile(`(?is)^(` + Vocabulary + `):\s*(.*)$`)
	newlineRE = regexp.MustCompile(`(?is)^(` + Vocabulary + `)\r?\n(.*)$`)
	inlineRE  = regexp.MustCompile(`(?is)^(` + Vocabulary + `)[ \t]+(.*)$`)
)

// Section is one parsed lyric block.  HasLabel is false when no recognised
// label opened the block; Label is then empty.
type Section struct {
	Label    string `json:"label,omitempty"`
	HasLabel bool   `json:"hasLabel"`
	Body     string `json:"body"`
}

// ParseSection splits raw into label and body.
func ParseSection(raw string) Section {
	if m := colonRE.FindStringSubmatch(raw); m != nil {
		return labelled(m[1], m[2])
	}
	if m := newlineRE.FindStringSubmatch(raw); m != nil {
		return labelled(m[1], m[2])
	}
	if m := inlineRE.FindStringSubmatch(raw); m != nil {
		rest := strings.TrimSpace(m[2])
		if utf8.RuneCountInString(rest) > MinInlineBody {
			return Section{Label: m[1], HasLabel: true, Body: rest}
		}
	}
	return Section{Body: strings.TrimSpace(raw)}
}

// Sections parses every block in order.
func Sections(blocks []string) []Section {
	out := make([]Section, len(blocks))
	for i, b := range blocks {
		out[i] = ParseSection(b)
	}
	return out
}

func labelled(label, body string) Section {
	return Section{Label: label, HasLabel: true, Body: strings.TrimSpace(body)}
}
