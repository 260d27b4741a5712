// internal/lyrics/render.go
//
// Display labelling, lazy rendering, and plain-text export.
//
// Context
// -------
// Every block gets a display label.  A detected label is used as-is; an
// unlabeled block falls back to “Verse {i+1}” by position, counting every
// block.  An untagged chorus is therefore shown as a verse.  Existing pages
// render that way and readers are used to it, so the fallback is positional
// and nothing smarter.
//
// Render returns an iter.Seq2, which parses on demand and can be ranged over
// any number of times.

package lyrics

import (
	"iter"
	"strconv"
	"strings"
)

// DisplayMode selects the presentation style.  It never changes parsing.
type DisplayMode string

const (
	ModeCards   DisplayMode = "cards"
	ModeList    DisplayMode = "list"
	ModeCompact DisplayMode = "compact"
)

// ParseDisplayMode maps a query value onto a mode.  Unknown or empty values
// yield ModeCards.
func ParseDisplayMode(s string) DisplayMode {
	switch m := DisplayMode(strings.ToLower(strings.TrimSpace(s))); m {
	case ModeList, ModeCompact:
		return m
	}
	return ModeCards
}

// Rendered is one block ready for a template.
type Rendered struct {
	DisplayLabel string      `json:"label"`
	Body         string      `json:"body"`
	Tagged       bool        `json:"tagged"`
	Mode         DisplayMode `json:"-"`
}

// DisplayLabel returns s.Label, or the positional fallback for block i.
func DisplayLabel(s Section, i int) string {
	if s.HasLabel {
		return s.Label
	}
	return "Verse " + strconv.Itoa(i+1)
}

// Render yields one Rendered per block, in order.
func Render(blocks []string, mode DisplayMode) iter.Seq2[int, Rendered] {
	return func(yield func(int, Rendered) bool) {
		for i, raw := range blocks {
			s := ParseSection(raw)
			r := Rendered{
				DisplayLabel: DisplayLabel(s, i),
				Body:         s.Body,
				Tagged:       s.HasLabel,
				Mode:         mode,
			}
			if !yield(i, r) {
				return
			}
		}
	}
}

// RenderAll drains Render into a slice.
func RenderAll(blocks []string, mode DisplayMode) []Rendered {
	out := make([]Rendered, 0, len(blocks))
	for _, r := range Render(blocks, mode) {
		out = append(out, r)
	}
	return out
}

// PlainText formats blocks for print or export: “{label}\n{body}” per block,
// blocks separated by one blank line.
func PlainText(blocks []string) string {
	var b strings.Builder
	for i, r := range Render(blocks, ModeCards) {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(r.DisplayLabel)
		b.WriteByte('\n')
		b.WriteString(r.Body)
	}
	return b.String()
}
