// Package drill implements keystroke matching and session scoring for one
// practice line.
package drill

import (
	"errors"

	"github.com/poriyaalar/suvadi/internal/layout"
)

// ErrSessionComplete reports a Submit or Peek after the line was finished.
// It marks a caller bug, not user input.
var ErrSessionComplete = errors.New("practice line already complete")

// Char is one logical character of the target with its resolved sequence.
type Char struct {
	Text    string
	Strokes []layout.KeyStroke
}

// Outcome reports one submitted keystroke. Incorrect keystrokes are normal
// input, so they appear here as data rather than as errors.
type Outcome struct {
	Correct  bool
	CharDone bool
	LineDone bool

	// Expected is the stroke that was due; Key/Shift are what was pressed.
	Expected layout.KeyStroke
	Key      rune
	Shift    bool
}

// Matcher walks a practice line one physical keystroke at a time. All
// characters are resolved at construction, so a line with an unmapped
// character fails before any keystroke is accepted.
type Matcher struct {
	chars       []Char
	charIndex   int
	strokeIndex int
}

// NewMatcher segments and resolves line against the table. An empty line
// yields a matcher that is already done.
func NewMatcher(table *layout.Table, line string) (*Matcher, error) {
	segs, err := table.Segment(line)
	if err != nil {
		return nil, err
	}
	chars := make([]Char, 0, len(segs))
	for _, seg := range segs {
		strokes, err := table.Resolve(seg)
		if err != nil {
			return nil, err
		}
		chars = append(chars, Char{Text: seg, Strokes: strokes})
	}
	return &Matcher{chars: chars}, nil
}

// Submit consumes one physical keystroke. On a match the matcher advances
// within the current character's sequence and, when the sequence ends, to
// the next character. On a mismatch the position holds so the same stroke
// is re-attempted.
func (m *Matcher) Submit(key rune, shift bool) (Outcome, error) {
	if m.Done() {
		return Outcome{}, ErrSessionComplete
	}
	expected := m.chars[m.charIndex].Strokes[m.strokeIndex]
	out := Outcome{Expected: expected, Key: key, Shift: shift}
	if key != expected.Key || shift != expected.Shift {
		return out, nil
	}
	out.Correct = true
	m.strokeIndex++
	if m.strokeIndex == len(m.chars[m.charIndex].Strokes) {
		out.CharDone = true
		m.strokeIndex = 0
		m.charIndex++
		if m.charIndex == len(m.chars) {
			out.LineDone = true
		}
	}
	return out, nil
}

// Peek returns the next expected stroke without consuming input.
func (m *Matcher) Peek() (layout.KeyStroke, error) {
	if m.Done() {
		return layout.KeyStroke{}, ErrSessionComplete
	}
	return m.chars[m.charIndex].Strokes[m.strokeIndex], nil
}

// Done reports whether every character of the line has been typed.
func (m *Matcher) Done() bool {
	return m.charIndex == len(m.chars)
}

// CharIndex is the index of the character currently being typed.
func (m *Matcher) CharIndex() int { return m.charIndex }

// StrokeIndex is the position within the current character's sequence.
func (m *Matcher) StrokeIndex() int { return m.strokeIndex }

// Chars exposes the segmented target for rendering.
func (m *Matcher) Chars() []Char { return m.chars }
