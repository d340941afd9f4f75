// Package layout maps logical characters to Tamil99 keystroke sequences.
package layout

import (
	"fmt"
	"unicode"
)

// KeyStroke is one physical key press. Key is the unshifted key cap and
// Shift reports whether the shift modifier must be held.
type KeyStroke struct {
	Key   rune
	Shift bool
}

// UnmappedCharError reports a character with no layout entry. A practice
// line containing one cannot start a session.
type UnmappedCharError struct {
	Char string
}

func (e *UnmappedCharError) Error() string {
	return fmt.Sprintf("no keystroke mapping for %q", e.Char)
}

// Table is an immutable mapping from logical characters to keystroke
// sequences. It is built once and safe for concurrent reads.
type Table struct {
	seqs    map[string][]KeyStroke
	maxCdpt int
}

// Resolve returns the keystroke sequence for one logical character.
func (t *Table) Resolve(char string) ([]KeyStroke, error) {
	seq, ok := t.seqs[char]
	if !ok {
		return nil, &UnmappedCharError{Char: char}
	}
	return seq, nil
}

// Segment splits a practice line into logical characters by longest match:
// a consonant plus combining marks is one character, not two. The error is
// an *UnmappedCharError for the first rune that starts no known character.
func (t *Table) Segment(line string) ([]string, error) {
	runes := []rune(line)
	var chars []string
	for i := 0; i < len(runes); {
		matched := ""
		limit := t.maxCdpt
		if rest := len(runes) - i; rest < limit {
			limit = rest
		}
		for n := limit; n >= 1; n-- {
			candidate := string(runes[i : i+n])
			if _, ok := t.seqs[candidate]; ok {
				matched = candidate
				break
			}
		}
		if matched == "" {
			return nil, &UnmappedCharError{Char: string(runes[i])}
		}
		chars = append(chars, matched)
		i += len([]rune(matched))
	}
	return chars, nil
}

// Sequence resolves a whole line into one flat keystroke sequence.
func (t *Table) Sequence(line string) ([]KeyStroke, error) {
	chars, err := t.Segment(line)
	if err != nil {
		return nil, err
	}
	var seq []KeyStroke
	for _, ch := range chars {
		strokes, err := t.Resolve(ch)
		if err != nil {
			return nil, err
		}
		seq = append(seq, strokes...)
	}
	return seq, nil
}

func (t *Table) add(char, keys string) {
	if char == "" || keys == "" {
		return
	}
	t.seqs[char] = strokesFor(keys)
	if n := len([]rune(char)); n > t.maxCdpt {
		t.maxCdpt = n
	}
}

// strokesFor decodes a key string into keystrokes. An uppercase ASCII
// letter stands for shift plus the lowercase key, matching how the Tamil99
// reference tables spell shifted keys.
func strokesFor(keys string) []KeyStroke {
	out := make([]KeyStroke, 0, len(keys))
	for _, r := range keys {
		if r >= 'A' && r <= 'Z' {
			out = append(out, KeyStroke{Key: unicode.ToLower(r), Shift: true})
			continue
		}
		out = append(out, KeyStroke{Key: r})
	}
	return out
}
