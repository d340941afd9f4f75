package drill

import (
	"fmt"
	"time"

	"github.com/poriyaalar/suvadi/internal/layout"
)

// minElapsed keeps rate math defined when a line completes within one
// clock tick.
const minElapsed = time.Millisecond

// Result is the immutable outcome of one scored session.
type Result struct {
	Accuracy  float64
	WPM       float64
	SPM       float64
	Correct   int
	Incorrect int
	Elapsed   time.Duration
}

// KeyTally counts correct and incorrect attempts at one expected stroke.
type KeyTally struct {
	Correct   int
	Incorrect int
}

// Scorer accumulates keystroke outcomes for one practice line and derives
// accuracy and speed at the end. Finalize is idempotent: the first call
// caches the result and later calls return it without re-reading the clock.
type Scorer struct {
	clock     func() time.Time
	startedAt time.Time
	started   bool

	correct   int
	incorrect int
	keys      map[layout.KeyStroke]*KeyTally
	mistakes  map[string]int

	result *Result
}

// NewScorer returns a scorer on the wall clock.
func NewScorer() *Scorer {
	return NewScorerAt(time.Now)
}

// NewScorerAt returns a scorer on an injected clock.
func NewScorerAt(clock func() time.Time) *Scorer {
	return &Scorer{
		clock:    clock,
		keys:     map[layout.KeyStroke]*KeyTally{},
		mistakes: map[string]int{},
	}
}

// Start marks the session begin and zeroes all counters.
func (s *Scorer) Start() {
	s.startedAt = s.clock()
	s.started = true
	s.correct = 0
	s.incorrect = 0
	s.keys = map[layout.KeyStroke]*KeyTally{}
	s.mistakes = map[string]int{}
	s.result = nil
}

// Record folds one submit outcome into the running counters.
func (s *Scorer) Record(out Outcome) {
	if s.result != nil {
		return
	}
	tally, ok := s.keys[out.Expected]
	if !ok {
		tally = &KeyTally{}
		s.keys[out.Expected] = tally
	}
	if out.Correct {
		s.correct++
		tally.Correct++
		return
	}
	s.incorrect++
	tally.Incorrect++
	s.mistakes[mistakeKey(out.Expected, out.Key, out.Shift)]++
}

// Finalize computes the session result. The empty session counts as fully
// accurate: a zero-length line completes without any keystrokes.
func (s *Scorer) Finalize() Result {
	if s.result != nil {
		return *s.result
	}
	endedAt := s.clock()
	if !s.started {
		s.startedAt = endedAt
	}
	elapsed := endedAt.Sub(s.startedAt)
	if elapsed < minElapsed {
		elapsed = minElapsed
	}

	accuracy := 1.0
	if total := s.correct + s.incorrect; total > 0 {
		accuracy = float64(s.correct) / float64(total)
	}
	minutes := elapsed.Minutes()
	result := Result{
		Accuracy:  accuracy,
		WPM:       (float64(s.correct) / 5.0) / minutes,
		SPM:       float64(s.correct) / minutes,
		Correct:   s.correct,
		Incorrect: s.incorrect,
		Elapsed:   elapsed,
	}
	s.result = &result
	return result
}

// StartedAt reports when the session clock started. It is zero until
// Start or Finalize has run.
func (s *Scorer) StartedAt() time.Time {
	return s.startedAt
}

// KeyTallies returns a copy of the per-stroke tallies.
func (s *Scorer) KeyTallies() map[layout.KeyStroke]KeyTally {
	out := make(map[layout.KeyStroke]KeyTally, len(s.keys))
	for stroke, tally := range s.keys {
		out[stroke] = *tally
	}
	return out
}

// Mistakes returns a copy of the expected->pressed mistake counts.
func (s *Scorer) Mistakes() map[string]int {
	out := make(map[string]int, len(s.mistakes))
	for mistake, count := range s.mistakes {
		out[mistake] = count
	}
	return out
}

func mistakeKey(expected layout.KeyStroke, key rune, shift bool) string {
	return fmt.Sprintf("%s -> %s", strokeLabel(expected.Key, expected.Shift), strokeLabel(key, shift))
}

func strokeLabel(key rune, shift bool) string {
	label := string(key)
	if key == ' ' {
		label = "space"
	}
	if shift {
		return "shift+" + label
	}
	return label
}
