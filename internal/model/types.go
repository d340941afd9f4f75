// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Level      string
	LevelsDir  string
	Review     bool
	WeakTop    int
	WeakFactor float64
	WeakWindow int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Level string
	Since *time.Time
	Last  int
}

// SessionRecord captures one completed drill over a practice line.
type SessionRecord struct {
	LevelKey   string
	TaskIndex  int
	StartedAt  time.Time
	EndedAt    time.Time
	Correct    int
	Incorrect  int
	DurationMs int64
}

// KeyStats stores per-expected-key counts for a session. Key is the
// unshifted key cap; Shift marks the shifted variant.
type KeyStats struct {
	Key       string
	Shift     bool
	Correct   int
	Incorrect int
}

// KeyAggregate aggregates key stats across sessions.
type KeyAggregate struct {
	Key       string
	Shift     bool
	Correct   int
	Incorrect int
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID  int64
	LevelKey   string
	EndedAt    time.Time
	Correct    int
	Incorrect  int
	DurationMs int64
}

// LevelProgress is the persisted progress record for one level.
type LevelProgress struct {
	CompletedTasks map[int]struct{}
	BestWPM        float64
	BestAccuracy   float64
}

// NewLevelProgress returns an empty progress record.
func NewLevelProgress() LevelProgress {
	return LevelProgress{CompletedTasks: map[int]struct{}{}}
}

// Gamification holds the score and streak counters kept across levels.
type Gamification struct {
	TotalScore    int
	CurrentStreak int
	BestStreak    int
}
