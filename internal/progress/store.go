// Package progress handles SQLite persistence of drill results.
package progress

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/poriyaalar/suvadi/internal/model"

	_ "modernc.org/sqlite" // SQLite driver.
)

// Store wraps SQLite access for session and level progress data.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database and applies migrations.
func Open(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		if cerr := db.Close(); cerr != nil {
			// Best-effort close on migration failure.
			_ = cerr
		}
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS sessions (
			id INTEGER PRIMARY KEY,
			level_key TEXT NOT NULL,
			task_index INTEGER NOT NULL,
			started_at TEXT NOT NULL,
			ended_at TEXT NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			duration_ms INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS session_key_stats (
			session_id INTEGER NOT NULL,
			key TEXT NOT NULL,
			shift INTEGER NOT NULL,
			correct INTEGER NOT NULL,
			incorrect INTEGER NOT NULL,
			PRIMARY KEY (session_id, key, shift)
		);`,
		`CREATE TABLE IF NOT EXISTS level_progress (
			level_key TEXT PRIMARY KEY,
			best_wpm REAL NOT NULL,
			best_accuracy REAL NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS completed_tasks (
			level_key TEXT NOT NULL,
			task_index INTEGER NOT NULL,
			PRIMARY KEY (level_key, task_index)
		);`,
		`CREATE TABLE IF NOT EXISTS meta (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_score INTEGER NOT NULL,
			current_streak INTEGER NOT NULL,
			best_streak INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_ended_at ON sessions(ended_at);`,
		`CREATE INDEX IF NOT EXISTS idx_sessions_level ON sessions(level_key);`,
		`CREATE INDEX IF NOT EXISTS idx_session_key_stats_key ON session_key_stats(key);`,
	}
	for _, stmt := range stmts {
		if _, err := s.db.Exec(stmt); err != nil {
			return err
		}
	}
	return nil
}

// InsertSession stores a completed drill and its per-key stats.
func (s *Store) InsertSession(ctx context.Context, rec model.SessionRecord, keys []model.KeyStats) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO sessions (level_key, task_index, started_at, ended_at, correct, incorrect, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.LevelKey,
		rec.TaskIndex,
		rec.StartedAt.Format(time.RFC3339Nano),
		rec.EndedAt.Format(time.RFC3339Nano),
		rec.Correct,
		rec.Incorrect,
		rec.DurationMs,
	)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	if len(keys) > 0 {
		stmt, err := tx.PrepareContext(ctx,
			`INSERT INTO session_key_stats (session_id, key, shift, correct, incorrect)
			 VALUES (?, ?, ?, ?, ?)`)
		if err != nil {
			return 0, err
		}
		defer func() {
			if cerr := stmt.Close(); cerr != nil {
				// Best-effort statement close.
				_ = cerr
			}
		}()
		for _, ks := range keys {
			if _, err := stmt.ExecContext(ctx, id, ks.Key, boolToInt(ks.Shift), ks.Correct, ks.Incorrect); err != nil {
				return 0, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// LoadProgress reads the progress record for one level. A level with no
// rows yields an empty record, not an error.
func (s *Store) LoadProgress(ctx context.Context, levelKey string) (model.LevelProgress, error) {
	record := model.NewLevelProgress()
	err := s.db.QueryRowContext(ctx,
		`SELECT best_wpm, best_accuracy FROM level_progress WHERE level_key = ?`,
		levelKey).Scan(&record.BestWPM, &record.BestAccuracy)
	if err != nil && err != sql.ErrNoRows {
		return model.LevelProgress{}, err
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT task_index FROM completed_tasks WHERE level_key = ?`, levelKey)
	if err != nil {
		return model.LevelProgress{}, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()
	for rows.Next() {
		var idx int
		if err := rows.Scan(&idx); err != nil {
			return model.LevelProgress{}, err
		}
		record.CompletedTasks[idx] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return model.LevelProgress{}, err
	}
	return record, nil
}

// SaveProgress replaces the whole progress record for one level in a
// single transaction.
func (s *Store) SaveProgress(ctx context.Context, levelKey string, record model.LevelProgress) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()

	if _, err = tx.ExecContext(ctx,
		`INSERT INTO level_progress (level_key, best_wpm, best_accuracy) VALUES (?, ?, ?)
		 ON CONFLICT(level_key) DO UPDATE SET best_wpm = excluded.best_wpm, best_accuracy = excluded.best_accuracy`,
		levelKey, record.BestWPM, record.BestAccuracy); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM completed_tasks WHERE level_key = ?`, levelKey); err != nil {
		return err
	}
	for idx := range record.CompletedTasks {
		if _, err = tx.ExecContext(ctx,
			`INSERT INTO completed_tasks (level_key, task_index) VALUES (?, ?)`, levelKey, idx); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// LoadGamification reads the score and streak counters.
func (s *Store) LoadGamification(ctx context.Context) (model.Gamification, error) {
	var g model.Gamification
	err := s.db.QueryRowContext(ctx,
		`SELECT total_score, current_streak, best_streak FROM meta WHERE id = 1`).
		Scan(&g.TotalScore, &g.CurrentStreak, &g.BestStreak)
	if err == sql.ErrNoRows {
		return model.Gamification{}, nil
	}
	if err != nil {
		return model.Gamification{}, err
	}
	return g, nil
}

// SaveGamification writes the score and streak counters. The best streak
// never decreases.
func (s *Store) SaveGamification(ctx context.Context, g model.Gamification) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO meta (id, total_score, current_streak, best_streak) VALUES (1, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			total_score = excluded.total_score,
			current_streak = excluded.current_streak,
			best_streak = MAX(meta.best_streak, excluded.best_streak)`,
		g.TotalScore, g.CurrentStreak, g.BestStreak)
	return err
}

// GetWeakKeys aggregates key stats over the most recent sessions.
func (s *Store) GetWeakKeys(ctx context.Context, window int, levelKey string) ([]model.KeyAggregate, error) {
	if window <= 0 {
		return nil, nil
	}
	query := `WITH recent_sessions AS (
		SELECT id FROM sessions
		WHERE (? = '' OR level_key = ?)
		ORDER BY ended_at DESC
		LIMIT ?
	)
	SELECT ks.key, ks.shift, SUM(ks.correct) AS correct, SUM(ks.incorrect) AS incorrect
	FROM session_key_stats ks
	JOIN recent_sessions r ON r.id = ks.session_id
	GROUP BY ks.key, ks.shift`

	rows, err := s.db.QueryContext(ctx, query, levelKey, levelKey, window)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.KeyAggregate
	for rows.Next() {
		var agg model.KeyAggregate
		var shift int
		if err := rows.Scan(&agg.Key, &shift, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		agg.Shift = shift != 0
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ListSessions returns session aggregates filtered by stats config.
func (s *Store) ListSessions(ctx context.Context, cfg model.StatsConfig) ([]model.SessionAggregate, error) {
	clauses := []string{"1=1"}
	args := []any{}
	if cfg.Level != "" {
		clauses = append(clauses, "level_key = ?")
		args = append(args, cfg.Level)
	}
	if cfg.Since != nil {
		clauses = append(clauses, "ended_at >= ?")
		args = append(args, cfg.Since.Format(time.RFC3339Nano))
	}
	query := fmt.Sprintf(`SELECT id, level_key, ended_at, correct, incorrect, duration_ms
		FROM sessions
		WHERE %s
		ORDER BY ended_at ASC`, strings.Join(clauses, " AND "))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var sessions []model.SessionAggregate
	for rows.Next() {
		var agg model.SessionAggregate
		var endedAt string
		if err := rows.Scan(&agg.SessionID, &agg.LevelKey, &endedAt, &agg.Correct, &agg.Incorrect, &agg.DurationMs); err != nil {
			return nil, err
		}
		parsed, err := time.Parse(time.RFC3339Nano, endedAt)
		if err != nil {
			return nil, err
		}
		agg.EndedAt = parsed
		sessions = append(sessions, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return sessions, nil
}

// ListKeyAggregates aggregates per-key stats across the given sessions.
func (s *Store) ListKeyAggregates(ctx context.Context, sessionIDs []int64) ([]model.KeyAggregate, error) {
	if len(sessionIDs) == 0 {
		return nil, nil
	}
	placeholders := make([]string, len(sessionIDs))
	args := make([]any, len(sessionIDs))
	for i, id := range sessionIDs {
		placeholders[i] = "?"
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT key, shift, SUM(correct) AS correct, SUM(incorrect) AS incorrect
		FROM session_key_stats
		WHERE session_id IN (%s)
		GROUP BY key, shift`, strings.Join(placeholders, ","))
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() {
		if cerr := rows.Close(); cerr != nil {
			// Best-effort rows close.
			_ = cerr
		}
	}()

	var result []model.KeyAggregate
	for rows.Next() {
		var agg model.KeyAggregate
		var shift int
		if err := rows.Scan(&agg.Key, &shift, &agg.Correct, &agg.Incorrect); err != nil {
			return nil, err
		}
		agg.Shift = shift != 0
		result = append(result, agg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// ResetLevel clears progress for one level. Session history is kept.
func (s *Store) ResetLevel(ctx context.Context, levelKey string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	if _, err = tx.ExecContext(ctx, `DELETE FROM level_progress WHERE level_key = ?`, levelKey); err != nil {
		return err
	}
	if _, err = tx.ExecContext(ctx, `DELETE FROM completed_tasks WHERE level_key = ?`, levelKey); err != nil {
		return err
	}
	return tx.Commit()
}

// ResetAll clears every progress record, the gamification counters, and
// the session history.
func (s *Store) ResetAll(ctx context.Context) error {
	stmts := []string{
		`DELETE FROM level_progress`,
		`DELETE FROM completed_tasks`,
		`DELETE FROM meta`,
		`DELETE FROM session_key_stats`,
		`DELETE FROM sessions`,
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			if rerr := tx.Rollback(); rerr != nil {
				// Best-effort rollback.
				_ = rerr
			}
		}
	}()
	for _, stmt := range stmts {
		if _, err = tx.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
