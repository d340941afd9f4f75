package progress

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/poriyaalar/suvadi/internal/model"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	st, err := Open(filepath.Join(dir, "suvadi.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() {
		_ = st.Close()
	})
	return st
}

func insertSession(t *testing.T, st *Store, level string, task int, offset time.Duration, correct, incorrect int, keys []model.KeyStats) int64 {
	t.Helper()
	start := time.Unix(0, 0).Add(offset)
	end := start.Add(30 * time.Second)
	id, err := st.InsertSession(context.Background(), model.SessionRecord{
		LevelKey:   level,
		TaskIndex:  task,
		StartedAt:  start,
		EndedAt:    end,
		Correct:    correct,
		Incorrect:  incorrect,
		DurationMs: end.Sub(start).Milliseconds(),
	}, keys)
	if err != nil {
		t.Fatalf("insert session: %v", err)
	}
	return id
}

func TestLoadProgressEmptyLevel(t *testing.T) {
	st := openStore(t)
	record, err := st.LoadProgress(context.Background(), "level1")
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if len(record.CompletedTasks) != 0 || record.BestWPM != 0 || record.BestAccuracy != 0 {
		t.Fatalf("expected empty record, got %+v", record)
	}
}

func TestSaveProgressRoundTrip(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	record := model.NewLevelProgress()
	record.CompletedTasks[0] = struct{}{}
	record.CompletedTasks[2] = struct{}{}
	record.BestWPM = 24.5
	record.BestAccuracy = 0.92
	if err := st.SaveProgress(ctx, "level1", record); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	loaded, err := st.LoadProgress(ctx, "level1")
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if len(loaded.CompletedTasks) != 2 {
		t.Fatalf("expected 2 completed tasks, got %v", loaded.CompletedTasks)
	}
	if _, ok := loaded.CompletedTasks[2]; !ok {
		t.Fatalf("task 2 missing: %v", loaded.CompletedTasks)
	}
	if loaded.BestWPM != 24.5 || loaded.BestAccuracy != 0.92 {
		t.Fatalf("unexpected bests: %+v", loaded)
	}
}

func TestSaveProgressReplacesWholeRecord(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	first := model.NewLevelProgress()
	first.CompletedTasks[0] = struct{}{}
	first.CompletedTasks[1] = struct{}{}
	if err := st.SaveProgress(ctx, "level1", first); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	second := model.NewLevelProgress()
	second.CompletedTasks[3] = struct{}{}
	second.BestWPM = 10
	if err := st.SaveProgress(ctx, "level1", second); err != nil {
		t.Fatalf("save progress: %v", err)
	}

	loaded, err := st.LoadProgress(ctx, "level1")
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if len(loaded.CompletedTasks) != 1 {
		t.Fatalf("save must replace the task set, got %v", loaded.CompletedTasks)
	}
	if _, ok := loaded.CompletedTasks[3]; !ok {
		t.Fatalf("task 3 missing after replace")
	}
}

func TestListSessionsFilters(t *testing.T) {
	st := openStore(t)
	insertSession(t, st, "level1", 0, 0, 10, 1, nil)
	insertSession(t, st, "level2", 0, time.Minute, 12, 0, nil)
	insertSession(t, st, "level1", 1, 2*time.Minute, 14, 2, nil)

	sessions, err := st.ListSessions(context.Background(), model.StatsConfig{Level: "level1"})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 2 {
		t.Fatalf("expected 2 level1 sessions, got %d", len(sessions))
	}
	if sessions[0].EndedAt.After(sessions[1].EndedAt) {
		t.Fatalf("sessions must be in ascending order")
	}

	since := time.Unix(0, 0).Add(90 * time.Second)
	sessions, err = st.ListSessions(context.Background(), model.StatsConfig{Since: &since})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("expected 1 session since cutoff, got %d", len(sessions))
	}
}

func TestGetWeakKeysWindow(t *testing.T) {
	st := openStore(t)
	insertSession(t, st, "level1", 0, 0, 5, 5, []model.KeyStats{
		{Key: "h", Correct: 2, Incorrect: 3},
		{Key: "q", Shift: true, Correct: 3, Incorrect: 2},
	})
	insertSession(t, st, "level1", 1, time.Minute, 8, 1, []model.KeyStats{
		{Key: "h", Correct: 5, Incorrect: 1},
	})

	aggs, err := st.GetWeakKeys(context.Background(), 10, "")
	if err != nil {
		t.Fatalf("get weak keys: %v", err)
	}
	if len(aggs) != 2 {
		t.Fatalf("expected 2 aggregates, got %+v", aggs)
	}
	for _, agg := range aggs {
		if agg.Key == "h" && (agg.Correct != 7 || agg.Incorrect != 4) {
			t.Fatalf("h not summed across sessions: %+v", agg)
		}
		if agg.Key == "q" && !agg.Shift {
			t.Fatalf("shift flag lost: %+v", agg)
		}
	}

	none, err := st.GetWeakKeys(context.Background(), 0, "")
	if err != nil {
		t.Fatalf("get weak keys: %v", err)
	}
	if none != nil {
		t.Fatalf("zero window must return nothing")
	}
}

func TestListKeyAggregates(t *testing.T) {
	st := openStore(t)
	id1 := insertSession(t, st, "level1", 0, 0, 5, 0, []model.KeyStats{
		{Key: "a", Correct: 5},
	})
	id2 := insertSession(t, st, "level1", 1, time.Minute, 4, 1, []model.KeyStats{
		{Key: "a", Correct: 3, Incorrect: 1},
	})

	aggs, err := st.ListKeyAggregates(context.Background(), []int64{id1, id2})
	if err != nil {
		t.Fatalf("list key aggregates: %v", err)
	}
	if len(aggs) != 1 || aggs[0].Correct != 8 || aggs[0].Incorrect != 1 {
		t.Fatalf("unexpected aggregates: %+v", aggs)
	}
}

func TestGamificationRoundTripAndBestStreakFloor(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()

	g, err := st.LoadGamification(ctx)
	if err != nil {
		t.Fatalf("load gamification: %v", err)
	}
	if g != (model.Gamification{}) {
		t.Fatalf("expected zero gamification, got %+v", g)
	}

	if err := st.SaveGamification(ctx, model.Gamification{TotalScore: 100, CurrentStreak: 5, BestStreak: 5}); err != nil {
		t.Fatalf("save gamification: %v", err)
	}
	// A broken streak must not lower the best.
	if err := st.SaveGamification(ctx, model.Gamification{TotalScore: 120, CurrentStreak: 0, BestStreak: 0}); err != nil {
		t.Fatalf("save gamification: %v", err)
	}
	g, err = st.LoadGamification(ctx)
	if err != nil {
		t.Fatalf("load gamification: %v", err)
	}
	if g.TotalScore != 120 || g.CurrentStreak != 0 || g.BestStreak != 5 {
		t.Fatalf("unexpected gamification: %+v", g)
	}
}

func TestResetLevelKeepsSessions(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	insertSession(t, st, "level1", 0, 0, 10, 0, nil)

	record := model.NewLevelProgress()
	record.CompletedTasks[0] = struct{}{}
	if err := st.SaveProgress(ctx, "level1", record); err != nil {
		t.Fatalf("save progress: %v", err)
	}
	if err := st.ResetLevel(ctx, "level1"); err != nil {
		t.Fatalf("reset level: %v", err)
	}

	loaded, err := st.LoadProgress(ctx, "level1")
	if err != nil {
		t.Fatalf("load progress: %v", err)
	}
	if len(loaded.CompletedTasks) != 0 {
		t.Fatalf("reset must clear tasks: %v", loaded.CompletedTasks)
	}
	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("reset level must keep session history")
	}
}

func TestResetAll(t *testing.T) {
	st := openStore(t)
	ctx := context.Background()
	insertSession(t, st, "level1", 0, 0, 10, 0, []model.KeyStats{{Key: "a", Correct: 10}})
	if err := st.SaveGamification(ctx, model.Gamification{TotalScore: 10}); err != nil {
		t.Fatalf("save gamification: %v", err)
	}

	if err := st.ResetAll(ctx); err != nil {
		t.Fatalf("reset all: %v", err)
	}
	sessions, err := st.ListSessions(ctx, model.StatsConfig{})
	if err != nil {
		t.Fatalf("list sessions: %v", err)
	}
	if len(sessions) != 0 {
		t.Fatalf("reset all must clear sessions")
	}
	g, err := st.LoadGamification(ctx)
	if err != nil {
		t.Fatalf("load gamification: %v", err)
	}
	if g != (model.Gamification{}) {
		t.Fatalf("reset all must clear gamification: %+v", g)
	}
}
