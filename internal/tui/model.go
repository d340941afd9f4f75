package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"unicode"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/poriyaalar/suvadi/internal/drill"
	"github.com/poriyaalar/suvadi/internal/generator"
	"github.com/poriyaalar/suvadi/internal/layout"
	"github.com/poriyaalar/suvadi/internal/level"
	"github.com/poriyaalar/suvadi/internal/model"
	"github.com/poriyaalar/suvadi/internal/progress"
	statsPkg "github.com/poriyaalar/suvadi/internal/stats"
)

const reviewTaskCount = 5

// streakAccuracy is the accuracy a session needs to extend the streak.
// Sessions above it also earn a bonus on top of the per-stroke score.
const (
	streakAccuracy   = 0.9
	streakBasePoints = 10
	streakBonusStep  = 2
)

type screen int

const (
	screenPick screen = iota
	screenDrill
	screenLevelDone
)

var (
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cursorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A")).Underline(true)
	hintStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	titleStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	errorStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
)

// Model implements the Bubble Tea drill UI.
type Model struct {
	cfg     model.Config
	store   *progress.Store
	table   *layout.Table
	levels  []level.Level
	gen     *generator.Generator
	weakSet map[rune]struct{}

	width  int
	height int

	screen screen
	picker table.Model
	errMsg string

	lvl     level.Level
	review  bool
	tasks   []string
	taskIdx int

	matcher   *drill.Matcher
	scorer    *drill.Scorer
	started   bool
	lastWrong bool

	record model.LevelProgress
	gamif  model.Gamification

	lastResult *drill.Result
}

// NewModel constructs the drill TUI model. When cfg.Level names a level the
// model starts directly in the drill screen.
func NewModel(cfg model.Config, st *progress.Store, tbl *layout.Table, levels []level.Level, gen *generator.Generator, weakSet map[rune]struct{}) *Model {
	m := &Model{
		cfg:     cfg,
		store:   st,
		table:   tbl,
		levels:  levels,
		gen:     gen,
		weakSet: weakSet,
		screen:  screenPick,
	}
	if g, err := st.LoadGamification(context.Background()); err != nil {
		logErrf("failed to load score: %v\n", err)
	} else {
		m.gamif = g
	}
	m.rebuildPicker()
	if cfg.Level != "" {
		for _, lvl := range levels {
			if lvl.Key == cfg.Level {
				m.startLevel(lvl, cfg.Review)
				break
			}
		}
	}
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch m.screen {
		case screenPick:
			return m.updatePick(msg)
		case screenDrill:
			return m.updateDrill(msg)
		case screenLevelDone:
			return m.updateLevelDone(msg)
		}
	}
	return m, nil
}

func (m *Model) updatePick(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		return m, tea.Quit
	case tea.KeyEnter:
		idx := m.picker.Cursor()
		if idx >= 0 && idx < len(m.levels) {
			m.startLevel(m.levels[idx], m.cfg.Review)
		}
		return m, nil
	}
	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)
	return m, cmd
}

func (m *Model) updateDrill(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.Type == tea.KeyEsc {
		// Abandoning mid-line persists nothing.
		m.screen = screenPick
		m.rebuildPicker()
		return m, nil
	}
	key, shift, ok := keystrokeFor(msg)
	if !ok {
		return m, nil
	}
	if !m.started {
		m.scorer.Start()
		m.started = true
	}
	out, err := m.matcher.Submit(key, shift)
	if err != nil {
		return m, nil
	}
	m.scorer.Record(out)
	m.lastWrong = !out.Correct
	if out.LineDone {
		m.finishTask()
	}
	return m, nil
}

func (m *Model) updateLevelDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEnter, msg.Type == tea.KeyEsc:
		m.screen = screenPick
		m.rebuildPicker()
	case msg.Type == tea.KeyRunes && string(msg.Runes) == "r":
		m.startLevel(m.lvl, m.review)
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var content string
	switch m.screen {
	case screenPick:
		content = m.viewPick()
	case screenDrill:
		content = m.viewDrill()
	case screenLevelDone:
		content = m.viewLevelDone()
	}
	if m.width == 0 || m.height == 0 {
		return content
	}
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
}

func (m *Model) viewPick() string {
	parts := []string{
		titleStyle.Render("suvadi — தட்டச்சு பயிற்சி"),
		"",
		m.picker.View(),
		"",
		footerStyle.Render("enter: start  esc: quit"),
	}
	if m.errMsg != "" {
		parts = append(parts, errorStyle.Render(m.errMsg))
	}
	return strings.Join(parts, "\n")
}

func (m *Model) viewDrill() string {
	contentWidth := 60
	if m.width > 0 {
		contentWidth = int(float64(m.width) * 0.70)
		if contentWidth < 1 {
			contentWidth = 1
		}
	}
	styled := buildStyledChars(m.matcher.Chars(), m.matcher.CharIndex(), m.lastWrong)
	body := wrapStyledChars(styled, contentWidth)

	hint := ""
	if stroke, err := m.matcher.Peek(); err == nil {
		hint = hintStyle.Render("next: " + hintFor(stroke))
	}

	parts := []string{
		titleStyle.Render(fmt.Sprintf("%s · %d/%d", m.lvl.Name, m.taskIdx+1, len(m.tasks))),
		"",
		body,
		"",
		hint,
		"",
		footerStyle.Render(m.footerLine()),
	}
	return strings.Join(parts, "\n")
}

func (m *Model) viewLevelDone() string {
	parts := []string{
		titleStyle.Render(m.lvl.Name + " — நிறைவு"),
		"",
	}
	if m.lastResult != nil {
		parts = append(parts,
			fmt.Sprintf("WPM %.1f · SPM %.1f · Accuracy %.1f%%",
				m.lastResult.WPM, m.lastResult.SPM, m.lastResult.Accuracy*100),
			"",
		)
	}
	parts = append(parts,
		footerStyle.Render(fmt.Sprintf("score %d · streak %d (best %d)",
			m.gamif.TotalScore, m.gamif.CurrentStreak, m.gamif.BestStreak)),
		"",
		footerStyle.Render("r: repeat  enter: levels"),
	)
	return strings.Join(parts, "\n")
}

func (m *Model) footerLine() string {
	segments := []string{
		fmt.Sprintf("char %d/%d", m.matcher.CharIndex(), len(m.matcher.Chars())),
	}
	if m.lastResult != nil {
		segments = append(segments, fmt.Sprintf("last %.1f WPM · %.1f%%",
			m.lastResult.WPM, m.lastResult.Accuracy*100))
	}
	if m.record.BestWPM > 0 {
		segments = append(segments, fmt.Sprintf("best %.1f WPM · %.1f%%",
			m.record.BestWPM, m.record.BestAccuracy*100))
	}
	return strings.Join(segments, "  ")
}

func (m *Model) rebuildPicker() {
	ctx := context.Background()
	columns := []table.Column{
		{Title: "Level", Width: 8},
		{Title: "Name", Width: 26},
		{Title: "Done", Width: 6},
		{Title: "Best WPM", Width: 9},
		{Title: "Best Acc", Width: 9},
	}
	rows := make([]table.Row, 0, len(m.levels))
	for _, lvl := range m.levels {
		record, err := m.store.LoadProgress(ctx, lvl.Key)
		if err != nil {
			logErrf("failed to load progress for %s: %v\n", lvl.Key, err)
			record = model.NewLevelProgress()
		}
		rows = append(rows, table.Row{
			lvl.Key,
			lvl.Name,
			fmt.Sprintf("%d/%d", len(record.CompletedTasks), len(lvl.Tasks)),
			fmt.Sprintf("%.1f", record.BestWPM),
			fmt.Sprintf("%.0f%%", record.BestAccuracy*100),
		})
	}
	height := len(rows)
	if height > 12 {
		height = 12
	}
	m.picker = table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(height),
	)
}

func (m *Model) startLevel(lvl level.Level, review bool) {
	m.lvl = lvl
	m.review = review
	m.errMsg = ""
	m.lastResult = nil

	if review {
		if len(m.weakSet) > 0 {
			m.tasks = m.gen.PickWeighted(m.table, lvl.Tasks, reviewTaskCount, m.weakSet, m.cfg.WeakFactor)
		} else {
			m.tasks = m.gen.Pick(lvl.Tasks, reviewTaskCount)
		}
	} else {
		m.tasks = lvl.Tasks
	}

	record, err := m.store.LoadProgress(context.Background(), lvl.Key)
	if err != nil {
		logErrf("failed to load progress: %v\n", err)
		record = model.NewLevelProgress()
	}
	m.record = record

	m.taskIdx = 0
	if !review {
		for m.taskIdx < len(m.tasks) {
			if _, done := record.CompletedTasks[m.taskIdx]; !done {
				break
			}
			m.taskIdx++
		}
		if m.taskIdx == len(m.tasks) {
			// Whole level already done; start over from the top.
			m.taskIdx = 0
		}
	}

	m.screen = screenDrill
	m.prepareTask()
}

// prepareTask builds the matcher for the current task. A line the layout
// cannot resolve is reported and skipped; the rest of the level stays
// usable.
func (m *Model) prepareTask() {
	for m.taskIdx < len(m.tasks) {
		matcher, err := drill.NewMatcher(m.table, m.tasks[m.taskIdx])
		if err != nil {
			logErrf("skipping %s task %d: %v\n", m.lvl.Key, m.taskIdx, err)
			m.taskIdx++
			continue
		}
		m.matcher = matcher
		m.scorer = drill.NewScorer()
		m.started = false
		m.lastWrong = false
		return
	}
	m.screen = screenLevelDone
}

func (m *Model) finishTask() {
	result := m.scorer.Finalize()
	m.lastResult = &result
	m.persistSession(result)

	m.taskIdx++
	if m.taskIdx < len(m.tasks) {
		m.prepareTask()
		return
	}
	m.screen = screenLevelDone
}

func (m *Model) persistSession(result drill.Result) {
	ctx := context.Background()

	keys := make([]model.KeyStats, 0, len(m.scorer.KeyTallies()))
	for stroke, tally := range m.scorer.KeyTallies() {
		keys = append(keys, model.KeyStats{
			Key:       string(stroke.Key),
			Shift:     stroke.Shift,
			Correct:   tally.Correct,
			Incorrect: tally.Incorrect,
		})
	}
	startedAt := m.scorer.StartedAt()
	rec := model.SessionRecord{
		LevelKey:   m.lvl.Key,
		TaskIndex:  m.taskIdx,
		StartedAt:  startedAt,
		EndedAt:    startedAt.Add(result.Elapsed),
		Correct:    result.Correct,
		Incorrect:  result.Incorrect,
		DurationMs: result.Elapsed.Milliseconds(),
	}
	if _, err := m.store.InsertSession(ctx, rec, keys); err != nil {
		logErrf("failed to save session: %v\n", err)
	}

	if !m.review {
		m.record.CompletedTasks[m.taskIdx] = struct{}{}
	}
	if result.WPM > m.record.BestWPM {
		m.record.BestWPM = result.WPM
	}
	if result.Accuracy > m.record.BestAccuracy {
		m.record.BestAccuracy = result.Accuracy
	}
	if err := m.store.SaveProgress(ctx, m.lvl.Key, m.record); err != nil {
		logErrf("failed to save progress: %v\n", err)
	}

	m.gamif.TotalScore += result.Correct
	if result.Accuracy >= streakAccuracy {
		m.gamif.CurrentStreak++
		if m.gamif.CurrentStreak > m.gamif.BestStreak {
			m.gamif.BestStreak = m.gamif.CurrentStreak
		}
		m.gamif.TotalScore += streakBasePoints + m.gamif.CurrentStreak*streakBonusStep
	} else {
		m.gamif.CurrentStreak = 0
	}
	if err := m.store.SaveGamification(ctx, m.gamif); err != nil {
		logErrf("failed to save score: %v\n", err)
	}

	m.refreshWeakSet()
}

func (m *Model) refreshWeakSet() {
	if !m.cfg.Review {
		return
	}
	aggs, err := m.store.GetWeakKeys(context.Background(), m.cfg.WeakWindow, "")
	if err != nil {
		logErrf("failed to load weak keys: %v\n", err)
		return
	}
	m.weakSet = statsPkg.SelectWeakKeys(aggs, m.cfg.WeakTop)
}

// keystrokeFor translates a terminal key event into a physical keystroke.
// An uppercase rune stands for shift plus its lowercase key.
func keystrokeFor(msg tea.KeyMsg) (rune, bool, bool) {
	switch msg.Type {
	case tea.KeySpace:
		return ' ', false, true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return 0, false, false
		}
		r := msg.Runes[0]
		if r >= 'A' && r <= 'Z' {
			return unicode.ToLower(r), true, true
		}
		return r, false, true
	}
	return 0, false, false
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
