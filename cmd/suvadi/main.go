// Package main provides the CLI entrypoint for suvadi.
package main

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/poriyaalar/suvadi/internal/config"
	"github.com/poriyaalar/suvadi/internal/generator"
	"github.com/poriyaalar/suvadi/internal/layout"
	"github.com/poriyaalar/suvadi/internal/level"
	"github.com/poriyaalar/suvadi/internal/model"
	"github.com/poriyaalar/suvadi/internal/progress"
	"github.com/poriyaalar/suvadi/internal/stats"
	"github.com/poriyaalar/suvadi/internal/tui"
)

const (
	defaultWeakTop     = 8
	defaultWeakFactor  = 2.0
	defaultWeakWindow  = 20
	defaultTrendWindow = 10
	defaultTrendWidth  = 60
)

var (
	practiceLevel      string
	practiceLevelsDir  string
	practiceReview     bool
	practiceWeakTop    int
	practiceWeakFactor float64
	practiceWeakWindow int

	levelsDirFlag string

	statsLevel       string
	statsSince       string
	statsLast        int
	statsTrendWindow int

	resetLevel string
	resetAll   bool
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "suvadi",
		Short:         "Tamil99 typing tutor",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runPracticeCmd,
	}

	rootCmd.Flags().StringVar(&practiceLevel, "level", "", "level key to start in (default: level picker)")
	rootCmd.Flags().StringVar(&practiceLevelsDir, "levels-dir", "", "directory with custom level files")
	rootCmd.Flags().BoolVar(&practiceReview, "review", false, "review mode biased toward weak keys")
	rootCmd.Flags().IntVar(&practiceWeakTop, "weak-top", defaultWeakTop, "number of weak keys to focus on")
	rootCmd.Flags().Float64Var(&practiceWeakFactor, "weak-factor", defaultWeakFactor, "weight factor for weak keys")
	rootCmd.Flags().IntVar(&practiceWeakWindow, "weak-window", defaultWeakWindow, "number of recent sessions to compute weak keys")

	rootCmd.AddCommand(newLevelsCmd())
	rootCmd.AddCommand(newStatsCmd())
	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newResetCmd())

	return rootCmd
}

func runPracticeCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "level", &practiceLevel, fileCfg.Practice.Level)
	applyStringConfig(cmd, "levels-dir", &practiceLevelsDir, fileCfg.Practice.LevelsDir)
	applyBoolConfig(cmd, "review", &practiceReview, fileCfg.Practice.Review)
	applyIntConfig(cmd, "weak-top", &practiceWeakTop, fileCfg.Practice.WeakTop)
	applyFloatConfig(cmd, "weak-factor", &practiceWeakFactor, fileCfg.Practice.WeakFactor)
	applyIntConfig(cmd, "weak-window", &practiceWeakWindow, fileCfg.Practice.WeakWindow)

	cfg := model.Config{
		Level:      practiceLevel,
		LevelsDir:  practiceLevelsDir,
		Review:     practiceReview,
		WeakTop:    practiceWeakTop,
		WeakFactor: practiceWeakFactor,
		WeakWindow: practiceWeakWindow,
	}
	if err := validateConfig(cfg); err != nil {
		return err
	}

	repo, err := loadLevels(cfg.LevelsDir)
	if err != nil {
		return err
	}
	if cfg.Level != "" {
		if _, err := repo.Get(cfg.Level); err != nil {
			return fmt.Errorf("unknown level %q: run suvadi levels", cfg.Level)
		}
	}

	st, err := progress.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	table := layout.NewTamil99()

	weakSet := map[rune]struct{}{}
	if cfg.Review {
		aggs, err := st.GetWeakKeys(context.Background(), cfg.WeakWindow, "")
		if err != nil {
			logErrf("failed to load weak keys: %v\n", err)
		} else {
			weakSet = stats.SelectWeakKeys(aggs, cfg.WeakTop)
			if len(weakSet) == 0 {
				logErrln("no stats available for weak-key review yet; using plain selection")
			}
		}
	}

	gen := generator.New()
	m := tui.NewModel(cfg, st, table, repo.All(), gen, weakSet)
	program := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	return nil
}

// loadLevels prefers an explicit directory, then the XDG levels directory,
// then the embedded curriculum.
func loadLevels(dir string) (*level.Repository, error) {
	if dir != "" {
		repo, err := level.LoadDir(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to load levels from %s: %w", dir, err)
		}
		return repo, nil
	}
	userDir := config.DefaultLevelsDir()
	if info, err := os.Stat(userDir); err == nil && info.IsDir() {
		repo, err := level.LoadDir(userDir)
		if err != nil {
			return nil, fmt.Errorf("failed to load levels from %s: %w", userDir, err)
		}
		if repo.Count() > 0 {
			return repo, nil
		}
	}
	repo, err := level.LoadEmbedded()
	if err != nil {
		return nil, fmt.Errorf("failed to load built-in levels: %w", err)
	}
	return repo, nil
}

func newLevelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "levels",
		Short: "List levels and progress",
		Args:  cobra.NoArgs,
		RunE:  runLevelsCmd,
	}
	cmd.Flags().StringVar(&levelsDirFlag, "levels-dir", "", "directory with custom level files")
	return cmd
}

func runLevelsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "levels-dir", &levelsDirFlag, fileCfg.Practice.LevelsDir)

	repo, err := loadLevels(levelsDirFlag)
	if err != nil {
		return err
	}

	st, err := progress.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if _, err := fmt.Fprintf(out, "%-10s %-28s %-8s %-9s %-9s\n", "LEVEL", "NAME", "DONE", "BEST WPM", "BEST ACC"); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	for _, lvl := range repo.All() {
		record, err := st.LoadProgress(context.Background(), lvl.Key)
		if err != nil {
			return fmt.Errorf("failed to load progress for %s: %w", lvl.Key, err)
		}
		if _, err := fmt.Fprintf(out, "%-10s %-28s %-8s %-9.1f %-9s\n",
			lvl.Key,
			lvl.Name,
			fmt.Sprintf("%d/%d", len(record.CompletedTasks), len(lvl.Tasks)),
			record.BestWPM,
			fmt.Sprintf("%.0f%%", record.BestAccuracy*100),
		); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
	}
	return nil
}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show session stats",
		Args:  cobra.NoArgs,
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsLevel, "level", "", "level filter")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N sessions")
	cmd.Flags().IntVar(&statsTrendWindow, "trend-window", defaultTrendWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}
	if statsTrendWindow <= 0 {
		return fmt.Errorf("--trend-window must be > 0")
	}

	cfg := model.StatsConfig{
		Level: statsLevel,
		Since: sinceTime,
		Last:  statsLast,
	}

	st, err := progress.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	report, err := stats.BuildReport(context.Background(), st, cfg)
	if err != nil {
		return fmt.Errorf("failed to build report: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := stats.RenderSummary(out, report.Sessions); err != nil {
		return fmt.Errorf("failed to render summary: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderTrend(out, report.Sessions, statsTrendWindow, trendWidth()); err != nil {
		return fmt.Errorf("failed to render trend: %w", err)
	}
	if _, err := fmt.Fprintln(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := stats.RenderKeyTable(out, report.KeyAggs); err != nil {
		return fmt.Errorf("failed to render key table: %w", err)
	}
	return nil
}

func trendWidth() int {
	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		return defaultTrendWidth
	}
	return width
}

func newConfigCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Create/open config file",
		Args:  cobra.NoArgs,
		RunE:  runConfigCmd,
	}
}

func runConfigCmd(_ *cobra.Command, _ []string) error {
	path := config.DefaultConfigPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(path); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("failed to stat config: %w", err)
		}
		if err := os.WriteFile(path, []byte(defaultConfigTemplate()), 0o644); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
	}

	editor := strings.TrimSpace(os.Getenv("EDITOR"))
	if editor == "" {
		editor = "vi"
	}
	parts := strings.Fields(editor)
	if len(parts) == 0 {
		return fmt.Errorf("editor command is empty")
	}
	cmd := exec.Command(parts[0], append(parts[1:], path)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("failed to open editor: %w", err)
	}
	return nil
}

func newResetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset progress",
		Args:  cobra.NoArgs,
		RunE:  runResetCmd,
	}
	cmd.Flags().StringVar(&resetLevel, "level", "", "reset a single level")
	cmd.Flags().BoolVar(&resetAll, "all", false, "reset everything, including sessions and score")
	return cmd
}

func runResetCmd(cmd *cobra.Command, _ []string) error {
	if resetLevel == "" && !resetAll {
		return fmt.Errorf("specify --level <key> or --all")
	}
	if resetLevel != "" && resetAll {
		return fmt.Errorf("--level and --all are mutually exclusive")
	}

	st, err := progress.Open(config.DefaultDBPath())
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	out := cmd.OutOrStdout()
	if resetAll {
		if err := st.ResetAll(context.Background()); err != nil {
			return fmt.Errorf("failed to reset: %w", err)
		}
		if _, err := fmt.Fprintln(out, "all progress reset"); err != nil {
			return fmt.Errorf("failed to write output: %w", err)
		}
		return nil
	}
	if err := st.ResetLevel(context.Background(), resetLevel); err != nil {
		return fmt.Errorf("failed to reset level: %w", err)
	}
	if _, err := fmt.Fprintf(out, "progress reset for %s (sessions kept)\n", resetLevel); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func applyStringConfig(cmd *cobra.Command, name string, target, value *string) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyIntConfig(cmd *cobra.Command, name string, target, value *int) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyFloatConfig(cmd *cobra.Command, name string, target, value *float64) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func applyBoolConfig(cmd *cobra.Command, name string, target, value *bool) {
	if value == nil {
		return
	}
	if cmd.Flags().Changed(name) {
		return
	}
	*target = *value
}

func defaultConfigTemplate() string {
	return fmt.Sprintf(`# suvadi configuration
# Uncomment a value to enable it. CLI flags override config values.

[practice]
# level = "level1"        # Level key to start in
# levels-dir = ""         # Directory with custom level files
# review = false          # Review mode biased toward weak keys
# weak-top = %d            # Number of weak keys to focus on
# weak-factor = %.1f       # Weight factor for weak keys
# weak-window = %d         # Number of recent sessions to compute weak keys
`,
		defaultWeakTop,
		defaultWeakFactor,
		defaultWeakWindow,
	)
}

func validateConfig(cfg model.Config) error {
	if cfg.WeakTop < 0 {
		return fmt.Errorf("--weak-top must be >= 0")
	}
	if cfg.WeakFactor < 0 {
		return fmt.Errorf("--weak-factor must be >= 0")
	}
	if cfg.WeakWindow < 0 {
		return fmt.Errorf("--weak-window must be >= 0")
	}
	return nil
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}

func logErrln(args ...any) {
	if _, err := fmt.Fprintln(os.Stderr, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
