// Package main provides the CLI entrypoint for trailcap.
package main

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/verte-zerg/trailcap/internal/config"
	"github.com/verte-zerg/trailcap/internal/history"
	"github.com/verte-zerg/trailcap/internal/model"
	"github.com/verte-zerg/trailcap/internal/sampler"
	"github.com/verte-zerg/trailcap/internal/session"
	"github.com/verte-zerg/trailcap/internal/statsui"
	"github.com/verte-zerg/trailcap/internal/store"
	"github.com/verte-zerg/trailcap/internal/sysprobe"
	"github.com/verte-zerg/trailcap/internal/trial"
	"github.com/verte-zerg/trailcap/internal/tui"
)

const (
	defaultMaxPaths    = 15
	defaultTraining    = 5
	defaultCurveWindow = 10

	// Target geometry, in arena units.
	minTargetDistance = 8
	distanceMargin    = 4
	orientationSteps  = 8
	delayMinMs        = 2000
	delayMaxMs        = 4000
)

var targetRadii = []int{2, 4, 6}

var (
	runDataDir      string
	runMaxPaths     int
	runTraining     int
	runSeed         int64
	runInterpolated bool

	statsMethod      string
	statsSince       string
	statsLast        int
	statsCurveWindow int
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "trailcap",
		Short:         "Pointer trajectory recorder",
		SilenceUsage:  true,
		SilenceErrors: false,
		RunE:          runCaptureCmd,
	}

	rootCmd.Flags().StringVar(&runDataDir, "data-dir", "", "data directory (default: XDG data dir)")
	rootCmd.Flags().IntVar(&runMaxPaths, "max-paths", defaultMaxPaths, "paths to keep per input method")
	rootCmd.Flags().IntVar(&runTraining, "training", defaultTraining, "training trials before collection")
	rootCmd.Flags().Int64Var(&runSeed, "seed", 0, "random seed (0 picks the current time)")
	rootCmd.Flags().BoolVar(&runInterpolated, "interpolated", false, "also export interpolated paths")

	rootCmd.AddCommand(newConfigCmd())
	rootCmd.AddCommand(newStatsCmd())

	return rootCmd
}

func runCaptureCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	applyStringConfig(cmd, "data-dir", &runDataDir, fileCfg.Data.Dir)
	applyIntConfig(cmd, "max-paths", &runMaxPaths, fileCfg.Experiment.MaxPaths)
	applyIntConfig(cmd, "training", &runTraining, fileCfg.Experiment.TrainingTrials)
	applyInt64Config(cmd, "seed", &runSeed, fileCfg.Experiment.Seed)
	applyBoolConfig(cmd, "interpolated", &runInterpolated, fileCfg.Experiment.Interpolated)

	if runMaxPaths <= 0 {
		return fmt.Errorf("--max-paths must be > 0")
	}
	if runTraining < 0 {
		return fmt.Errorf("--training must be >= 0")
	}

	dataDir := runDataDir
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}
	pathsFile := config.PathsFile(dataDir)
	propsFile := config.PropsFile(dataDir)
	settings := model.ExperimentSettings{MaxPaths: runMaxPaths, TrainingTrials: runTraining}

	hist := history.Load(pathsFile, propsFile, settings, logErrf)

	st, err := store.Open(config.DBPath(dataDir))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	rnd := sampler.NewRand(runSeed)
	probe := sysprobe.New(logErrf)

	uiCfg := tui.Config{
		Settings: settings,
		LastUser: hist.LastUser,
		NewMachine: func(user model.UserSettings, spanX, spanY float64) (*trial.Machine, error) {
			orientation, err := sampler.NewOrientation(rnd, orientationSteps)
			if err != nil {
				return nil, err
			}
			radius, err := sampler.NewChoice(rnd, targetRadii)
			if err != nil {
				return nil, err
			}
			maxDistance := spanX
			if spanY < maxDistance {
				maxDistance = spanY
			}
			maxDistance -= distanceMargin
			if maxDistance <= minTargetDistance {
				maxDistance = minTargetDistance + 1
			}
			distance, err := sampler.NewUniform(rnd, minTargetDistance, maxDistance)
			if err != nil {
				return nil, err
			}
			delay, err := sampler.NewRange(rnd, delayMinMs, delayMaxMs)
			if err != nil {
				return nil, err
			}
			return trial.New(trial.Config{
				Settings: settings,
				User:     user,
				Status:   hist.Status,
				Samplers: trial.Samplers{
					Orientation: orientation,
					Distance:    distance,
					Radius:      radius,
					Delay:       delay,
				},
				Probe:    probe,
				HomeHalf: tui.HomeHalf,
			})
		},
	}

	uiModel := tui.NewModel(uiCfg, st)
	program := tea.NewProgram(uiModel, tea.WithAltScreen(), tea.WithMouseAllMotion())
	final, err := program.Run()
	if err != nil {
		return fmt.Errorf("failed to run TUI: %w", err)
	}
	uiModel, ok := final.(*tui.Model)
	if !ok {
		return fmt.Errorf("unexpected final model %T", final)
	}
	if err := uiModel.Err(); err != nil {
		return err
	}

	res := uiModel.Result()
	if res.Empty() {
		logErrln("no completed trials; recorded files left unchanged")
		return nil
	}

	samples, recs := session.Aggregate(res, hist, settings)
	if err := session.Write(pathsFile, propsFile, samples, recs); err != nil {
		return err
	}
	if runInterpolated && len(res.Interpolated) > 0 {
		if err := session.WriteInterpolated(config.InterpolatedFile(dataDir), res.Interpolated); err != nil {
			return err
		}
	}
	logErrf("recorded %d trials to %s\n", len(res.Records), dataDir)
	return nil
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

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show trial stats",
		RunE:  runStatsCmd,
	}
	cmd.Flags().StringVar(&statsMethod, "method", "", "input method filter (mouse or trackpad)")
	cmd.Flags().StringVar(&statsSince, "since", "", "start date (YYYY-MM-DD)")
	cmd.Flags().IntVar(&statsLast, "last", 0, "limit to last N trials")
	cmd.Flags().IntVar(&statsCurveWindow, "curve-window", defaultCurveWindow, "moving average window")
	return cmd
}

func runStatsCmd(cmd *cobra.Command, _ []string) error {
	fileCfg, err := config.LoadConfig(config.DefaultConfigPath())
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	dataDir := runDataDir
	applyStringConfig(cmd, "data-dir", &dataDir, fileCfg.Data.Dir)
	if dataDir == "" {
		dataDir = config.DefaultDataDir()
	}

	method, err := statsui.ParseMethod(statsMethod)
	if err != nil {
		return fmt.Errorf("invalid --method value: %w", err)
	}
	var sinceTime *time.Time
	if statsSince != "" {
		parsed, err := time.ParseInLocation("2006-01-02", statsSince, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --since value: %w", err)
		}
		sinceTime = &parsed
	}

	cfg := model.StatsConfig{
		InputMethod: method,
		Since:       sinceTime,
		Last:        statsLast,
		CurveWindow: statsCurveWindow,
	}

	st, err := store.Open(config.DBPath(dataDir))
	if err != nil {
		return fmt.Errorf("failed to open db: %w", err)
	}
	defer func() {
		if cerr := st.Close(); cerr != nil {
			logErrf("failed to close db: %v\n", cerr)
		}
	}()

	uiModel := statsui.NewModel(st, cfg)
	program := tea.NewProgram(uiModel, tea.WithAltScreen())
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("failed to run stats TUI: %w", err)
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

func applyInt64Config(cmd *cobra.Command, name string, target, value *int64) {
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
	return fmt.Sprintf(`# trailcap configuration
# Uncomment a value to enable it. CLI flags override config values.

[experiment]
# max-paths = %d          # Paths to keep per input method
# training = %d            # Training trials before collection
# seed = 0                 # Random seed (0 picks the current time)
# interpolated = false     # Also export interpolated paths

[data]
# dir = ""                 # Data directory (default: XDG data dir)
`,
		defaultMaxPaths,
		defaultTraining,
	)
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
