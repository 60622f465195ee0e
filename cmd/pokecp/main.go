// Command pokecp browses the per-CP evolution tables written by
// calculate_cp.py.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"pokecp/pokecp/internal/config"
	"pokecp/pokecp/internal/dataset"
	"pokecp/pokecp/internal/session"
	"pokecp/pokecp/internal/tui"
	"pokecp/pokecp/internal/watch"
)

type options struct {
	configPath string
	verbose    bool
}

// app is what PersistentPreRunE prepares for RunE.
type app struct {
	cfg    *config.Config
	mode   session.Mode
	logger *zap.Logger
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	a := &app{}

	cmd := &cobra.Command{
		Use:   "pokecp",
		Short: "Browse Pokémon CP tables in the terminal",
		Long: `pokecp shows every Pokémon/level/IV combination that reaches a given CP,
as computed by calculate_cp.py into <data-dir>/cp<N>/.

Tables can be filtered by name, level, IVs and evolution, restricted to
uncollected or shadow-eligible entries, and switched to the
shadow/purified view.`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(opts.configPath)
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}
			mode, err := resolve(cmd, cfg)
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogFile, opts.verbose)
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			a.cfg, a.mode, a.logger = cfg, mode, logger
			logger.Info("starting",
				zap.String("config", cfg.Path()),
				zap.String("data_dir", cfg.DataDir),
				zap.Int("cp", cfg.DefaultCP),
				zap.Stringer("mode", mode),
			)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), a)
		},
	}

	flags := cmd.Flags()
	flags.Int("cp", 0, "CP value to load on startup, 0 for the empty prompt (default 520)")
	flags.String("data-dir", config.DefaultDataDir, "directory holding the cp<N>/ folders")
	flags.StringVar(&opts.configPath, "config", "", "config file (default ~/.pokecp.yaml)")
	flags.String("mode", "normal", "initial view: normal or shadow")
	flags.Int("page-length", 0, "rows per page")
	flags.Bool("watch", false, "reload when the current CP's CSVs change on disk")
	flags.String("log-file", "", "log file (default $TMPDIR/pokecp.log)")
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "debug logging")
	return cmd
}

// resolve lays explicitly set flags over cfg and validates the result.
func resolve(cmd *cobra.Command, cfg *config.Config) (session.Mode, error) {
	flags := cmd.Flags()
	var err error
	if flags.Changed("cp") {
		cfg.DefaultCP, err = flags.GetInt("cp")
	}
	if err == nil && flags.Changed("data-dir") {
		cfg.DataDir, err = flags.GetString("data-dir")
	}
	if err == nil && flags.Changed("mode") {
		cfg.Mode, err = flags.GetString("mode")
	}
	if err == nil && flags.Changed("page-length") {
		cfg.PageLength, err = flags.GetInt("page-length")
	}
	if err == nil && flags.Changed("watch") {
		cfg.Watch, err = flags.GetBool("watch")
	}
	if err == nil && flags.Changed("log-file") {
		cfg.LogFile, err = flags.GetString("log-file")
	}
	if err != nil {
		return session.ModeNormal, err
	}
	if cfg.LogFile == "" {
		cfg.LogFile = filepath.Join(os.TempDir(), "pokecp.log")
	}

	if err := cfg.Validate(); err != nil {
		return session.ModeNormal, err
	}
	return session.ParseMode(cfg.Mode)
}

// newLogger writes JSON logs to path; the terminal belongs to the UI.
func newLogger(path string, verbose bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	if verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

func run(ctx context.Context, a *app) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hotkeys, err := a.cfg.ApplyHotkeys(tui.DefaultHotkeys())
	if err != nil {
		return err
	}

	loader := dataset.NewDirLoader(a.cfg.DataDir, dataset.WithLogger(a.logger.Named("dataset")))
	modelOpts := []tui.Option{
		tui.WithContext(ctx),
		tui.WithLogger(a.logger.Named("tui")),
		tui.WithPalette(a.cfg.Palette()),
		tui.WithHotkeys(hotkeys),
		tui.WithMode(a.mode),
		tui.WithInitialCP(a.cfg.DefaultCP),
	}
	if a.cfg.PageLength != 0 {
		modelOpts = append(modelOpts, tui.WithPageLength(a.cfg.PageLength))
	}

	var (
		program  *tea.Program
		follower *watch.Follower
	)
	if a.cfg.Watch {
		follower, err = watch.New(a.cfg.DataDir, func(ev watch.Event) {
			program.Send(tui.DatasetChangedMsg{CP: ev.CP, Kind: ev.Kind})
		}, watch.WithLogger(a.logger.Named("watch")))
		if err != nil {
			return fmt.Errorf("failed to start watcher: %w", err)
		}
		defer follower.Stop()

		logger := a.logger.Named("watch")
		modelOpts = append(modelOpts, tui.WithFollow(func(cp int) {
			if err := follower.Follow(cp); err != nil {
				logger.Warn("cannot follow data directory", zap.Int("cp", cp), zap.Error(err))
			}
		}))
	}

	program = tea.NewProgram(tui.New(loader, modelOpts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if follower != nil {
		follower.Start(ctx)
	}
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}
	return nil
}
