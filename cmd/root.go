package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/cwarden/theine/internal/config"
	"github.com/cwarden/theine/internal/log"
	"github.com/cwarden/theine/internal/state"
	"github.com/cwarden/theine/internal/ui"
)

var (
	cfgFile   string
	stateFile string
	logLevel  string
	cfg       *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "theine",
	Short: "A terminal viewer for jet lag adjustment schedules",
	Long: `Theine shows a computed jet lag schedule (sleep, naps, meals and light
exposure) as a list with relative times and as a day calendar.`,
	SilenceUsage:      true,
	PersistentPreRunE: initConfig,
	RunE:              runTUI,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "Config file (default: search $THEINE_CONFIG, XDG and home)")
	rootCmd.PersistentFlags().StringVarP(&stateFile, "state", "s", "", "State file to read and write")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info or error")
}

func initConfig(cmd *cobra.Command, args []string) error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFile(cfgFile)
	} else {
		cfg, err = config.LoadConfig()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if stateFile != "" {
		cfg.StateFile = stateFile
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return err
	}
	log.SetLevel(level)
	return nil
}

func loadContainer() (*state.Container, error) {
	s, err := state.Load(cfg.StateFile)
	if err != nil {
		return nil, err
	}
	return state.NewContainer(s), nil
}

func calculator() (state.Calculator, error) {
	if cfg.Calculator == "" {
		return nil, nil
	}
	return state.NewExecCalculator(cfg.Calculator)
}

func runTUI(cmd *cobra.Command, args []string) error {
	// Log lines would tear the alternate screen, so they go to a file.
	logFile := cfg.LogFile
	if logFile == "" {
		logFile = filepath.Join(os.TempDir(), "theine.log")
	}
	f, err := tea.LogToFile(logFile, "")
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer f.Close()
	log.SetOutput(f)

	container, err := loadContainer()
	if err != nil {
		return err
	}

	calc, err := calculator()
	if err != nil {
		return err
	}

	var changes chan struct{}
	if cfg.AutoReload {
		if err := os.MkdirAll(filepath.Dir(cfg.StateFile), 0o755); err != nil {
			return fmt.Errorf("create state directory: %w", err)
		}

		changes = make(chan struct{}, 1)
		watcher, err := state.NewWatcher(cfg.StateFile, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
		if err != nil {
			log.Error("watch state file", err, "path", cfg.StateFile)
		} else {
			defer watcher.Close()
		}
	}

	model := ui.NewModel(ui.Options{
		Config:     cfg,
		Container:  container,
		StatePath:  cfg.StateFile,
		Calculator: calc,
		Changes:    changes,
	})

	log.Info("starting", "state", cfg.StateFile)
	p := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running program: %w", err)
	}

	return nil
}
