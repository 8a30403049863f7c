package cli

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/existflow/taskboard/internal/app"
	"github.com/existflow/taskboard/internal/config"
	"github.com/existflow/taskboard/internal/logger"
	"github.com/existflow/taskboard/internal/tui"
)

var (
	logLevel   string
	logFile    string
	logConsole bool

	authURL         string
	taskURL         string
	notificationURL string

	// cfg is loaded once per invocation by the root pre-run
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "taskboard",
	Short: "Taskboard - tasks and notifications from the terminal",
	Long: `Taskboard is a terminal client for the task and notification services.

Run 'taskboard' without arguments to launch the interactive dashboard.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Load config from file (or defaults if not exists)
		loaded, err := config.Load()
		if err != nil {
			logger.Default().Warn("Failed to load config, using defaults", logger.F("error", err))
			loaded = config.DefaultConfig()
		}

		// Logging flags are written back to the config file. Service URL
		// flags apply to this invocation only.
		configChanged := false
		if cmd.Flags().Changed("log-level") {
			loaded.LogLevel = logLevel
			configChanged = true
		}
		if cmd.Flags().Changed("log-file") {
			loaded.LogFile = logFile
			configChanged = true
		}
		if cmd.Flags().Changed("log-console") {
			loaded.LogConsole = logConsole
			configChanged = true
		}

		if configChanged {
			if err := loaded.Save(); err != nil {
				logger.Default().Warn("Failed to save config", logger.F("error", err))
			}
		}

		overrides := map[string]string{
			"auth-url":         "auth_service_url",
			"task-url":         "task_service_url",
			"notification-url": "notification_service_url",
		}
		values := map[string]string{"auth-url": authURL, "task-url": taskURL, "notification-url": notificationURL}
		for flag, key := range overrides {
			if cmd.Flags().Changed(flag) {
				if err := loaded.Set(key, values[flag]); err != nil {
					return fmt.Errorf("invalid --%s: %w", flag, err)
				}
			}
		}

		logConfig := logger.Config{
			Level:      logger.ParseLevel(loaded.LogLevel),
			FilePath:   loaded.LogFile,
			MaxSize:    10 * 1024 * 1024, // 10MB
			MaxAge:     7,
			MaxBackups: 5,
			Console:    loaded.LogConsole,
		}

		if err := logger.Init(logConfig); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg = loaded
		logger.Default().Info("Taskboard started", logger.F("command", cmd.Name()))
		return nil
	},

	RunE: func(cmd *cobra.Command, args []string) error {
		log := logger.Default()

		log.Info("Launching TUI")
		m, err := tui.NewModel(cmd.Context(), cfg, app.Deps{Logger: log})
		if err != nil {
			log.Error("Failed to start", logger.F("error", err))
			return err
		}
		defer func() {
			_ = m.Close()
			log.Info("State database closed")
		}()

		p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(cmd.Context()))
		if _, err := p.Run(); err != nil {
			log.Error("TUI error", logger.F("error", err))
			return fmt.Errorf("failed to run TUI: %w", err)
		}

		log.Info("TUI exited normally")
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Default().Info("Taskboard exiting", logger.F("command", cmd.Name()))
		_ = logger.Close()
	},
}

// Execute runs the root command
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	// Add logging flags
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	rootCmd.PersistentFlags().StringVar(&logFile, "log-file", "", "Path to log file")
	rootCmd.PersistentFlags().BoolVar(&logConsole, "log-console", false, "Enable console logging")

	// Service endpoints
	rootCmd.PersistentFlags().StringVar(&authURL, "auth-url", "", "Auth service base URL")
	rootCmd.PersistentFlags().StringVar(&taskURL, "task-url", "", "Task service base URL")
	rootCmd.PersistentFlags().StringVar(&notificationURL, "notification-url", "", "Notification service base URL")

	// Add subcommands
	rootCmd.AddCommand(authCmd)
	rootCmd.AddCommand(tasksCmd)
	rootCmd.AddCommand(notificationsCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(stubCmd)
}
