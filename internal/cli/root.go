package cli

import (
	"fmt"
	"os"
	"runtime"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"github.com/yildizm/sensescan/internal/client"
	"github.com/yildizm/sensescan/internal/config"
	"github.com/yildizm/sensescan/internal/emoji"
	"github.com/yildizm/sensescan/internal/logger"
)

var (
	cfgFile string
	verbose bool
	noColor bool
	noEmoji bool
	baseURL string

	appVersion = "dev"
)

// NewRootCommand creates the root command
func NewRootCommand(version, commit, date string) *cobra.Command {
	appVersion = version

	rootCmd := &cobra.Command{
		Use:   "sensescan [file]",
		Short: "PII scanning dashboard for files",
		Long: `sensescan uploads a file to a PII detection service and shows what it found:
a distribution of PII types and a per-model accuracy inspector.

Run it without a subcommand in a terminal to open the dashboard. When output is
not a terminal and a file is given, it behaves like "sensescan scan".`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Auto-disable emojis on Windows if not explicitly set
			if runtime.GOOS == "windows" && !cmd.Flag("no-emoji").Changed {
				noEmoji = true
			}
			emoji.SetEmojiDisabled(noEmoji)
			if noColor {
				// lipgloss and termfmt both honour NO_COLOR
				_ = os.Setenv("NO_COLOR", "1")
			}
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if isTerminal(os.Stdout) {
				return runDashboard(cmd, args)
			}
			if len(args) == 1 {
				return runScan(cmd, args[0], scanOptions{})
			}
			return cmd.Help()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().BoolVar(&noEmoji, "no-emoji", false, "disable emoji output (useful for Windows terminals)")
	rootCmd.PersistentFlags().StringVar(&baseURL, "base-url", "", "detection service base URL (overrides config)")

	// Add subcommands
	rootCmd.AddCommand(newDashboardCommand())
	rootCmd.AddCommand(newScanCommand())
	rootCmd.AddCommand(newWatchCommand())
	rootCmd.AddCommand(newPingCommand())
	rootCmd.AddCommand(newPatternsCommand())
	rootCmd.AddCommand(newConfigCommand())
	rootCmd.AddCommand(newVersionCommand(version, commit, date))

	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  "Display version number, build commit, date, and runtime information",
		Run: func(cmd *cobra.Command, args []string) {
			displayVersion := version
			displayCommit := commit
			displayDate := date

			if version == "dev" || version == "" {
				displayVersion = "development"
			}
			if commit == "none" || commit == "" {
				displayCommit = "local-build"
			}
			if date == "unknown" || date == "" {
				displayDate = "local-build"
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "sensescan %s (%s) built on %s\n", displayVersion, displayCommit, displayDate)
			fmt.Fprintf(out, "Go version: %s\n", runtime.Version())
			fmt.Fprintf(out, "OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}

// GetGlobalConfig loads the configuration and applies global flag overrides
func GetGlobalConfig() (*config.Config, error) {
	cfg, err := config.NewLoader().LoadConfig(cfgFile)
	if err != nil {
		return nil, err
	}

	if baseURL != "" {
		cfg.Service.BaseURL = baseURL
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if noColor {
		cfg.Output.ColorMode = "never"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid flags: %w", err)
	}
	return cfg, nil
}

// newLogger creates the command logger; verbosity follows the config
func newLogger(cfg *config.Config) *logger.Logger {
	return logger.NewWithCallback("cli", func() bool { return cfg.Output.Verbose })
}

// newServiceClient creates a detection service client from the config
func newServiceClient(cfg *config.Config) (*client.Client, error) {
	return client.New(client.Config{
		BaseURL:   cfg.Service.BaseURL,
		Timeout:   cfg.Service.Timeout,
		UserAgent: fmt.Sprintf("%s/%s", cfg.Service.UserAgent, appVersion),
	})
}

// useColor resolves output.color_mode against the output stream
func useColor(cfg *config.Config, out *os.File) bool {
	switch cfg.Output.ColorMode {
	case "always":
		return true
	case "never":
		return false
	default:
		return os.Getenv("NO_COLOR") == "" && isTerminal(out)
	}
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Global helpers
func isVerbose() bool {
	return verbose
}
