package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/yildizm/sensescan/internal/config"
	"github.com/yildizm/sensescan/internal/logger"
	"github.com/yildizm/sensescan/internal/ui"
)

func newDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "dashboard [file]",
		Aliases: []string{"ui"},
		Short:   "Open the interactive scan dashboard",
		Long: `Open the terminal dashboard: pick a file, scan it, and browse the PII
distribution chart and the model inspector table.

Keys:
  enter        select the typed path
  ctrl+s, s    scan the selected file
  tab          switch between the path input and the results
  ←/→          move the chart tooltip between sectors
  ↑/↓          scroll the inspector table
  q, ctrl+c    quit`,
		Example: `  sensescan dashboard
  sensescan dashboard customers.csv`,
		Args: cobra.MaximumNArgs(1),
		RunE: runDashboard,
	}
}

func runDashboard(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}

	if cfg.UI.Theme != "" && !ui.SetThemeByName(cfg.UI.Theme) {
		return fmt.Errorf("unknown theme: %s", cfg.UI.Theme)
	}

	log, closeLog, err := dashboardLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	svc, err := newServiceClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	opts := ui.Options{
		BaseURL:    svc.BaseURL(),
		TableRows:  cfg.UI.TableRows,
		ChartWidth: cfg.UI.ChartWidth,
		Logger:     log,
	}
	if len(args) == 1 {
		opts.InitialPath = args[0]
	}

	log.Info("dashboard started against %s", svc.BaseURL())
	if err := ui.Run(ctx, svc, opts); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}

// dashboardLogger keeps log lines off the screen while the dashboard owns
// the terminal: they go to ui.log_file when set and are dropped otherwise
func dashboardLogger(cfg *config.Config) (*logger.Logger, func(), error) {
	log := newLogger(cfg)
	if cfg.UI.LogFile == "" {
		log.SetOutput(io.Discard)
		return log, func() {}, nil
	}

	// #nosec G304 - the log path comes from the user's own config
	f, err := os.OpenFile(cfg.UI.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open log file: %w", err)
	}
	log.SetOutput(f)
	return log, func() { _ = f.Close() }, nil
}
