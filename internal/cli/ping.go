package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newPingCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "ping",
		Short: "Check that the detection service is reachable",
		Long: `Send a request to the detection service root and print its status message.

Useful to tell a stopped service apart from a file the service cannot scan.`,
		Example: `  sensescan ping
  sensescan ping --base-url http://localhost:7860`,
		Args: cobra.NoArgs,
		RunE: runPing,
	}
}

func runPing(cmd *cobra.Command, args []string) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	svc, err := newServiceClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	start := time.Now()
	message, err := svc.Health(ctx)
	elapsed := time.Since(start).Round(time.Millisecond)
	out := cmd.OutOrStdout()
	if err != nil {
		log.Debug("health check failed: %v", err)
		fmt.Fprintf(out, "%s %s is not reachable\n", GetStatusEmoji(false), svc.BaseURL())
		return fmt.Errorf("detection service unavailable: %w", err)
	}

	fmt.Fprintf(out, "%s %s answered in %s\n", GetStatusEmoji(true), svc.BaseURL(), elapsed)
	if message != "" {
		fmt.Fprintf(out, "   %s\n", message)
	}
	return nil
}
