package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"
	"github.com/yildizm/sensescan/internal/report"
)

const patternColumnWidth = 20

func newPatternsCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "List the PII patterns the service detects",
		Long: `List the regular expressions the detection service uses, keyed by the
PII category they report.

Categories are printed in alphabetical order.`,
		Example: `  sensescan patterns
  sensescan patterns --format json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatternsList(cmd, format)
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "output format (text, json)")

	return cmd
}

func runPatternsList(cmd *cobra.Command, format string) error {
	if format != "text" && format != "json" {
		return fmt.Errorf("unsupported format: %s (use text or json)", format)
	}

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

	log.Debug("fetching patterns from %s", svc.BaseURL())
	patterns, err := svc.Patterns(ctx)
	if err != nil {
		return fmt.Errorf("failed to load patterns: %w", err)
	}

	out := cmd.OutOrStdout()
	if format == "json" {
		data, err := json.MarshalIndent(patterns, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal patterns: %w", err)
		}
		return writeAll(out, data)
	}

	if len(patterns) == 0 {
		fmt.Fprintln(out, "The service reported no patterns")
		return nil
	}

	names := make([]string, 0, len(patterns))
	for name := range patterns {
		names = append(names, name)
	}
	sort.Strings(names)

	fmt.Fprintf(out, "%s %d patterns from %s:\n\n", GetEmoji("pattern"), len(patterns), svc.BaseURL())
	for _, name := range names {
		fmt.Fprintf(out, "  %-*s %s\n", patternColumnWidth, report.Elide(name, patternColumnWidth), patterns[name])
	}

	return nil
}
