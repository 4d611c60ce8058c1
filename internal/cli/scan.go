package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/yildizm/sensescan/internal/config"
	"github.com/yildizm/sensescan/internal/formatter"
	"github.com/yildizm/sensescan/internal/scan"
	"github.com/yildizm/sensescan/internal/selector"
)

type scanOptions struct {
	format     string
	outputFile string
	preview    bool
}

func newScanCommand() *cobra.Command {
	var opts scanOptions

	cmd := &cobra.Command{
		Use:   "scan <file>",
		Short: "Scan a file once and print the report",
		Long: `Upload a file to the detection service and print the PII distribution and
the model inspector in the chosen format.

The command exits non-zero when the scan fails.`,
		Example: `  sensescan scan customers.csv
  sensescan scan contract.pdf --output markdown --output-file report.md
  sensescan scan export.xlsx --output json --base-url http://localhost:7860`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.format, "output", "o", "", formatFlagUsage())
	cmd.Flags().StringVar(&opts.outputFile, "output-file", "", "write the report to a file instead of stdout")
	cmd.Flags().BoolVar(&opts.preview, "preview", false, "include the text preview returned by the service")

	return cmd
}

func runScan(cmd *cobra.Command, path string, opts scanOptions) error {
	cfg, err := GetGlobalConfig()
	if err != nil {
		return err
	}
	log := newLogger(cfg)

	if err := validateFilePath(path); err != nil {
		return fmt.Errorf("invalid file path: %w", err)
	}

	svc, err := newServiceClient(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	var notice string
	controller := scan.NewController(svc, selector.New(),
		scan.WithLogger(log.WithComponent("scan")),
		scan.WithNotifier(scan.NotifierFunc(func(msg string) { notice = msg })),
	)
	controller.Selector().Select(selector.FromPath(path))

	log.Info("scanning %s via %s", path, svc.BaseURL())
	start := time.Now()
	state, _ := controller.Run(ctx)
	if state.Kind() != scan.KindSucceeded {
		fmt.Fprintln(cmd.ErrOrStderr(), GetEmoji("error")+" "+notice)
		return fmt.Errorf("scan of %s failed: %s", path, state.Reason())
	}

	return writeReport(cmd, cfg, controller, opts, time.Since(start))
}

// writeReport formats the controller's current result and writes it out
func writeReport(cmd *cobra.Command, cfg *config.Config, controller *scan.Controller, opts scanOptions, elapsed time.Duration) error {
	format := opts.format
	if format == "" {
		format = cfg.Output.DefaultFormat
	}

	out := cmd.OutOrStdout()
	color := false
	if opts.outputFile == "" {
		if f, ok := out.(*os.File); ok {
			color = useColor(cfg, f)
		}
	}

	f, err := formatter.New(format, color)
	if err != nil {
		return err
	}

	state := controller.State()
	meta := formatter.Meta{
		File:      state.Source(),
		ScanID:    state.ScanID(),
		Type:      state.Report().Type,
		Elapsed:   elapsed,
		ScannedAt: time.Now(),
	}
	if opts.preview || cfg.Output.ShowPreview {
		meta.Preview = state.Report().PreviewText
	}

	data, err := f.Format(controller.View(), meta)
	if err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	if opts.outputFile != "" {
		if err := os.WriteFile(opts.outputFile, data, 0o600); err != nil {
			return fmt.Errorf("failed to write %s: %w", opts.outputFile, err)
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "%s Report written to %s\n", GetEmoji("success"), opts.outputFile)
		return nil
	}

	return writeAll(out, data)
}

func formatFlagUsage() string {
	return "output format (" + strings.Join(formatter.Formats, ", ") + "; default from config)"
}

func writeAll(w io.Writer, data []byte) error {
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		_, _ = io.WriteString(w, "\n")
	}
	return nil
}

// signalContext cancels on SIGINT or SIGTERM
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
