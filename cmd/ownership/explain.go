package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"ownership/internal/diag"
	"ownership/internal/diagfmt"
	"ownership/internal/lesson"
)

type explainOptions struct {
	format string
	max    int
}

func newExplainCmd(a *app) *cobra.Command {
	opts := &explainOptions{}
	cmd := &cobra.Command{
		Use:   "explain",
		Short: "Run the programs the ownership rules reject and show why",
		Long: `explain runs each rejected variant of the walkthrough against the ownership
checks and prints the resulting diagnostics. Rejections are the expected
outcome, so the command exits 0 when every variant is refused as intended.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExplain(cmd, a, opts)
		},
	}
	cmd.Flags().StringVar(&opts.format, "format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().IntVar(&opts.max, "max", 0, "maximum number of diagnostics to show (0 = all)")
	return cmd
}

func runExplain(cmd *cobra.Command, a *app, opts *explainOptions) error {
	format, limit := opts.format, opts.max
	if !cmd.Flags().Changed("format") && a.cfg.Explain.Format != "" {
		format = a.cfg.Explain.Format
	}
	if !cmd.Flags().Changed("max") && a.cfg.Explain.Max > 0 {
		limit = a.cfg.Explain.Max
	}
	if limit < 0 {
		return fmt.Errorf("--max must not be negative, got %d", limit)
	}
	format = strings.ToLower(format)

	bag := diag.NewBag(len(lesson.Counterexamples()))
	n, err := lesson.Explain(cmd.Context(), diag.BagReporter{Bag: bag})
	if err != nil {
		return err
	}
	bag.Sort()
	bag.Dedup()
	a.logger.Debug("counterexamples checked", zap.Int("rejected", n), zap.Int("diagnostics", bag.Len()))

	out := cmd.OutOrStdout()
	switch format {
	case "pretty":
		useColor, err := a.useColor(cmd)
		if err != nil {
			return err
		}
		if err := diagfmt.Pretty(out, bag, diagfmt.PrettyOpts{
			Color:     useColor,
			ShowNotes: true,
			ShowFixes: true,
			Max:       limit,
		}); err != nil {
			return err
		}
		if limit > 0 && limit < bag.Len() {
			_, err = fmt.Fprintf(out, "%d programs rejected as expected (%d shown)\n", n, limit)
		} else {
			_, err = fmt.Fprintf(out, "%d programs rejected as expected\n", n)
		}
		return err
	case "json":
		if err := diagfmt.JSON(out, bag, diagfmt.JSONOpts{
			Max:          limit,
			IncludeNotes: true,
			IncludeFixes: true,
		}); err != nil {
			return fmt.Errorf("failed to format diagnostics: %w", err)
		}
		return nil
	case "short":
		items := bag.Items()
		if limit > 0 && limit < len(items) {
			items = items[:limit]
		}
		_, err := fmt.Fprintln(out, diag.FormatShortDiagnostics(items, true))
		return err
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
