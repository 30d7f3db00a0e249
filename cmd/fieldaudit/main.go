package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"fieldaudit/internal/bootstrap"
	evaldto "fieldaudit/internal/modules/evaluation/dto"
	historydto "fieldaudit/internal/modules/history/dto"
	"fieldaudit/internal/platform/config"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type globalFlags struct {
	dataDir string
	verbose bool
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "fieldaudit",
		Short:         "Forestry field audit evaluations",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dataDir, "data", config.DefaultDataDir, "data directory")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "also log to stderr")

	root.AddCommand(newTUICmd(flags))
	root.AddCommand(newEvalCmd(flags))
	root.AddCommand(newHistoryCmd(flags))
	root.AddCommand(newExportCmd(flags))
	return root
}

func loadApp(flags *globalFlags) (*bootstrap.App, error) {
	cfg, err := config.Load(flags.dataDir)
	if err != nil {
		return nil, err
	}
	return bootstrap.New(cfg, bootstrap.Options{Verbose: flags.verbose})
}

// withApp runs fn against a freshly wired app and closes it afterwards.
func withApp(flags *globalFlags, fn func(ctx context.Context, app *bootstrap.App) error) error {
	app, err := loadApp(flags)
	if err != nil {
		return err
	}
	defer func() { _ = app.Close() }()
	return fn(context.Background(), app)
}

func newTUICmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Run the field audit terminal UI",
		RunE: func(_ *cobra.Command, _ []string) error {
			return withApp(flags, func(_ context.Context, app *bootstrap.App) error {
				return bootstrap.RunTUI(app)
			})
		},
	}
}

func newEvalCmd(flags *globalFlags) *cobra.Command {
	eval := &cobra.Command{Use: "eval", Short: "Active evaluation lifecycle"}

	eval.AddCommand(&cobra.Command{
		Use:   "types",
		Short: "List evaluation types",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				types, err := app.EvaluationCLI.Types(ctx)
				if err != nil {
					return err
				}
				for _, t := range types {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%d %s\n", t.Type, t.Label, t.SampleCount, t.SampleTerm)
				}
				return nil
			})
		},
	})

	var evalType, areaCode, date string
	start := &cobra.Command{
		Use:   "start --type <type> --area <code>",
		Short: "Start a new evaluation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.EvaluationCLI.Start(ctx, evalType, areaCode, date, app.Clock.Now())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "evaluation started: %s area=%s date=%s %s=%d\n", out.TypeLabel, out.AreaCode, out.Date, out.SampleTerm, out.TotalSamples)
				return nil
			})
		},
	}
	start.Flags().StringVar(&evalType, "type", "", "evaluation type (see eval types)")
	start.Flags().StringVar(&areaCode, "area", "", "area code, e.g. 592-B")
	start.Flags().StringVar(&date, "date", "", "evaluation date dd/mm/yyyy (default today)")

	show := &cobra.Command{
		Use:   "show",
		Short: "Show the active evaluation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.EvaluationCLI.Show(ctx)
				if err != nil {
					return err
				}
				printSession(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	mark := &cobra.Command{
		Use:   "mark <n> <status>",
		Short: "Record the status of sample n",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseSampleNumber(args[0])
			if err != nil {
				return err
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.EvaluationCLI.Mark(ctx, n, args[1])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s %d: %s (%d/%d evaluated)\n", out.SampleTerm, n, out.Samples[n-1].Label, out.EvaluatedCount, out.TotalSamples)
				return nil
			})
		},
	}

	focus := &cobra.Command{
		Use:   "focus <n>",
		Short: "Select sample n for measurement",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseSampleNumber(args[0])
			if err != nil {
				return err
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.EvaluationCLI.Focus(ctx, n)
				if err != nil {
					return err
				}
				sample := out.Samples[n-1]
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "focused %d: street=%s line=%s\n", n, formatMeters(sample.Street), formatMeters(sample.Line))
				return nil
			})
		},
	}

	measure := &cobra.Command{
		Use:   "measure <n> <street|line> <meters>",
		Short: "Record a hole distance measurement",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := parseSampleNumber(args[0])
			if err != nil {
				return err
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.EvaluationCLI.Measure(ctx, n, args[1], args[2])
				if err != nil {
					return err
				}
				sample := out.Samples[n-1]
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%d: street=%s line=%s status=%s (%d missing)\n", n, formatMeters(sample.Street), formatMeters(sample.Line), sample.Label, out.MissingMeasurements)
				return nil
			})
		},
	}

	finish := &cobra.Command{
		Use:   "finish",
		Short: "Finish the active evaluation and show results",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.EvaluationCLI.Finish(ctx)
				if err != nil {
					return err
				}
				printResults(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	results := &cobra.Command{
		Use:   "results [id]",
		Short: "Show results of the active or a saved evaluation",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := ""
			if len(args) == 1 {
				id = args[0]
			}
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.EvaluationCLI.Results(ctx, id)
				if err != nil {
					return err
				}
				printResults(cmd.OutOrStdout(), out)
				return nil
			})
		},
	}

	save := &cobra.Command{
		Use:   "save",
		Short: "Save the finished evaluation to history",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.EvaluationCLI.Save(ctx)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %s at=%s\n", out.ID, out.SavedAt.Format(time.RFC3339))
				return nil
			})
		},
	}

	discard := &cobra.Command{
		Use:   "discard",
		Short: "Discard the active evaluation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.EvaluationCLI.Discard(ctx); err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), "evaluation discarded")
				return nil
			})
		},
	}

	eval.AddCommand(start, show, mark, focus, measure, finish, results, save, discard)
	return eval
}

func newHistoryCmd(flags *globalFlags) *cobra.Command {
	history := &cobra.Command{Use: "history", Short: "Saved evaluations"}

	var group string
	list := &cobra.Command{
		Use:   "list",
		Short: "List saved evaluations, newest first",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.HistoryCLI.List(ctx, group)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no evaluations")
					return nil
				}
				for _, s := range items {
					printSummary(cmd.OutOrStdout(), s)
				}
				return nil
			})
		},
	}
	list.Flags().StringVar(&group, "group", "", "filter: seedlings|holes")

	var monthsGroup string
	months := &cobra.Command{
		Use:   "months",
		Short: "List saved evaluations grouped by month",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				groups, err := app.HistoryCLI.ByMonth(ctx, monthsGroup)
				if err != nil {
					return err
				}
				if len(groups) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no evaluations")
					return nil
				}
				for _, g := range groups {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) %d\n", g.Label, g.Key, len(g.Evaluations))
					for _, s := range g.Evaluations {
						_, _ = fmt.Fprint(cmd.OutOrStdout(), "  ")
						printSummary(cmd.OutOrStdout(), s)
					}
				}
				return nil
			})
		},
	}
	months.Flags().StringVar(&monthsGroup, "group", "", "filter: seedlings|holes")

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a saved evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				detail, err := app.HistoryCLI.Show(ctx, args[0])
				if err != nil {
					return err
				}
				s := detail.Summary
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "id: %s\ntype: %s\narea: %s\ndate: %s\nsaved: %s\nsamples: %d\nquality: %.1f%%\nproblems: %.1f%%\nlabel: %s\n",
					s.ID, s.TypeLabel, s.AreaCode, s.Date, s.SavedAt.Format(time.RFC3339), s.TotalSamples, s.QualityRate, s.ProblemRate, s.Label)
				return nil
			})
		},
	}

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved evaluation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				if err := app.HistoryCLI.Delete(ctx, args[0]); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return nil
			})
		},
	}

	backups := &cobra.Command{
		Use:   "backups",
		Short: "List backups of unreadable history data",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				items, err := app.HistoryCLI.Backups(ctx)
				if err != nil {
					return err
				}
				if len(items) == 0 {
					_, _ = fmt.Fprintln(cmd.OutOrStdout(), "no backups")
					return nil
				}
				for _, b := range items {
					_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", b.Key, b.CreatedAt.Format(time.RFC3339))
				}
				return nil
			})
		},
	}

	history.AddCommand(list, months, show, del, backups)
	return history
}

func newExportCmd(flags *globalFlags) *cobra.Command {
	export := &cobra.Command{Use: "export", Short: "Export saved evaluations"}

	var allFormat string
	all := &cobra.Command{
		Use:   "all",
		Short: "Export every saved evaluation",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ReportCLI.ExportAll(ctx, allFormat)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d evaluations to %s\n", out.Rows, out.Path)
				return nil
			})
		},
	}
	all.Flags().StringVar(&allFormat, "format", "xlsx", "xlsx|markdown")

	var monthFormat, monthGroup string
	month := &cobra.Command{
		Use:   "month <YYYY-MM>",
		Short: "Export one month of a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(flags, func(ctx context.Context, app *bootstrap.App) error {
				out, err := app.ReportCLI.ExportMonth(ctx, monthFormat, monthGroup, args[0])
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "exported %d evaluations to %s\n", out.Rows, out.Path)
				return nil
			})
		},
	}
	month.Flags().StringVar(&monthFormat, "format", "xlsx", "xlsx|markdown")
	month.Flags().StringVar(&monthGroup, "group", "", "seedlings|holes (default all)")

	export.AddCommand(all, month)
	return export
}

func parseSampleNumber(raw string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 0, fmt.Errorf("sample number must be a positive integer, got %q", raw)
	}
	return n, nil
}

func formatMeters(v *float64) string {
	if v == nil {
		return "-"
	}
	return strconv.FormatFloat(*v, 'f', 2, 64)
}

func printSession(w io.Writer, s evaldto.SessionOutput) {
	state := "open"
	if s.Locked {
		state = "finished"
	}
	_, _ = fmt.Fprintf(w, "%s area=%s date=%s %s\n", s.TypeLabel, s.AreaCode, s.Date, state)
	_, _ = fmt.Fprintf(w, "evaluated %d/%d %s\n", s.EvaluatedCount, s.TotalSamples, s.SampleTerm)
	if s.Category == "hole_distance" {
		_, _ = fmt.Fprintf(w, "missing measurements: %d\n", s.MissingMeasurements)
	}
	for i, sample := range s.Samples {
		sep := " "
		if (i+1)%10 == 0 || i == len(s.Samples)-1 {
			sep = "\n"
		}
		_, _ = fmt.Fprintf(w, "%3d:%-6s%s", i+1, sample.Short, sep)
	}
	if len(s.Choices) > 0 {
		_, _ = fmt.Fprintln(w, "statuses:")
		for _, c := range s.Choices {
			_, _ = fmt.Fprintf(w, "  %s\t%s\n", c.Status, c.Label)
		}
	}
}

func printResults(w io.Writer, r evaldto.ResultsOutput) {
	if r.ID != "" {
		_, _ = fmt.Fprintf(w, "id: %s\n", r.ID)
	}
	_, _ = fmt.Fprintf(w, "%s area=%s date=%s\n", r.TypeLabel, r.AreaCode, r.Date)
	_, _ = fmt.Fprintf(w, "%s: %d  pass: %d  problems: %d\n", r.SampleTerm, r.TotalSamples, r.PassCount, r.ProblemCount)
	_, _ = fmt.Fprintf(w, "quality: %.1f%%  problems: %.1f%%  %s\n", r.QualityRate, r.ProblemRate, r.Label)
	for _, p := range r.Breakdown {
		_, _ = fmt.Fprintf(w, "  %-24s %4d  %.1f%%\n", p.Label, p.Count, p.Percentage)
	}
}

func printSummary(w io.Writer, s historydto.SummaryOutput) {
	_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\t%s\n", s.ID, s.Date, s.AreaCode, s.TypeLabel, s.QualityRate, s.Label)
}
