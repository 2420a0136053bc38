package cli

import (
	"encoding/json"
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"modelcheck/internal/harness"
	"modelcheck/internal/history"
	"modelcheck/internal/model"
)

func (a *app) runCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Report every model's size, then save every model in every format",
		Example: "  modelcheck run\n" +
			"  modelcheck run --output-dir out --format json --format yaml\n" +
			"  modelcheck run --continue-on-error --json",
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.openHistory()
			if err != nil {
				return err
			}
			defer store.Close()

			svc := a.newService(harness.ConsolePublisher{W: a.stdout}, store)
			rep, err := svc.Run(cmd.Context())
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(a.stdout)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return err
				}
			}
			if !rep.OK() {
				return reported(ExitFailure)
			}
			return nil
		},
	}
	f := cmd.Flags()
	f.String("output-dir", "", "Directory saved files are written to (must exist)")
	f.StringSlice("format", nil, "Save format, repeatable, in save order (default xml,json)")
	f.String("models-dir", "", "Also check every saved model file in this directory")
	f.Bool("continue-on-error", false, "Attempt every step and report all failures")
	f.String("metrics-file", "", "Write Prometheus textfile metrics here after the run")
	f.String("history-db", "", "Record the run in this SQLite database")
	f.BoolVar(&asJSON, "json", false, "Print the run report as JSON after the size lines")
	return cmd
}

func (a *app) modelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List the effective model registry",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "KEY\tLABEL\tFILE PREFIX")
			for _, r := range a.cfg.Models {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", r.Key, r.Label, r.FilePrefix)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().String("models-dir", "", "Also list every saved model file in this directory")
	return cmd
}

func (a *app) formatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List supported save formats; configured ones are marked with *",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			configured := make(map[string]bool, len(a.cfg.Formats))
			for _, f := range a.cfg.Formats {
				configured[f] = true
			}
			for _, f := range model.Formats() {
				mark := " "
				if configured[f] {
					mark = "*"
				}
				fmt.Fprintf(a.stdout, "%s %s\n", mark, f)
			}
			return nil
		},
	}
}

func (a *app) printCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "print <file>",
		Short:   "Load a saved model file and print its layers",
		Example: "  modelcheck print out/tree_2.xml",
		Args:    usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.ReadFile(args[0])
			if err != nil {
				return err
			}
			return m.Print(a.stdout)
		},
	}
}

func (a *app) historyCmd() *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded runs, most recent first",
		Args:  usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.cfg.HistoryDB == "" {
				return usageError(fmt.Errorf("history is disabled: set --history-db, history_db or MODELCHECK_HISTORY_DB"))
			}
			store, err := history.Open(a.cfg.HistoryDB)
			if err != nil {
				return err
			}
			defer store.Close()
			runs, err := store.List(cmd.Context(), limit)
			if err != nil {
				return err
			}
			tw := tabwriter.NewWriter(a.stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RUN ID\tSTATUS\tSTARTED\tDURATION\tMODELS\tFORMATS\tFAILURES")
			for _, r := range runs {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%d\n",
					r.RunID, r.Status, r.StartedAt.Format(time.RFC3339),
					r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond),
					r.Models, strings.ReplaceAll(r.Formats, ",", " "), r.Failures)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().IntVar(&limit, "limit", history.DefaultLimit, "Maximum runs to list")
	cmd.Flags().String("history-db", "", "SQLite database runs were recorded in")
	return cmd
}
