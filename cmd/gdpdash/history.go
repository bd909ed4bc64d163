package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/nao1215/gdpdash/internal/config"
	"github.com/nao1215/gdpdash/internal/database"
	"github.com/nao1215/gdpdash/internal/model"
	"github.com/nao1215/gdpdash/internal/report"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command and its subcommands.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List, show and delete recorded runs",
		Long: `History manages the runs recorded by "gdpdash run" in the history
database (history.db in the XDG data directory, or --db-dir).

Without a subcommand it lists the most recent runs.

Examples:
  gdpdash history
  gdpdash history list --limit 5
  gdpdash history list --region Asia --year 2020 --operation average
  gdpdash history show 3f2b...
  gdpdash history delete 3f2b...`,
		Args: cobra.NoArgs,
		RunE: runHistoryListCmd,
	}

	cmd.PersistentFlags().String("db-dir", "",
		"Directory of the history database (env: "+config.EnvDBDir+", default: XDG data directory)")
	addHistoryListFlags(cmd)

	list := &cobra.Command{
		Use:   "list",
		Short: "List recorded runs, newest first",
		Long: `List prints the recorded runs, newest first.

With --region, --year and --operation together it lists every run of that
statistic instead, oldest first, so a result can be followed across dataset
revisions.`,
		Args: cobra.NoArgs,
		RunE: runHistoryListCmd,
	}
	addHistoryListFlags(list)

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Print the report of a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryShowCmd,
	}
	show.Flags().BoolP("json", "j", false, "Output the report as JSON")

	del := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recorded run",
		Args:  cobra.ExactArgs(1),
		RunE:  runHistoryDeleteCmd,
	}

	cmd.AddCommand(list, show, del)
	return cmd
}

// addHistoryListFlags registers the list filters on cmd.
func addHistoryListFlags(cmd *cobra.Command) {
	cmd.Flags().IntP("limit", "n", config.DefaultHistoryLimit, "Maximum number of runs (0 for all)")
	cmd.Flags().String("region", "", "Only runs of this region (with --year and --operation)")
	cmd.Flags().String("year", "", "Only runs of this year (with --region and --operation)")
	cmd.Flags().String("operation", "", "Only runs of this operation (with --region and --year)")
}

// openHistory opens the existing history database selected by --db-dir,
// GDPDASH_DB_DIR or the XDG default.
func openHistory(cmd *cobra.Command) (*database.HistoryDB, error) {
	cfg, err := buildConfig(cmd)
	if err != nil {
		return nil, err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return nil, err
	}
	if dbDir != "" {
		cfg.DBDir = dbDir
	}
	newLogger(cfg.Verbose)

	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false
	return database.Open(cfg.DBDir, opts)
}

// runHistoryListCmd lists recorded runs.
func runHistoryListCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	region, _ := cmd.Flags().GetString("region")
	year, _ := cmd.Flags().GetString("year")
	operation, _ := cmd.Flags().GetString("operation")

	filtered := region != "" || year != "" || operation != ""
	if filtered && (region == "" || year == "" || operation == "") {
		return &configError{err: errors.New("--region, --year and --operation must be given together")}
	}
	var op model.Operation
	if filtered {
		if op, err = model.ParseOperation(operation); err != nil {
			return &configError{err: err}
		}
	}

	out := cmd.OutOrStdout()
	db, err := openHistory(cmd)
	if errors.Is(err, model.ErrNotFound) {
		_, _ = fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	if err != nil {
		return err
	}
	defer db.Close()

	var runs []database.RunSummary
	if filtered {
		runs, err = db.RunsForQuery(cmd.Context(), region, year, op)
	} else {
		runs, err = db.ListRuns(cmd.Context(), limit)
	}
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		_, _ = fmt.Fprintln(out, "No runs recorded.")
		return nil
	}
	return writeHistoryTable(out, runs)
}

// writeHistoryTable prints one row per run.
func writeHistoryTable(w io.Writer, runs []database.RunSummary) error {
	table := tablewriter.NewWriter(w)
	table.Header("ID", "Started", "Region", "Year", "Operation", "Result", "Filtered", "Records")
	for _, r := range runs {
		row := []string{
			r.ID,
			r.StartedAt.Local().Format(time.DateTime),
			model.RunConfig{Region: r.Region}.RegionLabel(),
			r.Year,
			r.Operation.String(),
			report.FormatNumber(r.Result),
			fmt.Sprint(r.Filtered),
			fmt.Sprint(r.Records),
		}
		if err := table.Append(row); err != nil {
			return err
		}
	}
	return table.Render()
}

// runHistoryShowCmd prints one recorded run.
func runHistoryShowCmd(cmd *cobra.Command, args []string) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	runReport, err := db.GetRun(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	var w report.Writer = report.NewSimpleWriter(cmd.OutOrStdout(),
		report.WithVerbose(true), report.WithShowEmpty(true))
	if jsonOutput {
		w = report.NewJSONWriter(cmd.OutOrStdout(), report.WithPrettyPrint())
	}
	_, err = w.Write(runReport)
	return err
}

// runHistoryDeleteCmd deletes one recorded run.
func runHistoryDeleteCmd(cmd *cobra.Command, args []string) error {
	db, err := openHistory(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := db.DeleteRun(cmd.Context(), args[0]); err != nil {
		return err
	}
	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Deleted run %s\n", args[0])
	return nil
}
