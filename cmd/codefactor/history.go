package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nao1215/codefactor/internal/config"
	"github.com/nao1215/codefactor/internal/database"
	"github.com/nao1215/codefactor/internal/report"
)

// defaultHistoryLimit is the number of runs listed when --limit is not given.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [run-id]",
		Short: "Show past processing runs",
		Long: `History shows the runs recorded by 'codefactor process'.

Without arguments it lists the most recent runs. With a run ID it prints the
summary of that run. With --hash it lists every processed file whose content
hash matches, across all runs.

Examples:
  # List recent runs
  codefactor history

  # Show run 3 as Markdown
  codefactor history 3 -m

  # Find files by content hash
  codefactor history --hash 0123abcd`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", defaultHistoryLimit,
		"Maximum number of runs to list (0 lists all)")
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().String("hash", "",
		"List files with this content hash")
	cmd.Flags().BoolP("json", "j", false,
		"Output in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output in Markdown format")

	return cmd
}

// historyOptions holds the parsed history flags.
type historyOptions struct {
	limit    int
	dbDir    string
	hash     string
	json     bool
	markdown bool
}

func parseHistoryFlags(cmd *cobra.Command) (historyOptions, error) {
	var opts historyOptions
	var err error
	if opts.limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return opts, err
	}
	if opts.dbDir, err = cmd.Flags().GetString("db-dir"); err != nil {
		return opts, err
	}
	if opts.hash, err = cmd.Flags().GetString("hash"); err != nil {
		return opts, err
	}
	if opts.json, err = cmd.Flags().GetBool("json"); err != nil {
		return opts, err
	}
	if opts.markdown, err = cmd.Flags().GetBool("markdown"); err != nil {
		return opts, err
	}
	if opts.json && opts.markdown {
		return opts, config.ErrConflictingReportFormats
	}
	if opts.dbDir == "" {
		cfg := config.NewConfig()
		config.ApplyEnv(cfg, os.Getenv)
		opts.dbDir = cfg.DBDir
	}
	return opts, nil
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryFlags(cmd)
	if err != nil {
		return err
	}

	db, err := database.Open(opts.dbDir, database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		return err
	}
	defer db.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	switch {
	case opts.hash != "":
		return listByHash(ctx, db, out, opts)
	case len(args) == 1:
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil || id <= 0 {
			return fmt.Errorf("invalid run ID: %q", args[0])
		}
		return showRun(ctx, db, out, id, opts)
	default:
		return listRuns(ctx, db, out, opts)
	}
}

// listRuns prints the most recent runs.
func listRuns(ctx context.Context, db *database.HistoryDB, out io.Writer, opts historyOptions) error {
	runs, err := db.ListRuns(ctx, opts.limit)
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(out, runs)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found in the database.")
		fmt.Fprintln(out, "\nUse 'codefactor process <directory>' to annotate a directory.")
		return nil
	}

	if opts.markdown {
		fmt.Fprintf(out, "# Runs (%d)\n\n", len(runs))
		fmt.Fprintln(out, "| ID | Date | Directory | Files | Validated | Failed |")
		fmt.Fprintln(out, "|----|------|-----------|-------|-----------|--------|")
		for _, r := range runs {
			fmt.Fprintf(out, "| %d | %s | `%s` | %d | %d | %d |\n",
				r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Root, r.Total, r.Validated, r.Failed)
		}
		return nil
	}

	fmt.Fprintf(out, "Recorded runs (%d):\n\n", len(runs))
	fmt.Fprintf(out, "  %-6s  %-20s  %-6s  %-9s  %-6s  %s\n", "ID", "Date", "Files", "Validated", "Failed", "Directory")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 70))
	for _, r := range runs {
		fmt.Fprintf(out, "  %-6d  %-20s  %-6d  %-9d  %-6d  %s\n",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Total, r.Validated, r.Failed, r.Root)
	}
	fmt.Fprintln(out, "\nUse 'codefactor history <id>' to see the files of a run.")
	return nil
}

// showRun prints the summary of one run using the report writers.
func showRun(ctx context.Context, db *database.HistoryDB, out io.Writer, id int64, opts historyOptions) error {
	summary, err := db.GetRun(ctx, id)
	if err != nil {
		return err
	}

	var w report.Writer
	switch {
	case opts.json:
		w = report.NewJSONWriter(out, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case opts.markdown:
		w = report.NewMarkdownWriter(out)
	default:
		w = report.NewSimpleWriter(out, report.WithVerbose(true))
	}
	_, err = w.Write(summary)
	return err
}

// listByHash prints every stored file with the requested content hash.
func listByHash(ctx context.Context, db *database.HistoryDB, out io.Writer, opts historyOptions) error {
	files, err := db.FindByHash(ctx, opts.hash)
	if err != nil {
		return err
	}

	if opts.json {
		return writeJSON(out, files)
	}

	if len(files) == 0 {
		fmt.Fprintf(out, "No files found with hash %s\n", opts.hash)
		return nil
	}

	if opts.markdown {
		fmt.Fprintf(out, "# Files with hash `%s` (%d)\n\n", opts.hash, len(files))
		fmt.Fprintln(out, "| Run | File | New Name | Tags |")
		fmt.Fprintln(out, "|-----|------|----------|------|")
		for _, f := range files {
			fmt.Fprintf(out, "| %d | `%s` | `%s` | %s |\n",
				f.RunID, f.Path, f.NewPath, strings.Join(f.Tags, ", "))
		}
		return nil
	}

	fmt.Fprintf(out, "Files with hash %s (%d):\n\n", opts.hash, len(files))
	fmt.Fprintf(out, "  %-6s  %s\n", "Run", "File")
	fmt.Fprintln(out, "  "+strings.Repeat("-", 60))
	for _, f := range files {
		fmt.Fprintf(out, "  %-6d  %s\n", f.RunID, f.Path)
		if f.NewPath != "" {
			fmt.Fprintf(out, "          -> %s\n", f.NewPath)
		}
	}
	return nil
}

// writeJSON encodes v as indented JSON.
func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
