package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/codefactor/internal/analyzer"
	"github.com/nao1215/codefactor/internal/config"
	"github.com/nao1215/codefactor/internal/database"
	"github.com/nao1215/codefactor/internal/log"
	"github.com/nao1215/codefactor/internal/model"
	"github.com/nao1215/codefactor/internal/pipeline"
	"github.com/nao1215/codefactor/internal/report"
)

// rootPrompt is shown when no directory argument is given.
const rootPrompt = "Enter the directory to process: "

// NewProcessCmd creates the process command.
func NewProcessCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "process [directory]",
		Short: "Annotate every Python file under a directory",
		Long: `Process walks a directory tree and annotates every file with the configured
extension. For each file it:
- Copies the original to <file>_backup
- Analyzes imports, functions, classes and docstrings
- Rewrites the file with a description header and inline comments
- Copies the result to <tags>_<hash>.py next to it
- Checks that the header is present

Every step is recorded in processing_log.txt inside the directory and echoed
to the terminal. Without a directory argument, the directory is read from
standard input.

Examples:
  # Process a directory
  codefactor process ./scripts

  # Prompt for the directory
  codefactor process

  # Four files at a time, SHA-256 names, Markdown summary
  codefactor process -n 4 --hash sha256 -m -o report.md ./scripts

  # Use a custom configuration file and skip the history database
  codefactor process -c team.yaml --no-db ./scripts`,
		Args: cobra.MaximumNArgs(1),
		RunE: runProcessCmd,
	}

	// Annotation flags
	cmd.Flags().String("developer", config.DefaultDeveloper,
		"Developer name written to every header")
	cmd.Flags().String("extension", config.DefaultExtension,
		"Suffix of the files to process")
	cmd.Flags().String("backup-suffix", config.DefaultBackupSuffix,
		"Suffix appended to a file path to name its backup")
	cmd.Flags().String("log-file", config.DefaultLogFileName,
		"Name of the run log created in the directory")
	cmd.Flags().String("hash", config.DefaultHashAlgorithm,
		"Content hash for new file names ("+strings.Join(analyzer.AlgorithmNames(), ", ")+")")
	cmd.Flags().IntP("concurrency", "n", config.DefaultConcurrency,
		"Number of files processed at once (above 1, each file's log lines stay together "+
			"but timestamps across files may be out of order)")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .codefactor.yaml in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON summary (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown summary (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the summary to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().String("db-dir", "",
		"History database directory (default: XDG data directory)")
	cmd.Flags().Bool("no-db", false,
		"Do not record the run in the history database")

	return cmd
}

// runProcessCmd executes the process command.
func runProcessCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args, os.Getenv)
	if err != nil {
		return err
	}

	if cfg.Root == "" {
		cfg.Root, err = promptRoot(cmd.InOrStdin(), cmd.OutOrStdout())
		if err != nil {
			return err
		}
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := log.NewLogger(cmd.ErrOrStderr(), cfg.Verbose)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runProcess(ctx, cfg, cmd.OutOrStdout(), logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig assembles the configuration.
// Precedence, lowest first: defaults, configuration file, environment, flags.
func buildConfig(cmd *cobra.Command, args []string, getenv func(string) string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)

	var err error
	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicitly named file must exist; a missing default file is fine.
	if configPath := config.FindConfigFile(cfg.ConfigFilePath); configPath != "" {
		file, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		file.ApplyTo(cfg)
	} else if cfg.ConfigFilePath != "" {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	}

	config.LoadDotEnv()
	config.ApplyEnv(cfg, getenv)

	if err := applyFlags(cmd, cfg); err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Root = args[0]
	}
	return cfg, nil
}

// applyFlags copies explicitly set flags onto cfg.
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	strFlags := []struct {
		name string
		dst  *string
	}{
		{"developer", &cfg.Developer},
		{"extension", &cfg.Extension},
		{"backup-suffix", &cfg.BackupSuffix},
		{"log-file", &cfg.LogFileName},
		{"hash", &cfg.HashAlgorithm},
		{"db-dir", &cfg.DBDir},
	}
	for _, f := range strFlags {
		if !flags.Changed(f.name) {
			continue
		}
		v, err := flags.GetString(f.name)
		if err != nil {
			return err
		}
		*f.dst = v
	}

	if flags.Changed("concurrency") {
		n, err := flags.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = n
	}

	var err error
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return err
	}
	noDB, err := flags.GetBool("no-db")
	if err != nil {
		return err
	}
	cfg.SaveToDB = !noDB
	return nil
}

// promptRoot asks for the directory on out and reads one line from in.
func promptRoot(in io.Reader, out io.Writer) (string, error) {
	fmt.Fprint(out, rootPrompt)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read directory: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// newAnalyzer builds the analyzer described by cfg.
func newAnalyzer(cfg *config.Config) (*analyzer.Analyzer, error) {
	alg, err := cfg.Algorithm()
	if err != nil {
		return nil, err
	}
	return analyzer.New(
		analyzer.WithAlgorithm(alg),
		analyzer.WithImportTags(cfg.ImportTags),
		analyzer.WithKeywordTags(cfg.KeywordTags),
	)
}

// runProcess processes cfg.Root, records the run and writes the summary.
func runProcess(ctx context.Context, cfg *config.Config, out io.Writer, logger *slog.Logger) error {
	a, err := newAnalyzer(cfg)
	if err != nil {
		return err
	}

	proc, err := pipeline.NewProcessor(
		pipeline.Settings{
			Developer:    cfg.Developer,
			Extension:    cfg.Extension,
			BackupSuffix: cfg.BackupSuffix,
			LogFileName:  cfg.LogFileName,
			Concurrency:  cfg.Concurrency,
		},
		pipeline.WithAnalyzer(a),
		pipeline.WithConsole(out),
		pipeline.WithProcessorLogger(logger),
	)
	if err != nil {
		return err
	}

	logger.Info("starting run",
		"root", cfg.Root,
		"hash", cfg.HashAlgorithm,
		"concurrency", cfg.Concurrency,
		"saveToDB", cfg.SaveToDB,
	)

	summary, runErr := proc.Run(ctx, cfg.Root)
	if summary == nil {
		return runErr
	}

	if cfg.SaveToDB {
		if err := saveRun(ctx, cfg.DBDir, summary, logger); err != nil {
			logger.Warn("failed to record run", "error", err)
		}
	}

	if err := outputReport(cfg, summary, out); err != nil {
		return errors.Join(runErr, fmt.Errorf("failed to write report: %w", err))
	}
	return runErr
}

// saveRun stores summary in the history database in dbDir.
func saveRun(ctx context.Context, dbDir string, summary *model.RunSummary, logger *slog.Logger) error {
	db, err := database.Open(dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	// A cancelled run is still recorded.
	id, err := db.SaveRun(context.WithoutCancel(ctx), summary)
	if err != nil {
		return err
	}
	logger.Info("run saved to database", "id", id, "path", db.Path())
	return nil
}

// outputReport writes the summary in the requested format to cfg.ReportFile or out.
func outputReport(cfg *config.Config, summary *model.RunSummary, out io.Writer) error {
	output := out
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen report path
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	_, err := newReportWriter(cfg, output).Write(summary)
	return err
}

// newReportWriter selects the writer for the configured format.
func newReportWriter(cfg *config.Config, output io.Writer) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(output, report.WithPrettyPrint(), report.WithVersion(getVersion()))
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(output)
	default:
		return report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}
}
