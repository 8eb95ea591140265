package config

import (
	"fmt"
	"maps"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"

	"github.com/nao1215/codefactor/internal/analyzer"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "codefactor"

	// DefaultDeveloper is written to the Developer field of every header.
	DefaultDeveloper = "Duane Robinson"

	// DefaultExtension selects the files to process.
	DefaultExtension = ".py"

	// DefaultBackupSuffix is appended to a file's path to name its backup.
	DefaultBackupSuffix = "_backup"

	// DefaultLogFileName is the run log created in the processed directory.
	DefaultLogFileName = "processing_log.txt"

	// DefaultHashAlgorithm names the digest used for content hashes.
	DefaultHashAlgorithm = "md5"

	// DefaultConcurrency processes files one at a time, in discovery order.
	DefaultConcurrency = 1
)

// Config holds every option of a processing run.
// It is built once at startup and passed down; nothing reads globals.
type Config struct {
	// Root is the directory to process.
	Root string

	// Developer is the name written to the header's Developer field.
	Developer string

	// Extension selects the files to process, e.g. ".py".
	Extension string

	// BackupSuffix is appended to a file path to form its backup path.
	BackupSuffix string

	// LogFileName is the name of the run log inside Root.
	LogFileName string

	// HashAlgorithm names the content hash digest (see analyzer.AlgorithmNames).
	HashAlgorithm string

	// Concurrency is the number of files processed at once. 1 is sequential.
	Concurrency int

	// ImportTags maps imported module names to category tags.
	ImportTags map[string]string

	// KeywordTags maps function-name substrings to category tags.
	KeywordTags map[string]string

	// Verbose enables debug-level diagnostic logging.
	Verbose bool

	// ConfigFilePath is an explicit configuration file path.
	// When empty, .codefactor.yaml is searched in the current directory
	// and then in the home directory.
	ConfigFilePath string

	// JSONReport prints the run summary as JSON. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport prints the run summary as Markdown. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the run summary to a file instead of stdout.
	ReportFile string

	// DBDir is the directory of the run history database.
	DBDir string

	// SaveToDB records the run in the history database.
	SaveToDB bool
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Developer:     DefaultDeveloper,
		Extension:     DefaultExtension,
		BackupSuffix:  DefaultBackupSuffix,
		LogFileName:   DefaultLogFileName,
		HashAlgorithm: DefaultHashAlgorithm,
		Concurrency:   DefaultConcurrency,
		ImportTags:    analyzer.DefaultImportTags(),
		KeywordTags:   analyzer.DefaultKeywordTags(),
		DBDir:         XDGDataDir(),
		SaveToDB:      true,
	}
}

// XDGDataDir returns the XDG data directory for codefactor.
// On Linux: ~/.local/share/codefactor
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for codefactor.
// On Linux: ~/.config/codefactor
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// LogPath returns the path of the run log inside Root.
func (c *Config) LogPath() string {
	return filepath.Join(c.Root, c.LogFileName)
}

// Algorithm returns the parsed hash algorithm.
func (c *Config) Algorithm() (analyzer.Algorithm, error) {
	alg, err := analyzer.ParseAlgorithm(c.HashAlgorithm)
	if err != nil {
		return analyzer.MD5, fmt.Errorf("%w: %q (supported: %s)",
			ErrUnknownHashAlgorithm, c.HashAlgorithm, strings.Join(analyzer.AlgorithmNames(), ", "))
	}
	return alg, nil
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Root) == "" {
		return ErrNoRoot
	}
	if strings.TrimSpace(c.Developer) == "" || strings.ContainsAny(c.Developer, "\r\n") {
		return ErrEmptyDeveloper
	}
	if len(c.Extension) < 2 || !strings.HasPrefix(c.Extension, ".") || hasSeparator(c.Extension) {
		return ErrInvalidExtension
	}
	if c.BackupSuffix == "" || hasSeparator(c.BackupSuffix) || strings.HasSuffix(c.BackupSuffix, c.Extension) {
		return ErrInvalidBackupSuffix
	}
	if c.LogFileName == "" || c.LogFileName == "." || c.LogFileName == ".." ||
		hasSeparator(c.LogFileName) || strings.HasSuffix(c.LogFileName, c.Extension) {
		return ErrInvalidLogFileName
	}
	if c.Concurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if _, err := c.Algorithm(); err != nil {
		return err
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}

// Clone returns a deep copy of c.
func (c *Config) Clone() *Config {
	cp := *c
	cp.ImportTags = maps.Clone(c.ImportTags)
	cp.KeywordTags = maps.Clone(c.KeywordTags)
	return &cp
}

func hasSeparator(s string) bool {
	return strings.ContainsAny(s, `/\`)
}
