package config

import (
	"errors"
	"maps"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".codefactor.yaml"

// Environment variables that override the configuration file.
const (
	EnvDeveloper   = "CODEFACTOR_DEVELOPER"
	EnvDBDir       = "CODEFACTOR_DB_DIR"
	EnvHash        = "CODEFACTOR_HASH"
	EnvConcurrency = "CODEFACTOR_CONCURRENCY"
)

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .codefactor.yaml configuration file.
// Zero values leave the corresponding Config field untouched.
type File struct {
	// Developer is the name written to annotation headers.
	Developer string `yaml:"developer,omitempty"`

	// Extension selects the files to process.
	Extension string `yaml:"extension,omitempty"`

	// BackupSuffix is appended to backup paths.
	BackupSuffix string `yaml:"backupSuffix,omitempty"`

	// LogFile is the name of the run log.
	LogFile string `yaml:"logFile,omitempty"`

	// Hash is the content hash algorithm name.
	Hash string `yaml:"hash,omitempty"`

	// Concurrency is the number of files processed at once.
	Concurrency int `yaml:"concurrency,omitempty"`

	// ImportTags adds to or overrides the import tag table.
	// An empty tag removes a default entry.
	ImportTags map[string]string `yaml:"importTags,omitempty"`

	// KeywordTags adds to or overrides the function keyword tag table.
	// An empty tag removes a default entry.
	KeywordTags map[string]string `yaml:"keywordTags,omitempty"`
}

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, err
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .codefactor.yaml in the current directory
// 3. Look for .codefactor.yaml in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), "config.yaml"))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ApplyTo copies the values set in the file onto cfg.
func (cf *File) ApplyTo(cfg *Config) {
	if cf.Developer != "" {
		cfg.Developer = cf.Developer
	}
	if cf.Extension != "" {
		cfg.Extension = cf.Extension
	}
	if cf.BackupSuffix != "" {
		cfg.BackupSuffix = cf.BackupSuffix
	}
	if cf.LogFile != "" {
		cfg.LogFileName = cf.LogFile
	}
	if cf.Hash != "" {
		cfg.HashAlgorithm = cf.Hash
	}
	if cf.Concurrency != 0 {
		cfg.Concurrency = cf.Concurrency
	}
	cfg.ImportTags = mergeTags(cfg.ImportTags, cf.ImportTags)
	cfg.KeywordTags = mergeTags(cfg.KeywordTags, cf.KeywordTags)
}

// mergeTags returns base overlaid with overrides; an empty override value deletes the key.
func mergeTags(base, overrides map[string]string) map[string]string {
	if len(overrides) == 0 {
		return base
	}
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]string, len(overrides))
	}
	for k, v := range overrides {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if strings.TrimSpace(v) == "" {
			delete(out, k)
			continue
		}
		out[k] = strings.TrimSpace(v)
	}
	return out
}

// LoadDotEnv loads variables from .env in the current directory, best effort.
// Variables already present in the environment are not overwritten.
func LoadDotEnv(files ...string) {
	_ = godotenv.Load(files...) //nolint:errcheck // a missing .env file is normal
}

// ApplyEnv copies CODEFACTOR_* variables onto cfg using getenv.
// Malformed numeric values are ignored.
func ApplyEnv(cfg *Config, getenv func(string) string) {
	if v := strings.TrimSpace(getenv(EnvDeveloper)); v != "" {
		cfg.Developer = v
	}
	if v := strings.TrimSpace(getenv(EnvDBDir)); v != "" {
		cfg.DBDir = v
	}
	if v := strings.TrimSpace(getenv(EnvHash)); v != "" {
		cfg.HashAlgorithm = v
	}
	if v := strings.TrimSpace(getenv(EnvConcurrency)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Concurrency = n
		}
	}
}
