package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestNewConfig verifies that NewConfig returns the documented defaults.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Developer", func(t *testing.T) {
		t.Parallel()
		if cfg.Developer != "Duane Robinson" {
			t.Errorf("expected Developer to be 'Duane Robinson', got '%s'", cfg.Developer)
		}
	})

	t.Run("default Extension is .py", func(t *testing.T) {
		t.Parallel()
		if cfg.Extension != ".py" {
			t.Errorf("expected Extension to be '.py', got '%s'", cfg.Extension)
		}
	})

	t.Run("default BackupSuffix is _backup", func(t *testing.T) {
		t.Parallel()
		if cfg.BackupSuffix != "_backup" {
			t.Errorf("expected BackupSuffix to be '_backup', got '%s'", cfg.BackupSuffix)
		}
	})

	t.Run("default LogFileName is processing_log.txt", func(t *testing.T) {
		t.Parallel()
		if cfg.LogFileName != "processing_log.txt" {
			t.Errorf("expected LogFileName to be 'processing_log.txt', got '%s'", cfg.LogFileName)
		}
	})

	t.Run("default HashAlgorithm is md5", func(t *testing.T) {
		t.Parallel()
		if cfg.HashAlgorithm != "md5" {
			t.Errorf("expected HashAlgorithm to be 'md5', got '%s'", cfg.HashAlgorithm)
		}
	})

	t.Run("default Concurrency is 1", func(t *testing.T) {
		t.Parallel()
		if cfg.Concurrency != 1 {
			t.Errorf("expected Concurrency to be 1, got %d", cfg.Concurrency)
		}
	})

	t.Run("default tag tables", func(t *testing.T) {
		t.Parallel()
		if cfg.ImportTags["os"] != "files" || cfg.ImportTags["pandas"] != "excel" {
			t.Errorf("unexpected ImportTags: %v", cfg.ImportTags)
		}
		if cfg.KeywordTags["parse"] != "parse" || len(cfg.KeywordTags) != 3 {
			t.Errorf("unexpected KeywordTags: %v", cfg.KeywordTags)
		}
	})

	t.Run("history is saved to the XDG data dir", func(t *testing.T) {
		t.Parallel()
		if !cfg.SaveToDB {
			t.Error("expected SaveToDB to be true")
		}
		if cfg.DBDir != XDGDataDir() {
			t.Errorf("expected DBDir %q, got %q", XDGDataDir(), cfg.DBDir)
		}
	})
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	validConfig := func() *Config {
		cfg := NewConfig()
		cfg.Root = "/tmp/project"
		return cfg
	}

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{name: "valid config returns nil", modify: func(*Config) {}},
		{name: "empty root", modify: func(c *Config) { c.Root = " " }, wantErr: ErrNoRoot},
		{name: "empty developer", modify: func(c *Config) { c.Developer = "" }, wantErr: ErrEmptyDeveloper},
		{name: "multi-line developer", modify: func(c *Config) { c.Developer = "a\nb" }, wantErr: ErrEmptyDeveloper},
		{name: "extension without dot", modify: func(c *Config) { c.Extension = "py" }, wantErr: ErrInvalidExtension},
		{name: "extension is only a dot", modify: func(c *Config) { c.Extension = "." }, wantErr: ErrInvalidExtension},
		{name: "extension with separator", modify: func(c *Config) { c.Extension = "./py" }, wantErr: ErrInvalidExtension},
		{name: "empty backup suffix", modify: func(c *Config) { c.BackupSuffix = "" }, wantErr: ErrInvalidBackupSuffix},
		{name: "backup suffix ending with extension", modify: func(c *Config) { c.BackupSuffix = ".bak.py" }, wantErr: ErrInvalidBackupSuffix},
		{name: "backup suffix with separator", modify: func(c *Config) { c.BackupSuffix = "/bak" }, wantErr: ErrInvalidBackupSuffix},
		{name: "log file with directory", modify: func(c *Config) { c.LogFileName = "logs/run.txt" }, wantErr: ErrInvalidLogFileName},
		{name: "log file ending with extension", modify: func(c *Config) { c.LogFileName = "log.py" }, wantErr: ErrInvalidLogFileName},
		{name: "log file dot-dot", modify: func(c *Config) { c.LogFileName = ".." }, wantErr: ErrInvalidLogFileName},
		{name: "zero concurrency", modify: func(c *Config) { c.Concurrency = 0 }, wantErr: ErrInvalidConcurrency},
		{name: "unknown hash", modify: func(c *Config) { c.HashAlgorithm = "crc32" }, wantErr: ErrUnknownHashAlgorithm},
		{name: "other hash is valid", modify: func(c *Config) { c.HashAlgorithm = "xxh3" }},
		{name: "json and markdown both enabled", modify: func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, wantErr: ErrConflictingReportFormats},
		{name: "markdown only is valid", modify: func(c *Config) { c.MarkdownReport = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := validConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected nil, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestConfigLogPath(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.Root = filepath.Join("tmp", "project")
	want := filepath.Join("tmp", "project", "processing_log.txt")
	if got := cfg.LogPath(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestConfigClone(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cp := cfg.Clone()
	cp.ImportTags["requests"] = "http"
	cp.Developer = "Someone"

	if _, ok := cfg.ImportTags["requests"]; ok {
		t.Error("Clone shares ImportTags with the original")
	}
	if cfg.Developer != DefaultDeveloper {
		t.Error("Clone shares fields with the original")
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfigFile("/nonexistent/path/.codefactor.yaml")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cfg != nil {
			t.Error("expected nil config when file not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		content := `developer: "Ada Lovelace"
extension: ".pyw"
backupSuffix: ".orig"
logFile: "annotate.log"
hash: sha256
concurrency: 4
importTags:
  requests: http
  os: ""
keywordTags:
  fetch: network
`
		if err := os.WriteFile(configPath, []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		file, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		file.ApplyTo(cfg)

		if cfg.Developer != "Ada Lovelace" {
			t.Errorf("expected developer, got %q", cfg.Developer)
		}
		if cfg.Extension != ".pyw" || cfg.BackupSuffix != ".orig" || cfg.LogFileName != "annotate.log" {
			t.Errorf("unexpected file settings: %+v", cfg)
		}
		if cfg.HashAlgorithm != "sha256" || cfg.Concurrency != 4 {
			t.Errorf("unexpected hash/concurrency: %q %d", cfg.HashAlgorithm, cfg.Concurrency)
		}
		if cfg.ImportTags["requests"] != "http" {
			t.Error("expected requests import tag to be added")
		}
		if _, ok := cfg.ImportTags["os"]; ok {
			t.Error("expected os import tag to be removed by an empty value")
		}
		if cfg.ImportTags["pandas"] != "excel" {
			t.Error("expected default pandas tag to be kept")
		}
		if cfg.KeywordTags["fetch"] != "network" || cfg.KeywordTags["parse"] != "parse" {
			t.Errorf("unexpected keyword tags: %v", cfg.KeywordTags)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), DefaultConfigFile)
		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("empty file changes nothing", func(t *testing.T) {
		t.Parallel()

		file := &File{}
		cfg := NewConfig()
		file.ApplyTo(cfg)
		if cfg.Developer != DefaultDeveloper || len(cfg.ImportTags) != 4 {
			t.Errorf("empty file modified the config: %+v", cfg)
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()

		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("developer: x\n"), 0o600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()

		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

func TestApplyEnv(t *testing.T) {
	t.Parallel()

	env := map[string]string{
		EnvDeveloper:   "  Grace Hopper ",
		EnvDBDir:       "/var/lib/codefactor",
		EnvHash:        "blake2b",
		EnvConcurrency: "8",
	}
	cfg := NewConfig()
	ApplyEnv(cfg, func(key string) string { return env[key] })

	if cfg.Developer != "Grace Hopper" {
		t.Errorf("expected trimmed developer, got %q", cfg.Developer)
	}
	if cfg.DBDir != "/var/lib/codefactor" {
		t.Errorf("expected DBDir from env, got %q", cfg.DBDir)
	}
	if cfg.HashAlgorithm != "blake2b" || cfg.Concurrency != 8 {
		t.Errorf("unexpected hash/concurrency: %q %d", cfg.HashAlgorithm, cfg.Concurrency)
	}

	t.Run("malformed concurrency is ignored", func(t *testing.T) {
		t.Parallel()

		cfg := NewConfig()
		ApplyEnv(cfg, func(key string) string {
			if key == EnvConcurrency {
				return "many"
			}
			return ""
		})
		if cfg.Concurrency != DefaultConcurrency {
			t.Errorf("expected default concurrency, got %d", cfg.Concurrency)
		}
	})
}

func TestConfigAlgorithmErrorListsSupported(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	cfg.HashAlgorithm = "sha1"
	_, err := cfg.Algorithm()
	if !errors.Is(err, ErrUnknownHashAlgorithm) {
		t.Fatalf("expected ErrUnknownHashAlgorithm, got %v", err)
	}
	if !strings.Contains(err.Error(), "sha3-256") {
		t.Errorf("expected supported algorithms in %q", err.Error())
	}
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	for name, dir := range map[string]string{"data": XDGDataDir(), "config": XDGConfigDir()} {
		if dir == "" || filepath.Base(dir) != AppName {
			t.Errorf("%s dir = %q, want non-empty path ending in %q", name, dir, AppName)
		}
	}
}
