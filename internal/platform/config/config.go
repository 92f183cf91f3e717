// Package config loads run configuration.
//
// Precedence: defaults → YAML file → environment (TUNEGEN_*, optionally
// backed by a .env file) → explicitly set CLI flags (applied by the caller).
package config

import (
	"strings"

	datasetdomain "github.com/tunegen/tunegen/internal/domains/dataset/domain"
	"github.com/tunegen/tunegen/internal/platform/console"
	"github.com/tunegen/tunegen/internal/platform/errors"
)

const (
	DefaultMaxFileBytes    int64   = 1_500_000
	DefaultValidationRatio float64 = 0.4
	DefaultTokenizer               = "whitespace"
	DefaultSeed                    = "tunegen"
)

type Config struct {
	Scan      ScanConfig      `yaml:"scan" env:"SCAN"`
	Dataset   DatasetConfig   `yaml:"dataset" env:"DATASET"`
	Tokenizer TokenizerConfig `yaml:"tokenizer" env:"TOKENIZER"`
	Net       NetConfig       `yaml:"net" env:"NET"`
	Log       LogConfig       `yaml:"log" env:"LOG"`
	Metrics   MetricsConfig   `yaml:"metrics" env:"METRICS"`
}

type ScanConfig struct {
	// UseGitignore applies .gitignore files found under the root.
	UseGitignore bool `yaml:"use_gitignore" env:"USE_GITIGNORE"`
	// ExtraIgnores are gitignore-syntax patterns applied at the root.
	ExtraIgnores []string `yaml:"extra_ignores" env:"EXTRA_IGNORES"`
	MaxFileBytes int64    `yaml:"max_file_bytes" env:"MAX_FILE_BYTES"`
	// BinaryPolicy is "skip" or "fail".
	BinaryPolicy string `yaml:"binary_policy" env:"BINARY_POLICY"`
}

type DatasetConfig struct {
	ValidationRatio float64 `yaml:"validation_ratio" env:"VALIDATION_RATIO"`
	// Seed salts the partition rank keys; changing it reshuffles membership.
	Seed string `yaml:"seed" env:"SEED"`
	// Format is "source" or "chat".
	Format    string `yaml:"format" env:"FORMAT"`
	OutputDir string `yaml:"output_dir" env:"OUTPUT_DIR"`
}

type TokenizerConfig struct {
	Scheme string `yaml:"scheme" env:"SCHEME"`
}

type NetConfig struct {
	Enabled      bool     `yaml:"enabled" env:"ENABLED"`
	AllowDomains []string `yaml:"allow_domains" env:"ALLOW_DOMAINS"`
}

type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"`
	Format string `yaml:"format" env:"FORMAT"`
}

type MetricsConfig struct {
	// File, when set, receives a Prometheus textfile after each run.
	File string `yaml:"file" env:"FILE"`
}

func DefaultConfig() *Config {
	return &Config{
		Scan: ScanConfig{
			UseGitignore: false,
			MaxFileBytes: DefaultMaxFileBytes,
			BinaryPolicy: datasetdomain.BinarySkip,
		},
		Dataset: DatasetConfig{
			ValidationRatio: DefaultValidationRatio,
			Seed:            DefaultSeed,
			Format:          datasetdomain.FormatSource,
		},
		Tokenizer: TokenizerConfig{
			Scheme: DefaultTokenizer,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Validate checks values the pipeline cannot recover from. Tokenizer schemes
// are checked where tokenizers are built.
func (c *Config) Validate() error {
	if err := datasetdomain.ValidateRatio(c.Dataset.ValidationRatio); err != nil {
		return err
	}

	var problems []string
	if !datasetdomain.ValidFormat(c.Dataset.Format) {
		problems = append(problems, "dataset.format must be source or chat, got "+quote(c.Dataset.Format))
	}
	if !datasetdomain.ValidBinaryPolicy(c.Scan.BinaryPolicy) {
		problems = append(problems, "scan.binary_policy must be skip or fail, got "+quote(c.Scan.BinaryPolicy))
	}
	if c.Scan.MaxFileBytes <= 0 {
		problems = append(problems, "scan.max_file_bytes must be positive")
	}
	if strings.TrimSpace(c.Tokenizer.Scheme) == "" {
		problems = append(problems, "tokenizer.scheme is empty")
	}
	if !console.ValidLevel(c.Log.Level) {
		problems = append(problems, "log.level must be debug, info, warn or error, got "+quote(c.Log.Level))
	}
	if !console.ValidFormat(c.Log.Format) {
		problems = append(problems, "log.format must be console or json, got "+quote(c.Log.Format))
	}

	if len(problems) > 0 {
		return errors.NewConfig("invalid configuration: "+strings.Join(problems, "; "), nil)
	}
	return nil
}

func quote(s string) string {
	return `"` + s + `"`
}
