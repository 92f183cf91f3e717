package cli

import (
	"encoding/json"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/tunegen/tunegen/internal/app/wiring"
	"github.com/tunegen/tunegen/internal/contracts/v1/dataset"
	datasetapp "github.com/tunegen/tunegen/internal/domains/dataset/app"
	"github.com/tunegen/tunegen/internal/platform/config"
	"github.com/tunegen/tunegen/internal/platform/console"
	"github.com/tunegen/tunegen/internal/platform/errors"
	"github.com/tunegen/tunegen/internal/platform/metrics"
	"github.com/tunegen/tunegen/internal/platform/paths"
	"github.com/tunegen/tunegen/internal/platform/policy"
)

// generateFlags mirror the config keys they override. A flag only applies when
// it was set explicitly: scalar flags replace the file and environment value,
// repeatable flags (--ignore, --allow-domain) extend the configured list.
type generateFlags struct {
	configFile string
	envFile    string

	useGitignore bool
	ignores      []string
	maxFileBytes int64
	binaryPolicy string

	ratio     float64
	seed      string
	format    string
	outputDir string

	tokenizer    string
	net          bool
	allowDomains []string

	logLevel    string
	logFormat   string
	metricsFile string
}

func newGenerateCmd(streams Streams) *cobra.Command {
	var f generateFlags
	defaults := config.DefaultConfig()

	cmd := &cobra.Command{
		Use:   "generate <project_path> <project_name>",
		Short: "Collect project files and write training/validation JSONL datasets",
		Example: `  tunegen generate . myproject --use-gitignore
  tunegen generate ~/src/app app --validation-ratio 0.2 --format chat --out ./datasets
  tunegen generate . app --tokenizer cl100k_base --net`,
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, streams, f, args[0], args[1])
		},
	}

	f.register(cmd.Flags(), defaults)
	return cmd
}

func (f *generateFlags) register(fs *pflag.FlagSet, defaults *config.Config) {
	fs.StringVar(&f.configFile, "config", "", "YAML config file")
	fs.StringVar(&f.envFile, "env-file", ".env", "KEY=VALUE file read before the environment (missing file is ignored)")

	fs.BoolVar(&f.useGitignore, "use-gitignore", defaults.Scan.UseGitignore, "honor .gitignore files under the project path")
	fs.StringArrayVar(&f.ignores, "ignore", nil, "extra gitignore-syntax pattern, added to configured ones (repeatable); quote globs in your shell")
	fs.Int64Var(&f.maxFileBytes, "max-file-bytes", defaults.Scan.MaxFileBytes, "skip files larger than this many bytes")
	fs.StringVar(&f.binaryPolicy, "binary-policy", defaults.Scan.BinaryPolicy, "binary or non-UTF-8 files: skip or fail")

	fs.Float64Var(&f.ratio, "validation-ratio", defaults.Dataset.ValidationRatio, "share of files assigned to validation, in [0, 1]")
	fs.StringVar(&f.seed, "seed", defaults.Dataset.Seed, "seed for the train/validation split")
	fs.StringVar(&f.format, "format", defaults.Dataset.Format, "record format: source or chat")
	fs.StringVar(&f.outputDir, "out", "", "output directory (default: the invocation directory)")

	fs.StringVar(&f.tokenizer, "tokenizer", defaults.Tokenizer.Scheme, "token counting scheme: whitespace, heuristic, cl100k_base, o200k_base")
	fs.BoolVar(&f.net, "net", false, "allow network access (BPE tokenizers may download rank files)")
	fs.StringArrayVar(&f.allowDomains, "allow-domain", nil, "allowed domain when --net is set, added to configured ones (repeatable); none means any")

	fs.StringVar(&f.logLevel, "log-level", defaults.Log.Level, "debug, info, warn or error")
	fs.StringVar(&f.logFormat, "log-format", defaults.Log.Format, "console or json")
	fs.StringVar(&f.metricsFile, "metrics-file", "", "write run metrics in Prometheus textfile format to this path")
}

func runGenerate(cmd *cobra.Command, streams Streams, f generateFlags, projectPath string, projectName string) error {
	loader := config.NewLoader().WithDotEnv(f.envFile)
	if strings.TrimSpace(f.configFile) != "" {
		loader = loader.WithConfigPath(f.configFile)
	}
	cfg, err := loader.Load()
	if err != nil {
		return err
	}
	applyFlags(cmd.Flags(), f, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	log := console.New(streams.Stderr, console.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	defer func() { _ = log.Sync() }()

	ctr, err := wiring.New(wiring.Options{
		Logger:    log,
		Policy:    policy.Policy{NetEnabled: cfg.Net.Enabled, AllowDomains: cfg.Net.AllowDomains},
		Tokenizer: cfg.Tokenizer.Scheme,
	})
	if err != nil {
		return err
	}
	log.Debug("tokenizer ready", zap.String("tokenizer", ctr.Counter.Name()))

	base := invocationCWD()
	outputDir := cfg.Dataset.OutputDir
	switch {
	case outputDir != "":
		outputDir = paths.ResolveRoot(base, outputDir)
	case os.Getenv(callerPWDEnv) != "":
		outputDir = base
	}

	report, runErr := ctr.Dataset.Generate(cmd.Context(), datasetapp.GenerateRequest{
		ProjectPath:     paths.ResolveRoot(base, projectPath),
		ProjectName:     projectName,
		UseGitignore:    cfg.Scan.UseGitignore,
		ExtraIgnores:    cfg.Scan.ExtraIgnores,
		MaxFileBytes:    cfg.Scan.MaxFileBytes,
		BinaryPolicy:    cfg.Scan.BinaryPolicy,
		ValidationRatio: cfg.Dataset.ValidationRatio,
		Seed:            cfg.Dataset.Seed,
		Format:          cfg.Dataset.Format,
		OutputDir:       outputDir,
	})

	if cfg.Metrics.File != "" {
		if err := writeMetrics(cfg.Metrics.File, projectName, report, runErr == nil); err != nil {
			if runErr != nil {
				return runErr
			}
			return err
		}
		log.Debug("metrics written", zap.String("path", cfg.Metrics.File))
	}
	if runErr != nil {
		return runErr
	}

	enc := json.NewEncoder(streams.Stdout)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(report.Summary); err != nil {
		return errors.NewWrite("stdout", err)
	}
	return nil
}

// applyFlags copies explicitly set flags over the loaded config.
func applyFlags(fs *pflag.FlagSet, f generateFlags, cfg *config.Config) {
	set := func(name string) bool { return fs.Changed(name) }

	if set("use-gitignore") {
		cfg.Scan.UseGitignore = f.useGitignore
	}
	if set("ignore") {
		cfg.Scan.ExtraIgnores = append(cfg.Scan.ExtraIgnores, f.ignores...)
	}
	if set("max-file-bytes") {
		cfg.Scan.MaxFileBytes = f.maxFileBytes
	}
	if set("binary-policy") {
		cfg.Scan.BinaryPolicy = f.binaryPolicy
	}
	if set("validation-ratio") {
		cfg.Dataset.ValidationRatio = f.ratio
	}
	if set("seed") {
		cfg.Dataset.Seed = f.seed
	}
	if set("format") {
		cfg.Dataset.Format = f.format
	}
	if set("out") {
		cfg.Dataset.OutputDir = f.outputDir
	}
	if set("tokenizer") {
		cfg.Tokenizer.Scheme = f.tokenizer
	}
	if set("net") {
		cfg.Net.Enabled = f.net
	}
	if set("allow-domain") {
		cfg.Net.AllowDomains = append(cfg.Net.AllowDomains, f.allowDomains...)
	}
	if set("log-level") {
		cfg.Log.Level = f.logLevel
	}
	if set("log-format") {
		cfg.Log.Format = f.logFormat
	}
	if set("metrics-file") {
		cfg.Metrics.File = f.metricsFile
	}
}

func writeMetrics(path string, project string, report dataset.RunReportV1, success bool) error {
	skipped := map[string]int{}
	for _, sk := range report.Skipped {
		skipped[sk.Reason]++
	}
	rec := metrics.New(project)
	rec.Observe(metrics.RunStats{
		FilesCollected:    report.FilesCollected,
		Skipped:           skipped,
		Tokens:            report.Summary.TokenCount,
		TrainingRecords:   report.TrainingRecords,
		ValidationRecords: report.ValidationRecords,
		Duration:          report.FinishedAt.Sub(report.StartedAt),
		Success:           success,
		FinishedAt:        report.FinishedAt,
	})
	return rec.WriteTextfile(path)
}
