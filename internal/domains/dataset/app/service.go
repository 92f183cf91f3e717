package app

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tunegen/tunegen/internal/contracts/v1/dataset"
	"github.com/tunegen/tunegen/internal/contracts/v1/project"
	"github.com/tunegen/tunegen/internal/domains/dataset/domain"
	"github.com/tunegen/tunegen/internal/domains/dataset/ports"
	repoapi "github.com/tunegen/tunegen/internal/domains/repo/api"
	tokports "github.com/tunegen/tunegen/internal/domains/tokenize/ports"
	"github.com/tunegen/tunegen/internal/platform/clock"
	"github.com/tunegen/tunegen/internal/platform/errors"
	"github.com/tunegen/tunegen/internal/platform/glob"
	"github.com/tunegen/tunegen/internal/platform/paths"
)

type GenerateRequest struct {
	ProjectPath  string
	ProjectName  string
	UseGitignore bool
	ExtraIgnores []string
	MaxFileBytes int64
	// BinaryPolicy is domain.BinarySkip or domain.BinaryFail.
	BinaryPolicy string

	ValidationRatio float64
	Seed            string
	Format          string
	OutputDir       string
}

type Service struct {
	repo    repoapi.API
	counter tokports.Counter
	writer  ports.DatasetWriter
	clock   clock.Clock
	log     *zap.Logger
}

func NewService(repo repoapi.API, counter tokports.Counter, writer ports.DatasetWriter, clk clock.Clock, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	if clk == nil {
		clk = clock.SystemUTC{}
	}
	return &Service{
		repo:    repo,
		counter: counter,
		writer:  writer,
		clock:   clk,
		log:     log,
	}
}

// Generate runs the whole pipeline once. On failure the returned report holds
// whatever statistics were gathered before the error.
func (s *Service) Generate(ctx context.Context, req GenerateRequest) (report dataset.RunReportV1, err error) {
	report = dataset.RunReportV1{
		RunID:     uuid.NewString(),
		Tokenizer: s.counter.Name(),
		Format:    req.Format,
		StartedAt: s.clock.NowUTC(),
	}
	defer func() { report.FinishedAt = s.clock.NowUTC() }()

	if err := validate(req); err != nil {
		return report, err
	}
	log := s.log.With(zap.String("run_id", report.RunID), zap.String("project", req.ProjectName))

	root, err := filepath.Abs(req.ProjectPath)
	if err != nil {
		return report, errors.NewPathNotFound(req.ProjectPath, err)
	}

	log.Debug("scanning project", zap.String("root", root), zap.Bool("use_gitignore", req.UseGitignore))
	scan, err := s.repo.Scan(root, repoapi.ScanOptions{
		UseGitignore: req.UseGitignore,
		ExtraIgnores: append(append([]string(nil), req.ExtraIgnores...), ownOutputPatterns(root, req)...),
		MaxFileBytes: req.MaxFileBytes,
	})
	if err != nil {
		return report, err
	}
	report.IgnoredEntries = scan.IgnoredEntries
	for _, sk := range scan.Skipped {
		report.Skipped = append(report.Skipped, dataset.SkippedV1{Path: sk.RelPath, Reason: sk.Reason, Detail: sk.Detail})
	}

	files := make([]domain.SourceFile, 0, len(scan.Files))
	tokens := 0
	for _, ref := range scan.Files {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		content, err := s.repo.ReadTextRel(root, ref.RelPath, req.MaxFileBytes)
		if err != nil {
			reason := repoapi.SkipReason(err)
			if req.BinaryPolicy == domain.BinaryFail && (reason == project.SkipBinary || reason == project.SkipNotUTF8) {
				return report, err
			}
			log.Debug("skipping file", zap.String("path", ref.RelPath), zap.String("reason", reason), zap.Error(err))
			report.Skipped = append(report.Skipped, dataset.SkippedV1{Path: ref.RelPath, Reason: reason, Detail: err.Error()})
			continue
		}

		n, err := s.counter.Count(content)
		if err != nil {
			return report, errors.NewInternal("tokenizer "+s.counter.Name()+" failed on "+ref.RelPath, err)
		}
		tokens += n
		files = append(files, domain.SourceFile{RelPath: ref.RelPath, Content: content, TokenCount: n})
	}
	report.FilesCollected = len(files)

	if len(report.Skipped) > 0 {
		log.Warn("some files were skipped",
			zap.Int("count", len(report.Skipped)),
			zap.Any("reasons", skipCounts(report.Skipped)))
	}

	training, validation, err := domain.Partition(files, req.ValidationRatio, req.Seed)
	if err != nil {
		return report, err
	}

	trainingRecs, validationRecs, err := render(req.ProjectName, req.Format, files, training, validation)
	if err != nil {
		return report, err
	}

	summary, err := s.writer.WriteDatasets(ports.WriteDatasetsRequest{
		OutputDir:   req.OutputDir,
		ProjectName: req.ProjectName,
		TokenCount:  tokens,
		Training:    trainingRecs,
		Validation:  validationRecs,
	})
	if err != nil {
		return report, err
	}

	report.Summary = summary
	report.TrainingRecords = len(trainingRecs)
	report.ValidationRecords = len(validationRecs)

	log.Info("datasets written",
		zap.String("training_file", summary.TrainingFile),
		zap.String("validation_file", summary.ValidationFile),
		zap.Int("training_records", report.TrainingRecords),
		zap.Int("validation_records", report.ValidationRecords),
		zap.Int("token_count", tokens),
		zap.String("tokenizer", report.Tokenizer))
	return report, nil
}

func validate(req GenerateRequest) error {
	// The ratio is checked first so that a bad ratio never touches the filesystem.
	if err := domain.ValidateRatio(req.ValidationRatio); err != nil {
		return err
	}
	if strings.TrimSpace(req.ProjectPath) == "" {
		return errors.NewUsage("project path is empty")
	}
	if err := domain.ValidateProjectName(req.ProjectName); err != nil {
		return err
	}
	if !domain.ValidFormat(req.Format) {
		return errors.NewConfig("unknown dataset format "+req.Format, nil)
	}
	if !domain.ValidBinaryPolicy(req.BinaryPolicy) {
		return errors.NewConfig("unknown binary policy "+req.BinaryPolicy, nil)
	}
	return nil
}

// ownOutputPatterns anchors the project's dataset filename patterns at the
// output directory when that directory lies inside the scanned root.
func ownOutputPatterns(root string, req GenerateRequest) []string {
	dir := req.OutputDir
	if dir == "" {
		dir = "."
	}
	out, err := filepath.Abs(dir)
	if err != nil {
		return nil
	}
	rel, err := paths.ToPosixRel(resolved(root), resolved(out))
	if err != nil || rel == ".." || strings.HasPrefix(rel, "../") {
		return nil
	}
	pats := domain.OwnOutputPatterns(req.ProjectName)
	if rel == "." {
		return pats
	}
	prefix := "/" + escapeDir(rel)
	for i, p := range pats {
		pats[i] = prefix + p
	}
	return pats
}

// resolved follows symlinks the way the scanner does; paths that do not exist
// yet are kept as given.
func resolved(p string) string {
	if r, err := filepath.EvalSymlinks(p); err == nil {
		return r
	}
	return p
}

func escapeDir(rel string) string {
	parts := strings.Split(rel, "/")
	for i, p := range parts {
		parts[i] = glob.Escape(p)
	}
	return strings.Join(parts, "/")
}

func render(projectName string, format string, all []domain.SourceFile, training []domain.SourceFile, validation []domain.SourceFile) ([]any, []any, error) {
	if format == domain.FormatSource {
		return domain.SourceRecords(projectName, training), domain.SourceRecords(projectName, validation), nil
	}

	structure := make([]string, 0, len(all))
	for _, f := range all {
		structure = append(structure, f.RelPath)
	}
	rec, err := domain.StructureRecord(projectName, structure)
	if err != nil {
		return nil, nil, err
	}
	trainingRecs := append(domain.ChatRecords(projectName, training), rec)
	return trainingRecs, domain.ChatRecords(projectName, validation), nil
}

func skipCounts(skipped []dataset.SkippedV1) map[string]int {
	out := map[string]int{}
	for _, sk := range skipped {
		out[sk.Reason]++
	}
	return out
}
