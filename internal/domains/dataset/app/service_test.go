package app

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/tunegen/tunegen/internal/contracts/v1/dataset"
	"github.com/tunegen/tunegen/internal/contracts/v1/project"
	datasetadapters "github.com/tunegen/tunegen/internal/domains/dataset/adapters"
	"github.com/tunegen/tunegen/internal/domains/dataset/domain"
	repoadapters "github.com/tunegen/tunegen/internal/domains/repo/adapters"
	repoapi "github.com/tunegen/tunegen/internal/domains/repo/api"
	tokadapters "github.com/tunegen/tunegen/internal/domains/tokenize/adapters"
	"github.com/tunegen/tunegen/internal/platform/artifact"
	"github.com/tunegen/tunegen/internal/platform/clock"
	"github.com/tunegen/tunegen/internal/platform/errors"
)

var t0 = time.Date(2026, 1, 20, 15, 42, 33, 0, time.UTC)

func newTestService(at time.Time, log *zap.Logger) *Service {
	clk := clock.Fixed{At: at}
	repo := repoapi.New(repoapi.Dependencies{
		Scanner: repoadapters.NewOSScanner(),
		Reader:  repoadapters.NewOSReader(),
	})
	writer := datasetadapters.NewJSONLWriter(artifact.Writer{Clock: clk})
	return NewService(repo, tokadapters.NewWhitespaceCounter(), writer, clk, log)
}

func write(t *testing.T, root, rel, content string) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
}

func readRecords(t *testing.T, p string) []map[string]any {
	t.Helper()
	f, err := os.Open(filepath.FromSlash(p))
	require.NoError(t, err)
	defer f.Close()

	var out []map[string]any
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		var m map[string]any
		require.NoError(t, json.Unmarshal(sc.Bytes(), &m))
		out = append(out, m)
	}
	require.NoError(t, sc.Err())
	return out
}

func recordPaths(recs []map[string]any) []string {
	var out []string
	for _, r := range recs {
		out = append(out, r["path"].(string))
	}
	return out
}

func baseRequest(root, out string) GenerateRequest {
	return GenerateRequest{
		ProjectPath:     root,
		ProjectName:     "demo",
		MaxFileBytes:    1_500_000,
		BinaryPolicy:    domain.BinarySkip,
		ValidationRatio: 0.4,
		Seed:            "tunegen",
		Format:          domain.FormatSource,
		OutputDir:       out,
	}
}

func TestGenerate_GitignoreExample(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	write(t, root, "a.txt", "hello world")
	write(t, root, "b.txt", "foo")
	write(t, root, ".gitignore", "b.txt\n")

	req := baseRequest(root, out)
	req.UseGitignore = true
	report, err := newTestService(t0, nil).Generate(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 2, report.Summary.TokenCount)
	assert.Equal(t, 1, report.FilesCollected)
	assert.Equal(t, 1, report.IgnoredEntries)

	recs := append(readRecords(t, report.Summary.TrainingFile), readRecords(t, report.Summary.ValidationFile)...)
	require.Len(t, recs, 1)
	assert.Equal(t, "a.txt", recs[0]["path"])
	assert.Equal(t, "hello world", recs[0]["content"])
	assert.EqualValues(t, 2, recs[0]["token_count"])
	assert.Equal(t, domain.RecordID("demo", "a.txt"), recs[0]["id"])
}

func TestGenerate_SummaryJSONKeys(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.txt", "x")

	report, err := newTestService(t0, nil).Generate(context.Background(), baseRequest(root, t.TempDir()))
	require.NoError(t, err)

	b, err := json.Marshal(report.Summary)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))
	assert.Len(t, m, 4)
	for _, k := range []string{"project_name", "token_count", "training_file", "validation_file"} {
		assert.Contains(t, m, k)
	}
	assert.Equal(t, "demo", m["project_name"])
}

func TestGenerate_FourFilesHalfSplit(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	write(t, root, "a.go", "package a")
	write(t, root, "b.go", "package b // two more")
	write(t, root, "c/c.go", "package c")
	write(t, root, "d.md", "# title here")

	req := baseRequest(root, out)
	req.ValidationRatio = 0.5
	report, err := newTestService(t0, nil).Generate(context.Background(), req)
	require.NoError(t, err)

	train := readRecords(t, report.Summary.TrainingFile)
	val := readRecords(t, report.Summary.ValidationFile)
	assert.Len(t, train, 2)
	assert.Len(t, val, 2)
	assert.ElementsMatch(t, []string{"a.go", "b.go", "c/c.go", "d.md"}, append(recordPaths(train), recordPaths(val)...))

	sum := 0
	for _, r := range append(train, val...) {
		sum += int(r["token_count"].(float64))
	}
	assert.Equal(t, 2+5+2+3, sum)
	assert.Equal(t, sum, report.Summary.TokenCount)
	assert.Equal(t, 2, report.TrainingRecords)
	assert.Equal(t, 2, report.ValidationRecords)
}

func TestGenerate_RatioExtremes(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.go", "a")
	write(t, root, "b.go", "b")
	write(t, root, "c.go", "c")

	req := baseRequest(root, t.TempDir())
	req.ValidationRatio = 0
	report, err := newTestService(t0, nil).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, recordPaths(readRecords(t, report.Summary.TrainingFile)))
	assert.Empty(t, readRecords(t, report.Summary.ValidationFile))

	req = baseRequest(root, t.TempDir())
	req.ValidationRatio = 1
	report, err = newTestService(t0, nil).Generate(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, readRecords(t, report.Summary.TrainingFile))
	assert.Equal(t, []string{"a.go", "b.go", "c.go"}, recordPaths(readRecords(t, report.Summary.ValidationFile)))
}

func TestGenerate_InvalidRatioBeforeAnyIO(t *testing.T) {
	out := t.TempDir()
	req := baseRequest(filepath.Join(t.TempDir(), "does-not-exist"), out)
	req.ValidationRatio = 1.5

	_, err := newTestService(t0, nil).Generate(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindInvalidRatio))

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_RequestValidation(t *testing.T) {
	root := t.TempDir()
	tests := []struct {
		name   string
		mutate func(*GenerateRequest)
		kind   errors.Kind
	}{
		{"empty project path", func(r *GenerateRequest) { r.ProjectPath = " " }, errors.KindUsage},
		{"bad project name", func(r *GenerateRequest) { r.ProjectName = "a/b" }, errors.KindUsage},
		{"unknown format", func(r *GenerateRequest) { r.Format = "parquet" }, errors.KindConfig},
		{"unknown binary policy", func(r *GenerateRequest) { r.BinaryPolicy = "warn" }, errors.KindConfig},
		{"missing root", func(r *GenerateRequest) { r.ProjectPath = filepath.Join(root, "nope") }, errors.KindPathNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest(root, t.TempDir())
			tt.mutate(&req)
			_, err := newTestService(t0, nil).Generate(context.Background(), req)
			require.Error(t, err)
			assert.Equal(t, tt.kind, errors.KindOf(err))
		})
	}
}

func TestGenerate_DeterministicMembership(t *testing.T) {
	root := t.TempDir()
	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		write(t, root, name+".txt", name)
	}
	out := t.TempDir()

	r1, err := newTestService(t0, nil).Generate(context.Background(), baseRequest(root, out))
	require.NoError(t, err)
	r2, err := newTestService(t0.Add(time.Second), nil).Generate(context.Background(), baseRequest(root, out))
	require.NoError(t, err)

	assert.NotEqual(t, r1.Summary.ValidationFile, r2.Summary.ValidationFile)
	assert.Equal(t, recordPaths(readRecords(t, r1.Summary.ValidationFile)), recordPaths(readRecords(t, r2.Summary.ValidationFile)))
	assert.Equal(t, recordPaths(readRecords(t, r1.Summary.TrainingFile)), recordPaths(readRecords(t, r2.Summary.TrainingFile)))
}

func TestGenerate_SkipsOwnPreviousOutput(t *testing.T) {
	root := t.TempDir()
	write(t, root, "main.go", "package main")
	write(t, root, "other_training_20200101_000000.jsonl", "{}")

	r1, err := newTestService(t0, nil).Generate(context.Background(), baseRequest(root, root))
	require.NoError(t, err)
	r2, err := newTestService(t0.Add(time.Minute), nil).Generate(context.Background(), baseRequest(root, root))
	require.NoError(t, err)

	// other project's dataset is ordinary content; demo's own files are not.
	assert.Equal(t, 2, r1.FilesCollected)
	assert.Equal(t, 2, r2.FilesCollected)
	assert.Equal(t, r1.Summary.TokenCount, r2.Summary.TokenCount)
}

func TestGenerate_SkipsOwnOutputInSubdirectory(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "datasets")
	write(t, root, "main.go", "package main")

	_, err := newTestService(t0, nil).Generate(context.Background(), baseRequest(root, out))
	require.NoError(t, err)
	r2, err := newTestService(t0.Add(time.Minute), nil).Generate(context.Background(), baseRequest(root, out))
	require.NoError(t, err)
	assert.Equal(t, 1, r2.FilesCollected)
}

func TestGenerate_SkipsBinaryWithOneWarning(t *testing.T) {
	root := t.TempDir()
	write(t, root, "main.go", "package main")
	write(t, root, "logo.png", "png bytes")
	write(t, root, "blob.dat", "a\x00b")
	write(t, root, "latin1.txt", "caf\xe9")

	core, logs := observer.New(zapcore.DebugLevel)
	report, err := newTestService(t0, zap.New(core)).Generate(context.Background(), baseRequest(root, t.TempDir()))
	require.NoError(t, err)

	assert.Equal(t, 1, report.FilesCollected)
	reasons := map[string]string{}
	for _, sk := range report.Skipped {
		reasons[sk.Path] = sk.Reason
	}
	assert.Equal(t, map[string]string{
		"blob.dat":   project.SkipBinary,
		"latin1.txt": project.SkipNotUTF8,
		"logo.png":   project.SkipBinary,
	}, reasons)

	warnings := logs.FilterLevelExact(zapcore.WarnLevel).All()
	require.Len(t, warnings, 1)
	assert.EqualValues(t, 3, warnings[0].ContextMap()["count"])
	assert.Equal(t, 3, logs.FilterMessage("skipping file").Len())
	for _, e := range logs.All() {
		assert.NotEmpty(t, e.ContextMap()["run_id"], e.Message)
	}
}

func TestGenerate_BinaryPolicyFail(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	write(t, root, "main.go", "package main")
	write(t, root, "blob.dat", "a\x00b")

	req := baseRequest(root, out)
	req.BinaryPolicy = domain.BinaryFail
	_, err := newTestService(t0, nil).Generate(context.Background(), req)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindRead))
	assert.Contains(t, err.Error(), "blob.dat")

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_ChatFormat(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.go", "package a")
	write(t, root, "b.go", "package b")

	req := baseRequest(root, t.TempDir())
	req.Format = domain.FormatChat
	req.ValidationRatio = 0.5
	report, err := newTestService(t0, nil).Generate(context.Background(), req)
	require.NoError(t, err)

	train := readRecords(t, report.Summary.TrainingFile)
	val := readRecords(t, report.Summary.ValidationFile)
	require.Len(t, train, 2)
	require.Len(t, val, 1)
	assert.Equal(t, 2, report.TrainingRecords)

	last := train[len(train)-1]["messages"].([]any)
	answer := last[1].(map[string]any)["content"].(string)
	var structure dataset.ProjectStructureV1
	require.NoError(t, json.Unmarshal([]byte(answer), &structure))
	assert.Equal(t, []string{"a.go", "b.go"}, structure.ProjectStructure)

	first := val[0]["messages"].([]any)
	assert.Equal(t, "assistant", first[1].(map[string]any)["role"])
	assert.Equal(t, 2*2, report.Summary.TokenCount)
}

func TestGenerate_Cancelled(t *testing.T) {
	root := t.TempDir()
	out := t.TempDir()
	write(t, root, "a.go", "package a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := newTestService(t0, nil).Generate(ctx, baseRequest(root, out))
	require.ErrorIs(t, err, context.Canceled)

	entries, err := os.ReadDir(out)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestGenerate_WriteFailureLeavesNothing(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.go", "package a")
	parent := t.TempDir()
	blocker := filepath.Join(parent, "out")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	report, err := newTestService(t0, nil).Generate(context.Background(), baseRequest(root, blocker))
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindWrite))
	assert.Equal(t, 1, report.FilesCollected)
	assert.Equal(t, t0, report.FinishedAt)

	entries, err := os.ReadDir(parent)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
