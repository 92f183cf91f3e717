package adapters

import (
	"path/filepath"

	"github.com/tunegen/tunegen/internal/contracts/v1/dataset"
	"github.com/tunegen/tunegen/internal/domains/dataset/domain"
	"github.com/tunegen/tunegen/internal/domains/dataset/ports"
	"github.com/tunegen/tunegen/internal/platform/artifact"
)

// JSONLWriter writes datasets as timestamped JSONL files through artifact.Writer.
type JSONLWriter struct {
	files artifact.Writer
}

func NewJSONLWriter(files artifact.Writer) JSONLWriter {
	return JSONLWriter{files: files}
}

func (w JSONLWriter) WriteDatasets(req ports.WriteDatasetsRequest) (dataset.RunSummaryV1, error) {
	if err := domain.ValidateProjectName(req.ProjectName); err != nil {
		return dataset.RunSummaryV1{}, err
	}
	stamp, err := w.files.Stamp()
	if err != nil {
		return dataset.RunSummaryV1{}, err
	}

	dir := req.OutputDir
	if dir == "" {
		dir = "."
	}
	trainingName := domain.DatasetFileName(req.ProjectName, domain.PartitionTraining, stamp)
	validationName := domain.DatasetFileName(req.ProjectName, domain.PartitionValidation, stamp)

	written, err := w.files.WriteJSONLSet(artifact.WriteRequest{
		Dir: dir,
		Files: []artifact.JSONLFile{
			{Name: trainingName, Records: req.Training},
			{Name: validationName, Records: req.Validation},
		},
	})
	if err != nil {
		return dataset.RunSummaryV1{}, err
	}

	return dataset.RunSummaryV1{
		ProjectName:    req.ProjectName,
		TokenCount:     req.TokenCount,
		TrainingFile:   filepath.ToSlash(written[0]),
		ValidationFile: filepath.ToSlash(written[1]),
	}, nil
}
