package ports

import "github.com/tunegen/tunegen/internal/contracts/v1/dataset"

// WriteDatasetsRequest carries both partitions, already rendered as records.
type WriteDatasetsRequest struct {
	OutputDir   string // "" means the working directory
	ProjectName string
	TokenCount  int
	Training    []any
	Validation  []any
}

// DatasetWriter persists both datasets together: either both files exist
// afterwards or neither does.
type DatasetWriter interface {
	WriteDatasets(req WriteDatasetsRequest) (dataset.RunSummaryV1, error)
}
