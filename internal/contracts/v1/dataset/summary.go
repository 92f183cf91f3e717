package dataset

import "time"

// RunSummaryV1 is printed once per successful run. The JSON keys are a stable interface.
type RunSummaryV1 struct {
	ProjectName    string `json:"project_name"`
	TokenCount     int    `json:"token_count"`
	TrainingFile   string `json:"training_file"`
	ValidationFile string `json:"validation_file"`
}

// SkippedV1 is a file that was collected but left out of the datasets.
type SkippedV1 struct {
	Path   string `json:"path"`
	Reason string `json:"reason"`
	Detail string `json:"detail,omitempty"`
}

// RunReportV1 is the summary plus run statistics. It is never written into a dataset.
type RunReportV1 struct {
	Summary RunSummaryV1 `json:"summary"`

	RunID             string      `json:"runId"`
	Tokenizer         string      `json:"tokenizer"`
	Format            string      `json:"format"`
	FilesCollected    int         `json:"filesCollected"`
	IgnoredEntries    int         `json:"ignoredEntries"`
	TrainingRecords   int         `json:"trainingRecords"`
	ValidationRecords int         `json:"validationRecords"`
	Skipped           []SkippedV1 `json:"skipped,omitempty"`
	StartedAt         time.Time   `json:"startedAt"`
	FinishedAt        time.Time   `json:"finishedAt"`
}
