package project

// ScanResultV1 is the Path Collector output. Files are sorted by RelPath.
type ScanResultV1 struct {
	Files   []FileRefV1     `json:"files"`
	Skipped []SkippedFileV1 `json:"skipped,omitempty"`
	// IgnoredEntries counts files and pruned directories excluded by ignore rules.
	IgnoredEntries int `json:"ignoredEntries"`
}
