package project

// FileRefV1 is a stable reference to a collected file using a normalized POSIX relative path.
type FileRefV1 struct {
	RelPath   string `json:"relPath"`   // POSIX style (e.g., "src/main.go")
	SizeBytes int64  `json:"sizeBytes"` // size at scan time
}

// Skip reasons reported for files that were seen but not used.
const (
	SkipUnreadable = "unreadable"
	SkipNotRegular = "not_regular"
	SkipTooLarge   = "too_large"
	SkipBinary     = "binary"
	SkipNotUTF8    = "non_utf8"
)

// SkippedFileV1 records a recoverable per-file problem.
type SkippedFileV1 struct {
	RelPath string `json:"relPath"`
	Reason  string `json:"reason"`
	Detail  string `json:"detail,omitempty"`
}
