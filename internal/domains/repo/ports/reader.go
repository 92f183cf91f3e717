package ports

type Reader interface {
	// ReadFile reads a file by absolute path, failing if it is larger than maxBytes (when > 0).
	ReadFile(absPath string, maxBytes int64) ([]byte, error)
}
