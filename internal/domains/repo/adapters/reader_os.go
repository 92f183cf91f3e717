package adapters

import (
	"fmt"
	"io"
	"os"

	"github.com/tunegen/tunegen/internal/domains/repo/domain"
	"github.com/tunegen/tunegen/internal/platform/errors"
)

type OSReader struct{}

func NewOSReader() OSReader {
	return OSReader{}
}

// ReadFile loads a regular file whole. With maxBytes > 0, files over the cap
// fail with domain.ErrTooLarge, both when the size is known up front and when
// the file grew after the scan.
func (r OSReader) ReadFile(absPath string, maxBytes int64) ([]byte, error) {
	f, err := os.Open(absPath)
	if err != nil {
		return nil, errors.NewRead(absPath, err)
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, errors.NewRead(absPath, err)
	}
	if !fi.Mode().IsRegular() {
		return nil, errors.NewRead(absPath, fmt.Errorf("not a regular file (%s)", fi.Mode().Type()))
	}
	if maxBytes > 0 && fi.Size() > maxBytes {
		return nil, errors.NewRead(absPath, tooLarge(fi.Size(), maxBytes))
	}

	var src io.Reader = f
	if maxBytes > 0 {
		src = io.LimitReader(f, maxBytes+1)
	}
	b, err := io.ReadAll(src)
	if err != nil {
		return nil, errors.NewRead(absPath, err)
	}
	if maxBytes > 0 && int64(len(b)) > maxBytes {
		return nil, errors.NewRead(absPath, tooLarge(int64(len(b)), maxBytes))
	}
	return b, nil
}

func tooLarge(size int64, maxBytes int64) error {
	return fmt.Errorf("%w: %d bytes > %d", domain.ErrTooLarge, size, maxBytes)
}
