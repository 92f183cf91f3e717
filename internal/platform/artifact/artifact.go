package artifact

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/tunegen/tunegen/internal/platform/clock"
	"github.com/tunegen/tunegen/internal/platform/errors"
)

// JSONLFile is one newline-delimited JSON output: Name is relative to the request Dir.
type JSONLFile struct {
	Name    string
	Records []any
}

type WriteRequest struct {
	Dir   string
	Files []JSONLFile
}

type Writer struct {
	Clock clock.Clock
}

// Stamp returns the current UTC time in filename form, e.g. 20260120_154233.
func (w Writer) Stamp() (string, error) {
	if w.Clock == nil {
		return "", errors.NewInternal("artifact writer clock is nil", nil)
	}
	return FormatUTCForFilename(w.Clock.NowUTC()), nil
}

// WriteJSONLSet writes every file of the request or none of them.
//
// Each file is encoded into a temp file inside Dir and linked into place once
// all encodes succeeded. Existing files are never replaced: a name collision
// fails the whole set with KindWrite. On failure, temp files and files already
// published by this call are removed.
func (w Writer) WriteJSONLSet(req WriteRequest) ([]string, error) {
	if strings.TrimSpace(req.Dir) == "" {
		return nil, errors.NewInternal("output dir is empty", nil)
	}
	for _, f := range req.Files {
		if strings.TrimSpace(f.Name) == "" || strings.ContainsAny(f.Name, `/\`) {
			return nil, errors.NewInternal("invalid output file name: "+f.Name, nil)
		}
	}

	if err := os.MkdirAll(req.Dir, 0o755); err != nil {
		return nil, errors.NewWrite(req.Dir, err)
	}

	temps := make([]string, 0, len(req.Files))
	removeAll := func(paths []string) {
		for _, p := range paths {
			_ = os.Remove(p)
		}
	}

	for _, f := range req.Files {
		tmp, err := writeTemp(req.Dir, f)
		if err != nil {
			removeAll(temps)
			return nil, err
		}
		temps = append(temps, tmp)
	}

	finals := make([]string, 0, len(req.Files))
	for i, f := range req.Files {
		final := filepath.Join(req.Dir, f.Name)
		// Link fails with EEXIST instead of clobbering final.
		if err := os.Link(temps[i], final); err != nil {
			removeAll(finals)
			removeAll(temps[i:])
			return nil, errors.NewWrite(final, err)
		}
		finals = append(finals, final)
		_ = os.Remove(temps[i])
	}
	return finals, nil
}

func writeTemp(dir string, f JSONLFile) (string, error) {
	target := filepath.Join(dir, f.Name)
	tmp, err := os.CreateTemp(dir, "."+f.Name+".tmp-*")
	if err != nil {
		return "", errors.NewWrite(target, err)
	}

	bw := bufio.NewWriter(tmp)
	enc := json.NewEncoder(bw)
	enc.SetEscapeHTML(false)

	for _, rec := range f.Records {
		// Encode appends the '\n' line terminator.
		if err := enc.Encode(rec); err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
			return "", errors.NewWrite(target, err)
		}
	}
	if err := bw.Flush(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", errors.NewWrite(target, err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return "", errors.NewWrite(target, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return "", errors.NewWrite(target, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		_ = os.Remove(tmp.Name())
		return "", errors.NewWrite(target, err)
	}
	return tmp.Name(), nil
}

// FormatUTCForFilename renders t as YYYYMMDD_HHMMSS in UTC; the form sorts lexicographically.
func FormatUTCForFilename(t time.Time) string {
	return t.UTC().Format("20060102_150405")
}
