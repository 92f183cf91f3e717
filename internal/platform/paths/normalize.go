package paths

import (
	"path/filepath"
	"strings"

	"github.com/tunegen/tunegen/internal/platform/errors"
)

// ToPosixRel returns a clean, POSIX-style relative path from base to target.
// Dataset records and ignore matching both work on this form.
func ToPosixRel(baseDir string, targetPath string) (string, error) {
	if strings.TrimSpace(baseDir) == "" {
		return "", errors.NewInternal("baseDir is empty", nil)
	}
	if strings.TrimSpace(targetPath) == "" {
		return "", errors.NewInternal("targetPath is empty", nil)
	}

	rel, err := filepath.Rel(baseDir, targetPath)
	if err != nil {
		return "", errors.NewInternal("failed to compute relative path", err)
	}

	rel = filepath.Clean(rel)
	rel = filepath.ToSlash(rel)
	rel = strings.TrimPrefix(rel, "./")

	return rel, nil
}

// ResolveRoot makes root absolute against base (the invocation directory) when it is relative.
func ResolveRoot(base string, root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		return base
	}
	if filepath.IsAbs(root) {
		return filepath.Clean(root)
	}
	return filepath.Clean(filepath.Join(base, root))
}
