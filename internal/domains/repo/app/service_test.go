package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunegen/tunegen/internal/contracts/v1/project"
	"github.com/tunegen/tunegen/internal/domains/repo/adapters"
	"github.com/tunegen/tunegen/internal/platform/errors"
)

func newService() *Service {
	return NewService(adapters.NewOSScanner(), adapters.NewOSReader())
}

func writeBytes(t *testing.T, root, rel string, b []byte) {
	t.Helper()
	p := filepath.Join(root, filepath.FromSlash(rel))
	require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
	require.NoError(t, os.WriteFile(p, b, 0o644))
}

func TestReadTextRel(t *testing.T) {
	root := t.TempDir()
	writeBytes(t, root, "src/a.go", []byte("package a\n"))
	writeBytes(t, root, "img/logo.png", []byte("not really a png"))
	writeBytes(t, root, "blob.dat", []byte{'a', 0, 'b'})
	writeBytes(t, root, "latin1.txt", []byte{'c', 'a', 'f', 0xe9})

	text, err := newService().ReadTextRel(root, "src/a.go", 0)
	require.NoError(t, err)
	assert.Equal(t, "package a\n", text)

	cases := map[string]string{
		"img/logo.png": project.SkipBinary,
		"blob.dat":     project.SkipBinary,
		"latin1.txt":   project.SkipNotUTF8,
		"missing.txt":  project.SkipUnreadable,
	}
	for rel, reason := range cases {
		_, err := newService().ReadTextRel(root, rel, 0)
		require.Error(t, err, rel)
		assert.True(t, errors.IsKind(err, errors.KindRead), rel)
		assert.Equal(t, reason, SkipReason(err), rel)
	}
}

func TestReadTextRel_TooLarge(t *testing.T) {
	root := t.TempDir()
	writeBytes(t, root, "a.txt", []byte("0123456789"))

	_, err := newService().ReadTextRel(root, "a.txt", 4)
	assert.Equal(t, project.SkipTooLarge, SkipReason(err))
}

func TestSkipReason_Nil(t *testing.T) {
	assert.Equal(t, "", SkipReason(nil))
}

func TestScan_PassesOptions(t *testing.T) {
	root := t.TempDir()
	writeBytes(t, root, ".gitignore", []byte("*.tmp\n"))
	writeBytes(t, root, "a.tmp", []byte("x"))
	writeBytes(t, root, "b.txt", []byte("x"))

	res, err := newService().Scan(root, ScanOptions{UseGitignore: true})
	require.NoError(t, err)
	require.Len(t, res.Files, 1)
	assert.Equal(t, "b.txt", res.Files[0].RelPath)
	assert.Equal(t, 1, res.IgnoredEntries)
}
