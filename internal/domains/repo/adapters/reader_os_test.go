package adapters

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunegen/tunegen/internal/domains/repo/domain"
	"github.com/tunegen/tunegen/internal/platform/errors"
)

func TestOSReader_ReadFile(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.txt", "hello")

	b, err := NewOSReader().ReadFile(filepath.Join(root, "a.txt"), 0)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))

	b, err = NewOSReader().ReadFile(filepath.Join(root, "a.txt"), 5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(b))
}

func TestOSReader_Errors(t *testing.T) {
	root := t.TempDir()
	write(t, root, "a.txt", "hello!")

	_, err := NewOSReader().ReadFile(filepath.Join(root, "a.txt"), 5)
	assert.True(t, errors.IsKind(err, errors.KindRead))
	assert.ErrorIs(t, err, domain.ErrTooLarge)

	_, err = NewOSReader().ReadFile(filepath.Join(root, "nope.txt"), 0)
	assert.True(t, errors.IsKind(err, errors.KindRead))
}

func TestOSReader_RejectsDirectory(t *testing.T) {
	root := t.TempDir()
	_, err := NewOSReader().ReadFile(root, 0)
	require.Error(t, err)
	assert.True(t, errors.IsKind(err, errors.KindRead))
	assert.Contains(t, err.Error(), "not a regular file")
}
