package paths

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToPosixRel(t *testing.T) {
	base := filepath.Join("tmp", "proj")
	rel, err := ToPosixRel(base, filepath.Join(base, "src", "app", "main.go"))
	require.NoError(t, err)
	assert.Equal(t, "src/app/main.go", rel)

	_, err = ToPosixRel("", "x")
	assert.Error(t, err)
}

func TestResolveRoot(t *testing.T) {
	base := filepath.FromSlash("/work")
	assert.Equal(t, base, ResolveRoot(base, ""))
	assert.Equal(t, filepath.Join(base, "proj"), ResolveRoot(base, "proj"))
	abs := filepath.FromSlash("/elsewhere/proj")
	assert.Equal(t, abs, ResolveRoot(base, abs))
}
