package fsutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkAbsReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	srcA := filepath.Join(dir, "a")
	srcB := filepath.Join(dir, "b")
	dest := filepath.Join(dir, "link")

	require.NoError(t, os.WriteFile(srcA, []byte("a"), 0644))
	require.NoError(t, os.WriteFile(srcB, []byte("b"), 0644))

	tr := Transaction{}
	tr.LinkAbs(srcA, dest)
	tr.LinkAbs(srcB, dest)
	require.NoError(t, tr.Err)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "b", string(content))
}

func TestLinkRelTarget(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "fix", "data.nc")
	dest := filepath.Join(dir, "run", "data.nc")

	require.NoError(t, os.MkdirAll(filepath.Dir(src), 0755))
	require.NoError(t, os.MkdirAll(filepath.Dir(dest), 0755))
	require.NoError(t, os.WriteFile(src, []byte("x"), 0644))

	tr := Transaction{}
	tr.LinkRel(src, dest)
	require.NoError(t, tr.Err)

	target, err := os.Readlink(dest)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("..", "fix", "data.nc"), target)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "x", string(content))
}

func TestCopyReplacesExisting(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src")
	dest := filepath.Join(dir, "dest")

	require.NoError(t, os.WriteFile(src, []byte("new"), 0644))
	require.NoError(t, os.WriteFile(dest, []byte("old old old"), 0644))

	tr := Transaction{}
	tr.Copy(src, dest)
	require.NoError(t, tr.Err)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "new", string(content))
}

func TestErrSticks(t *testing.T) {
	dir := t.TempDir()

	tr := Transaction{}
	tr.Copy(filepath.Join(dir, "missing"), filepath.Join(dir, "dest"))
	require.Error(t, tr.Err)
	firstErr := tr.Err

	// further operations are no-ops and keep the first error
	tr.MkDir(filepath.Join(dir, "sub"))
	tr.LinkAbs(filepath.Join(dir, "x"), filepath.Join(dir, "y"))
	assert.Equal(t, firstErr, tr.Err)

	_, err := os.Stat(filepath.Join(dir, "sub"))
	assert.True(t, os.IsNotExist(err))
}

func TestExistsDistinguishesBrokenLink(t *testing.T) {
	dir := t.TempDir()
	dest := filepath.Join(dir, "dangling")

	require.NoError(t, os.Symlink(filepath.Join(dir, "gone"), dest))

	// a dangling link still counts as occupying its path, so
	// re-staging replaces it instead of failing
	tr := Transaction{}
	assert.True(t, tr.Exists(dest))
	require.NoError(t, tr.Err)

	src := filepath.Join(dir, "real")
	require.NoError(t, os.WriteFile(src, []byte("y"), 0644))
	tr.LinkAbs(src, dest)
	require.NoError(t, tr.Err)

	content, err := os.ReadFile(dest)
	require.NoError(t, err)
	assert.Equal(t, "y", string(content))
}
