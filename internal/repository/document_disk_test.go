package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/futig/genie-client/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDocumentDisk(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	repo, err := NewDocumentDisk(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, "b.pdf", strings.NewReader("pdf")))
	require.NoError(t, repo.Save(ctx, "a.csv", strings.NewReader("a,b")))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested.pdf"), 0o755))

	docs, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a.csv", "b.pdf"}, docs)

	content, err := os.ReadFile(filepath.Join(dir, "a.csv"))
	require.NoError(t, err)
	assert.Equal(t, "a,b", string(content))

	require.NoError(t, repo.Delete(ctx, "a.csv"))
	assert.ErrorIs(t, repo.Delete(ctx, "a.csv"), entity.ErrDocumentNotFound)

	docs, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b.pdf"}, docs)
}

func TestDocumentDiskSaveOverwrites(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	repo, err := NewDocumentDisk(dir)
	require.NoError(t, err)

	require.NoError(t, repo.Save(ctx, "r.csv", strings.NewReader("v1")))
	require.NoError(t, repo.Save(ctx, "r.csv", strings.NewReader("v2")))

	content, err := os.ReadFile(filepath.Join(dir, "r.csv"))
	require.NoError(t, err)
	assert.Equal(t, "v2", string(content))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
