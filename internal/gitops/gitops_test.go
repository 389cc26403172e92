package gitops

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func TestInit(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	require.NoError(t, Init(context.Background(), dir))

	_, err := os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git directory should exist")
}

func TestIsRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	assert.False(t, IsRepo(dir), "empty dir should not be a repo")

	require.NoError(t, Init(context.Background(), dir))
	assert.True(t, IsRepo(dir), "initialized dir should be a repo")
}

func TestCommitAll(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	dirty, err := Dirty(ctx, dir)
	require.NoError(t, err)
	assert.False(t, dirty)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "goals.csv"), []byte("goal_id\n"), 0o644))
	dirty, err = Dirty(ctx, dir)
	require.NoError(t, err)
	assert.True(t, dirty)

	hash, err := CommitAll(ctx, dir, "import: 1 statement", Author{Name: "Test Author", Email: "test@example.com"})
	require.NoError(t, err)
	assert.NotEmpty(t, hash)

	dirty, err = Dirty(ctx, dir)
	require.NoError(t, err)
	assert.False(t, dirty)

	log := exec.Command("git", "log", "--format=%s|%an <%ae>|%cn <%ce>", "-1")
	log.Dir = dir
	out, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(out), "import: 1 statement|Test Author <test@example.com>|Test Author <test@example.com>")
}

func TestCommitAllNothingToCommit(t *testing.T) {
	requireGit(t)
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, Init(ctx, dir))

	_, err := CommitAll(ctx, dir, "empty", Author{Name: "A", Email: "a@example.com"})
	require.Error(t, err)
	assert.True(t, strings.HasPrefix(err.Error(), "git commit: "), err.Error())
}

func TestAuthorEnv(t *testing.T) {
	a := Author{Name: "fire", Email: "fire@cleared.dev"}
	assert.Equal(t, "fire <fire@cleared.dev>", a.String())
	assert.Equal(t, []string{
		"GIT_AUTHOR_NAME=fire",
		"GIT_AUTHOR_EMAIL=fire@cleared.dev",
		"GIT_COMMITTER_NAME=fire",
		"GIT_COMMITTER_EMAIL=fire@cleared.dev",
	}, a.env())
}
