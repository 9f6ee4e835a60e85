package git

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// initTestRepo creates a git repo in dir with a user config so commits work on CI.
func initTestRepo(t *testing.T, dir string) {
	t.Helper()
	cmds := [][]string{
		{"git", "-C", dir, "init", "-b", "main"},
		{"git", "-C", dir, "config", "user.email", "test@test.com"},
		{"git", "-C", dir, "config", "user.name", "Test"},
		{"git", "-C", dir, "commit", "--allow-empty", "-m", "init"},
	}
	for _, args := range cmds {
		require.NoError(t, exec.Command(args[0], args[1:]...).Run())
	}
}

func TestCurrentBranch(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)

	c := NewClient()
	branch, err := c.CurrentBranch(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "main", branch)
}

func TestCurrentBranch_FeatureBranch(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	require.NoError(t, exec.Command("git", "-C", dir, "checkout", "-b", "feature-login").Run())

	c := NewClient()
	branch, err := c.CurrentBranch(context.Background(), dir)
	require.NoError(t, err)
	assert.Equal(t, "feature-login", branch)
}

func TestCurrentBranch_NotARepo(t *testing.T) {
	dir := t.TempDir()

	c := NewClient()
	_, err := c.CurrentBranch(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNoBranch)
}

func TestCurrentBranch_DetachedHEAD(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	head, err := exec.Command("git", "-C", dir, "rev-parse", "HEAD").Output()
	require.NoError(t, err)
	require.NoError(t, exec.Command("git", "-C", dir, "checkout", "--detach", string(head[:7])).Run())

	c := NewClient()
	_, err = c.CurrentBranch(context.Background(), dir)
	assert.ErrorIs(t, err, ErrNoBranch)
}

func TestCurrentBranch_CancelledContext(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	time.Sleep(time.Millisecond)

	c := NewClient()
	_, err := c.CurrentBranch(ctx, dir)
	assert.ErrorIs(t, err, ErrNoBranch)
}

func TestCurrentBranch_MissingDir(t *testing.T) {
	c := NewClient()
	_, err := c.CurrentBranch(context.Background(), filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, ErrNoBranch)
}

func TestRepoRoot(t *testing.T) {
	dir := t.TempDir()
	initTestRepo(t, dir)
	sub := filepath.Join(dir, "sub")
	require.NoError(t, os.Mkdir(sub, 0755))

	c := NewClient()
	root, err := c.RepoRoot(context.Background(), sub)
	require.NoError(t, err)

	// TempDir may be behind a symlink (macOS /var -> /private/var).
	resolved, err := filepath.EvalSymlinks(dir)
	require.NoError(t, err)
	assert.Equal(t, resolved, root)
}
