package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/ccname/internal/output"
	"github.com/joescharf/ccname/internal/store"
)

// seedTranscript writes a minimal titled transcript under the configured
// projects dir.
func seedTranscript(t *testing.T, cwd, title string) {
	t.Helper()
	dir := filepath.Join(viper.GetString("projects_dir"), store.EncodeProjectPath(cwd))
	require.NoError(t, os.MkdirAll(dir, 0755))
	id := uuid.NewString()
	line := `{"type":"custom-title","customTitle":"` + title + `","sessionId":"` + id + `"}` + "\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, id+".jsonl"), []byte(line), 0644))
}

func captureUI() (*bytes.Buffer, *bytes.Buffer) {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	ui = &output.UI{Out: out, ErrOut: errOut}
	return out, errOut
}

func TestSessionsRun_Empty(t *testing.T) {
	testEnv(t)
	out, _ := captureUI()
	require.NoError(t, os.MkdirAll(viper.GetString("projects_dir"), 0755))

	err := sessionsRun(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "No sessions found")
}

func TestSessionsRun_ListsNames(t *testing.T) {
	testEnv(t)
	out, _ := captureUI()
	seedTranscript(t, "/work/alpha", "feature-login")
	seedTranscript(t, "/work/beta", "feature-login (2)")

	err := sessionsRun(context.Background(), "")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "feature-login")
	assert.Contains(t, out.String(), "feature-login (2)")
}

func TestSessionsRun_Filter(t *testing.T) {
	testEnv(t)
	out, _ := captureUI()
	seedTranscript(t, "/work/alpha", "alpha-name")
	seedTranscript(t, "/work/beta", "beta-name")

	err := sessionsRun(context.Background(), "alpha")
	require.NoError(t, err)
	assert.Contains(t, out.String(), "alpha-name")
	assert.NotContains(t, out.String(), "beta-name")
}

func TestSessionsRun_MissingProjectsDir(t *testing.T) {
	testEnv(t)
	captureUI()

	err := sessionsRun(context.Background(), "")
	assert.ErrorIs(t, err, store.ErrStoreUnavailable)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcd…", truncate("abcdefghij", 5))
}
