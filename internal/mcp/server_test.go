package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
	"time"

	mcpgo "github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joescharf/ccname/internal/models"
)

// ---------------------------------------------------------------------------
// Mock implementations
// ---------------------------------------------------------------------------

// mockStore implements store.Store for testing.
type mockStore struct {
	sessions []*models.Session

	listErr   error
	renameErr error

	renames []string // "<cwd>|<id>|<name>"
}

func (m *mockStore) ListSessions(_ context.Context, _ string) ([]*models.Session, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.sessions, nil
}

func (m *mockStore) ListAllSessions(_ context.Context, filter string) ([]*models.Session, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	if filter == "" {
		return m.sessions, nil
	}
	var filtered []*models.Session
	for _, s := range m.sessions {
		if strings.Contains(s.ProjectDir, filter) {
			filtered = append(filtered, s)
		}
	}
	return filtered, nil
}

func (m *mockStore) RenameSession(_ context.Context, cwd, id, name string) error {
	if m.renameErr != nil {
		return m.renameErr
	}
	m.renames = append(m.renames, fmt.Sprintf("%s|%s|%s", cwd, id, name))
	return nil
}

// mockGit implements git.Client for testing.
type mockGit struct {
	branch string
	err    error
}

func (m *mockGit) CurrentBranch(_ context.Context, _ string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.branch, nil
}

func (m *mockGit) RepoRoot(_ context.Context, path string) (string, error) {
	return path, nil
}

func newTestServer(t *testing.T) (*Server, *mockStore, *mockGit) {
	t.Helper()
	ms := &mockStore{}
	gc := &mockGit{branch: "feature-login"}
	srv := NewServer(ms, gc, time.Second)
	require.NotNil(t, srv)
	return srv, ms, gc
}

// callToolReq builds a mcpgo.CallToolRequest with the given name and arguments.
func callToolReq(name string, args map[string]any) mcpgo.CallToolRequest {
	return mcpgo.CallToolRequest{
		Params: mcpgo.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

// resultText extracts the concatenated text from a CallToolResult.
func resultText(t *testing.T, result *mcpgo.CallToolResult) string {
	t.Helper()
	var b strings.Builder
	for _, c := range result.Content {
		tc, ok := c.(mcpgo.TextContent)
		if ok {
			b.WriteString(tc.Text)
		}
	}
	return b.String()
}

func seedSession(ms *mockStore, id, project, title string) {
	ms.sessions = append(ms.sessions, &models.Session{
		ID:          id,
		ProjectDir:  project,
		CustomTitle: title,
		Modified:    time.Now(),
	})
}

// ---------------------------------------------------------------------------
// Tests
// ---------------------------------------------------------------------------

func TestHandleListSessions_Empty(t *testing.T) {
	srv, _, _ := newTestServer(t)

	result, err := srv.handleListSessions(context.Background(), callToolReq("ccname_list_sessions", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `[]`, resultText(t, result))
}

func TestHandleListSessions_WithSessions(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	seedSession(ms, "s-1", "-work-alpha", "feature-login")
	seedSession(ms, "s-2", "-work-beta", "feature-login (2)")

	result, err := srv.handleListSessions(context.Background(), callToolReq("ccname_list_sessions", nil))
	require.NoError(t, err)
	assert.False(t, result.IsError)

	var out []map[string]string
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &out))
	require.Len(t, out, 2)
	assert.Equal(t, "feature-login", out[0]["name"])
}

func TestHandleListSessions_Filter(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	seedSession(ms, "s-1", "-work-alpha", "a")
	seedSession(ms, "s-2", "-work-beta", "b")

	result, err := srv.handleListSessions(context.Background(),
		callToolReq("ccname_list_sessions", map[string]any{"project": "alpha"}))
	require.NoError(t, err)

	text := resultText(t, result)
	assert.Contains(t, text, "s-1")
	assert.NotContains(t, text, "s-2")
}

func TestHandleListSessions_SkipsUnnamed(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	seedSession(ms, "s-1", "-work-alpha", "")

	result, err := srv.handleListSessions(context.Background(), callToolReq("ccname_list_sessions", nil))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, resultText(t, result))
}

func TestHandleListSessions_StoreError(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	ms.listErr = fmt.Errorf("projects dir unreadable")

	result, err := srv.handleListSessions(context.Background(), callToolReq("ccname_list_sessions", nil))
	require.NoError(t, err, "handler should not return Go error; should wrap in result")
	assert.True(t, result.IsError)
}

func TestHandleNextName_FirstSession(t *testing.T) {
	srv, _, _ := newTestServer(t)

	result, err := srv.handleNextName(context.Background(),
		callToolReq("ccname_next_name", map[string]any{"cwd": "/work/alpha"}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	assert.JSONEq(t, `{"branch":"feature-login","name":"feature-login"}`, resultText(t, result))
}

func TestHandleNextName_SuffixAllocated(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	seedSession(ms, "s-1", "-work-alpha", "feature-login")
	seedSession(ms, "s-2", "-work-alpha", "feature-login (2)")

	result, err := srv.handleNextName(context.Background(),
		callToolReq("ccname_next_name", map[string]any{"cwd": "/work/alpha"}))
	require.NoError(t, err)
	assert.JSONEq(t, `{"branch":"feature-login","name":"feature-login (3)"}`, resultText(t, result))
}

func TestHandleNextName_MissingCWD(t *testing.T) {
	srv, _, _ := newTestServer(t)

	result, err := srv.handleNextName(context.Background(), callToolReq("ccname_next_name", nil))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleNextName_NoBranch(t *testing.T) {
	srv, _, gc := newTestServer(t)
	gc.err = fmt.Errorf("not a repo")

	result, err := srv.handleNextName(context.Background(),
		callToolReq("ccname_next_name", map[string]any{"cwd": "/tmp"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestHandleRenameSession(t *testing.T) {
	srv, ms, _ := newTestServer(t)

	result, err := srv.handleRenameSession(context.Background(),
		callToolReq("ccname_rename_session", map[string]any{
			"cwd":        "/work/alpha",
			"session_id": "s-1",
			"name":       "feature-login (2)",
		}))
	require.NoError(t, err)
	assert.False(t, result.IsError)
	require.Len(t, ms.renames, 1)
	assert.Equal(t, "/work/alpha|s-1|feature-login (2)", ms.renames[0])
}

func TestHandleRenameSession_MissingArgs(t *testing.T) {
	srv, ms, _ := newTestServer(t)

	result, err := srv.handleRenameSession(context.Background(),
		callToolReq("ccname_rename_session", map[string]any{"cwd": "/work/alpha"}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
	assert.Empty(t, ms.renames)
}

func TestHandleRenameSession_StoreError(t *testing.T) {
	srv, ms, _ := newTestServer(t)
	ms.renameErr = fmt.Errorf("session not found")

	result, err := srv.handleRenameSession(context.Background(),
		callToolReq("ccname_rename_session", map[string]any{
			"cwd":        "/work/alpha",
			"session_id": "nope",
			"name":       "x",
		}))
	require.NoError(t, err)
	assert.True(t, result.IsError)
}

func TestMCPServer_RegistersTools(t *testing.T) {
	srv, _, _ := newTestServer(t)
	assert.NotNil(t, srv.MCPServer())
}
