package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/joescharf/ccname/internal/git"
	"github.com/joescharf/ccname/internal/namer"
	"github.com/joescharf/ccname/internal/store"
)

// Server wraps the ccname data layer and exposes it as MCP tools.
type Server struct {
	store      store.Store
	git        git.Client
	gitTimeout time.Duration
}

// NewServer creates the MCP server wrapper with all required dependencies.
func NewServer(s store.Store, gc git.Client, gitTimeout time.Duration) *Server {
	if gitTimeout <= 0 {
		gitTimeout = 5 * time.Second
	}
	return &Server{store: s, git: gc, gitTimeout: gitTimeout}
}

// MCPServer returns a configured mcp-go server with all tools registered.
func (s *Server) MCPServer() *server.MCPServer {
	srv := server.NewMCPServer("ccname", "1.0.0", server.WithToolCapabilities(true))

	srv.AddTool(s.listSessionsTool())
	srv.AddTool(s.nextNameTool())
	srv.AddTool(s.renameSessionTool())

	return srv
}

// ServeStdio starts the stdio transport, blocking until ctx is cancelled.
func (s *Server) ServeStdio(ctx context.Context) error {
	srv := s.MCPServer()
	stdioServer := server.NewStdioServer(srv)
	return stdioServer.Listen(ctx, os.Stdin, os.Stdout)
}

// ---------------------------------------------------------------------------
// Tool definitions and handlers
// ---------------------------------------------------------------------------

// ccname_list_sessions
func (s *Server) listSessionsTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("ccname_list_sessions",
		mcp.WithDescription("List known sessions and their display names. Returns a JSON array with id, name, project, and modified timestamp."),
		mcp.WithString("project", mcp.Description("Filter by project directory name substring")),
	)
	return tool, s.handleListSessions
}

func (s *Server) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	project := request.GetString("project", "")
	sessions, err := s.store.ListAllSessions(ctx, project)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sessions: %v", err)), nil
	}

	type sessionOut struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Project  string `json:"project"`
		Modified string `json:"modified"`
	}

	out := make([]sessionOut, 0, len(sessions))
	for _, sess := range sessions {
		name := sess.DisplayName()
		if name == "" {
			continue
		}
		out = append(out, sessionOut{
			ID:       sess.ID,
			Name:     name,
			Project:  sess.ProjectDir,
			Modified: sess.Modified.Format(time.RFC3339),
		})
	}

	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal sessions: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ccname_next_name
func (s *Server) nextNameTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("ccname_next_name",
		mcp.WithDescription("Compute the next free branch-based session name for a working directory. Reads the current git branch and the names already in use."),
		mcp.WithString("cwd", mcp.Required(), mcp.Description("Working directory inside the git repo")),
	)
	return tool, s.handleNextName
}

func (s *Server) handleNextName(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cwd, err := request.RequireString("cwd")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	branchCtx, cancel := context.WithTimeout(ctx, s.gitTimeout)
	defer cancel()
	branch, err := s.git.CurrentBranch(branchCtx, cwd)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("no branch for %s: %v", cwd, err)), nil
	}
	branch = namer.Sanitize(branch)

	sessions, err := s.store.ListSessions(ctx, cwd)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to list sessions: %v", err)), nil
	}
	names := make([]string, 0, len(sessions))
	for _, sess := range sessions {
		names = append(names, sess.DisplayName())
	}

	out := map[string]string{
		"branch": branch,
		"name":   namer.Next(branch, names),
	}
	data, err := json.Marshal(out)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to marshal result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(data)), nil
}

// ccname_rename_session
func (s *Server) renameSessionTool() (mcp.Tool, server.ToolHandlerFunc) {
	tool := mcp.NewTool("ccname_rename_session",
		mcp.WithDescription("Set the display name of a session by appending a custom-title record to its transcript."),
		mcp.WithString("cwd", mcp.Required(), mcp.Description("Working directory of the session's project")),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session identifier")),
		mcp.WithString("name", mcp.Required(), mcp.Description("New display name")),
	)
	return tool, s.handleRenameSession
}

func (s *Server) handleRenameSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cwd, err := request.RequireString("cwd")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	sessionID, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	name, err := request.RequireString("name")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if err := s.store.RenameSession(ctx, cwd, sessionID, name); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to rename session: %v", err)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("renamed session %s to %q", sessionID, name)), nil
}
