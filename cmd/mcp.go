package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/ccname/internal/git"
	"github.com/joescharf/ccname/internal/mcp"
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP stdio server for Claude Code integration",
	Long: `Start an MCP (Model Context Protocol) server on stdio.

This lets Claude Code list sessions, compute the next branch-based name,
and rename sessions directly. Configure in Claude Code with:

  {
    "mcpServers": {
      "ccname": { "command": "ccname", "args": ["mcp"] }
    }
  }

Available tools: ccname_list_sessions, ccname_next_name,
ccname_rename_session`,
	RunE: func(cmd *cobra.Command, args []string) error {
		srv := mcp.NewServer(getStore(), git.NewClient(), viper.GetDuration("git_timeout"))
		return srv.ServeStdio(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
