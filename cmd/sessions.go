package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/joescharf/ccname/internal/output"
)

// maxNameWidth keeps long summaries from blowing out the table.
const maxNameWidth = 50

var sessionsCmd = &cobra.Command{
	Use:     "sessions [project]",
	Aliases: []string{"ls"},
	Short:   "List sessions and their display names",
	Long: `List known sessions across every project, or only those whose
project directory name contains the given filter. Sessions without a
custom title or summary are omitted.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var filter string
		if len(args) > 0 {
			filter = args[0]
		}
		return sessionsRun(cmd.Context(), filter)
	},
}

func init() {
	rootCmd.AddCommand(sessionsCmd)
}

func sessionsRun(ctx context.Context, filter string) error {
	s := getStore()

	sessions, err := s.ListAllSessions(ctx, filter)
	if err != nil {
		return err
	}

	table := ui.Table([]string{"Session", "Name", "Project"})
	count := 0
	for _, sess := range sessions {
		name := sess.DisplayName()
		if name == "" {
			continue
		}
		_ = table.Append([]string{
			output.Cyan(sess.ID),
			truncate(name, maxNameWidth),
			output.Faint(sess.ProjectDir),
		})
		count++
	}

	if count == 0 {
		ui.Info("No sessions found.")
		return nil
	}
	return table.Render()
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max-1]) + "…"
}
