package cmd

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/joescharf/ccname/internal/debuglog"
	"github.com/joescharf/ccname/internal/git"
	"github.com/joescharf/ccname/internal/hookevent"
	"github.com/joescharf/ccname/internal/pipeline"
)

var hookCmd = &cobra.Command{
	Use:   "hook",
	Short: "Run as a SessionStart hook (reads event JSON on stdin)",
	Long: `Run the rename pipeline for one SessionStart event.

Claude Code invokes this with the event payload on stdin. The command
always exits 0 and always emits {"continue": true} so a failure here can
never block session startup. Configure in settings.json:

  {
    "hooks": {
      "SessionStart": [
        { "hooks": [{ "type": "command", "command": "ccname hook" }] }
      ]
    }
  }`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return hookRun(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func init() {
	rootCmd.AddCommand(hookCmd)
}

func hookRun(ctx context.Context, in io.Reader, out io.Writer) error {
	log := debuglog.Open(viper.GetString("log_path"))
	defer log.Close()

	ev, err := hookevent.Decode(in)
	if err != nil {
		log.Stage("decode", "error", slog.String("error", err.Error()))
		// Still tell the host to continue; a bad payload is its problem,
		// not the user's.
		_ = hookevent.Encode(out, hookevent.Output{Continue: true})
		return nil
	}

	p := pipeline.New(git.NewClient(), getStore(), log, pipelineConfig())
	res := p.Run(ctx, ev)

	_ = hookevent.Encode(out, res.Output())
	return nil
}
