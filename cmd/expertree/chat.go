package main

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"expertree/internal/cli"
	"expertree/internal/logging"
	"expertree/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat [file]",
	Short: "Run an interactive conversation",
	Long: `Starts a conversation session. With no argument, templates found in the
templates directory are offered for selection. With a file argument, that
document is loaded; pass --resume to continue where a saved conversation
left off.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}

		opts := cli.Options{Model: cfg.Model}
		if len(args) > 0 {
			opts.Path = args[0]
		}
		opts.Resume, _ = cmd.Flags().GetBool("resume")

		colors := tui.ColorsEnabled(cfg.NoColor)
		tui.PrintBanner(os.Stdout, version, colors)

		logger := logging.ForDebug(cfg.Debug)
		session := cli.NewSession(cfg, os.Stdin, os.Stdout, logger)

		sigCtx := cli.NewSignalContext(context.Background())
		defer sigCtx.Cancel()

		// Errors are already narrated by the session; cobra's own message
		// would just repeat them.
		if err := session.Run(sigCtx, opts); err != nil {
			logger.Error("session ended with error", "err", err)
			cmd.SilenceUsage = true
			return err
		}
		return nil
	},
}

func init() {
	chatCmd.Flags().Bool("resume", false, "Resume the conversation history found in the file")
	rootCmd.AddCommand(chatCmd)
}
