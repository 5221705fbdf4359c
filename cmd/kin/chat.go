package main

import (
	"os"
	"os/signal"

	"github.com/sandevgo/kinbot/internal/transport/cli"
	"github.com/spf13/cobra"
)

var chatUserID string

var chatCmd = &cobra.Command{
	Use:   "chat <companion-id>",
	Short: "Chat with a companion in the terminal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		ai, err := a.withAI(ctx)
		if err != nil {
			return err
		}

		// fail early on a mistyped id
		if _, err := a.companions.GetCompanion(ctx, args[0]); err != nil {
			return err
		}

		rl, err := cli.NewReadLine(ai.agent, a.commands(), a.cfg, args[0], chatUserID)
		if err != nil {
			return err
		}
		defer rl.Shutdown(ctx)

		return rl.Start(ctx)
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatUserID, "user", "u", "", "user id the conversation is stored under (default cli-local)")
	rootCmd.AddCommand(chatCmd)
}
