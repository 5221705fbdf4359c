package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var recapAll bool

var recapCmd = &cobra.Command{
	Use:   "recap [companion-id]",
	Short: "Summarize conversation history into a recap",
	Long: `Summarizes the oldest window of a companion's conversation.
With --all, runs the deduplicating batch over every companion.`,
	Args: func(cmd *cobra.Command, args []string) error {
		if recapAll {
			return cobra.NoArgs(cmd, args)
		}
		return cobra.ExactArgs(1)(cmd, args)
	},
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
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

		var out any
		if recapAll {
			out, err = ai.recapper.RecapAll(ctx)
		} else {
			out, err = ai.recapper.RecapOne(ctx, args[0])
		}
		if err != nil {
			return err
		}
		return printJSON(cmd, out)
	},
}

var recapListCmd = &cobra.Command{
	Use:          "list <companion-id>",
	Short:        "List stored recaps of a companion",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		recaps, err := a.recaps.ListRecaps(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, recaps)
	},
}

func printJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
	return err
}

func init() {
	recapCmd.Flags().BoolVar(&recapAll, "all", false, "recap every companion, skipping windows already summarized")
	recapCmd.AddCommand(recapListCmd)
	rootCmd.AddCommand(recapCmd)
}
