package main

import (
	"github.com/spf13/cobra"
)

var memoryImportance int

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Edit companion memories",
}

var memorySetCmd = &cobra.Command{
	Use:          "set <companion-id> <key> <value>",
	Short:        "Create or update a memory",
	Long:         `Stores value under key. Without --importance an existing memory keeps its importance and a new one gets 50.`,
	Args:         cobra.ExactArgs(3),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		var importance *int
		if cmd.Flags().Changed("importance") {
			importance = &memoryImportance
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		m, err := a.setup.Remember(ctx, args[0], args[1], args[2], importance)
		if err != nil {
			return err
		}
		return printJSON(cmd, m)
	},
}

func init() {
	memorySetCmd.Flags().IntVarP(&memoryImportance, "importance", "i", 50, "importance 0..100")
	memoryCmd.AddCommand(memorySetCmd)
	rootCmd.AddCommand(memoryCmd)
}
