package main

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/sandevgo/kinbot/internal/service/companion"
	"github.com/spf13/cobra"
)

var (
	createUserID  string
	createTone    int
	createPersona string
)

var companionCmd = &cobra.Command{
	Use:   "companion",
	Short: "Create and inspect companions",
}

var companionCreateCmd = &cobra.Command{
	Use:          "create <name>",
	Short:        "Create a companion",
	Args:         cobra.ExactArgs(1),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		in := companion.CreateInput{UserID: createUserID, Name: args[0]}
		if cmd.Flags().Changed("tone") {
			in.ToneLevel = &createTone
		}
		if createPersona != "" {
			if err := json.Unmarshal([]byte(createPersona), &in.Persona); err != nil {
				return fmt.Errorf("persona must be a JSON object: %w", err)
			}
		}

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.setup.Create(ctx, in)
		if err != nil {
			return err
		}
		return printJSON(cmd, c)
	},
}

var companionShowCmd = &cobra.Command{
	Use:          "show <companion-id>",
	Short:        "Show a companion and its top memories",
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

		p, err := a.setup.Get(ctx, args[0])
		if err != nil {
			return err
		}
		return printJSON(cmd, p)
	},
}

var companionToneCmd = &cobra.Command{
	Use:          "tone <companion-id> <0..100>",
	Short:        "Change a companion's tone level",
	Args:         cobra.ExactArgs(2),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		tone, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("tone must be an integer: %w", err)
		}

		ctx, flushLog := setupLogger(cmd.Context())
		defer flushLog()

		a, err := newApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		c, err := a.setup.SetTone(ctx, args[0], tone)
		if err != nil {
			return err
		}
		return printJSON(cmd, c)
	},
}

func init() {
	companionCreateCmd.Flags().StringVarP(&createUserID, "user", "u", "cli-local", "owning user id")
	companionCreateCmd.Flags().IntVar(&createTone, "tone", 20, "tone level 0..100")
	companionCreateCmd.Flags().StringVar(&createPersona, "persona", "", `persona as a JSON object, e.g. '{"vibe":"calm"}'`)

	companionCmd.AddCommand(companionCreateCmd, companionShowCmd, companionToneCmd)
	rootCmd.AddCommand(companionCmd)
}
