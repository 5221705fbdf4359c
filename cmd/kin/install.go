package main

import (
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/sandevgo/kinbot/internal/config"
	"github.com/sandevgo/kinbot/internal/service/installer"
	"github.com/sandevgo/kinbot/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure KinBot interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		// Setup logger
		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		runtimePath := config.GetRuntimePath()
		envPath := filepath.Join(runtimePath, ".env")

		// run wizard (includes save step)
		if _, err := installer.RunWizard(envPath); err != nil {
			return err
		}

		// Load the newly created .env file so later steps see the values
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! Create a companion with 'kin companion create', then run 'kin start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
