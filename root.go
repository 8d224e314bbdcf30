package main

import (
	"fmt"

	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/app"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/config"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/internal/models"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/pkg/hash"
	"github.com/RubachokBoss/plagiarism-checker/simmatrix/pkg/logger"
	"github.com/spf13/cobra"
)

const longHelp = `Detect near-duplicate submissions by fuzzy hashing each student's files
and comparing every pair of submissions.

Modes:
  one-assignment   Expecting a directory structure like: ./studentID/
  all-assignments  Expecting a directory structure like: ./assignment/studentID/

Algorithms:
  ssdeep  Use SSDeep for text documents, including source code
  lzjd    Use LZJD for binary documents, such as PDF and popular Office document formats

Extensions are matched as plain suffixes of the file path; files not
matching any of them are ignored.`

func newRootCommand() *cobra.Command {
	var configFlag string

	rootCmd := &cobra.Command{
		Use:           "simmatrix <mode> <algorithm> <dir> [extensions...]",
		Short:         "Pairwise similarity matrix for student submissions",
		Long:          longHelp,
		Args:          cobra.MinimumNArgs(3),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			mode, err := parseMode(args[0])
			if err != nil {
				return err
			}
			algorithm, err := hash.ParseAlgorithm(args[1])
			if err != nil {
				return err
			}

			cfg, err := config.Load(configFlag, cmd.Flags())
			if err != nil {
				return err
			}
			cfg.Analysis.Algorithm = algorithm.String()

			log := logger.NewWithConfig(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Pretty, cfg.Logging.NoColor)

			application, err := app.New(cfg, log, cmd.OutOrStdout(), cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return application.Run(mode, args[2], args[3:])
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&configFlag, "config", "c", "", "Configuration file path")
	flags.Int("threshold", 95, "Scores at or above this value are flagged as highly suspicious")
	flags.Int("workers", 1, "Number of goroutines scoring pairs")
	flags.String("log-level", "warn", "Diagnostic log level (debug, info, warn, error)")
	flags.String("color", config.ColorAuto, "Highlight suspicious pairs (auto, always, never)")
	flags.String("format", "text", "Output format (text, table)")

	return rootCmd
}

func parseMode(arg string) (models.Mode, error) {
	switch mode := models.Mode(arg); mode {
	case models.ModeOneAssignment, models.ModeAllAssignments:
		return mode, nil
	default:
		return "", fmt.Errorf("invalid mode %q: expected %s or %s", arg, models.ModeOneAssignment, models.ModeAllAssignments)
	}
}
