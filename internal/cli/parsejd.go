package cli

import (
	"context"
	"fmt"

	"resumefit/internal/common"
	"resumefit/internal/jd"

	"github.com/spf13/cobra"
)

var parseJDCmd = &cobra.Command{
	Use:   "parse-jd [jd-file]",
	Short: "Parse a job description into structured requirements",
	Long: `Parse a job description into must-have and nice-to-have skills,
qualification lines and certification mentions, using section hints and
the configured skill inventory.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if parseJDConfig.OutputFormat == "" {
			parseJDConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(parseJDConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runParseJD,
}

var parseJDConfig common.CommandConfig

func init() {
	parseJDCmd.Flags().StringVarP(&parseJDConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	parseJDCmd.Flags().StringVar(&parseJDConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runParseJD(cmd *cobra.Command, args []string) error {
	cfg := getConfigFromContext(cmd.Context())
	logger := getLoggerFromContext(cmd.Context())

	pipe, err := buildPipeline(cfg, logger, false)
	if err != nil {
		return err
	}
	defer func() {
		if err := pipe.Close(); err != nil {
			logger.Warn("Failed to close pipeline", "error", err)
		}
	}()

	createInput := func(contents []string) (string, error) {
		if len(contents) != 1 {
			return "", fmt.Errorf("expected 1 file path, got %d", len(contents))
		}
		return contents[0], nil
	}

	logDetails := func(input string, cfg common.CommandConfig) {
		logger.Info("Starting job description parsing",
			"jd_chars", len(input),
			"output_format", cfg.OutputFormat)
	}

	parseOperation := func(ctx context.Context, text string) (jd.ParsedJD, error) {
		return pipe.Parser.Parse(text), nil
	}

	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		parseJDConfig,
		args,
		createInput,
		parseOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to parse job description: %w", err)
	}
	logger.Info("Job description parsing completed successfully")
	return nil
}
