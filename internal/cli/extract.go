package cli

import (
	"context"
	"fmt"

	"resumefit/internal/common"
	"resumefit/internal/extract"

	"github.com/spf13/cobra"
)

var extractCmd = &cobra.Command{
	Use:   "extract [resume-file]",
	Short: "Extract entities from resume text",
	Long: `Extract skills, experience, education, certifications and contact
information from a resume, along with basic text statistics. Company and
location entities are included when a model backend is configured.`,
	Args: cobra.ExactArgs(1),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		if extractConfig.OutputFormat == "" {
			extractConfig.OutputFormat = cfg.App.DefaultFormat
		}
		return common.ValidateOutputFormat(extractConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runExtract,
}

var extractConfig common.CommandConfig

func init() {
	extractCmd.Flags().StringVarP(&extractConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	extractCmd.Flags().StringVar(&extractConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
}

func runExtract(cmd *cobra.Command, args []string) error {
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
		logger.Info("Starting entity extraction",
			"resume_chars", len(input),
			"output_format", cfg.OutputFormat)
	}

	extractOperation := func(ctx context.Context, text string) (extract.Report, error) {
		return extract.Report{
			Entities: pipe.Extractor.Extract(ctx, text),
			Summary:  extract.TextSummary(text),
		}, nil
	}

	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		extractConfig,
		args,
		createInput,
		extractOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to extract entities: %w", err)
	}
	logger.Info("Entity extraction completed successfully")
	return nil
}
