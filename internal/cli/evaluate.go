package cli

import (
	"context"
	"fmt"
	"strings"

	"resumefit/internal/common"
	"resumefit/internal/types"

	"github.com/spf13/cobra"
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate [resume-file] [jd-file]",
	Short: "Score a resume against a job description",
	Long: `Evaluate how well a resume fits a job description. The command takes
two arguments: the path to the resume file and the path to the job
description file.

Required skills come from --must and --nice when given; otherwise they
are parsed out of the job description text.`,
	Args: cobra.ExactArgs(2),
	PreRunE: func(cmd *cobra.Command, args []string) error {
		cfg := getConfigFromContext(cmd.Context())
		// Apply default format if not specified
		if evaluateConfig.OutputFormat == "" {
			evaluateConfig.OutputFormat = cfg.App.DefaultFormat
		}
		// Validate format against supported formats
		return common.ValidateOutputFormat(evaluateConfig.OutputFormat, cfg.App.SupportedFormats)
	},
	RunE: runEvaluate,
}

var (
	evaluateConfig common.CommandConfig
	jobTitle       string
	mustSkills     []string
	niceSkills     []string
)

func init() {
	evaluateCmd.Flags().StringVarP(&evaluateConfig.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	evaluateCmd.Flags().StringVar(&evaluateConfig.OutputFormat, "format", "", "Output format: json, text, or markdown")
	evaluateCmd.Flags().StringVar(&jobTitle, "title", "", "Job title (required)")
	evaluateCmd.Flags().StringSliceVar(&mustSkills, "must", nil, "Comma-separated must-have skills (default: parsed from the JD)")
	evaluateCmd.Flags().StringSliceVar(&niceSkills, "nice", nil, "Comma-separated nice-to-have skills (default: parsed from the JD)")
	_ = evaluateCmd.MarkFlagRequired("title")

	// Add completion for format flag
	_ = evaluateCmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg := getConfigFromContext(cmd.Context())
		return common.GetSupportedFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

type evaluateInput struct {
	resume types.ResumeDocument
	job    types.JobRequirement
}

func runEvaluate(cmd *cobra.Command, args []string) error {
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

	createInput := func(contents []string) (evaluateInput, error) {
		if len(contents) != 2 {
			return evaluateInput{}, fmt.Errorf("expected 2 file paths, got %d", len(contents))
		}

		resume := pipe.Store.SaveResume(types.ResumeDocument{
			FileName: args[0],
			Text:     contents[0],
		})

		job := types.JobRequirement{
			Title:      jobTitle,
			JDText:     contents[1],
			MustSkills: mustSkills,
			NiceSkills: niceSkills,
		}
		if len(job.MustSkills) == 0 && len(job.NiceSkills) == 0 {
			parsed := pipe.Parser.Parse(job.JDText)
			job.MustSkills = parsed.MustSkills
			job.NiceSkills = parsed.NiceSkills
			logger.Info("Skill lists parsed from job description",
				"must_count", len(job.MustSkills),
				"nice_count", len(job.NiceSkills))
		}
		job = pipe.Store.SaveJob(job)

		return evaluateInput{resume: resume, job: job}, nil
	}

	logDetails := func(input evaluateInput, cfg common.CommandConfig) {
		logger.Info("Starting fit evaluation",
			"job_title", input.job.Title,
			"must_skills", strings.Join(input.job.MustSkills, ","),
			"resume_chars", len(input.resume.Text),
			"output_format", cfg.OutputFormat)
	}

	evaluateOperation := func(ctx context.Context, input evaluateInput) (types.EvaluationArtifacts, error) {
		artifacts, err := pipe.Engine.Evaluate(ctx, input.job, input.resume)
		if err != nil {
			return types.EvaluationArtifacts{}, err
		}
		recorded, err := pipe.Store.RecordEvaluation(artifacts.Evaluation)
		if err != nil {
			return types.EvaluationArtifacts{}, err
		}
		artifacts.Evaluation = recorded
		return artifacts, nil
	}

	err = common.RunFileCommand(
		cmd.Context(),
		logger,
		evaluateConfig,
		args,
		createInput,
		evaluateOperation,
		logDetails,
	)

	if err != nil {
		return fmt.Errorf("failed to evaluate resume: %w", err)
	}
	logger.Info("Fit evaluation completed successfully")
	return nil
}
