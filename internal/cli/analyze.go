package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumetwin/internal/common"
	"resumetwin/internal/document"
	"resumetwin/internal/types"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [resume-file]",
	Short: "Score a resume and list its career twins",
	Long: `Extract the text of a PDF, DOCX or plain text resume, compute its ATS
score with improvement suggestions and list up to three career twins who
share at least two skills with it.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: outputFormatPreRun(&analyzeConfig),
	RunE:    runAnalyze,
}

var analyzeConfig common.CommandConfig

func init() {
	addOutputFlags(analyzeCmd, &analyzeConfig)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	cfg, logger, err := fromContext(cmd)
	if err != nil {
		return err
	}
	analyzer := newAnalyzer(cfg, logger)

	err = common.RunDocumentCommand(cmd.Context(), logger, analyzeConfig, args[0],
		func(ctx context.Context, doc *document.Document) (types.ResumeAnalysis, error) {
			result, err := analyzer.AnalyzeText(ctx, doc.Text, doc.ImageCount)
			if err != nil {
				return types.ResumeAnalysis{}, err
			}
			return *result, nil
		})
	if err != nil {
		return fmt.Errorf("failed to analyze resume: %w", err)
	}
	return nil
}

// addOutputFlags registers -o and --format with completion for the configured formats.
func addOutputFlags(cmd *cobra.Command, target *common.CommandConfig) {
	cmd.Flags().StringVarP(&target.OutputFile, "output", "o", "", "Output file path (default: stdout)")
	cmd.Flags().StringVar(&target.OutputFormat, "format", "", "Output format: json, text, or markdown")

	_ = cmd.RegisterFlagCompletionFunc("format", func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return []string{}, cobra.ShellCompDirectiveError
		}
		return common.OutputFormats(cfg.App.SupportedFormats), cobra.ShellCompDirectiveNoFileComp
	})
}

// outputFormatPreRun applies the default format and validates it against the configuration.
func outputFormatPreRun(target *common.CommandConfig) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		cfg, err := getConfigFromContext(cmd.Context())
		if err != nil {
			return err
		}
		if target.OutputFormat == "" {
			target.OutputFormat = cfg.App.DefaultFormat
		}
		if target.OutputFormat == "" {
			target.OutputFormat = "text"
		}
		return common.ValidateOutputFormat(target.OutputFormat, cfg.App.SupportedFormats)
	}
}
