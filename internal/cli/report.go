package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumetwin/internal/common"
	"resumetwin/internal/config"
	"resumetwin/internal/errors"
	"resumetwin/internal/report"
	"resumetwin/internal/types"
)

var reportCmd = &cobra.Command{
	Use:   "report [resume-file]",
	Short: "Render the ATS report of a resume as PDF",
	Long: `Analyze a resume and write its ATS report (score, matched keywords and
suggestions) as a PDF file.`,
	Args: cobra.ExactArgs(1),
	RunE: runReport,
}

var reportOutput string

func init() {
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "PDF output path (default: report.fileName from config)")
}

func runReport(cmd *cobra.Command, args []string) error {
	cfg, logger, err := fromContext(cmd)
	if err != nil {
		return err
	}

	pdf, result, err := renderResumeReport(cmd.Context(), cfg, logger, args[0])
	if err != nil {
		return err
	}

	output := reportOutput
	if output == "" {
		output = cfg.Report.FileName
	}
	if output == "" {
		output = "ats_report.pdf"
	}
	if err := common.NewOutputHandler(logger).HandleBinary(pdf, output); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "ATS score %d / 100, report written to %s\n", result.Score, output)
	return nil
}

// renderResumeReport analyzes the resume at path and renders its report PDF.
func renderResumeReport(ctx context.Context, cfg *config.Config, logger *errors.Logger, path string) ([]byte, types.ATSResult, error) {
	doc, err := common.NewFileProcessor(logger).ReadResume(path)
	if err != nil {
		return nil, types.ATSResult{}, err
	}

	result, err := newAnalyzer(cfg, logger).AnalyzeText(ctx, doc.Text, doc.ImageCount)
	if err != nil {
		return nil, types.ATSResult{}, fmt.Errorf("failed to analyze resume: %w", err)
	}

	pdf, err := report.NewGenerator(cfg.Report.Title).Generate(types.ReportRequest{
		Score:       result.ATSResult.Score,
		Keywords:    result.ATSResult.KeywordsFound,
		Suggestions: result.ATSResult.Suggestions,
	})
	if err != nil {
		return nil, types.ATSResult{}, err
	}
	return pdf, result.ATSResult, nil
}
