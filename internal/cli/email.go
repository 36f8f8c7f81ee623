package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resumetwin/internal/errors"
	"resumetwin/internal/mailer"
	"resumetwin/internal/types"
)

var emailCmd = &cobra.Command{
	Use:   "email [resume-file] --to <address>",
	Short: "Email an ATS report",
	Long: `Send an ATS report as a PDF attachment through the SMTP server configured
under "mail". Either pass a resume, whose report is rendered first, or an
existing report with --report.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runEmail,
}

var (
	emailTo     string
	emailReport string
)

func init() {
	emailCmd.Flags().StringVar(&emailTo, "to", "", "Recipient address")
	emailCmd.Flags().StringVar(&emailReport, "report", "", "Send this report PDF instead of rendering one")
	_ = emailCmd.MarkFlagRequired("to")
}

func runEmail(cmd *cobra.Command, args []string) error {
	cfg, logger, err := fromContext(cmd)
	if err != nil {
		return err
	}

	req := types.EmailRequest{Email: emailTo}
	if err := req.Validate(); err != nil {
		return fmt.Errorf("invalid recipient: %w", err)
	}

	var pdf []byte
	switch {
	case emailReport != "" && len(args) == 0:
		pdf, err = readReport(emailReport)
	case emailReport == "" && len(args) == 1:
		pdf, _, err = renderResumeReport(cmd.Context(), cfg, logger, args[0])
	default:
		return fmt.Errorf("pass either a resume file or --report, not both")
	}
	if err != nil {
		return err
	}

	if err := mailer.New(cfg.Mail, logger).SendReport(cmd.Context(), req.Email, pdf); err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Email sent successfully!")
	return nil
}

func readReport(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFoundError(errors.ErrCodeReportNotFound, "PDF not found", err)
		}
		return nil, errors.NewIOError(errors.ErrCodeFileNotReadable, fmt.Sprintf("cannot read report %s", path), err)
	}
	if !bytes.HasPrefix(data, []byte("%PDF-")) {
		return nil, errors.NewValidationError(errors.ErrCodeInvalidFormat, fmt.Sprintf("%s is not a PDF file", path), nil)
	}
	return data, nil
}
