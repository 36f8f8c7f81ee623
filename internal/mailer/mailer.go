// Package mailer delivers ATS reports by email over SMTP.
package mailer

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"

	"github.com/sony/gobreaker/v2"
	"gopkg.in/gomail.v2"

	"resumetwin/internal/config"
	"resumetwin/internal/errors"
)

//go:generate mockgen -source=./mailer.go -package=mocks -destination=./mocks/mailer.mock.go Dialer
//go:generate mockgen -package=mocks -destination=./mocks/sendcloser.mock.go gopkg.in/gomail.v2 SendCloser

// Mailer sends a generated report to a recipient.
type Mailer interface {
	SendReport(ctx context.Context, to string, pdf []byte) error
}

// Dialer opens an SMTP session. *gomail.Dialer satisfies it.
type Dialer interface {
	Dial() (gomail.SendCloser, error)
}

// New returns an SMTP mailer, or one that always fails when mail is disabled.
func New(cfg config.MailConfig, logger *errors.Logger) Mailer {
	if !cfg.Enabled {
		return disabled{}
	}
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return NewSMTPMailer(cfg, dialer, logger)
}

// SMTPMailer sends reports through a Dialer guarded by a circuit breaker.
type SMTPMailer struct {
	dialer  Dialer
	cfg     config.MailConfig
	breaker *gobreaker.CircuitBreaker[struct{}]
	logger  *errors.Logger
}

func NewSMTPMailer(cfg config.MailConfig, dialer Dialer, logger *errors.Logger) *SMTPMailer {
	return &SMTPMailer{
		dialer:  dialer,
		cfg:     cfg,
		breaker: newBreaker(cfg.CircuitBreaker, logger),
		logger:  logger,
	}
}

func newBreaker(cfg config.CircuitBreakerConfig, logger *errors.Logger) *gobreaker.CircuitBreaker[struct{}] {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        "SMTP",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= cfg.MinRequests && failureRatio >= cfg.FailureThreshold
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Info("Circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String(),
				"failure_threshold", cfg.FailureThreshold)
		},
	}
	return gobreaker.NewCircuitBreaker[struct{}](settings)
}

// SendReport mails pdf to the recipient as the configured attachment.
func (m *SMTPMailer) SendReport(ctx context.Context, to string, pdf []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if m.cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, m.cfg.Timeout)
		defer cancel()
	}

	msg := m.buildMessage(to, pdf)

	var err error
	if m.breaker == nil {
		err = m.deliver(ctx, msg)
	} else {
		_, err = m.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, m.deliver(ctx, msg)
		})
	}

	switch {
	case err == nil:
		m.logger.Info("Report email sent", "to", to, "size", len(pdf))
		return nil
	case stderrors.Is(err, gobreaker.ErrOpenState), stderrors.Is(err, gobreaker.ErrTooManyRequests):
		return errors.NewMailError(errors.ErrCodeCircuitOpen, "Failed to send email: mail server temporarily unavailable", err)
	default:
		return errors.NewMailError(errors.ErrCodeMailSendFailed, fmt.Sprintf("Failed to send email: %v", err), err)
	}
}

func (m *SMTPMailer) buildMessage(to string, pdf []byte) *gomail.Message {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.cfg.From)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", m.cfg.Subject)
	msg.SetBody("text/plain", m.cfg.Body)
	msg.Attach(m.cfg.AttachmentName,
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)
	return msg
}

// deliver runs the SMTP exchange, giving up when ctx ends first.
func (m *SMTPMailer) deliver(ctx context.Context, msg *gomail.Message) error {
	done := make(chan error, 1)
	go func() {
		sc, err := m.dialer.Dial()
		if err != nil {
			done <- err
			return
		}
		defer sc.Close()
		done <- gomail.Send(sc, msg)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// BreakerState reports the SMTP circuit breaker state, or "disabled".
func (m *SMTPMailer) BreakerState() string {
	if m.breaker == nil {
		return "disabled"
	}
	return m.breaker.State().String()
}

type disabled struct{}

func (disabled) BreakerState() string { return "mail disabled" }

func (disabled) SendReport(context.Context, string, []byte) error {
	return errors.NewMailError(errors.ErrCodeMailDisabled, "Failed to send email: mail delivery is not configured", nil)
}
