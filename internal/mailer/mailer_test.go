package mailer

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"resumetwin/internal/config"
	"resumetwin/internal/errors"
	"resumetwin/internal/mailer/mocks"
)

func testMailConfig() config.MailConfig {
	return config.MailConfig{
		Enabled:        true,
		Host:           "smtp.example.com",
		Port:           587,
		From:           "reports@example.com",
		Subject:        "Your ATS Resume Report",
		Body:           "Attached is your ATS resume report. Thank you for using ResumeTwin!",
		AttachmentName: "ATS_Report.pdf",
		Timeout:        5 * time.Second,
	}
}

func TestSMTPMailer_SendReport(t *testing.T) {
	testCases := []struct {
		name     string
		mock     func(ctrl *gomock.Controller, sent *bytes.Buffer) Dialer
		wantCode string
	}{
		{
			name: "sent",
			mock: func(ctrl *gomock.Controller, sent *bytes.Buffer) Dialer {
				sc := mocks.NewMockSendCloser(ctrl)
				sc.EXPECT().Send("reports@example.com", []string{"user@example.com"}, gomock.Any()).
					DoAndReturn(func(_ string, _ []string, msg io.WriterTo) error {
						_, err := msg.WriteTo(sent)
						return err
					})
				sc.EXPECT().Close().Return(nil)
				d := mocks.NewMockDialer(ctrl)
				d.EXPECT().Dial().Return(sc, nil)
				return d
			},
		},
		{
			name: "dial failure",
			mock: func(ctrl *gomock.Controller, _ *bytes.Buffer) Dialer {
				d := mocks.NewMockDialer(ctrl)
				d.EXPECT().Dial().Return(nil, stderrors.New("connection refused"))
				return d
			},
			wantCode: errors.ErrCodeMailSendFailed,
		},
		{
			name: "send failure",
			mock: func(ctrl *gomock.Controller, _ *bytes.Buffer) Dialer {
				sc := mocks.NewMockSendCloser(ctrl)
				sc.EXPECT().Send(gomock.Any(), gomock.Any(), gomock.Any()).Return(stderrors.New("550 mailbox unavailable"))
				sc.EXPECT().Close().Return(nil)
				d := mocks.NewMockDialer(ctrl)
				d.EXPECT().Dial().Return(sc, nil)
				return d
			},
			wantCode: errors.ErrCodeMailSendFailed,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			var sent bytes.Buffer
			m := NewSMTPMailer(testMailConfig(), tc.mock(ctrl, &sent), newTestLogger())
			err := m.SendReport(context.Background(), "user@example.com", []byte("%PDF-1.3 report"))

			if tc.wantCode == "" {
				require.NoError(t, err)
				raw := sent.String()
				assert.Contains(t, raw, "Subject: Your ATS Resume Report")
				assert.Contains(t, raw, "Thank you for using ResumeTwin!")
				assert.Contains(t, raw, `filename="ATS_Report.pdf"`)
				assert.Contains(t, raw, "Content-Type: application/pdf")
				return
			}

			appErr, ok := errors.As(err)
			require.True(t, ok)
			assert.Equal(t, errors.ErrorTypeMail, appErr.Type)
			assert.Equal(t, tc.wantCode, appErr.Code)
			assert.Contains(t, appErr.Message, "Failed to send email: ")
		})
	}
}

func TestSMTPMailer_CircuitOpens(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testMailConfig()
	cfg.CircuitBreaker = config.CircuitBreakerConfig{
		Enabled:          true,
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          time.Minute,
		MinRequests:      2,
		FailureThreshold: 0.5,
	}

	d := mocks.NewMockDialer(ctrl)
	d.EXPECT().Dial().Return(nil, stderrors.New("connection refused")).Times(2)

	m := NewSMTPMailer(cfg, d, newTestLogger())
	ctx := context.Background()
	for i := 0; i < 2; i++ {
		require.Error(t, m.SendReport(ctx, "user@example.com", nil))
	}

	err := m.SendReport(ctx, "user@example.com", nil)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeCircuitOpen, appErr.Code)
}

func TestSMTPMailer_CancelledContext(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	m := NewSMTPMailer(testMailConfig(), mocks.NewMockDialer(ctrl), newTestLogger())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, m.SendReport(ctx, "user@example.com", nil), context.Canceled)
}

func TestNewDisabled(t *testing.T) {
	m := New(config.MailConfig{}, newTestLogger())

	err := m.SendReport(context.Background(), "user@example.com", nil)
	appErr, ok := errors.As(err)
	require.True(t, ok)
	assert.Equal(t, errors.ErrCodeMailDisabled, appErr.Code)
}

func newTestLogger() *errors.Logger {
	return errors.NewLogger(slog.LevelError)
}

func TestBreakerState(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	cfg := testMailConfig()
	assert.Equal(t, "disabled", NewSMTPMailer(cfg, mocks.NewMockDialer(ctrl), newTestLogger()).BreakerState())

	cfg.CircuitBreaker = config.CircuitBreakerConfig{Enabled: true, MinRequests: 1, FailureThreshold: 1}
	assert.Equal(t, "closed", NewSMTPMailer(cfg, mocks.NewMockDialer(ctrl), newTestLogger()).BreakerState())
}
