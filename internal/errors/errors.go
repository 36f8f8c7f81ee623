package errors

import (
	stderrors "errors"
	"fmt"
	"log/slog"
	"os"
)

// ErrorType represents different categories of errors
type ErrorType string

const (
	ErrorTypeValidation      ErrorType = "validation"
	ErrorTypeIO              ErrorType = "io"
	ErrorTypeDataUnavailable ErrorType = "data_unavailable"
	ErrorTypeNotFound        ErrorType = "not_found"
	ErrorTypeStorage         ErrorType = "storage"
	ErrorTypeMail            ErrorType = "mail"
	ErrorTypeNetwork         ErrorType = "network"
	ErrorTypeConfig          ErrorType = "config"
	ErrorTypeInternal        ErrorType = "internal"
)

// AppError represents a structured application error
type AppError struct {
	Type    ErrorType      `json:"type"`
	Code    string         `json:"code"`
	Message string         `json:"message"`
	Cause   error          `json:"cause,omitempty"`
	Context map[string]any `json:"context,omitempty"`
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func newAppError(typ ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    typ,
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// Error constructors for different types
func NewValidationError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, code, message, cause)
}

func NewIOError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeIO, code, message, cause)
}

// NewDataUnavailableError reports reference data that is missing or cannot be parsed.
func NewDataUnavailableError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeDataUnavailable, code, message, cause)
}

func NewNotFoundError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNotFound, code, message, cause)
}

func NewStorageError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeStorage, code, message, cause)
}

func NewMailError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeMail, code, message, cause)
}

func NewNetworkError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, code, message, cause)
}

func NewConfigError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeConfig, code, message, cause)
}

func NewInternalError(code, message string, cause error) *AppError {
	return newAppError(ErrorTypeInternal, code, message, cause)
}

// WithContext adds context to an error
func (e *AppError) WithContext(key string, value any) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]any)
	}
	e.Context[key] = value
	return e
}

// As returns the first *AppError in err's chain.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsType reports whether err carries an *AppError of the given type.
func IsType(err error, typ ErrorType) bool {
	appErr, ok := As(err)
	return ok && appErr.Type == typ
}

// Logger wraps slog with application-specific methods
type Logger struct {
	logger *slog.Logger
}

// NewLogger creates a new structured logger
func NewLogger(level slog.Level) *Logger {
	opts := &slog.HandlerOptions{
		Level: level,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return &Logger{logger: slog.New(handler)}
}

// LogError logs an application error with appropriate level and context
func (l *Logger) LogError(err error, message string, args ...any) {
	if appErr, ok := As(err); ok {
		logArgs := []any{
			"error_type", appErr.Type,
			"error_code", appErr.Code,
			"error_message", appErr.Message,
		}
		if appErr.Cause != nil {
			logArgs = append(logArgs, "error_cause", appErr.Cause.Error())
		}

		for key, value := range appErr.Context {
			logArgs = append(logArgs, key, value)
		}

		logArgs = append(logArgs, args...)
		l.logger.Error(message, logArgs...)
		return
	}

	logArgs := append([]any{"error", err.Error()}, args...)
	l.logger.Error(message, logArgs...)
}

func (l *Logger) Info(message string, args ...any) {
	l.logger.Info(message, args...)
}

func (l *Logger) Debug(message string, args ...any) {
	l.logger.Debug(message, args...)
}

func (l *Logger) Warn(message string, args ...any) {
	l.logger.Warn(message, args...)
}

// With returns a logger that always includes the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// ParseLevel maps a configured level name to a slog level.
func ParseLevel(level string) (slog.Level, error) {
	switch level {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level: %s", level)
	}
}

// New creates a new logger instance
func New(level string) (*Logger, error) {
	slogLevel, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	return NewLogger(slogLevel), nil
}

// Common error codes
const (
	ErrCodeFileNotFound         = "FILE_NOT_FOUND"
	ErrCodeFileNotReadable      = "FILE_NOT_READABLE"
	ErrCodeInvalidFormat        = "INVALID_FORMAT"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeMissingAPIKey        = "MISSING_API_KEY"
	ErrCodeNetworkTimeout       = "NETWORK_TIMEOUT"
	ErrCodeInvalidConfig        = "INVALID_CONFIG"
	ErrCodeUnsupportedDocument  = "UNSUPPORTED_DOCUMENT"
	ErrCodeDocumentUnreadable   = "DOCUMENT_UNREADABLE"
	ErrCodeReferenceDataMissing = "REFERENCE_DATA_MISSING"
	ErrCodeReferenceDataInvalid = "REFERENCE_DATA_INVALID"
	ErrCodeGrowthPathNotFound   = "GROWTH_PATH_NOT_FOUND"
	ErrCodeReportNotFound       = "REPORT_NOT_FOUND"
	ErrCodeReportFailed         = "REPORT_GENERATION_FAILED"
	ErrCodeObjectNotFound       = "OBJECT_NOT_FOUND"
	ErrCodeStorageFailed        = "STORAGE_FAILED"
	ErrCodeMailDisabled         = "MAIL_DISABLED"
	ErrCodeMailSendFailed       = "MAIL_SEND_FAILED"
	ErrCodeCircuitOpen          = "CIRCUIT_OPEN"
)
