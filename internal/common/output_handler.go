package common

import (
	"fmt"
	"io"
	"os"

	"resumetwin/internal/errors"
	"resumetwin/internal/formatters"
)

// CommandConfig holds common configuration for commands
type CommandConfig struct {
	OutputFile   string
	OutputFormat string
}

// OutputHandler handles formatting and writing output
type OutputHandler struct {
	fileProcessor *FileProcessor
	registry      *formatters.FormatterRegistry
	logger        *errors.Logger
	stdout        io.Writer
}

// NewOutputHandler creates a new output handler
func NewOutputHandler(logger *errors.Logger) *OutputHandler {
	return &OutputHandler{
		fileProcessor: NewFileProcessor(logger),
		registry:      formatters.GlobalRegistry,
		logger:        logger,
		stdout:        os.Stdout,
	}
}

// HandleOutput formats data and writes it to the specified output
func (oh *OutputHandler) HandleOutput(data any, config CommandConfig) error {
	if err := oh.fileProcessor.ValidateOutputFile(config.OutputFile); err != nil {
		return err
	}

	output, err := oh.registry.Format(data, config.OutputFormat)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeInvalidFormat,
			fmt.Sprintf("Failed to format output as %s", config.OutputFormat), err)
	}

	return oh.write([]byte(output), config.OutputFile, config.OutputFormat)
}

// HandleBinary writes raw bytes, such as a rendered PDF, to the output file.
// Binary data is never written to a terminal.
func (oh *OutputHandler) HandleBinary(data []byte, outputFile string) error {
	if outputFile == "" {
		return errors.NewValidationError(errors.ErrCodeInvalidRequest, "an output file is required for binary output", nil)
	}
	if err := oh.fileProcessor.ValidateOutputFile(outputFile); err != nil {
		return err
	}
	return oh.write(data, outputFile, "binary")
}

func (oh *OutputHandler) write(data []byte, outputFile, format string) error {
	if outputFile == "" {
		_, err := oh.stdout.Write(data)
		return err
	}

	if err := oh.fileProcessor.WriteFile(outputFile, data); err != nil {
		return err
	}
	if oh.logger != nil {
		oh.logger.Info("Output written successfully", "file", outputFile, "format", format)
	}
	return nil
}

// GetSupportedFormats returns all supported output formats
func (oh *OutputHandler) GetSupportedFormats() []string {
	return oh.registry.GetSupportedFormats()
}
