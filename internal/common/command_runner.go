package common

import (
	"context"
	"os"

	"resumetwin/internal/document"
	"resumetwin/internal/errors"
	"resumetwin/internal/utils"
)

// DocumentOperationFunc runs an analysis over an extracted resume.
type DocumentOperationFunc[Output any] func(context.Context, *document.Document) (Output, error)

// RunDocumentCommand encapsulates the common logic for CLI commands that read
// one resume file, run an operation on it and print the formatted result.
func RunDocumentCommand[Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	path string,
	operation DocumentOperationFunc[Output],
) error {
	fileProcessor := NewFileProcessor(logger)
	outputHandler := NewOutputHandler(logger)

	doc, err := fileProcessor.ReadResume(path)
	if err != nil {
		return err
	}

	if info, err := os.Stat(path); err == nil {
		logger.Info("Resume extracted",
			"file", path,
			"kind", string(doc.Kind),
			"size", utils.FormatFileSize(info.Size()),
			"pages", doc.Pages,
			"images", doc.ImageCount,
			"output_format", cmdConfig.OutputFormat)
	}

	result, err := operation(ctx, doc)
	if err != nil {
		return err
	}

	return outputHandler.HandleOutput(result, cmdConfig)
}
