package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"resumetwin/internal/common"
	"resumetwin/internal/errors"
	"resumetwin/internal/refdata"
)

var roadmapCmd = &cobra.Command{
	Use:   "roadmap",
	Short: "Maintain the growth roadmap dataset",
}

var roadmapCleanCmd = &cobra.Command{
	Use:   "clean [roadmap-file]",
	Short: "Normalize a growth roadmap file",
	Long: `Rewrite a growth roadmap into its canonical form: resources become
{"title": ...} objects or strings, projects and tools keep only strings and
every value is trimmed with empty entries dropped. Path order is preserved.
Without an argument the configured roadmap file is cleaned.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runRoadmapClean,
}

var roadmapCleanOutput string

func init() {
	roadmapCleanCmd.Flags().StringVarP(&roadmapCleanOutput, "output", "o", "cleaned_growth_roadmap.json", "Output file path")
	roadmapCmd.AddCommand(roadmapCleanCmd)
}

func runRoadmapClean(cmd *cobra.Command, args []string) error {
	cfg, logger, err := fromContext(cmd)
	if err != nil {
		return err
	}

	input := cfg.Data.RoadmapFile
	if len(args) == 1 {
		input = args[0]
	}

	data, err := os.ReadFile(input)
	if err != nil {
		return errors.NewIOError(errors.ErrCodeFileNotReadable, fmt.Sprintf("cannot read roadmap %s", input), err)
	}

	cleaned, err := refdata.CleanRoadmap(data)
	if err != nil {
		return errors.NewValidationError(errors.ErrCodeReferenceDataInvalid, fmt.Sprintf("invalid roadmap %s", input), err)
	}

	if err := common.NewOutputHandler(logger).HandleBinary(append(cleaned, '\n'), roadmapCleanOutput); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Cleaned roadmap written to %s\n", roadmapCleanOutput)
	return nil
}
