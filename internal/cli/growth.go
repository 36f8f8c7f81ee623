package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumetwin/internal/common"
	"resumetwin/internal/document"
	"resumetwin/internal/types"
)

var growthCmd = &cobra.Command{
	Use:   "growth [resume-file]",
	Short: "Suggest the career path the resume fits best",
	Long: `Walk the growth roadmap in order and report the first career path with
at least two skills mentioned in the resume, together with the skills
still to learn.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: outputFormatPreRun(&growthConfig),
	RunE:    runGrowth,
}

var growthConfig common.CommandConfig

func init() {
	addOutputFlags(growthCmd, &growthConfig)
}

func runGrowth(cmd *cobra.Command, args []string) error {
	cfg, logger, err := fromContext(cmd)
	if err != nil {
		return err
	}
	analyzer := newAnalyzer(cfg, logger)

	return common.RunDocumentCommand(cmd.Context(), logger, growthConfig, args[0],
		func(ctx context.Context, doc *document.Document) (types.GrowthPath, error) {
			growth, err := analyzer.GrowthPath(ctx, doc.Text)
			if err != nil {
				return types.GrowthPath{}, fmt.Errorf("growth path: %w", err)
			}
			return *growth, nil
		})
}
