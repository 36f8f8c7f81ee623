package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumetwin/internal/common"
	"resumetwin/internal/document"
	"resumetwin/internal/types"
)

var skillsCmd = &cobra.Command{
	Use:   "skills [resume-file] --role <job role>",
	Short: "Compare resume skills with a job role",
	Long: `List the skills a job role expects that the resume already mentions
and those it should add. Roles come from the skills database; run
"resumetwin roles" to see them. An unknown role gives two empty lists.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: outputFormatPreRun(&skillsConfig),
	RunE:    runSkills,
}

var (
	skillsConfig common.CommandConfig
	skillsRole   string
)

func init() {
	addOutputFlags(skillsCmd, &skillsConfig)
	skillsCmd.Flags().StringVarP(&skillsRole, "role", "r", "", "Target job role, e.g. \"Web Developer\"")
	_ = skillsCmd.MarkFlagRequired("role")
}

func runSkills(cmd *cobra.Command, args []string) error {
	cfg, logger, err := fromContext(cmd)
	if err != nil {
		return err
	}
	analyzer := newAnalyzer(cfg, logger)

	err = common.RunDocumentCommand(cmd.Context(), logger, skillsConfig, args[0],
		func(ctx context.Context, doc *document.Document) (types.SkillGap, error) {
			gap, err := analyzer.SuggestSkills(ctx, doc.Text, skillsRole)
			if err != nil {
				return types.SkillGap{}, err
			}
			return *gap, nil
		})
	if err != nil {
		return fmt.Errorf("failed to suggest skills: %w", err)
	}
	return nil
}
