package cli

import (
	"github.com/spf13/cobra"

	"resumetwin/internal/common"
	"resumetwin/internal/types"
)

var rolesCmd = &cobra.Command{
	Use:     "roles",
	Short:   "List the job roles of the skills database",
	Args:    cobra.NoArgs,
	PreRunE: outputFormatPreRun(&rolesConfig),
	RunE:    runRoles,
}

var rolesConfig common.CommandConfig

func init() {
	addOutputFlags(rolesCmd, &rolesConfig)
}

func runRoles(cmd *cobra.Command, args []string) error {
	cfg, logger, err := fromContext(cmd)
	if err != nil {
		return err
	}

	roles, err := newAnalyzer(cfg, logger).Roles(cmd.Context())
	if err != nil {
		return err
	}
	return common.NewOutputHandler(logger).HandleOutput(types.RolesResponse{Roles: roles}, rolesConfig)
}
