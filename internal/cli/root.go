package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"resumetwin/internal/config"
	"resumetwin/internal/errors"
)

type configKeyType struct{}
type loggerKeyType struct{}

var configKey = configKeyType{}
var loggerKey = loggerKeyType{}

var rootCmd = &cobra.Command{
	Use:   "resumetwin",
	Short: "Score resumes against ATS rules and find career twins",
	Long: `ResumeTwin parses PDF, DOCX and plain text resumes, scores them against
simple ATS keyword and formatting rules, matches them with reference
professionals who share their skills and suggests skills and career paths.

Run "resumetwin serve" for the HTTP API or use the subcommands directly
on local files.`,
	SilenceUsage: true,
}

// Execute runs the root command with cfg and logger available to every subcommand.
func Execute(ctx context.Context, cfg *config.Config, logger *errors.Logger) error {
	ctx = context.WithValue(ctx, configKey, cfg)
	ctx = context.WithValue(ctx, loggerKey, logger)
	rootCmd.SetContext(ctx)
	return rootCmd.Execute()
}

func getConfigFromContext(ctx context.Context) (*config.Config, error) {
	if cfg, ok := ctx.Value(configKey).(*config.Config); ok {
		return cfg, nil
	}
	return nil, fmt.Errorf("config not found in context")
}

func getLoggerFromContext(ctx context.Context) (*errors.Logger, error) {
	if logger, ok := ctx.Value(loggerKey).(*errors.Logger); ok {
		return logger, nil
	}
	return nil, fmt.Errorf("logger not found in context")
}

func fromContext(cmd *cobra.Command) (*config.Config, *errors.Logger, error) {
	cfg, err := getConfigFromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	logger, err := getLoggerFromContext(cmd.Context())
	if err != nil {
		return nil, nil, err
	}
	return cfg, logger, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(skillsCmd)
	rootCmd.AddCommand(growthCmd)
	rootCmd.AddCommand(rolesCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(emailCmd)
	rootCmd.AddCommand(roadmapCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(serveCmd)
}
