package cli

import (
	"resumetwin/internal/analysis"
	"resumetwin/internal/config"
	"resumetwin/internal/errors"
	"resumetwin/internal/refdata"
)

func newReferenceStore(cfg *config.Config, logger *errors.Logger) *refdata.FileStore {
	return refdata.NewFileStore(cfg.Data.CareerTwinsFile, cfg.Data.SkillsDBFile, cfg.Data.RoadmapFile, logger)
}

func newAnalyzer(cfg *config.Config, logger *errors.Logger) *analysis.Service {
	return analysis.NewService(newReferenceStore(cfg, logger), logger)
}
