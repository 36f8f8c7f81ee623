package analysis

import (
	"context"
	"sort"

	"resumetwin/internal/errors"
	"resumetwin/internal/types"
)

// ReferenceData supplies the static datasets the matchers run against.
// Implementations are expected to read their source on every call.
type ReferenceData interface {
	CareerTwins(ctx context.Context) ([]types.CareerTwin, error)
	RoleSkills(ctx context.Context) (types.RoleSkillMap, error)
	Roadmap(ctx context.Context) ([]types.RoadmapEntry, error)
}

// Service combines the matchers with a reference data source.
type Service struct {
	data   ReferenceData
	logger *errors.Logger
}

// NewService creates an analysis service.
func NewService(data ReferenceData, logger *errors.Logger) *Service {
	return &Service{data: data, logger: logger}
}

// AnalyzeText extracts skills from resume text, scores it and matches
// career twins. imageCount is the number of images found in the document.
func (s *Service) AnalyzeText(ctx context.Context, text string, imageCount int) (*types.ResumeAnalysis, error) {
	skills := ExtractSkills(text)
	ats := ScoreATS(imageCount, skills)

	roster, err := s.data.CareerTwins(ctx)
	if err != nil {
		return nil, err
	}
	twins := MatchTwins(ats.KeywordsFound, roster)

	s.logger.Debug("Resume analyzed",
		"skills", len(skills),
		"images", imageCount,
		"score", ats.Score,
		"twins", len(twins))

	return &types.ResumeAnalysis{
		Profile: types.ResumeProfile{
			RawText:         text,
			ImageCount:      imageCount,
			ExtractedSkills: skills,
		},
		ATSResult:   ats,
		CareerTwins: twins,
	}, nil
}

// SuggestSkills compares the skills found in resumeText with those expected for role.
func (s *Service) SuggestSkills(ctx context.Context, resumeText, role string) (*types.SkillGap, error) {
	roles, err := s.data.RoleSkills(ctx)
	if err != nil {
		return nil, err
	}

	gap := FindSkillGap(ExtractSkills(resumeText), role, roles)
	if _, known := roles[role]; !known && role != "" {
		s.logger.Debug("Unknown job role requested", "role", role)
	}
	return &gap, nil
}

// GrowthPath finds the first roadmap path supported by resumeText.
func (s *Service) GrowthPath(ctx context.Context, resumeText string) (*types.GrowthPath, error) {
	roadmap, err := s.data.Roadmap(ctx)
	if err != nil {
		return nil, err
	}
	return FindGrowthPath(resumeText, roadmap)
}

// Roles lists the job roles of the skills database in alphabetical order.
func (s *Service) Roles(ctx context.Context) ([]string, error) {
	roles, err := s.data.RoleSkills(ctx)
	if err != nil {
		return nil, err
	}
	names := make([]string, 0, len(roles))
	for name := range roles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names, nil
}
