package analysis

import (
	"strings"

	"resumetwin/internal/errors"
	"resumetwin/internal/types"
)

const (
	MinGrowthPathMatches = 2

	NoGrowthPathMessage = "Couldn't identify a clear career path from the resume."
)

// FindGrowthPath returns the first roadmap entry, in roadmap order, with at
// least MinGrowthPathMatches skills appearing in the resume text. Skills are
// matched case-insensitively as substrings. A not_found AppError is returned
// when no entry qualifies.
func FindGrowthPath(text string, roadmap []types.RoadmapEntry) (*types.GrowthPath, error) {
	lower := strings.ToLower(text)

	for _, entry := range roadmap {
		found := make([]string, 0, len(entry.Skills))
		missing := make([]string, 0, len(entry.Skills))
		for _, skill := range entry.Skills {
			if skill != "" && strings.Contains(lower, strings.ToLower(skill)) {
				found = append(found, skill)
			} else {
				missing = append(missing, skill)
			}
		}

		if len(found) >= MinGrowthPathMatches {
			return &types.GrowthPath{
				CareerPath:    entry.PathName,
				MatchedSkills: found,
				MissingSkills: missing,
			}, nil
		}
	}

	return nil, errors.NewNotFoundError(errors.ErrCodeGrowthPathNotFound, NoGrowthPathMessage, nil)
}
