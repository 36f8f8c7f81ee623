package analysis

import (
	"github.com/ecodeclub/ekit/slice"

	"resumetwin/internal/types"
)

// FindSkillGap splits the skills expected for role into those the resume
// already has and those it should add. Both lists follow the expected order
// and membership is case-sensitive. An unknown role yields two empty lists.
func FindSkillGap(resumeSkills []string, role string, roles types.RoleSkillMap) types.SkillGap {
	expected := roles[role]

	gap := types.SkillGap{
		JobRole:         role,
		MatchedSkills:   make([]string, 0, len(expected)),
		SuggestedSkills: make([]string, 0, len(expected)),
	}
	for _, skill := range expected {
		if slice.Contains(resumeSkills, skill) {
			gap.MatchedSkills = append(gap.MatchedSkills, skill)
		} else {
			gap.SuggestedSkills = append(gap.SuggestedSkills, skill)
		}
	}
	return gap
}
