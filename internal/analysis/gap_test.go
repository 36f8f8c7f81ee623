package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resumetwin/internal/types"
)

func TestFindSkillGap(t *testing.T) {
	roles := types.RoleSkillMap{
		"Web Developer":  {"HTML", "CSS", "JavaScript", "React"},
		"Data Scientist": {"Python", "SQL", "Machine Learning"},
	}

	tests := []struct {
		name      string
		skills    []string
		role      string
		matched   []string
		suggested []string
	}{
		{
			name:      "partial match keeps expected order",
			skills:    []string{"React", "HTML"},
			role:      "Web Developer",
			matched:   []string{"HTML", "React"},
			suggested: []string{"CSS", "JavaScript"},
		},
		{
			name:      "unknown role",
			skills:    []string{"Python"},
			role:      "Astronaut",
			matched:   []string{},
			suggested: []string{},
		},
		{
			name:      "empty role",
			skills:    []string{"Python"},
			role:      "",
			matched:   []string{},
			suggested: []string{},
		},
		{
			name:      "membership is case sensitive",
			skills:    []string{"python", "SQL"},
			role:      "Data Scientist",
			matched:   []string{"SQL"},
			suggested: []string{"Python", "Machine Learning"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gap := FindSkillGap(tt.skills, tt.role, roles)
			assert.Equal(t, tt.matched, gap.MatchedSkills)
			assert.Equal(t, tt.suggested, gap.SuggestedSkills)
		})
	}
}

func TestFindSkillGapPartitionsExpected(t *testing.T) {
	roles := types.RoleSkillMap{"Web Developer": {"HTML", "CSS", "JavaScript", "React"}}
	gap := FindSkillGap([]string{"CSS", "Kotlin"}, "Web Developer", roles)

	assert.Len(t, append(gap.MatchedSkills, gap.SuggestedSkills...), 4)
	for _, s := range gap.MatchedSkills {
		assert.NotContains(t, gap.SuggestedSkills, s)
	}
}
