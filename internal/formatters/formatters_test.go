package formatters

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumetwin/internal/types"
)

func sampleAnalysis() types.ResumeAnalysis {
	return types.ResumeAnalysis{
		Profile: types.ResumeProfile{ImageCount: 1},
		ATSResult: types.ATSResult{
			Score:         50,
			Suggestions:   []string{"Avoid using images in resume."},
			KeywordsFound: []string{"Python", "React"},
		},
		CareerTwins: []types.CareerTwin{{Name: "Asha", Role: "Frontend Engineer", Company: "Acme", MatchScore: 2}},
	}
}

func TestFormatAnalysis(t *testing.T) {
	registry := NewFormatterRegistry()

	text, err := registry.Format(sampleAnalysis(), "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Score: 50/100")
	assert.Contains(t, text, "Keywords found: Python, React")
	assert.Contains(t, text, "  - Avoid using images in resume.")
	assert.Contains(t, text, "Asha, Frontend Engineer at Acme (2 shared skills)")

	md, err := registry.Format(sampleAnalysis(), "markdown")
	require.NoError(t, err)
	assert.Contains(t, md, "**Score:** 50/100")
	assert.Contains(t, md, "| Asha | Frontend Engineer | Acme | 2 |")

	js, err := registry.Format(sampleAnalysis(), "json")
	require.NoError(t, err)
	assert.Contains(t, js, `"keywords_found": [`)
}

func TestFormatGapAndGrowth(t *testing.T) {
	registry := NewFormatterRegistry()

	text, err := registry.Format(types.SkillGap{JobRole: "Web Developer", MatchedSkills: []string{"HTML"}}, "text")
	require.NoError(t, err)
	assert.Contains(t, text, "Matched:   HTML")
	assert.Contains(t, text, "Suggested: (none)")

	md, err := registry.Format(types.GrowthPath{
		CareerPath:    "Data Scientist",
		MatchedSkills: []string{"Python"},
		MissingSkills: []string{"SQL"},
	}, "markdown")
	require.NoError(t, err)
	assert.Equal(t, "# Career Path: Data Scientist\n\n- [x] Python\n- [ ] SQL\n", md)
}

func TestFormatRoles(t *testing.T) {
	registry := NewFormatterRegistry()

	out, err := registry.Format(types.RolesResponse{Roles: []string{"A", "B"}}, "markdown")
	require.NoError(t, err)
	assert.Equal(t, "- A\n- B\n", out)
}

func TestFormatUnknown(t *testing.T) {
	_, err := NewFormatterRegistry().Format(sampleAnalysis(), "xml")
	assert.ErrorContains(t, err, "no formatter found for format 'xml'")

	assert.Equal(t, []string{"json", "markdown", "text"}, NewFormatterRegistry().GetSupportedFormats())
}
