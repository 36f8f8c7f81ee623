package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumetwin/internal/types"
)

func sampleRoster() []types.CareerTwin {
	return []types.CareerTwin{
		{Name: "Asha", Role: "Frontend Engineer", Company: "Acme", Skills: []string{"JavaScript", "React", "CSS"}},
		{Name: "Ben", Role: "Data Scientist", Company: "Globex", Skills: []string{"Python", "SQL", "Machine Learning", "TensorFlow"}},
		{Name: "Chen", Role: "Full Stack Developer", Company: "Initech", Skills: []string{"JavaScript", "Python", "SQL", "React"}},
		{Name: "Dana", Role: "Android Developer", Company: "Umbrella", Skills: []string{"Kotlin", "SQL"}},
		{Name: "Eli", Role: "Designer", Company: "Hooli", Skills: []string{"Figma", "CSS", "HTML"}},
	}
}

func TestMatchTwins(t *testing.T) {
	userSkills := []string{"Python", "JavaScript", "React", "SQL"}

	matches := MatchTwins(userSkills, sampleRoster())

	require.Len(t, matches, 3)
	assert.Equal(t, "Chen", matches[0].Name)
	assert.Equal(t, 4, matches[0].MatchScore)
	// Asha and Ben both overlap by 2; roster order breaks the tie.
	assert.Equal(t, "Asha", matches[1].Name)
	assert.Equal(t, 2, matches[1].MatchScore)
	assert.Equal(t, "Ben", matches[2].Name)
	assert.Equal(t, 2, matches[2].MatchScore)
}

func TestMatchTwinsThreshold(t *testing.T) {
	matches := MatchTwins([]string{"Kotlin"}, sampleRoster())
	assert.Empty(t, matches)
	assert.NotNil(t, matches)
}

func TestMatchTwinsDoesNotMutateRoster(t *testing.T) {
	roster := sampleRoster()
	matches := MatchTwins([]string{"Kotlin", "SQL"}, roster)

	require.Len(t, matches, 1)
	matches[0].Skills[0] = "changed"
	assert.Equal(t, 0, roster[3].MatchScore)
	assert.Equal(t, "Kotlin", roster[3].Skills[0])
}

func TestMatchTwinsCountsDistinctSkills(t *testing.T) {
	roster := []types.CareerTwin{
		{Name: "Dup", Skills: []string{"Python", "Python", "Python"}},
		{Name: "Pair", Skills: []string{"Python", "SQL"}},
	}
	matches := MatchTwins([]string{"Python", "SQL", "Python"}, roster)

	require.Len(t, matches, 1)
	assert.Equal(t, "Pair", matches[0].Name)
	assert.Equal(t, 2, matches[0].MatchScore)
}

func TestMatchTwinsOrderedAndBounded(t *testing.T) {
	userSkills := Vocabulary()
	matches := MatchTwins(userSkills, sampleRoster())

	assert.LessOrEqual(t, len(matches), MaxCareerTwins)
	for i := 1; i < len(matches); i++ {
		assert.GreaterOrEqual(t, matches[i-1].MatchScore, matches[i].MatchScore)
	}
	for _, m := range matches {
		assert.GreaterOrEqual(t, m.MatchScore, MinTwinOverlap)
	}
}
