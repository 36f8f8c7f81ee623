package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumetwin/internal/errors"
	"resumetwin/internal/types"
)

func sampleRoadmap() []types.RoadmapEntry {
	return []types.RoadmapEntry{
		{PathName: "Frontend Developer", Skills: []string{"HTML", "CSS", "React", "Webpack"}},
		{PathName: "Data Analyst", Skills: []string{"SQL", "Excel", "Tableau"}},
		{PathName: "Backend Developer", Skills: []string{"Node.js", "SQL", "Docker"}},
	}
}

func TestFindGrowthPath(t *testing.T) {
	path, err := FindGrowthPath("Experienced with html, css and some sql", sampleRoadmap())

	require.NoError(t, err)
	assert.Equal(t, "Frontend Developer", path.CareerPath)
	assert.Equal(t, []string{"HTML", "CSS"}, path.MatchedSkills)
	assert.Equal(t, []string{"React", "Webpack"}, path.MissingSkills)
}

func TestFindGrowthPathFirstQualifyingEntryWins(t *testing.T) {
	// Both Data Analyst and Backend Developer reach two matches.
	path, err := FindGrowthPath("SQL reports in Excel, Docker deploys of Node.js APIs", sampleRoadmap())

	require.NoError(t, err)
	assert.Equal(t, "Data Analyst", path.CareerPath)
	assert.Equal(t, []string{"SQL", "Excel"}, path.MatchedSkills)
	assert.Equal(t, []string{"Tableau"}, path.MissingSkills)
}

func TestFindGrowthPathNotFound(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		roadmap []types.RoadmapEntry
	}{
		{"single match per path", "only html here", sampleRoadmap()},
		{"empty text", "", sampleRoadmap()},
		{"empty roadmap", "html css react", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path, err := FindGrowthPath(tt.text, tt.roadmap)
			assert.Nil(t, path)
			require.Error(t, err)
			assert.True(t, errors.IsType(err, errors.ErrorTypeNotFound))
			assert.Contains(t, err.Error(), NoGrowthPathMessage)
		})
	}
}

func TestFindGrowthPathPartition(t *testing.T) {
	roadmap := sampleRoadmap()
	path, err := FindGrowthPath("react webpack", roadmap)

	require.NoError(t, err)
	assert.Len(t, append(path.MatchedSkills, path.MissingSkills...), len(roadmap[0].Skills))
	assert.GreaterOrEqual(t, len(path.MatchedSkills), MinGrowthPathMatches)
}
