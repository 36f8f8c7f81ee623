package analysis

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resumetwin/internal/errors"
	"resumetwin/internal/types"
)

type stubReferenceData struct {
	twins   []types.CareerTwin
	roles   types.RoleSkillMap
	roadmap []types.RoadmapEntry
	err     error
}

func (s *stubReferenceData) CareerTwins(context.Context) ([]types.CareerTwin, error) {
	return s.twins, s.err
}

func (s *stubReferenceData) RoleSkills(context.Context) (types.RoleSkillMap, error) {
	return s.roles, s.err
}

func (s *stubReferenceData) Roadmap(context.Context) ([]types.RoadmapEntry, error) {
	return s.roadmap, s.err
}

func newTestService(data ReferenceData) *Service {
	return NewService(data, errors.NewLogger(slog.LevelError))
}

func TestServiceAnalyzeText(t *testing.T) {
	svc := newTestService(&stubReferenceData{twins: sampleRoster()})

	result, err := svc.AnalyzeText(context.Background(), "Python, React and SQL developer", 1)

	require.NoError(t, err)
	assert.Equal(t, []string{"Python", "React", "SQL"}, result.Profile.ExtractedSkills)
	assert.Equal(t, 80, result.ATSResult.Score)
	assert.Equal(t, []string{SuggestionNoImages}, result.ATSResult.Suggestions)
	require.NotEmpty(t, result.CareerTwins)
	assert.Equal(t, "Chen", result.CareerTwins[0].Name)
}

func TestServicePropagatesDataErrors(t *testing.T) {
	dataErr := errors.NewDataUnavailableError(errors.ErrCodeReferenceDataMissing, "career_twins.json not found", nil)
	svc := newTestService(&stubReferenceData{err: dataErr})
	ctx := context.Background()

	_, err := svc.AnalyzeText(ctx, "python", 0)
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataUnavailable))

	_, err = svc.SuggestSkills(ctx, "python", "Data Scientist")
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataUnavailable))

	_, err = svc.GrowthPath(ctx, "python")
	assert.True(t, errors.IsType(err, errors.ErrorTypeDataUnavailable))

	_, err = svc.Roles(ctx)
	assert.Error(t, err)
}

func TestServiceSuggestSkills(t *testing.T) {
	svc := newTestService(&stubReferenceData{roles: types.RoleSkillMap{
		"Data Scientist": {"Python", "SQL", "Machine Learning", "TensorFlow"},
	}})

	gap, err := svc.SuggestSkills(context.Background(), "python and tensorflow", "Data Scientist")

	require.NoError(t, err)
	assert.Equal(t, "Data Scientist", gap.JobRole)
	assert.Equal(t, []string{"Python", "TensorFlow"}, gap.MatchedSkills)
	assert.Equal(t, []string{"SQL", "Machine Learning"}, gap.SuggestedSkills)
}

func TestServiceRolesSorted(t *testing.T) {
	svc := newTestService(&stubReferenceData{roles: types.RoleSkillMap{
		"Web Developer":     {"HTML"},
		"Data Scientist":    {"Python"},
		"Android Developer": {"Kotlin"},
	}})

	roles, err := svc.Roles(context.Background())

	require.NoError(t, err)
	assert.Equal(t, []string{"Android Developer", "Data Scientist", "Web Developer"}, roles)
}
