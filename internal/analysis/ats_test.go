package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreATS(t *testing.T) {
	tests := []struct {
		name        string
		images      int
		skills      []string
		score       int
		suggestions []string
	}{
		{
			name:        "clean resume",
			images:      0,
			skills:      []string{"Python", "React", "SQL"},
			score:       100,
			suggestions: []string{},
		},
		{
			name:        "images only",
			images:      2,
			skills:      []string{"Python", "React", "SQL", "CSS"},
			score:       80,
			suggestions: []string{SuggestionNoImages},
		},
		{
			name:        "few keywords only",
			images:      0,
			skills:      []string{"Python", "React"},
			score:       70,
			suggestions: []string{SuggestionMoreKeywords},
		},
		{
			name:        "both penalties, images first",
			images:      1,
			skills:      nil,
			score:       50,
			suggestions: []string{SuggestionNoImages, SuggestionMoreKeywords},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ScoreATS(tt.images, tt.skills)
			assert.Equal(t, tt.score, result.Score)
			assert.Equal(t, tt.suggestions, result.Suggestions)
			assert.Len(t, result.KeywordsFound, len(tt.skills))
		})
	}
}

func TestScoreATSAllowedValues(t *testing.T) {
	allowed := map[int]bool{100: true, 80: true, 70: true, 50: true}
	for images := 0; images < 3; images++ {
		for n := 0; n <= 5; n++ {
			result := ScoreATS(images, Vocabulary()[:n])
			assert.True(t, allowed[result.Score], "unexpected score %d", result.Score)
		}
	}
}

func TestScoreATSCopiesKeywords(t *testing.T) {
	skills := []string{"Python", "React", "SQL"}
	result := ScoreATS(0, skills)
	skills[0] = "changed"
	assert.Equal(t, "Python", result.KeywordsFound[0])
}
