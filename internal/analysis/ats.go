package analysis

import "resumetwin/internal/types"

const (
	atsBaseScore      = 100
	imagePenalty      = 20
	keywordPenalty    = 30
	minKeywordsForATS = 3

	SuggestionNoImages     = "Avoid using images in resume."
	SuggestionMoreKeywords = "Add more job-relevant keywords like Python, HTML, etc."
)

// ScoreATS applies the two ATS rules. The image suggestion, when present,
// always comes before the keyword suggestion. The score is not clamped.
func ScoreATS(imageCount int, skills []string) types.ATSResult {
	score := atsBaseScore
	suggestions := make([]string, 0, 2)

	if imageCount > 0 {
		score -= imagePenalty
		suggestions = append(suggestions, SuggestionNoImages)
	}

	if len(skills) < minKeywordsForATS {
		score -= keywordPenalty
		suggestions = append(suggestions, SuggestionMoreKeywords)
	}

	keywords := make([]string, len(skills))
	copy(keywords, skills)

	return types.ATSResult{
		Score:         score,
		Suggestions:   suggestions,
		KeywordsFound: keywords,
	}
}
