// Package analysis holds the resume matching rules: skill extraction, ATS
// scoring, career twin matching, role skill gaps and growth paths.
// Every function here is pure over its inputs.
package analysis

import (
	"strings"

	"github.com/ecodeclub/ekit/slice"
)

// skillVocabulary is scanned in this order, so extracted skills keep it.
var skillVocabulary = []string{
	"Python",
	"JavaScript",
	"React",
	"HTML",
	"CSS",
	"SQL",
	"Machine Learning",
	"TensorFlow",
	"Figma",
	"Kotlin",
}

// Vocabulary returns a copy of the skill keywords recognised in resumes.
func Vocabulary() []string {
	return slice.Map(skillVocabulary, func(_ int, kw string) string { return kw })
}

// ExtractSkills returns each vocabulary keyword whose lowercase form occurs
// anywhere in the lowercased text, in vocabulary order. Matching is plain
// substring: "React" also matches "Reactive".
func ExtractSkills(text string) []string {
	lower := strings.ToLower(text)
	return slice.FindAll(skillVocabulary, func(kw string) bool {
		return strings.Contains(lower, strings.ToLower(kw))
	})
}

// NormalizeSkills trims each value, drops empties and removes duplicates,
// keeping the first occurrence.
func NormalizeSkills(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
