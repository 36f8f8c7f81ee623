package analysis

import (
	"sort"

	"resumetwin/internal/types"
)

const (
	MinTwinOverlap = 2
	MaxCareerTwins = 3
)

// MatchTwins scores each roster entry by the size of the intersection of its
// skill set with userSkills. Entries below MinTwinOverlap are dropped; the
// rest are sorted by score, ties keeping roster order, and cut to
// MaxCareerTwins. The roster is not modified.
func MatchTwins(userSkills []string, roster []types.CareerTwin) []types.CareerTwin {
	have := make(map[string]struct{}, len(userSkills))
	for _, s := range userSkills {
		have[s] = struct{}{}
	}

	matches := make([]types.CareerTwin, 0, MaxCareerTwins)
	for _, twin := range roster {
		overlap := overlapSize(have, twin.Skills)
		if overlap < MinTwinOverlap {
			continue
		}
		match := twin
		match.Skills = append([]string(nil), twin.Skills...)
		match.MatchScore = overlap
		matches = append(matches, match)
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].MatchScore > matches[j].MatchScore
	})

	if len(matches) > MaxCareerTwins {
		matches = matches[:MaxCareerTwins]
	}
	return matches
}

func overlapSize(have map[string]struct{}, skills []string) int {
	counted := make(map[string]struct{}, len(skills))
	for _, s := range skills {
		if _, ok := have[s]; ok {
			counted[s] = struct{}{}
		}
	}
	return len(counted)
}
