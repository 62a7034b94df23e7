package scoring

import (
	"sort"

	"github.com/alexanderramin/placement/internal/domain"
)

// CanonicalSort orders matches by the deterministic ranking rules:
// 1. Score: higher first
// 2. Application deadline: earliest first (unset last)
// 3. Internship ID: lexical ascending
func CanonicalSort(matches []domain.Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]

		if a.Score != b.Score {
			return a.Score > b.Score
		}

		if a.Deadline.IsZero() != b.Deadline.IsZero() {
			return !a.Deadline.IsZero()
		}
		if !a.Deadline.Equal(b.Deadline) {
			return a.Deadline.Before(b.Deadline)
		}

		return a.InternshipID < b.InternshipID
	})
}

// Rank scores the student against every open internship, drops gated pairs,
// and returns the canonical ordering.
func Rank(student *domain.Student, internships []*domain.Internship, w Weights) []domain.Match {
	matches := make([]domain.Match, 0, len(internships))
	for _, in := range internships {
		if !in.HasOpenSlot() {
			continue
		}
		scored := ScoreMatch(ScoringInput{Student: student, Internship: in, Weights: w})
		if scored.Blocked || scored.Match.Score <= 0 {
			continue
		}
		matches = append(matches, scored.Match)
	}
	CanonicalSort(matches)
	return matches
}
