// Package recommend scores catalog activities against a user's preference
// profile. It is pure: persistence of the results lives in the service layer.
package recommend

import (
	"fmt"
	"slices"
	"strings"

	"github.com/tinytrails/backend/internal/domain"
)

// Band weights. An activity can score at most 0.8.
const (
	InterestWeight      = 0.3
	AgeRangeWeight      = 0.3
	AccessibilityWeight = 0.2
)

// Limit is the maximum number of recommendations kept per user.
const Limit = 10

const (
	reasonInterest = "Passt zu euren Interessen"
	reasonAgeRange = "Geeignet für das Alter eurer Kinder"
)

// Score ranks activities for the profile's user. Activities without any
// matching band are dropped; the rest are ordered by score, highest first,
// keeping catalog order for ties, and capped at Limit.
func Score(profile domain.Preference, activities []domain.Activity) []domain.Recommendation {
	recs := []domain.Recommendation{}
	for _, a := range activities {
		score, reasons := scoreActivity(profile, a)
		if score <= 0 {
			continue
		}
		recs = append(recs, domain.Recommendation{
			ActivityID: a.ID,
			UserID:     profile.UserID,
			Score:      score,
			Reason:     strings.Join(reasons, ". "),
		})
	}

	slices.SortStableFunc(recs, func(a, b domain.Recommendation) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if len(recs) > Limit {
		recs = recs[:Limit]
	}
	return recs
}

func scoreActivity(p domain.Preference, a domain.Activity) (float64, []string) {
	var (
		score   float64
		reasons []string
	)

	if matchesInterest(a.Type, p.Interests) {
		score += InterestWeight
		reasons = append(reasons, reasonInterest)
	}

	if matchesAgeRange(a.AgeRange, p.ChildAgeRanges) {
		score += AgeRangeWeight
		reasons = append(reasons, reasonAgeRange)
	}

	matched := countAccessibility(a.Description, p.AccessibilityNeeds)
	if matched > 0 {
		// An empty needs list divides by one; matched is zero then anyway.
		total := max(len(p.AccessibilityNeeds), 1)
		score += AccessibilityWeight * float64(matched) / float64(total)
		reasons = append(reasons, fmt.Sprintf("Erfüllt %d von %d Barrierefreiheits-Anforderungen", matched, total))
	}

	return score, reasons
}

// matchesInterest reports whether the category contains any interest tag,
// ignoring case.
func matchesInterest(category string, interests []string) bool {
	category = strings.ToLower(category)
	for _, tag := range interests {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag != "" && strings.Contains(category, tag) {
			return true
		}
	}
	return false
}

func matchesAgeRange(activityRanges, childRanges []string) bool {
	for _, r := range childRanges {
		if slices.Contains(activityRanges, r) {
			return true
		}
	}
	return false
}

// countAccessibility counts needs mentioned in the description, ignoring case.
func countAccessibility(description *string, needs []string) int {
	if description == nil || len(needs) == 0 {
		return 0
	}
	desc := strings.ToLower(*description)
	n := 0
	for _, need := range needs {
		need = strings.ToLower(strings.TrimSpace(need))
		if need != "" && strings.Contains(desc, need) {
			n++
		}
	}
	return n
}
