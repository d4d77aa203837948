// Package duplicates flags a transaction being entered as a probable repeat of
// a recent one. It is advisory: callers show the match as a dismissible warning.
package duplicates

import (
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/castlemilk/pfinance/automation/internal/model"
	"golang.org/x/text/cases"
)

// DefaultWindowDays is the number of days either side of the candidate's date
// searched for duplicates.
const DefaultWindowDays = 3

// Confidence is the tier of a duplicate match.
type Confidence string

const (
	// ConfidenceExact means same amount (within a cent) and matching description.
	ConfidenceExact Confidence = "exact"
	// ConfidenceClose means a similar amount and overlapping description.
	ConfidenceClose Confidence = "close"
)

const (
	amountEpsilon       = 0.01
	closeRelativeDelta  = 0.05
	closeAbsoluteDelta  = 1.0
	exactContainsMinLen = 4
	closeContainsMinLen = 3
)

// Match is a probable duplicate of the candidate.
type Match struct {
	Transaction model.Transaction `json:"transaction"`
	Confidence  Confidence        `json:"confidence"`
}

// FindDuplicate returns the best match for candidate among recent, or nil.
// Only transactions with a different id, the same type and category, and a date
// within windowDays of the candidate are considered. An exact match anywhere in
// the window wins over a close one; within a tier the first match wins.
func FindDuplicate(candidate model.Transaction, recent []model.Transaction, windowDays int) *Match {
	if windowDays <= 0 {
		windowDays = DefaultWindowDays
	}
	window := time.Duration(windowDays) * 24 * time.Hour
	from, to := candidate.Date.Add(-window), candidate.Date.Add(window)

	var pool []model.Transaction
	for _, t := range recent {
		if candidate.ID != "" && t.ID == candidate.ID {
			continue
		}
		if t.Type != candidate.Type || t.Category != candidate.Category {
			continue
		}
		if t.Date.Before(from) || t.Date.After(to) {
			continue
		}
		pool = append(pool, t)
	}
	if len(pool) == 0 {
		return nil
	}

	desc := normalize(candidate.Description)

	for _, t := range pool {
		if math.Abs(t.Amount-candidate.Amount) >= amountEpsilon {
			continue
		}
		other := normalize(t.Description)
		if desc == other || overlaps(desc, other, exactContainsMinLen) {
			return &Match{Transaction: t, Confidence: ConfidenceExact}
		}
	}

	for _, t := range pool {
		if !closeAmount(candidate.Amount, t.Amount) {
			continue
		}
		if overlaps(desc, normalize(t.Description), closeContainsMinLen) {
			return &Match{Transaction: t, Confidence: ConfidenceClose}
		}
	}

	return nil
}

func closeAmount(candidate, other float64) bool {
	diff := math.Abs(other - candidate)
	if diff < closeAbsoluteDelta {
		return true
	}
	return candidate > 0 && diff/candidate < closeRelativeDelta
}

// overlaps reports whether both descriptions are longer than minLen characters
// and one contains the other.
func overlaps(a, b string, minLen int) bool {
	if utf8.RuneCountInString(a) <= minLen || utf8.RuneCountInString(b) <= minLen {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// normalize case-folds s. Casers are stateful, so each call gets its own.
func normalize(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
