// Package recurrence decides when recurring transactions are due and projects
// their next occurrence. Every function is pure: the caller passes "today" and
// the rule, and owns persisting LastGenerated after materializing an occurrence.
package recurrence

import (
	"time"

	"github.com/castlemilk/pfinance/automation/internal/model"
)

// weeklyGuard is the minimum time between two weekly occurrences. It keeps a
// rule from firing twice on its due day when the job runs more than once.
const weeklyGuard = 6 * 24 * time.Hour

// maxProjectionMonths bounds the search for a month containing DayOfMonth.
const maxProjectionMonths = 12

// maxProjectionYears bounds the search for a year containing the rule's month/day
// (Feb 29 needs at most eight years across a skipped leap year).
const maxProjectionYears = 8

// Evaluation is the result of checking a rule against a given day.
type Evaluation struct {
	Due       bool
	Next      time.Time
	Completed bool // the next projected occurrence is past EndDate
	Expired   bool // inactive, or EndDate is before today
	Err       error
}

// Validate reports whether the rule carries the fields its frequency needs.
func Validate(rule *model.RecurrenceRule) error {
	if rule == nil {
		return model.NewValidationError("rule", "is nil", nil)
	}
	if rule.StartDate.IsZero() {
		return model.NewValidationError("startDate", "is required", nil)
	}
	switch rule.Frequency {
	case model.FrequencyDaily:
	case model.FrequencyWeekly:
		if rule.DayOfWeek == nil {
			return model.NewValidationError("dayOfWeek", "is required for weekly rules", nil)
		}
		if *rule.DayOfWeek < 0 || *rule.DayOfWeek > 6 {
			return model.NewValidationError("dayOfWeek", "must be between 0 and 6", *rule.DayOfWeek)
		}
	case model.FrequencyMonthly, model.FrequencyYearly:
		if rule.DayOfMonth == nil {
			return model.NewValidationError("dayOfMonth", "is required for "+string(rule.Frequency)+" rules", nil)
		}
		if *rule.DayOfMonth < 1 || *rule.DayOfMonth > 31 {
			return model.NewValidationError("dayOfMonth", "must be between 1 and 31", *rule.DayOfMonth)
		}
	default:
		return model.NewValidationError("frequency", "unknown frequency", string(rule.Frequency))
	}
	return nil
}

// IsDue reports whether a new occurrence of rule should be materialized today.
// Malformed rules are never due; use Validate or Evaluate to surface why.
func IsDue(rule *model.RecurrenceRule, today time.Time) bool {
	if Validate(rule) != nil {
		return false
	}
	if !inWindow(rule, today) {
		return false
	}

	last := rule.LastGenerated

	switch rule.Frequency {
	case model.FrequencyDaily:
		return last == nil || !sameDay(last.In(today.Location()), today)

	case model.FrequencyWeekly:
		if int(today.Weekday()) != *rule.DayOfWeek {
			return false
		}
		return last == nil || today.Sub(*last) >= weeklyGuard

	case model.FrequencyMonthly:
		if today.Day() != *rule.DayOfMonth {
			return false
		}
		if last == nil {
			return true
		}
		l := last.In(today.Location())
		return l.Year() != today.Year() || l.Month() != today.Month()

	case model.FrequencyYearly:
		if today.Day() != *rule.DayOfMonth || today.Month() != rule.StartDate.In(today.Location()).Month() {
			return false
		}
		return last == nil || last.In(today.Location()).Year() != today.Year()
	}

	return false
}

// NextOccurrence projects the first occurrence strictly after today. completed is
// true when that date falls after the rule's EndDate; the returned time is then
// the projection that overshot.
func NextOccurrence(rule *model.RecurrenceRule, today time.Time) (next time.Time, completed bool, err error) {
	if err := Validate(rule); err != nil {
		return time.Time{}, false, err
	}

	from := startOfDay(today)
	// A rule that has not started yet fires on or after its start date.
	if start := startOfDay(rule.StartDate.In(today.Location())); start.After(from) {
		from = start.AddDate(0, 0, -1)
	}

	switch rule.Frequency {
	case model.FrequencyDaily:
		next = from.AddDate(0, 0, 1)

	case model.FrequencyWeekly:
		offset := (*rule.DayOfWeek - int(from.Weekday()) + 7) % 7
		if offset == 0 {
			offset = 7
		}
		next = from.AddDate(0, 0, offset)

	case model.FrequencyMonthly:
		next, err = nextMonthly(from, *rule.DayOfMonth)

	case model.FrequencyYearly:
		next, err = nextYearly(from, rule.StartDate.In(today.Location()).Month(), *rule.DayOfMonth)
	}
	if err != nil {
		return time.Time{}, false, err
	}

	if rule.EndDate != nil && startOfDay(next).After(startOfDay(rule.EndDate.In(today.Location()))) {
		return next, true, nil
	}
	return next, false, nil
}

// Evaluate combines IsDue and NextOccurrence into a single result.
func Evaluate(rule *model.RecurrenceRule, today time.Time) Evaluation {
	if err := Validate(rule); err != nil {
		return Evaluation{Err: err}
	}

	ev := Evaluation{
		Due:     IsDue(rule, today),
		Expired: !rule.Active || endedBefore(rule, today),
	}
	ev.Next, ev.Completed, ev.Err = NextOccurrence(rule, today)
	return ev
}

// inWindow reports whether the rule can fire on today at all.
func inWindow(rule *model.RecurrenceRule, today time.Time) bool {
	if !rule.Active {
		return false
	}
	day := startOfDay(today)
	if startOfDay(rule.StartDate.In(today.Location())).After(day) {
		return false
	}
	return !endedBefore(rule, today)
}

func endedBefore(rule *model.RecurrenceRule, today time.Time) bool {
	if rule.EndDate == nil {
		return false
	}
	return startOfDay(rule.EndDate.In(today.Location())).Before(startOfDay(today))
}

func nextMonthly(from time.Time, dayOfMonth int) (time.Time, error) {
	y, m, _ := from.Date()
	for i := 0; i <= maxProjectionMonths; i++ {
		candidate, ok := dateIfExists(y, m+time.Month(i), dayOfMonth, from.Location())
		if ok && candidate.After(from) {
			return candidate, nil
		}
	}
	return time.Time{}, model.NewValidationError("dayOfMonth", "no matching day within a year", dayOfMonth)
}

func nextYearly(from time.Time, month time.Month, dayOfMonth int) (time.Time, error) {
	for i := 0; i <= maxProjectionYears; i++ {
		candidate, ok := dateIfExists(from.Year()+i, month, dayOfMonth, from.Location())
		if ok && candidate.After(from) {
			return candidate, nil
		}
	}
	return time.Time{}, model.NewValidationError("dayOfMonth", "no matching date for month", month.String())
}

// dateIfExists builds y-m-d, reporting false when the day does not exist in that
// month (time.Date would silently roll Feb 31 into March).
func dateIfExists(y int, m time.Month, d int, loc *time.Location) (time.Time, bool) {
	t := time.Date(y, m, d, 0, 0, 0, 0, loc)
	return t, t.Day() == d
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
