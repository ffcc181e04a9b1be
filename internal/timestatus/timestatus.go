// Package timestatus derives lifecycle status and human readable durations from
// the date strings stored on person records. Every function is pure given the
// evaluator's clock and never fails: malformed input yields a sentinel string.
package timestatus

import (
	"fmt"
	"regexp"
	"time"
)

const (
	Undefined   = "Undefined"
	NotProvided = "Not provided"
	NotStarted  = "Not started"
	UnderMonth  = "<1m"
	NoExpiry    = "No expiry"

	Trial1    = "Trial 1"
	Trial2    = "Trial 2"
	Permanent = "Permanent"

	// DisplayLayout is the DD/MM/YYYY form used on employee records.
	DisplayLayout = "02/01/2006"
	// ISOLayout is the YYYY-MM-DD form used by date inputs.
	ISOLayout = "2006-01-02"

	TrialWindowDays   = 45
	HomologationDays  = 10
	defaultAgeRefDate = "2025-04-21"
)

var (
	displayPattern = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)
	isoPattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

type EmployeeStatus string

const (
	Hiring      EmployeeStatus = "Hiring"
	Onboarding  EmployeeStatus = "Onboarding"
	Active      EmployeeStatus = "Active"
	Deactivated EmployeeStatus = "Deactivated"
)

// Clock provides the reference "now".
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time {
	return time.Now()
}

// ClockFunc adapts a function to Clock.
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time {
	return f()
}

// Contract is the trial window the employee is in and when it ends.
type Contract struct {
	Status string `json:"status"`
	Expiry string `json:"expiry"`
}

type Evaluator struct {
	clock  Clock
	loc    *time.Location
	ageRef time.Time
}

// NewEvaluator builds an evaluator. A nil clock uses wall time, a nil location uses UTC.
func NewEvaluator(clock Clock, loc *time.Location) *Evaluator {
	if clock == nil {
		clock = realClock{}
	}
	if loc == nil {
		loc = time.UTC
	}
	ref, _ := time.ParseInLocation(ISOLayout, defaultAgeRefDate, loc)
	return &Evaluator{clock: clock, loc: loc, ageRef: ref}
}

// WithAgeReference overrides the date ages are computed against. An empty or
// malformed value switches to the evaluator's clock.
func (e *Evaluator) WithAgeReference(raw string) *Evaluator {
	cp := *e
	if t, ok := ParseDate(raw, e.loc); ok {
		cp.ageRef = t
	} else {
		cp.ageRef = time.Time{}
	}
	return &cp
}

func (e *Evaluator) Location() *time.Location {
	return e.loc
}

// Today is the current calendar day at midnight in the evaluator's location.
func (e *Evaluator) Today() time.Time {
	return midnight(e.clock.Now().In(e.loc))
}

func (e *Evaluator) Now() time.Time {
	return e.clock.Now().In(e.loc)
}

// ParseDate accepts DD/MM/YYYY or YYYY-MM-DD. Anything else is rejected without parsing.
func ParseDate(raw string, loc *time.Location) (time.Time, bool) {
	if loc == nil {
		loc = time.UTC
	}
	var layout string
	switch {
	case displayPattern.MatchString(raw):
		layout = DisplayLayout
	case isoPattern.MatchString(raw):
		layout = ISOLayout
	default:
		return time.Time{}, false
	}
	t, err := time.ParseInLocation(layout, raw, loc)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// FormatDate renders t as DD/MM/YYYY.
func FormatDate(t time.Time) string {
	return t.Format(DisplayLayout)
}

// Age returns whole years between birthDate and the age reference date.
func (e *Evaluator) Age(birthDate string) (int, bool) {
	birth, ok := ParseDate(birthDate, e.loc)
	if !ok {
		return 0, false
	}
	ref := e.ageRef
	if ref.IsZero() {
		ref = e.Today()
	}
	return yearsBetween(birth, ref), true
}

// AgeText is Age rendered for display.
func (e *Evaluator) AgeText(birthDate string) string {
	if birthDate == "" {
		return NotProvided
	}
	age, ok := e.Age(birthDate)
	if !ok {
		return Undefined
	}
	return fmt.Sprintf("%d", age)
}

// ContractStatus places today into one of the three half-open 45 day windows
// starting at admission.
func (e *Evaluator) ContractStatus(admissionDate string) Contract {
	admission, ok := ParseDate(admissionDate, e.loc)
	if !ok {
		return Contract{Status: Undefined, Expiry: Undefined}
	}

	days := daysBetween(admission, e.Today())
	switch {
	case days < 0:
		return Contract{Status: Undefined, Expiry: Undefined}
	case days < TrialWindowDays:
		return Contract{Status: Trial1, Expiry: FormatDate(admission.AddDate(0, 0, TrialWindowDays))}
	case days < 2*TrialWindowDays:
		return Contract{Status: Trial2, Expiry: FormatDate(admission.AddDate(0, 0, 2*TrialWindowDays))}
	default:
		return Contract{Status: Permanent, Expiry: NoExpiry}
	}
}

// TrialPeriods returns the end dates of both trial windows as DD/MM/YYYY.
func TrialPeriods(admissionDate string, loc *time.Location) (string, string, bool) {
	admission, ok := ParseDate(admissionDate, loc)
	if !ok {
		return "", "", false
	}
	first := admission.AddDate(0, 0, TrialWindowDays)
	second := first.AddDate(0, 0, TrialWindowDays)
	return FormatDate(first), FormatDate(second), true
}

// WorkDuration renders the elapsed years and months since admission, e.g. "1y 3m".
func (e *Evaluator) WorkDuration(admissionDate string) string {
	if admissionDate == "" {
		return Undefined
	}
	admission, ok := ParseDate(admissionDate, e.loc)
	if !ok {
		return Undefined
	}

	today := e.Today()
	if admission.After(today) {
		return NotStarted
	}

	years := today.Year() - admission.Year()
	months := int(today.Month()) - int(admission.Month())
	if months < 0 {
		years--
		months += 12
	}
	if today.Day() < admission.Day() {
		months--
		if months < 0 {
			years--
			months += 12
		}
	}

	result := ""
	if years > 0 {
		result = fmt.Sprintf("%dy", years)
	}
	if months > 0 {
		if result != "" {
			result += " "
		}
		result += fmt.Sprintf("%dm", months)
	}
	if result == "" {
		return UnderMonth
	}
	return result
}

// DerivedStatus applies the date-driven promotions Hiring -> Onboarding -> Active.
// It only ever raises the stored status and never touches Deactivated.
func (e *Evaluator) DerivedStatus(stored EmployeeStatus, admissionDate string) EmployeeStatus {
	if stored == Deactivated {
		return stored
	}
	admission, ok := ParseDate(admissionDate, e.loc)
	if !ok {
		return stored
	}

	now := e.Now()
	if midnight(now).Equal(admission) && stored == Hiring {
		return Onboarding
	}
	activeFrom := admission.AddDate(0, 0, 1)
	if now.After(activeFrom) && (stored == Hiring || stored == Onboarding) {
		return Active
	}
	return stored
}

// HomologationDate is the dismissal date plus ten calendar days, or "" when the
// dismissal date is not DD/MM/YYYY.
func HomologationDate(dismissalDate string, loc *time.Location) string {
	if !displayPattern.MatchString(dismissalDate) {
		return ""
	}
	t, ok := ParseDate(dismissalDate, loc)
	if !ok {
		return ""
	}
	return FormatDate(t.AddDate(0, 0, HomologationDays))
}

func (e *Evaluator) HomologationDate(dismissalDate string) string {
	return HomologationDate(dismissalDate, e.loc)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// daysBetween counts calendar days from a to b, ignoring DST shifts.
func daysBetween(a, b time.Time) int {
	ua := time.Date(a.Year(), a.Month(), a.Day(), 0, 0, 0, 0, time.UTC)
	ub := time.Date(b.Year(), b.Month(), b.Day(), 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func yearsBetween(birth, ref time.Time) int {
	years := ref.Year() - birth.Year()
	if ref.Month() < birth.Month() || (ref.Month() == birth.Month() && ref.Day() < birth.Day()) {
		years--
	}
	return years
}
