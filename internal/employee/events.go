package employee

import (
	"fmt"
	"regexp"
	"sort"
	"time"

	"github.com/frahmantamala/people-console/internal/timestatus"
)

const (
	EventBirthday    = "Birthday"
	EventAnniversary = "Company Anniversary"
	EventTrialEnd1   = "End of Trial Period 1"
	EventTrialEnd2   = "End of Trial Period 2"
)

var displayDate = regexp.MustCompile(`^\d{2}/\d{2}/\d{4}$`)

// Event is a dated occurrence on an employee's calendar.
type Event struct {
	EmployeeID string `json:"employeeId"`
	Name       string `json:"name"`
	Event      string `json:"event"`
	Date       string `json:"date"`
}

// Notice is an event that falls in the current week.
type Notice struct {
	Event
	On      string `json:"on"`
	Message string `json:"message"`
}

type dated struct {
	kind  string
	value string
	// recurring events repeat every year on the same day and month
	recurring bool
}

func eventDates(e Employee) []dated {
	return []dated{
		{kind: EventBirthday, value: e.BirthDate, recurring: true},
		{kind: EventAnniversary, value: e.AdmissionDate, recurring: true},
		{kind: EventTrialEnd1, value: e.TrialPeriod1},
		{kind: EventTrialEnd2, value: e.TrialPeriod2},
	}
}

// MonthEvents lists the events whose date falls in month, any year. Only
// DD/MM/YYYY values are considered.
func MonthEvents(employees []Employee, month time.Month, loc *time.Location) []Event {
	var out []Event
	for _, e := range employees {
		for _, d := range eventDates(e) {
			t, ok := parseDisplay(d.value, loc)
			if !ok || t.Month() != month {
				continue
			}
			out = append(out, Event{EmployeeID: e.ID, Name: e.Name, Event: d.kind, Date: d.value})
		}
	}
	sortEvents(out, loc)
	return out
}

// WeekEvents lists the events between the Monday and the Sunday of ref's week.
// Birthdays and anniversaries are matched on their occurrence in that week.
func WeekEvents(employees []Employee, ref time.Time, loc *time.Location) []Notice {
	if loc == nil {
		loc = time.UTC
	}
	monday, sunday := WeekOf(ref, loc)

	var out []Notice
	for _, e := range employees {
		for _, d := range eventDates(e) {
			t, ok := parseDisplay(d.value, loc)
			if !ok {
				continue
			}
			on, hit := occurrenceIn(t, d.recurring, monday, sunday)
			if !hit {
				continue
			}
			ev := Event{EmployeeID: e.ID, Name: e.Name, Event: d.kind, Date: d.value}
			out = append(out, Notice{
				Event:   ev,
				On:      timestatus.FormatDate(on),
				Message: fmt.Sprintf("%s of %s on %s", ev.Event, ev.Name, timestatus.FormatDate(on)),
			})
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		ti, _ := parseDisplay(out[i].On, loc)
		tj, _ := parseDisplay(out[j].On, loc)
		return ti.Before(tj)
	})
	return out
}

// WeekOf returns the Monday and the Sunday, at midnight in loc, of ref's week.
func WeekOf(ref time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.UTC
	}
	ref = ref.In(loc)
	day := time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, loc)
	offset := (int(day.Weekday()) + 6) % 7
	monday := day.AddDate(0, 0, -offset)
	return monday, monday.AddDate(0, 0, 6)
}

func occurrenceIn(t time.Time, recurring bool, from, to time.Time) (time.Time, bool) {
	if !recurring {
		return t, !t.Before(from) && !t.After(to)
	}
	// the week may straddle a new year
	for _, year := range []int{from.Year(), to.Year()} {
		on := time.Date(year, t.Month(), t.Day(), 0, 0, 0, 0, from.Location())
		if on.Month() != t.Month() {
			// 29/02 outside a leap year
			continue
		}
		if !on.Before(from) && !on.After(to) {
			return on, true
		}
	}
	return time.Time{}, false
}

func parseDisplay(raw string, loc *time.Location) (time.Time, bool) {
	if !displayDate.MatchString(raw) {
		return time.Time{}, false
	}
	return timestatus.ParseDate(raw, loc)
}

func sortEvents(evs []Event, loc *time.Location) {
	sort.SliceStable(evs, func(i, j int) bool {
		ti, _ := parseDisplay(evs[i].Date, loc)
		tj, _ := parseDisplay(evs[j].Date, loc)
		if ti.Day() != tj.Day() {
			return ti.Day() < tj.Day()
		}
		return evs[i].Name < evs[j].Name
	})
}
