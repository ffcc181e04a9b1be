// Package scheduling keeps the open interview slots and the interviews booked
// onto them. A slot is available while no booked interview shares its start,
// end and type.
package scheduling

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/store"
)

// TimestampLayout is how slot boundaries are stored: UTC with milliseconds.
const TimestampLayout = "2006-01-02T15:04:05.000Z"

type Type string

const (
	Online   Type = "online"
	InPerson Type = "inperson"
)

func (t Type) Valid() bool {
	return t == Online || t == InPerson
}

var (
	ErrSlotNotFound      = internal.NewNotFoundError("interview slot not found", internal.ErrCodeSlotNotFound)
	ErrInterviewNotFound = internal.NewNotFoundError("scheduled interview not found", internal.ErrCodeInterviewNotFound)
	ErrSlotUnavailable   = internal.NewConflictError("interview slot is no longer available", internal.ErrCodeSlotUnavailable)
	ErrCandidateNotFound = internal.NewNotFoundError("candidate not found", internal.ErrCodeCandidateNotFound)
)

type Slot struct {
	Start string `json:"start"`
	End   string `json:"end"`
	Type  Type   `json:"type"`
}

// Key is the slot's document id. Two slots with the same start and type share it.
func (s Slot) Key() string {
	return SlotKey(s.Start, s.Type)
}

func SlotKey(start string, t Type) string {
	return start + "_" + string(t)
}

// Matches compares start, end and type.
func (s Slot) Matches(o Slot) bool {
	return s.Start == o.Start && s.End == o.End && s.Type == o.Type
}

// Interview is a booking, keyed by the candidate it belongs to.
type Interview struct {
	CandidateID   string `json:"candidateId"`
	CandidateName string `json:"candidateName,omitempty"`
	Start         string `json:"start"`
	End           string `json:"end"`
	Type          Type   `json:"type"`
	Link          string `json:"link,omitempty"`
}

func (i Interview) Slot() Slot {
	return Slot{Start: i.Start, End: i.End, Type: i.Type}
}

// Minutes decodes from either a JSON number or a numeric string.
type Minutes int

func (m *Minutes) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" || raw == `""` {
		*m = 0
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		raw = strings.TrimSpace(s)
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("duration must be a whole number of minutes: %w", err)
	}
	*m = Minutes(n)
	return nil
}

// BuildSlot turns form input into a stored slot. Date and time are read in loc
// and the result is converted to UTC.
func BuildSlot(in SlotInput, loc *time.Location) (Slot, error) {
	if err := in.Validate(); err != nil {
		return Slot{}, err
	}
	if loc == nil {
		loc = time.UTC
	}

	start, err := time.ParseInLocation("2006-01-02 15:04", in.Date+" "+in.Time, loc)
	if err != nil {
		return Slot{}, internal.NewValidationFieldError("date", "date and time do not form a valid instant", internal.ErrCodeInvalidSlot).WithCause(err)
	}
	end := start.Add(time.Duration(in.Duration) * time.Minute)

	t := in.Type
	if t == "" {
		t = Online
	}
	return Slot{
		Start: FormatTimestamp(start),
		End:   FormatTimestamp(end),
		Type:  t,
	}, nil
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// Available returns the slots no interview has taken, keeping slot order.
func Available(slots []Slot, booked []Interview) []Slot {
	out := make([]Slot, 0, len(slots))
	for _, s := range slots {
		if !isBooked(s, booked) {
			out = append(out, s)
		}
	}
	return out
}

func isBooked(s Slot, booked []Interview) bool {
	for _, b := range booked {
		if s.Matches(b.Slot()) {
			return true
		}
	}
	return false
}

func SlotToDocument(s Slot) store.Fields {
	return store.Fields{
		"start": s.Start,
		"end":   s.End,
		"type":  string(s.Type),
	}
}

func SlotFromDocument(doc store.Document) Slot {
	return Slot{
		Start: stringField(doc.Data, "start"),
		End:   stringField(doc.Data, "end"),
		Type:  Type(stringField(doc.Data, "type")),
	}
}

func InterviewToDocument(i Interview) store.Fields {
	f := store.Fields{
		"start": i.Start,
		"end":   i.End,
		"type":  string(i.Type),
	}
	if i.CandidateName != "" {
		f["candidateName"] = i.CandidateName
	}
	if i.Link != "" {
		f["link"] = i.Link
	}
	return f
}

func InterviewFromDocument(doc store.Document) Interview {
	return Interview{
		CandidateID:   doc.ID,
		CandidateName: stringField(doc.Data, "candidateName"),
		Start:         stringField(doc.Data, "start"),
		End:           stringField(doc.Data, "end"),
		Type:          Type(stringField(doc.Data, "type")),
		Link:          stringField(doc.Data, "link"),
	}
}

func stringField(f store.Fields, key string) string {
	if v, ok := f[key].(string); ok {
		return v
	}
	return ""
}
