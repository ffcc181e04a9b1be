package employee

import (
	"sort"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/core/common/validation"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/frahmantamala/people-console/internal/timestatus"
)

// CreateRequest is the new-employee form.
type CreateRequest struct {
	Profile
}

func (r CreateRequest) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", r.Email).Required().Email()
	v.Field("admissionDate", r.AdmissionDate).DisplayDate().Custom(calendarDate("admissionDate"))
	v.Field("birthDate", r.BirthDate).Custom(anyDate("birthDate"))
	return v.Validate()
}

// UpdateRequest carries the profile fields to merge. Keys that are not profile
// fields are ignored.
type UpdateRequest store.Fields

func (r UpdateRequest) Validate() *internal.AppError {
	v := validation.NewValidator()
	if email, ok := r["email"]; ok {
		v.Field("email", email).Required().Email()
	}
	if adm, ok := r["admissionDate"]; ok {
		v.Field("admissionDate", adm).DisplayDate().Custom(calendarDate("admissionDate"))
	}
	if bd, ok := r["birthDate"]; ok {
		v.Field("birthDate", bd).Custom(anyDate("birthDate"))
	}
	if err := v.Validate(); err != nil {
		return err
	}
	return r.checkTypes()
}

// checkTypes rejects values that would not read back into a Profile.
func (r UpdateRequest) checkTypes() *internal.AppError {
	fields := r.fields()
	if raw, ok := fields["brands"]; ok && raw != nil {
		if _, ok := raw.(map[string]any); !ok {
			return internal.NewValidationFieldError("brands", "brands must be an object of booleans", internal.ErrCodeValidationFailed)
		}
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := store.Decode(store.Fields{k: fields[k]}, &Profile{}); err != nil {
			return internal.NewValidationFieldError(k, k+" has the wrong type", internal.ErrCodeValidationFailed)
		}
	}
	return nil
}

func (r UpdateRequest) fields() store.Fields {
	out := store.Fields{}
	for k, v := range r {
		if _, ok := profileKeys[k]; ok {
			out[k] = v
		}
	}
	return out
}

// calendarDate rejects strings in DD/MM/YYYY shape that name no real day, such as 31/02/2025.
func calendarDate(field string) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, ok := timestatus.ParseDate(s, nil); !ok {
			return internal.NewValidationFieldError(field, field+" is not a valid date", internal.ErrCodeInvalidDate)
		}
		return nil
	}
}

func anyDate(field string) func(interface{}) *internal.AppError {
	return func(value interface{}) *internal.AppError {
		s, _ := value.(string)
		if s == "" {
			return nil
		}
		if _, ok := timestatus.ParseDate(s, nil); !ok {
			return internal.NewValidationFieldError(field, field+" must be in DD/MM/YYYY or YYYY-MM-DD format", internal.ErrCodeInvalidDate)
		}
		return nil
	}
}

type ChecklistUpdate struct {
	Items map[string]bool `json:"items"`
}

type DismissalUpdate struct {
	Items         map[string]bool `json:"items"`
	DismissalDate string          `json:"dismissalDate"`
}

func (r DismissalUpdate) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("dismissalDate", r.DismissalDate).DisplayDate().Custom(calendarDate("dismissalDate"))
	return v.Validate()
}

// FinalizeRequest may carry the last checklist changes with the dismissal date.
type FinalizeRequest struct {
	Items         map[string]bool `json:"items"`
	DismissalDate string          `json:"dismissalDate"`
}

func (r FinalizeRequest) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("dismissalDate", r.DismissalDate).DisplayDate().Custom(calendarDate("dismissalDate"))
	return v.Validate()
}

// View is an employee with the values derived from today's date.
type View struct {
	Employee
	EffectiveStatus timestatus.EmployeeStatus `json:"effectiveStatus"`
	ShortName       string                    `json:"shortName"`
	Age             string                    `json:"age"`
	Contract        timestatus.Contract       `json:"contract"`
	WorkDuration    string                    `json:"workDuration"`
	SalaryText      string                    `json:"salaryText"`
	MissingFields   []string                  `json:"missingFields"`
	Complete        bool                      `json:"complete"`
}

// Groups lists employees by effective status, each sorted by name.
type Groups struct {
	Active      []View `json:"active"`
	Onboarding  []View `json:"onboarding"`
	Hiring      []View `json:"hiring"`
	Deactivated []View `json:"deactivated"`
}

type Created struct {
	Employee    View   `json:"employee"`
	Credentials string `json:"credentials"`
}

type MonthEventsResponse struct {
	Month  int     `json:"month"`
	Events []Event `json:"events"`
}

type WeekEventsResponse struct {
	From    string   `json:"from"`
	To      string   `json:"to"`
	Notices []Notice `json:"notices"`
}
