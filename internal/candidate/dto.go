package candidate

import (
	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/core/common/validation"
	"github.com/frahmantamala/people-console/internal/files"
	"github.com/frahmantamala/people-console/internal/notify"
	"github.com/frahmantamala/people-console/internal/scheduling"
	"github.com/frahmantamala/people-console/internal/store"
)

// requiredFields are the form fields an application cannot be sent without.
var requiredFields = []string{
	"fullName", "email", "birthDate", "contact", "cep", "street", "number",
	"neighborhood", "city", "education",
}

// Submission is a parsed public form post.
type Submission struct {
	Application
	CV    *files.Upload
	Photo *files.Upload
}

// Validate checks the form before anything is uploaded.
func (s Submission) Validate() *internal.AppError {
	if s.CV == nil {
		return ErrMissingCV
	}
	fields, err := store.Encode(s.Application)
	if err != nil {
		return internal.NewValidationError("invalid application", internal.ErrCodeValidationFailed)
	}

	v := validation.NewValidator()
	for _, name := range validation.MissingFields(fields, requiredFields) {
		v.Field(name, "").Required()
	}
	v.Field("email", s.Email).Email()
	v.Field("birthDate", s.BirthDate).ISODate()
	return v.Validate()
}

type InviteRequest struct {
	Type scheduling.Type `json:"type"`
}

func (r InviteRequest) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("type", string(r.Type)).Required().OneOf(string(scheduling.Online), string(scheduling.InPerson))
	return v.Validate()
}

// View is a candidate as the console lists it.
type View struct {
	Candidate
	Age           string `json:"age"`
	InterviewDate string `json:"interviewDate,omitempty"`
}

// Groups are the three lists the candidates page shows.
type Groups struct {
	Interview  []View `json:"interview"`
	Candidates []View `json:"candidates"`
	Declined   []View `json:"declined"`
}

// ActionResult reports what an action wrote and whether its email went out.
type ActionResult struct {
	Candidate    *Candidate     `json:"candidate,omitempty"`
	EmployeeID   string         `json:"employee_id,omitempty"`
	Notification notify.Outcome `json:"notification"`
}

type InviteResult struct {
	CalendarLink string         `json:"calendar_link"`
	Notification notify.Outcome `json:"notification"`
}

type LinkResponse struct {
	Link string `json:"link"`
}

type SubmitResponse struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}
