// Package candidate runs the recruiting pipeline: intake from the public form,
// the status transitions and promotion of an interviewed candidate to employee.
package candidate

import (
	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/store"
)

type Status string

const (
	StatusCandidates Status = "Candidates"
	StatusOnHold     Status = "On Hold"
	StatusInterview  Status = "Interview"
	StatusDeclined   Status = "Declined"
)

type Action string

const (
	ActionDecline   Action = "decline"
	ActionHold      Action = "hold"
	ActionInterview Action = "interview"
	ActionRestore   Action = "restore"
	ActionApprove   Action = "approve"
)

var (
	ErrCandidateNotFound = internal.NewNotFoundError("candidate not found", internal.ErrCodeCandidateNotFound)
	ErrMissingEmail      = internal.NewValidationError("Candidate email not found.", internal.ErrCodeMissingEmail)
	ErrMissingCV         = internal.NewValidationFieldError("cv", "Please attach your CV in PDF format.", internal.ErrCodeMissingCV)
	ErrMissingLink       = internal.NewNotFoundError("No interview link available.", internal.ErrCodeMissingLink)
)

type transition struct {
	from   Status
	action Action
}

// transitions lists every allowed status change. Approve is absent because it
// removes the candidate instead of moving it.
var transitions = map[transition]Status{
	{StatusCandidates, ActionDecline}:   StatusDeclined,
	{StatusOnHold, ActionDecline}:       StatusDeclined,
	{StatusInterview, ActionDecline}:    StatusDeclined,
	{StatusCandidates, ActionHold}:      StatusOnHold,
	{StatusOnHold, ActionHold}:          StatusCandidates,
	{StatusCandidates, ActionInterview}: StatusInterview,
	{StatusOnHold, ActionInterview}:     StatusInterview,
	{StatusDeclined, ActionRestore}:     StatusInterview,
}

// Next returns the status action leads to from status from.
func Next(from Status, action Action) (Status, error) {
	to, ok := transitions[transition{from, action}]
	if !ok {
		return "", internal.ErrInvalidTransition
	}
	return to, nil
}

// CanApprove reports whether a candidate in status s may be promoted.
func CanApprove(s Status) bool {
	return s == StatusInterview
}

// sendsDeclineEmail reports whether declining from s notifies the candidate.
// Declines after an interview are silent.
func sendsDeclineEmail(from Status) bool {
	return from == StatusCandidates || from == StatusOnHold
}

// Application is what a candidate fills in on the public form.
type Application struct {
	FullName                  string `json:"fullName"`
	Email                     string `json:"email"`
	BirthDate                 string `json:"birthDate"`
	Contact                   string `json:"contact"`
	CEP                       string `json:"cep"`
	Street                    string `json:"street"`
	Number                    string `json:"number"`
	Complement                string `json:"complement,omitempty"`
	Neighborhood              string `json:"neighborhood"`
	City                      string `json:"city"`
	FamilyStructure           string `json:"familyStructure"`
	Hobbies                   string `json:"hobbies"`
	PersonalGoals             string `json:"personalGoals"`
	Education                 string `json:"education"`
	EnglishFluency            string `json:"englishFluency"`
	SpanishFluency            string `json:"spanishFluency"`
	CoursesLastYear           string `json:"coursesLastYear"`
	DevelopmentAreas          string `json:"developmentAreas"`
	ProfessionalGoals         string `json:"professionalGoals"`
	Strengths                 string `json:"strengths"`
	LastSalary                string `json:"lastSalary"`
	CustomerSupportExperience string `json:"customerSupportExperience"`
	KYCExperience             string `json:"kycExperience"`
	ProfessionalAchievement   string `json:"professionalAchievement"`
	ProfessionalGrowth        string `json:"professionalGrowth"`
	Motivations               string `json:"motivations"`
	DISCProfile               string `json:"discProfile"`
	Doubts                    string `json:"doubts"`
	WeekendAvailability       string `json:"weekendAvailability"`
	StartAvailability         string `json:"startAvailability"`
}

// Candidate is a stored application with its pipeline state.
type Candidate struct {
	ID string `json:"id"`
	Application
	Status           Status `json:"status"`
	RegistrationDate string `json:"registrationDate"`
	CV               string `json:"cv,omitempty"`
	Photo            string `json:"photo,omitempty"`
	InterviewLink    string `json:"interviewLink,omitempty"`
}

func ToDocument(c Candidate) (store.Fields, error) {
	f, err := store.Encode(c)
	if err != nil {
		return nil, err
	}
	delete(f, "id")
	return f, nil
}

func FromDocument(doc store.Document) (Candidate, error) {
	var c Candidate
	if err := store.Decode(doc.Data, &c); err != nil {
		return Candidate{}, err
	}
	c.ID = doc.ID
	return c, nil
}

// employeeFields are copied onto the employee record on approval, keyed by
// candidate field with the employee field as value.
var employeeFields = [][2]string{
	{"fullName", "name"},
	{"email", "email"},
	{"birthDate", "birthDate"},
	{"contact", "contact"},
	{"cep", "cep"},
	{"street", "street"},
	{"number", "number"},
	{"complement", "complement"},
	{"neighborhood", "neighborhood"},
	{"city", "city"},
	{"familyStructure", "familyStructure"},
	{"education", "education"},
}

// EmployeeRecord builds the employee document a promoted candidate starts as.
func EmployeeRecord(candidate store.Fields, status, createdAt string) store.Fields {
	out := store.Fields{"status": status, "createdAt": createdAt}
	for _, pair := range employeeFields {
		if v, ok := candidate[pair[0]]; ok && v != nil {
			out[pair[1]] = v
		}
	}
	return out
}
