// Package employee manages hired people: their profile, the hiring and
// dismissal checklists, the date-driven status and the reports built from them.
package employee

import (
	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/store"
	"github.com/frahmantamala/people-console/internal/timestatus"
)

var (
	ErrEmployeeNotFound    = internal.NewNotFoundError("employee not found", internal.ErrCodeEmployeeNotFound)
	ErrChecklistIncomplete = internal.NewValidationError("please complete all dismissal process steps before finalizing", internal.ErrCodeChecklistOpen)
	ErrUnknownItem         = internal.NewValidationError("unknown checklist item", internal.ErrCodeValidationFailed)
	ErrAlreadyDeactivated  = internal.ErrInvalidTransition.WithDetails(map[string]string{"reason": "employee is already deactivated"})
)

var Brands = []string{"b2Hive", "exnie", "fundsCap", "onEquity"}

var HiringItems = []string{
	"emailInvite",
	"docsSent",
	"addressProof",
	"ctpsDigital",
	"rgCnh",
	"cpf",
	"nis",
	"advanceCancellationLetter",
	"aso",
	"admissionDocs",
	"corporateEmailAccess",
	"crmAccess",
	"notebookOk",
	"notebookPowerOk",
	"appsInstalled",
	"additionalScreenOk",
}

var DismissalItems = []string{
	"corporateCommunication",
	"hrCommunication",
	"dismissalExam",
	"examGuidePrinted",
	"employeeNotice",
	"hrHomologationDocs",
	"printedHomologationDocs",
	"debtorPayment",
	"managerSignature",
	"employeeSignature",
}

// requiredFields must be filled before the profile counts as complete.
var requiredFields = []string{
	"name", "birthDate", "street", "number", "neighborhood", "city", "state",
	"cep", "contact", "email", "maritalStatus", "race", "education", "rg",
	"cpf", "pis", "salary", "workScheduleStart", "workScheduleEnd",
	"breakDuration", "breakStart", "breakEnd",
}

// moneyFields are kept as digits and a decimal comma only.
var moneyFields = []string{"salary", "transportAllowanceValue", "mealAllowanceValue"}

// Checklist is a fixed set of boolean steps.
type Checklist map[string]bool

// NewChecklist returns items with every step unchecked.
func NewChecklist(items []string) Checklist {
	c := make(Checklist, len(items))
	for _, it := range items {
		c[it] = false
	}
	return c
}

// Normalize keeps only the known items and fills the missing ones as false.
func (c Checklist) Normalize(items []string) Checklist {
	out := NewChecklist(items)
	for _, it := range items {
		out[it] = c[it]
	}
	return out
}

func (c Checklist) Complete(items []string) bool {
	for _, it := range items {
		if !c[it] {
			return false
		}
	}
	return true
}

// Apply sets the given steps. A key outside items fails with ErrUnknownItem.
func (c Checklist) Apply(items []string, changes map[string]bool) (Checklist, error) {
	out := c.Normalize(items)
	for k, v := range changes {
		if _, ok := out[k]; !ok {
			return nil, ErrUnknownItem.WithDetails(map[string]string{"item": k})
		}
		out[k] = v
	}
	return out, nil
}

// Profile holds the fields an HR user edits on the employee form.
type Profile struct {
	Name                    string          `json:"name"`
	BirthDate               string          `json:"birthDate"`
	Street                  string          `json:"street"`
	Number                  string          `json:"number"`
	Complement              string          `json:"complement"`
	Neighborhood            string          `json:"neighborhood"`
	City                    string          `json:"city"`
	State                   string          `json:"state"`
	Cep                     string          `json:"cep"`
	Contact                 string          `json:"contact"`
	Email                   string          `json:"email"`
	Gender                  string          `json:"gender"`
	MaritalStatus           string          `json:"maritalStatus"`
	Race                    string          `json:"race"`
	Nationality             string          `json:"nationality"`
	Naturality              string          `json:"naturality"`
	Education               string          `json:"education"`
	FamilyStructure         string          `json:"familyStructure"`
	RG                      string          `json:"rg"`
	CPF                     string          `json:"cpf"`
	PIS                     string          `json:"pis"`
	FirstJob                string          `json:"firstJob"`
	RNE                     string          `json:"rne"`
	RNEValidity             string          `json:"rneValidity"`
	VisaType                string          `json:"visaType"`
	ContractType            string          `json:"contractType"`
	AdmissionDate           string          `json:"admissionDate"`
	Role                    string          `json:"role"`
	Salary                  string          `json:"salary"`
	TrialPeriod1            string          `json:"trialPeriod1"`
	TrialPeriod2            string          `json:"trialPeriod2"`
	Advance                 string          `json:"advance"`
	WorkScheduleStart       string          `json:"workScheduleStart"`
	WorkScheduleEnd         string          `json:"workScheduleEnd"`
	BreakDuration           string          `json:"breakDuration"`
	BreakStart              string          `json:"breakStart"`
	BreakEnd                string          `json:"breakEnd"`
	DaysOff                 string          `json:"daysOff"`
	TransportAllowance      string          `json:"transportAllowance"`
	TransportAllowanceValue string          `json:"transportAllowanceValue"`
	MealAllowance           string          `json:"mealAllowance"`
	MealAllowanceValue      string          `json:"mealAllowanceValue"`
	Brands                  map[string]bool `json:"brands"`
}

// Employee is the stored record. Status is the stored value; the effective
// status is derived on read and never written back.
type Employee struct {
	ID string `json:"id"`
	Profile
	Status           timestatus.EmployeeStatus `json:"status"`
	HiringProcess    Checklist                 `json:"hiringProcess"`
	DismissalProcess Checklist                 `json:"dismissalProcess,omitempty"`
	DismissalDate    string                    `json:"dismissalDate,omitempty"`
	HomologationDate string                    `json:"homologationDate,omitempty"`
	CreatedAt        string                    `json:"createdAt,omitempty"`
}

// profileKeys are the document keys an update may touch.
var profileKeys = func() map[string]struct{} {
	f, err := store.Encode(Profile{})
	if err != nil {
		panic(err)
	}
	keys := make(map[string]struct{}, len(f))
	for k := range f {
		keys[k] = struct{}{}
	}
	return keys
}()

// WithDefaults fills the blank form fields with the values a new hire starts with.
func (p Profile) WithDefaults() Profile {
	def := func(v *string, d string) {
		if *v == "" {
			*v = d
		}
	}
	def(&p.City, "São Paulo")
	def(&p.State, "SP")
	def(&p.Gender, "Male")
	def(&p.Nationality, "Brazilian")
	def(&p.Naturality, "Brazil")
	def(&p.FirstJob, "No")
	def(&p.ContractType, "Employee/CLT")
	def(&p.Role, "Junior Administrative Analyst")
	def(&p.Advance, "No")
	def(&p.DaysOff, "Sunday/Weekday")
	def(&p.TransportAllowance, "No")
	def(&p.MealAllowance, "No")

	brands := make(map[string]bool, len(Brands))
	for _, b := range Brands {
		brands[b] = p.Brands[b]
	}
	p.Brands = brands
	return p
}

func ToDocument(e Employee) (store.Fields, error) {
	f, err := store.Encode(e)
	if err != nil {
		return nil, err
	}
	delete(f, "id")
	return f, nil
}

func FromDocument(doc store.Document) (Employee, error) {
	var e Employee
	if err := store.Decode(doc.Data, &e); err != nil {
		return Employee{}, err
	}
	e.ID = doc.ID
	if e.Status == "" {
		e.Status = timestatus.Hiring
	}
	e.HiringProcess = e.HiringProcess.Normalize(HiringItems)
	return e, nil
}

// prepare sanitizes money values and recomputes the trial period ends when
// the admission date is part of f.
func prepare(f store.Fields, ev *timestatus.Evaluator) store.Fields {
	for _, k := range moneyFields {
		if s, ok := f[k].(string); ok {
			f[k] = SanitizeMoney(s)
		}
	}
	if raw, ok := f["admissionDate"].(string); ok {
		if t1, t2, ok := timestatus.TrialPeriods(raw, ev.Location()); ok {
			f["trialPeriod1"] = t1
			f["trialPeriod2"] = t2
		}
	}
	return f
}
