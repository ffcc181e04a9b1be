package employee

import (
	"fmt"
	"strings"

	"github.com/gocarina/gocsv"
)

const missingValue = "-"

// Company identifies the employer on the admission form header.
type Company struct {
	Name  string `json:"name"`
	TaxID string `json:"taxId"`
}

type ReportRow struct {
	Field string `json:"field"`
	Value string `json:"value"`
}

type ReportSection struct {
	Title string      `json:"title"`
	Rows  []ReportRow `json:"rows"`
}

// AdmissionForm is the printable summary of a hire. It is built on demand and
// never stored.
type AdmissionForm struct {
	Title    string          `json:"title"`
	Company  string          `json:"company"`
	TaxID    string          `json:"taxId"`
	Sections []ReportSection `json:"sections"`
	FileName string          `json:"fileName"`
}

type csvRow struct {
	Section string `csv:"Section"`
	Field   string `csv:"Field"`
	Value   string `csv:"Value"`
}

func orDash(v string) string {
	if strings.TrimSpace(v) == "" {
		return missingValue
	}
	return v
}

func rows(pairs ...string) []ReportRow {
	out := make([]ReportRow, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, ReportRow{Field: pairs[i], Value: orDash(pairs[i+1])})
	}
	return out
}

// BuildAdmissionForm lays out e under the employee, employer and benefits sections.
func BuildAdmissionForm(e Employee, c Company) AdmissionForm {
	brk := fmt.Sprintf("%s hours from %s to %s", orDash(e.BreakDuration), orDash(e.BreakStart), orDash(e.BreakEnd))

	return AdmissionForm{
		Title:   "Admission Form",
		Company: c.Name,
		TaxID:   c.TaxID,
		Sections: []ReportSection{
			{Title: "Employee Details", Rows: rows(
				"Name", e.Name,
				"Date of Birth", e.BirthDate,
				"Street", e.Street,
				"Number", e.Number,
				"Complement", e.Complement,
				"Neighborhood", e.Neighborhood,
				"City", e.City,
				"State", e.State,
				"Postal Code", e.Cep,
				"Contact", e.Contact,
				"Email", e.Email,
				"Gender", e.Gender,
				"Marital Status", e.MaritalStatus,
				"Race/Ethnicity", e.Race,
				"Nationality", e.Nationality,
				"Naturality", e.Naturality,
				"Education", e.Education,
				"ID (RG)", e.RG,
				"CPF", e.CPF,
				"PIS", e.PIS,
				"First Job", e.FirstJob,
				"RNE (If Foreigner)", e.RNE,
				"Validity", e.RNEValidity,
				"Visa Type", e.VisaType,
			)},
			{Title: "Employer Details", Rows: rows(
				"Contract Type", e.ContractType,
				"Admission Date", e.AdmissionDate,
				"Role", e.Role,
				"Salary", e.Salary,
				"Trial Period 1", e.TrialPeriod1,
				"Trial Period 2", e.TrialPeriod2,
				"Advance", e.Advance,
				"Start Time", e.WorkScheduleStart,
				"End Time", e.WorkScheduleEnd,
				"Break", brk,
				"Days Off", e.DaysOff,
			)},
			{Title: "Benefits", Rows: rows(
				"Transportation Allowance", e.TransportAllowance,
				"Daily Value (Transportation Allowance)", e.TransportAllowanceValue,
				"Meal Allowance", e.MealAllowance,
				"Daily Value (Meal Allowance)", e.MealAllowanceValue,
			)},
		},
		FileName: AdmissionFileName(e.Name),
	}
}

// AdmissionFileName is "<name>_Admission_Form.csv" with spaces kept as in the name.
func AdmissionFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		name = "Employee"
	}
	name = strings.NewReplacer("/", "_", "\\", "_", "\"", "").Replace(name)
	return name + "_Admission_Form.csv"
}

// CSV flattens the form into Section,Field,Value rows, preceded by the header lines.
func (f AdmissionForm) CSV() ([]byte, error) {
	out := []csvRow{
		{Section: f.Title, Field: "Company", Value: orDash(f.Company)},
		{Section: f.Title, Field: "CNPJ", Value: orDash(f.TaxID)},
	}
	for _, s := range f.Sections {
		for _, r := range s.Rows {
			out = append(out, csvRow{Section: s.Title, Field: r.Field, Value: r.Value})
		}
	}
	b, err := gocsv.MarshalBytes(&out)
	if err != nil {
		return nil, fmt.Errorf("admission form csv: %w", err)
	}
	return b, nil
}
