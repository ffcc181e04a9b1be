package employee_test

import (
	"strings"
	"time"

	"github.com/frahmantamala/people-console/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = DescribeTable("ShortName",
	func(in, want string) {
		Expect(employee.ShortName(in)).To(Equal(want))
	},
	Entry("blank", "", "Not informed"),
	Entry("single word", "Ana", "Ana"),
	Entry("first and last", "Ana Maria Souza", "Ana Souza"),
	Entry("extra spaces", "  Ana   Souza  ", "Ana Souza"),
)

var _ = DescribeTable("FormatBRL",
	func(in, want string) {
		Expect(employee.FormatBRL(in)).To(Equal(want))
	},
	Entry("empty", "", "R$ 0,00"),
	Entry("cents", "1234,56", "R$ 1.234,56"),
	Entry("one decimal", "12,5", "R$ 12,50"),
	Entry("formatted input", "R$ 2.500", "R$ 2.500,00"),
	Entry("millions", "1000000", "R$ 1.000.000,00"),
	Entry("no grouping", "999", "R$ 999,00"),
	Entry("garbage", "abc", "R$ 0,00"),
)

var _ = Describe("SanitizeMoney", func() {
	It("keeps digits and commas only", func() {
		Expect(employee.SanitizeMoney("R$ 3.200,50")).To(Equal("3200,50"))
	})
})

var _ = Describe("Checklist", func() {
	It("starts with every step unchecked", func() {
		c := employee.NewChecklist(employee.DismissalItems)
		Expect(c).To(HaveLen(10))
		Expect(c.Complete(employee.DismissalItems)).To(BeFalse())
	})

	It("drops unknown keys and fills missing ones on normalize", func() {
		c := employee.Checklist{"aso": true, "legacy": true}.Normalize(employee.HiringItems)
		Expect(c).To(HaveLen(16))
		Expect(c["aso"]).To(BeTrue())
		Expect(c).NotTo(HaveKey("legacy"))
	})

	It("rejects an unknown step", func() {
		_, err := employee.NewChecklist(employee.HiringItems).Apply(employee.HiringItems, map[string]bool{"coffee": true})
		Expect(err).To(MatchError(employee.ErrUnknownItem))
	})

	It("is complete once every step is set", func() {
		all := map[string]bool{}
		for _, it := range employee.DismissalItems {
			all[it] = true
		}
		c, err := employee.Checklist(nil).Apply(employee.DismissalItems, all)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Complete(employee.DismissalItems)).To(BeTrue())
	})
})

var _ = Describe("Profile defaults", func() {
	It("fills blanks and keeps given values", func() {
		p := employee.Profile{City: "Campinas"}.WithDefaults()
		Expect(p.City).To(Equal("Campinas"))
		Expect(p.State).To(Equal("SP"))
		Expect(p.ContractType).To(Equal("Employee/CLT"))
		Expect(p.Role).To(Equal("Junior Administrative Analyst"))
		Expect(p.Brands).To(Equal(map[string]bool{"b2Hive": false, "exnie": false, "fundsCap": false, "onEquity": false}))
	})
})

var _ = Describe("Calendar events", func() {
	people := []employee.Employee{
		{ID: "e1", Profile: employee.Profile{
			Name: "Ana Souza", BirthDate: "05/05/1990", AdmissionDate: "10/03/2025",
			TrialPeriod1: "24/04/2025", TrialPeriod2: "08/06/2025",
		}},
		{ID: "e2", Profile: employee.Profile{
			Name: "Bruno Lima", BirthDate: "1991-05-20", AdmissionDate: "24/03/2025",
			TrialPeriod1: "09/05/2025", TrialPeriod2: "23/06/2025",
		}},
		{ID: "e3", Profile: employee.Profile{Name: "Carla Dias", BirthDate: "02/01/1988"}},
	}

	It("lists the month's DD/MM/YYYY events", func() {
		evs := employee.MonthEvents(people, time.May, time.UTC)

		Expect(evs).To(HaveLen(2))
		Expect(evs[0]).To(Equal(employee.Event{EmployeeID: "e1", Name: "Ana Souza", Event: employee.EventBirthday, Date: "05/05/1990"}))
		Expect(evs[1].Event).To(Equal(employee.EventTrialEnd1))
		Expect(evs[1].Name).To(Equal("Bruno Lima"))
	})

	It("lists the week's events from Monday to Sunday", func() {
		ref := time.Date(2025, 5, 7, 15, 0, 0, 0, time.UTC)

		notices := employee.WeekEvents(people, ref, time.UTC)

		Expect(notices).To(HaveLen(2))
		Expect(notices[0].Message).To(Equal("Birthday of Ana Souza on 05/05/2025"))
		Expect(notices[1].Message).To(Equal("End of Trial Period 1 of Bruno Lima on 09/05/2025"))
	})

	It("finds birthdays in a week spanning the new year", func() {
		ref := time.Date(2025, 12, 31, 8, 0, 0, 0, time.UTC)

		notices := employee.WeekEvents(people, ref, time.UTC)

		Expect(notices).To(HaveLen(1))
		Expect(notices[0].On).To(Equal("02/01/2026"))
	})

	It("returns the week bounds", func() {
		from, to := employee.WeekOf(time.Date(2025, 5, 11, 23, 0, 0, 0, time.UTC), time.UTC)
		Expect(from).To(Equal(time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)))
		Expect(to).To(Equal(time.Date(2025, 5, 11, 0, 0, 0, 0, time.UTC)))
	})
})

var _ = Describe("Messages", func() {
	messages := employee.DefaultMessages()

	It("knows the four canned texts", func() {
		Expect(messages.Kinds()).To(ConsistOf(
			employee.EmailInvite, employee.CorporateEmailRequest,
			employee.CorporateCommunication, employee.HRCommunication,
		))
	})

	It("prints placeholders for blank values", func() {
		m, err := messages.Render(employee.EmailInvite, employee.Employee{})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Body).To(HavePrefix("Hello (Name)!"))
		Expect(m.Body).To(ContainSubstring("scheduled for (Admission Date) at 09:00"))

		m, err = messages.Render(employee.CorporateEmailRequest, employee.Employee{})
		Expect(err).NotTo(HaveOccurred())
		Expect(m.Body).To(ContainSubstring("Name of new employee: (Full Name)"))
	})

	It("fills the employee's values", func() {
		e := employee.Employee{
			Profile:       employee.Profile{Name: "Ana Souza", AdmissionDate: "12/05/2025"},
			DismissalDate: "30/06/2025",
		}

		invite, err := messages.Render(employee.EmailInvite, e)
		Expect(err).NotTo(HaveOccurred())
		Expect(invite.Body).To(HavePrefix("Hello Ana!"))

		hr, err := messages.Render(employee.HRCommunication, e)
		Expect(err).NotTo(HaveOccurred())
		Expect(hr.Body).To(ContainSubstring("for the employee Ana Souza, effective on 30/06/2025."))
	})

	It("rejects an unknown kind", func() {
		_, err := messages.Render("farewell_party", employee.Employee{})
		Expect(err).To(MatchError(employee.ErrUnknownMessage))
	})
})

var _ = Describe("Admission form", func() {
	e := employee.Employee{Profile: employee.Profile{
		Name: "Ana Souza", Salary: "3200,00", BreakDuration: "1", BreakStart: "17:00",
	}}
	company := employee.Company{Name: "FMX Consulting Ltd", TaxID: "48.786.011/0001-75"}

	It("lays out three sections with dashes for missing values", func() {
		form := employee.BuildAdmissionForm(e, company)

		Expect(form.Title).To(Equal("Admission Form"))
		Expect(form.TaxID).To(Equal("48.786.011/0001-75"))
		Expect(form.Sections).To(HaveLen(3))
		Expect(form.Sections[0].Title).To(Equal("Employee Details"))
		Expect(form.Sections[0].Rows[0]).To(Equal(employee.ReportRow{Field: "Name", Value: "Ana Souza"}))
		Expect(form.Sections[0].Rows).To(ContainElement(employee.ReportRow{Field: "Complement", Value: "-"}))
		Expect(form.Sections[1].Rows).To(ContainElement(employee.ReportRow{Field: "Break", Value: "1 hours from 17:00 to -"}))
		Expect(form.Sections[2].Title).To(Equal("Benefits"))
		Expect(form.FileName).To(Equal("Ana Souza_Admission_Form.csv"))
	})

	It("exports as CSV", func() {
		body, err := employee.BuildAdmissionForm(e, company).CSV()

		Expect(err).NotTo(HaveOccurred())
		lines := strings.Split(strings.TrimSpace(string(body)), "\n")
		Expect(lines[0]).To(Equal("Section,Field,Value"))
		Expect(lines).To(ContainElement("Admission Form,CNPJ,48.786.011/0001-75"))
		Expect(lines).To(ContainElement("Employer Details,Salary,"+`"3200,00"`))
	})
})
