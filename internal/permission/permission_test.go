package permission_test

import (
	"strings"

	"github.com/frahmantamala/people-console/internal/permission"
	"github.com/frahmantamala/people-console/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Capabilities", func() {
	It("has 21 stable keys with labels and titles", func() {
		Expect(permission.All()).To(HaveLen(21))
		Expect(permission.AppOnAI.Label()).To(Equal("APP ON AI"))
		Expect(permission.AppOnAI.Title()).To(Equal("Apps OnEquity: A.I. Support"))
		Expect(permission.AppHTML.Title()).To(Equal("Apps Exnie: Templates HTML"))
	})

	It("rejects unknown keys", func() {
		_, err := permission.Parse("hr_payroll")
		Expect(err).To(MatchError(permission.ErrUnknownCapability))
	})
})

var _ = Describe("Entry documents", func() {
	It("reads absent capabilities as false", func() {
		e := permission.FromDocument(store.Document{ID: "ana@fmx.com", Data: store.Fields{"name": "Ana", "finance": true}})

		Expect(e.Email).To(Equal("ana@fmx.com"))
		Expect(e.Has(permission.Finance)).To(BeTrue())
		Expect(e.Has(permission.HRPeople)).To(BeFalse())
		Expect(e.Capabilities).To(HaveLen(21))
	})

	It("writes every capability", func() {
		f := permission.ToDocument(permission.NewEntry("a@fmx.com", "A", false))
		Expect(f).To(HaveLen(23))
		Expect(f).To(HaveKeyWithValue("frozen", false))
	})

	It("builds an admin session only when everything is granted", func() {
		admin := permission.NewEntry("a@fmx.com", "A", true)
		Expect(admin.Session().Admin).To(BeTrue())

		admin.Capabilities[permission.AppHTML] = false
		s := admin.Session()
		Expect(s.Admin).To(BeFalse())
		Expect(s.Can("finance")).To(BeTrue())
		Expect(s.Can("app_html")).To(BeFalse())
	})
})

var _ = Describe("Matrix", func() {
	var m permission.Matrix

	BeforeEach(func() {
		a := permission.NewEntry("a@fmx.com", "A", false)
		b := permission.NewEntry("b@fmx.com", "B", false)
		a.Capabilities[permission.Finance] = true
		m = permission.NewMatrix([]permission.Entry{b, a})
	})

	It("orders rows by email", func() {
		Expect(m[0].Email).To(Equal("a@fmx.com"))
	})

	It("sets a split column true, then false on the second toggle", func() {
		m.ToggleColumn(permission.Finance)
		Expect(m[0].Has(permission.Finance)).To(BeTrue())
		Expect(m[1].Has(permission.Finance)).To(BeTrue())

		m.ToggleColumn(permission.Finance)
		Expect(m[0].Has(permission.Finance)).To(BeFalse())
		Expect(m[1].Has(permission.Finance)).To(BeFalse())
	})

	It("toggles a single cell", func() {
		Expect(m.ToggleCell("b@fmx.com", permission.HRPeople)).To(Succeed())
		Expect(m[1].Has(permission.HRPeople)).To(BeTrue())
		Expect(m.ToggleCell("x@fmx.com", permission.HRPeople)).To(MatchError(permission.ErrPermissionNotFound))
	})

	It("fills a partial row, then clears it", func() {
		Expect(m.ToggleRow("a@fmx.com")).To(Succeed())
		Expect(m[0].IsAdmin()).To(BeTrue())
		Expect(m[1].Has(permission.HRPeople)).To(BeFalse())

		Expect(m.ToggleRow("a@fmx.com")).To(Succeed())
		for _, c := range permission.All() {
			Expect(m[0].Has(c)).To(BeFalse())
		}
	})

	It("toggles every cell", func() {
		m.ToggleAll()
		Expect(m[0].IsAdmin()).To(BeTrue())
		Expect(m[1].IsAdmin()).To(BeTrue())

		m.ToggleAll()
		Expect(m[0].Has(permission.Finance)).To(BeFalse())
	})

	It("does nothing on an empty matrix", func() {
		var empty permission.Matrix
		empty.ToggleAll()
		empty.ToggleColumn(permission.Finance)
		Expect(empty).To(BeEmpty())
	})
})

var _ = Describe("RandomPasswords", func() {
	It("draws 12 characters from the alphabet", func() {
		pw, err := permission.RandomPasswords{}.Generate()
		Expect(err).NotTo(HaveOccurred())
		Expect(pw).To(HaveLen(12))
		for _, r := range pw {
			Expect(strings.ContainsRune(permission.PasswordAlphabet, r)).To(BeTrue())
		}
	})

	It("formats credentials", func() {
		Expect(permission.Credentials("a@fmx.com", "pw")).To(Equal("Login: a@fmx.com\nPassword: pw"))
	})
})
