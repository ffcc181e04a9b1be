package candidate_test

import (
	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/candidate"
	"github.com/frahmantamala/people-console/internal/store"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Next", func() {
	DescribeTable("allowed transitions",
		func(from candidate.Status, action candidate.Action, to candidate.Status) {
			got, err := candidate.Next(from, action)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(to))
		},
		Entry("decline an open candidate", candidate.StatusCandidates, candidate.ActionDecline, candidate.StatusDeclined),
		Entry("decline a held candidate", candidate.StatusOnHold, candidate.ActionDecline, candidate.StatusDeclined),
		Entry("decline after interview", candidate.StatusInterview, candidate.ActionDecline, candidate.StatusDeclined),
		Entry("hold", candidate.StatusCandidates, candidate.ActionHold, candidate.StatusOnHold),
		Entry("release hold", candidate.StatusOnHold, candidate.ActionHold, candidate.StatusCandidates),
		Entry("interview an open candidate", candidate.StatusCandidates, candidate.ActionInterview, candidate.StatusInterview),
		Entry("interview a held candidate", candidate.StatusOnHold, candidate.ActionInterview, candidate.StatusInterview),
		Entry("restore", candidate.StatusDeclined, candidate.ActionRestore, candidate.StatusInterview),
	)

	DescribeTable("rejected transitions",
		func(from candidate.Status, action candidate.Action) {
			_, err := candidate.Next(from, action)
			Expect(err).To(MatchError(internal.ErrInvalidTransition))
		},
		Entry("restore an open candidate", candidate.StatusCandidates, candidate.ActionRestore),
		Entry("hold an interviewed candidate", candidate.StatusInterview, candidate.ActionHold),
		Entry("decline twice", candidate.StatusDeclined, candidate.ActionDecline),
		Entry("approve through the table", candidate.StatusInterview, candidate.ActionApprove),
		Entry("unknown status", candidate.Status("Archived"), candidate.ActionDecline),
	)
})

var _ = Describe("EmployeeRecord", func() {
	It("copies only the employee fields and renames fullName", func() {
		rec := candidate.EmployeeRecord(store.Fields{
			"fullName":  "Ana Souza",
			"email":     "ana@mail.com",
			"city":      "São Paulo",
			"hobbies":   "chess",
			"cv":        "cv/ana.pdf",
			"education": "Bachelor",
		}, "Hiring", "2025-05-01T00:00:00Z")

		Expect(rec).To(Equal(store.Fields{
			"name":      "Ana Souza",
			"email":     "ana@mail.com",
			"city":      "São Paulo",
			"education": "Bachelor",
			"status":    "Hiring",
			"createdAt": "2025-05-01T00:00:00Z",
		}))
	})
})
