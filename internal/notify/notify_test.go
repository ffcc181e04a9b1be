package notify_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/notify"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type failingMailer struct{}

func (failingMailer) Send(context.Context, notify.Template, notify.Recipient, notify.Vars) error {
	return errors.New("smtp down")
}

var _ = Describe("Mailers", func() {
	var logger *slog.Logger

	BeforeEach(func() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	})

	Describe("Deliver", func() {
		It("reports a successful send", func() {
			out := notify.Deliver(context.Background(), notify.NewLogMailer(logger), logger,
				notify.TemplateDecline, notify.Recipient{Name: "Ana", Email: "ana@mail.com"}, notify.Vars{"name": "Ana"})

			Expect(out).To(Equal(notify.Outcome{Attempted: true, Sent: true}))
		})

		It("captures the failure instead of returning it", func() {
			out := notify.Deliver(context.Background(), failingMailer{}, logger,
				notify.TemplateDecline, notify.Recipient{Email: "ana@mail.com"}, nil)

			Expect(out.Attempted).To(BeTrue())
			Expect(out.Sent).To(BeFalse())
			Expect(out.Error).To(Equal("smtp down"))
		})
	})

	Describe("LogMailer", func() {
		It("rejects an empty recipient", func() {
			err := notify.NewLogMailer(logger).Send(context.Background(), notify.TemplateDigest, notify.Recipient{}, nil)
			Expect(err).To(MatchError(notify.ErrMailFailed))
		})
	})

	Describe("SendGridMailer", func() {
		var (
			server  *httptest.Server
			payload map[string]any
			status  int
			cfg     internal.MailConfig
		)

		BeforeEach(func() {
			status = http.StatusAccepted
			payload = nil
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				defer GinkgoRecover()
				Expect(r.URL.Path).To(Equal("/v3/mail/send"))
				Expect(r.Header.Get("Authorization")).To(Equal("Bearer sg-key"))
				body, _ := io.ReadAll(r.Body)
				Expect(json.Unmarshal(body, &payload)).To(Succeed())
				w.WriteHeader(status)
			}))
			cfg = internal.MailConfig{
				Provider:  "sendgrid",
				APIKey:    "sg-key",
				FromEmail: "people@fmx.com",
				FromName:  "FMX Consulting Team",
				Templates: internal.MailTemplates{Decline: "d-decline"},
			}
		})

		AfterEach(func() {
			server.Close()
		})

		It("posts a dynamic template message", func() {
			// Given
			m := notify.NewSendGridMailer(cfg, logger).WithHost(server.URL)

			// When
			err := m.Send(context.Background(), notify.TemplateDecline,
				notify.Recipient{Name: "Ana", Email: "ana@mail.com"},
				notify.Vars{"name": "Ana", "email": "ana@mail.com"})

			// Then
			Expect(err).NotTo(HaveOccurred())
			Expect(payload).To(HaveKeyWithValue("template_id", "d-decline"))
			personalizations := payload["personalizations"].([]any)
			Expect(personalizations).To(HaveLen(1))
			first := personalizations[0].(map[string]any)
			Expect(first["dynamic_template_data"]).To(HaveKeyWithValue("name", "Ana"))
		})

		It("fails when the provider rejects the request", func() {
			status = http.StatusUnauthorized
			m := notify.NewSendGridMailer(cfg, logger).WithHost(server.URL)

			err := m.Send(context.Background(), notify.TemplateDecline, notify.Recipient{Email: "ana@mail.com"}, nil)

			Expect(err).To(MatchError(notify.ErrMailFailed))
		})

		It("fails without a configured template", func() {
			m := notify.NewSendGridMailer(cfg, logger).WithHost(server.URL)

			err := m.Send(context.Background(), notify.TemplateInterviewOnline, notify.Recipient{Email: "ana@mail.com"}, nil)

			Expect(err).To(MatchError(notify.ErrMailFailed))
			Expect(payload).To(BeNil())
		})
	})
})
