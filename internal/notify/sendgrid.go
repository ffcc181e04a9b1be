package notify

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/frahmantamala/people-console/internal"
	"github.com/sendgrid/rest"
	sendgrid "github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"
)

const sendgridHost = "https://api.sendgrid.com"

// SendGridMailer delivers through SendGrid dynamic templates.
type SendGridMailer struct {
	apiKey    string
	host      string
	from      *sgmail.Email
	templates map[Template]string
	logger    *slog.Logger
	send      func(req rest.Request) (*rest.Response, error)
}

func NewSendGridMailer(cfg internal.MailConfig, logger *slog.Logger) *SendGridMailer {
	return &SendGridMailer{
		apiKey: cfg.APIKey,
		host:   sendgridHost,
		from:   sgmail.NewEmail(cfg.FromName, cfg.FromEmail),
		templates: map[Template]string{
			TemplateDecline:           cfg.Templates.Decline,
			TemplateInterviewOnline:   cfg.Templates.InterviewOnline,
			TemplateInterviewInPerson: cfg.Templates.InterviewInPerson,
			TemplateDigest:            cfg.Templates.Digest,
		},
		logger: logger,
		send:   sendgrid.MakeRequest,
	}
}

// WithHost points the mailer at another API host, e.g. a local stub in tests.
func (m *SendGridMailer) WithHost(host string) *SendGridMailer {
	m.host = host
	return m
}

func (m *SendGridMailer) Send(ctx context.Context, tpl Template, to Recipient, vars Vars) error {
	templateID, ok := m.templates[tpl]
	if !ok || templateID == "" {
		return ErrMailFailed.WithCause(fmt.Errorf("no sendgrid template configured for %s", tpl))
	}
	if to.Email == "" {
		return ErrMailFailed.WithCause(fmt.Errorf("empty recipient for %s", tpl))
	}

	msg := BuildMessage(m.from, templateID, to, vars)

	request := sendgrid.GetRequest(m.apiKey, "/v3/mail/send", m.host)
	request.Method = rest.Post
	request.Body = sgmail.GetRequestBody(msg)

	resp, err := m.send(request)
	if err != nil {
		return ErrMailFailed.WithCause(err)
	}
	if resp.StatusCode >= http.StatusBadRequest {
		return ErrMailFailed.WithCause(fmt.Errorf("sendgrid returned %d: %s", resp.StatusCode, resp.Body))
	}

	m.logger.DebugContext(ctx, "email sent", "template", tpl, "to", to.Email, "status", resp.StatusCode)
	return nil
}

// BuildMessage assembles a v3 dynamic template message for one recipient.
func BuildMessage(from *sgmail.Email, templateID string, to Recipient, vars Vars) *sgmail.SGMailV3 {
	m := sgmail.NewV3Mail()
	m.SetFrom(from)
	m.SetTemplateID(templateID)

	p := sgmail.NewPersonalization()
	p.AddTos(sgmail.NewEmail(to.Name, to.Email))
	for k, v := range vars {
		p.SetDynamicTemplateData(k, v)
	}
	m.AddPersonalizations(p)
	return m
}
