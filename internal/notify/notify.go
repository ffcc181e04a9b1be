// Package notify sends the console's transactional emails.
package notify

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/frahmantamala/people-console/internal"
)

// Template names a message the console can send. Providers map it to their own template id.
type Template string

const (
	TemplateDecline           Template = "decline"
	TemplateInterviewOnline   Template = "interview_online"
	TemplateInterviewInPerson Template = "interview_inperson"
	TemplateDigest            Template = "digest"
)

type Recipient struct {
	Name  string
	Email string
}

// Vars are the template substitutions, e.g. name, email, calendar_link.
type Vars map[string]string

type Mailer interface {
	Send(ctx context.Context, tpl Template, to Recipient, vars Vars) error
}

// Outcome is what a caller reports back about a notification it tried to send.
type Outcome struct {
	Attempted bool   `json:"attempted"`
	Sent      bool   `json:"sent"`
	Error     string `json:"error,omitempty"`
}

// Deliver sends and folds the result into an Outcome. A failed send is logged,
// never returned, because the write it follows has already happened.
func Deliver(ctx context.Context, m Mailer, logger *slog.Logger, tpl Template, to Recipient, vars Vars) Outcome {
	out := Outcome{Attempted: true}
	if err := m.Send(ctx, tpl, to, vars); err != nil {
		logger.Error("failed to send email", "template", tpl, "to", to.Email, "error", err)
		out.Error = err.Error()
		return out
	}
	out.Sent = true
	return out
}

var ErrMailFailed = internal.NewExternalError("failed to send email", internal.ErrCodeMailFailed, nil)

// LogMailer writes messages to the log instead of delivering them.
type LogMailer struct {
	logger *slog.Logger
}

func NewLogMailer(logger *slog.Logger) *LogMailer {
	return &LogMailer{logger: logger}
}

func (m *LogMailer) Send(ctx context.Context, tpl Template, to Recipient, vars Vars) error {
	if to.Email == "" {
		return ErrMailFailed.WithCause(fmt.Errorf("empty recipient for %s", tpl))
	}
	m.logger.InfoContext(ctx, "email queued",
		"template", tpl,
		"to", to.Email,
		"vars", formatVars(vars))
	return nil
}

func formatVars(vars Vars) string {
	keys := make([]string, 0, len(vars))
	for k := range vars {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+vars[k])
	}
	return strings.Join(parts, " ")
}
