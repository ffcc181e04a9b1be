package employee

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/frahmantamala/people-console/internal/notify"
)

// DigestJob mails the week's employee events to a fixed list of recipients.
type DigestJob struct {
	service    *Service
	mailer     notify.Mailer
	recipients []notify.Recipient
	logger     *slog.Logger
}

func NewDigestJob(service *Service, mailer notify.Mailer, recipients []notify.Recipient, logger *slog.Logger) *DigestJob {
	return &DigestJob{service: service, mailer: mailer, recipients: recipients, logger: logger}
}

// Run sends one digest per recipient. A week without events sends nothing.
func (j *DigestJob) Run(ctx context.Context) error {
	week, err := j.service.WeekEvents(ctx)
	if err != nil {
		return fmt.Errorf("load week events: %w", err)
	}
	if len(week.Notices) == 0 {
		j.logger.Info("no employee events this week", "from", week.From, "to", week.To)
		return nil
	}

	lines := make([]string, 0, len(week.Notices))
	for _, n := range week.Notices {
		lines = append(lines, n.Message)
	}
	vars := notify.Vars{
		"from":   week.From,
		"to":     week.To,
		"count":  strconv.Itoa(len(week.Notices)),
		"events": strings.Join(lines, "\n"),
	}

	var errs []error
	for _, r := range j.recipients {
		if err := j.mailer.Send(ctx, notify.TemplateDigest, r, vars); err != nil {
			j.logger.Error("failed to send digest", "to", r.Email, "error", err)
			errs = append(errs, err)
		}
	}
	j.logger.Info("weekly digest sent", "events", len(week.Notices), "recipients", len(j.recipients)-len(errs))
	return errors.Join(errs...)
}
