// Package notifytest provides a Mailer that records messages instead of sending them.
package notifytest

import (
	"context"
	"sync"

	"github.com/frahmantamala/people-console/internal/notify"
)

type Message struct {
	Template notify.Template
	To       notify.Recipient
	Vars     notify.Vars
}

type Mailer struct {
	mu       sync.Mutex
	Messages []Message
	FailWith error
}

func (m *Mailer) Send(ctx context.Context, tpl notify.Template, to notify.Recipient, vars notify.Vars) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.Messages = append(m.Messages, Message{Template: tpl, To: to, Vars: vars})
	return nil
}

func (m *Mailer) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Messages)
}
