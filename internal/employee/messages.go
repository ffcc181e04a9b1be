package employee

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"text/template"

	"github.com/frahmantamala/people-console/internal"
	"gopkg.in/yaml.v3"
)

type MessageKind string

const (
	EmailInvite            MessageKind = "email_invite"
	CorporateEmailRequest  MessageKind = "corporate_email_request"
	CorporateCommunication MessageKind = "corporate_communication"
	HRCommunication        MessageKind = "hr_communication"
)

var ErrUnknownMessage = internal.NewNotFoundError("unknown message", internal.ErrCodeRecordNotFound)

//go:embed messages.yml
var defaultMessages []byte

type messageSpec struct {
	Title        string            `yaml:"title"`
	Body         string            `yaml:"body"`
	Placeholders map[string]string `yaml:"placeholders"`
}

type messageTemplate struct {
	title        string
	body         *template.Template
	placeholders map[string]string
}

// Messages renders the canned texts HR sends around hiring and dismissal.
type Messages struct {
	byKind map[MessageKind]messageTemplate
}

// Message is a rendered canned text.
type Message struct {
	Kind  MessageKind `json:"kind"`
	Title string      `json:"title"`
	Body  string      `json:"body"`
}

// DefaultMessages parses the embedded catalogue.
func DefaultMessages() *Messages {
	m, err := ParseMessages(defaultMessages)
	if err != nil {
		panic(fmt.Sprintf("embedded messages: %v", err))
	}
	return m
}

// ParseMessages reads a YAML catalogue keyed by message kind.
func ParseMessages(raw []byte) (*Messages, error) {
	var specs map[MessageKind]messageSpec
	if err := yaml.Unmarshal(raw, &specs); err != nil {
		return nil, fmt.Errorf("parse messages: %w", err)
	}
	m := &Messages{byKind: make(map[MessageKind]messageTemplate, len(specs))}
	for kind, s := range specs {
		tpl, err := template.New(string(kind)).Option("missingkey=zero").Parse(s.Body)
		if err != nil {
			return nil, fmt.Errorf("message %s: %w", kind, err)
		}
		m.byKind[kind] = messageTemplate{title: s.Title, body: tpl, placeholders: s.Placeholders}
	}
	return m, nil
}

func (m *Messages) Kinds() []MessageKind {
	out := make([]MessageKind, 0, len(m.byKind))
	for k := range m.byKind {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Render fills the message for e. Blank values print their placeholder.
func (m *Messages) Render(kind MessageKind, e Employee) (Message, error) {
	mt, ok := m.byKind[kind]
	if !ok {
		return Message{}, ErrUnknownMessage.WithDetails(map[string]string{"kind": string(kind)})
	}

	vars := map[string]string{
		"FirstName":     FirstName(e.Name),
		"Name":          strings.TrimSpace(e.Name),
		"AdmissionDate": e.AdmissionDate,
		"DismissalDate": e.DismissalDate,
	}
	for k, v := range vars {
		if v == "" {
			vars[k] = mt.placeholders[k]
		}
	}

	var b strings.Builder
	if err := mt.body.Execute(&b, vars); err != nil {
		return Message{}, fmt.Errorf("render message %s: %w", kind, err)
	}
	return Message{Kind: kind, Title: mt.title, Body: strings.TrimRight(b.String(), "\n")}, nil
}
