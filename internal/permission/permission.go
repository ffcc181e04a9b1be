// Package permission keeps, per console user email, a frozen flag and one
// boolean per capability. It also owns account creation for console users.
package permission

import (
	"sort"

	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/store"
)

var (
	ErrPermissionNotFound = internal.NewNotFoundError("permission entry not found", internal.ErrCodePermissionNotFound)
)

// Entry is one row of the matrix, keyed by email.
type Entry struct {
	Email        string              `json:"email"`
	Name         string              `json:"name"`
	Frozen       bool                `json:"frozen"`
	Capabilities map[Capability]bool `json:"capabilities"`
}

// NewEntry returns a row with every capability set to grant.
func NewEntry(email, name string, grant bool) Entry {
	e := Entry{Email: email, Name: name, Capabilities: make(map[Capability]bool, len(catalog))}
	for _, c := range All() {
		e.Capabilities[c] = grant
	}
	return e
}

func (e Entry) Has(c Capability) bool {
	return e.Capabilities[c]
}

// IsAdmin reports whether every capability is granted.
func (e Entry) IsAdmin() bool {
	for _, c := range All() {
		if !e.Capabilities[c] {
			return false
		}
	}
	return true
}

// Session builds the request session for a signed-in user of this entry.
func (e Entry) Session() *internal.Session {
	caps := make(map[string]bool, len(e.Capabilities))
	for c, v := range e.Capabilities {
		caps[string(c)] = v
	}
	return &internal.Session{
		Email:        e.Email,
		Name:         e.Name,
		Capabilities: caps,
		Admin:        e.IsAdmin(),
	}
}

func (e Entry) clone() Entry {
	cp := e
	cp.Capabilities = make(map[Capability]bool, len(e.Capabilities))
	for k, v := range e.Capabilities {
		cp.Capabilities[k] = v
	}
	return cp
}

// ToDocument writes every capability, so absent keys never reach the store.
func ToDocument(e Entry) store.Fields {
	f := store.Fields{
		"name":   e.Name,
		"frozen": e.Frozen,
	}
	for _, c := range All() {
		f[string(c)] = e.Capabilities[c]
	}
	return f
}

// FromDocument reads a stored row. Missing or non-boolean capabilities read as false.
func FromDocument(doc store.Document) Entry {
	e := NewEntry(doc.ID, "", false)
	if name, ok := doc.Data["name"].(string); ok {
		e.Name = name
	}
	if frozen, ok := doc.Data["frozen"].(bool); ok {
		e.Frozen = frozen
	}
	for _, c := range All() {
		if v, ok := doc.Data[string(c)].(bool); ok {
			e.Capabilities[c] = v
		}
	}
	return e
}

// Matrix is the full permission table ordered by email.
type Matrix []Entry

func NewMatrix(entries []Entry) Matrix {
	m := make(Matrix, len(entries))
	copy(m, entries)
	sort.Slice(m, func(i, j int) bool { return m[i].Email < m[j].Email })
	return m
}

func (m Matrix) Find(email string) (int, bool) {
	for i := range m {
		if m[i].Email == email {
			return i, true
		}
	}
	return -1, false
}

func (m Matrix) ToggleCell(email string, c Capability) error {
	i, ok := m.Find(email)
	if !ok {
		return ErrPermissionNotFound
	}
	m[i].Capabilities[c] = !m[i].Capabilities[c]
	return nil
}

// ToggleColumn sets c on every row to the negation of "every row has c".
func (m Matrix) ToggleColumn(c Capability) {
	all := true
	for _, e := range m {
		if !e.Capabilities[c] {
			all = false
			break
		}
	}
	for i := range m {
		m[i].Capabilities[c] = !all
	}
}

// ToggleRow sets every capability of one row to the negation of "row has all".
func (m Matrix) ToggleRow(email string) error {
	i, ok := m.Find(email)
	if !ok {
		return ErrPermissionNotFound
	}
	value := !m[i].IsAdmin()
	for _, c := range All() {
		m[i].Capabilities[c] = value
	}
	return nil
}

// ToggleAll sets every cell to the negation of "every cell is set". An empty
// matrix counts as fully set.
func (m Matrix) ToggleAll() {
	all := true
	for _, e := range m {
		if !e.IsAdmin() {
			all = false
			break
		}
	}
	for i := range m {
		for _, c := range All() {
			m[i].Capabilities[c] = !all
		}
	}
}
