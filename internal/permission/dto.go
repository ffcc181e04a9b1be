package permission

import (
	"github.com/frahmantamala/people-console/internal"
	"github.com/frahmantamala/people-console/internal/core/common/validation"
)

const (
	AccountAdmin = "Admin"
	AccountUser  = "User"
)

type CreateAccountRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Type  string `json:"type"`
}

func (r CreateAccountRequest) Validate() *internal.AppError {
	v := validation.NewValidator()
	v.Field("email", r.Email).Required().Email()
	v.Field("name", r.Name).Required()
	if r.Type != "" {
		v.Field("type", r.Type).OneOf(AccountAdmin, AccountUser)
	}
	return v.Validate()
}

type AccountCreated struct {
	Entry       Entry  `json:"entry"`
	Password    string `json:"-"`
	Credentials string `json:"credentials"`
}

type RenameRequest struct {
	NewEmail string `json:"newEmail"`
}

type FreezeRequest struct {
	Frozen bool `json:"frozen"`
}

type ToggleCellRequest struct {
	Email      string `json:"email"`
	Capability string `json:"capability"`
}

// EntryInput is a row as sent by the matrix screen.
type EntryInput struct {
	Email        string          `json:"email"`
	Name         string          `json:"name"`
	Frozen       bool            `json:"frozen"`
	Capabilities map[string]bool `json:"capabilities"`
}

type BulkUpdateRequest struct {
	Entries []EntryInput `json:"entries"`
}

// ToEntries checks every row before anything is written.
func (r BulkUpdateRequest) ToEntries() ([]Entry, error) {
	out := make([]Entry, 0, len(r.Entries))
	for _, in := range r.Entries {
		v := validation.NewValidator()
		v.Field("email", in.Email).Required()
		if err := v.Validate(); err != nil {
			return nil, err
		}
		e := NewEntry(in.Email, in.Name, false)
		e.Frozen = in.Frozen
		for key, value := range in.Capabilities {
			c, err := Parse(key)
			if err != nil {
				return nil, err
			}
			e.Capabilities[c] = value
		}
		out = append(out, e)
	}
	return out, nil
}

type MatrixResponse struct {
	Capabilities []CapabilityInfo `json:"capabilities"`
	Entries      Matrix           `json:"entries"`
}

func toMatrixResponse(m Matrix) MatrixResponse {
	if m == nil {
		m = Matrix{}
	}
	return MatrixResponse{Capabilities: Catalog(), Entries: m}
}
