package events

const (
	EventTypeCandidateDeclined      = "candidate.declined"
	EventTypeCandidateApproved      = "candidate.approved"
	EventTypeEmployeeCreated        = "employee.created"
	EventTypeEmployeeDeactivated    = "employee.deactivated"
	EventTypePermissionAccountAdded = "permission.account_created"
	EventTypeSessionSignedIn        = "session.signed_in"
	EventTypeSessionSignedOut       = "session.signed_out"
)

// Types lists every event the console emits, for the publish command.
var Types = []string{
	EventTypeCandidateDeclined,
	EventTypeCandidateApproved,
	EventTypeEmployeeCreated,
	EventTypeEmployeeDeactivated,
	EventTypePermissionAccountAdded,
	EventTypeSessionSignedIn,
	EventTypeSessionSignedOut,
}

type CandidateDeclinedEvent struct {
	BaseEvent
	CandidateID string `json:"candidate_id"`
	Email       string `json:"email"`
	EmailSent   bool   `json:"email_sent"`
}

func NewCandidateDeclinedEvent(candidateID, email string, emailSent bool) *CandidateDeclinedEvent {
	return &CandidateDeclinedEvent{
		BaseEvent: NewBaseEvent(EventTypeCandidateDeclined, map[string]interface{}{
			"candidate_id": candidateID,
			"email":        email,
			"email_sent":   emailSent,
		}),
		CandidateID: candidateID,
		Email:       email,
		EmailSent:   emailSent,
	}
}

type CandidateApprovedEvent struct {
	BaseEvent
	CandidateID string `json:"candidate_id"`
	Name        string `json:"name"`
}

func NewCandidateApprovedEvent(candidateID, name string) *CandidateApprovedEvent {
	return &CandidateApprovedEvent{
		BaseEvent: NewBaseEvent(EventTypeCandidateApproved, map[string]interface{}{
			"candidate_id": candidateID,
			"name":         name,
		}),
		CandidateID: candidateID,
		Name:        name,
	}
}

type EmployeeCreatedEvent struct {
	BaseEvent
	EmployeeID string `json:"employee_id"`
	Email      string `json:"email"`
}

func NewEmployeeCreatedEvent(employeeID, email string) *EmployeeCreatedEvent {
	return &EmployeeCreatedEvent{
		BaseEvent: NewBaseEvent(EventTypeEmployeeCreated, map[string]interface{}{
			"employee_id": employeeID,
			"email":       email,
		}),
		EmployeeID: employeeID,
		Email:      email,
	}
}

type EmployeeDeactivatedEvent struct {
	BaseEvent
	EmployeeID       string `json:"employee_id"`
	DismissalDate    string `json:"dismissal_date"`
	HomologationDate string `json:"homologation_date"`
}

func NewEmployeeDeactivatedEvent(employeeID, dismissalDate, homologationDate string) *EmployeeDeactivatedEvent {
	return &EmployeeDeactivatedEvent{
		BaseEvent: NewBaseEvent(EventTypeEmployeeDeactivated, map[string]interface{}{
			"employee_id":       employeeID,
			"dismissal_date":    dismissalDate,
			"homologation_date": homologationDate,
		}),
		EmployeeID:       employeeID,
		DismissalDate:    dismissalDate,
		HomologationDate: homologationDate,
	}
}

type AccountCreatedEvent struct {
	BaseEvent
	Email string `json:"email"`
	Admin bool   `json:"admin"`
}

func NewAccountCreatedEvent(email string, admin bool) *AccountCreatedEvent {
	return &AccountCreatedEvent{
		BaseEvent: NewBaseEvent(EventTypePermissionAccountAdded, map[string]interface{}{
			"email": email,
			"admin": admin,
		}),
		Email: email,
		Admin: admin,
	}
}

// SessionEvent reports a sign-in or sign-out.
type SessionEvent struct {
	BaseEvent
	Email   string `json:"email"`
	TokenID string `json:"token_id"`
}

func NewSessionEvent(eventType, email, tokenID string) *SessionEvent {
	return &SessionEvent{
		BaseEvent: NewBaseEvent(eventType, map[string]interface{}{
			"email":    email,
			"token_id": tokenID,
		}),
		Email:   email,
		TokenID: tokenID,
	}
}
