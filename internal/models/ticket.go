package models

// TicketStatus enumerates the lifecycle states of a ticket.
type TicketStatus string

const (
	TicketStatusOpen       TicketStatus = "open"
	TicketStatusInProgress TicketStatus = "in_progress"
	TicketStatusWaiting    TicketStatus = "waiting"
	TicketStatusResolved   TicketStatus = "resolved"
	TicketStatusClosed     TicketStatus = "closed"
)

type Ticket struct {
	BaseModel

	OrganizationID string       `gorm:"size:64;not null;index" json:"organizationId"`
	ClientID       *string      `gorm:"size:64;index" json:"clientId,omitempty"`
	Subject        string       `gorm:"not null" json:"subject"`
	Description    string       `json:"description"`
	Status         TicketStatus `gorm:"size:32;not null;default:open" json:"status"`
	Priority       string       `gorm:"size:16;default:medium" json:"priority"`
	RequesterID    *string      `gorm:"size:64;index" json:"requesterId,omitempty"`
	AssigneeID     *string      `gorm:"size:64;index" json:"assigneeId,omitempty"`
	CatalogItemID  *string      `gorm:"size:64" json:"catalogItemId,omitempty"`
}

func (t Ticket) TenantID() string { return t.OrganizationID }
