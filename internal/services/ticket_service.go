package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
	apperrors "github.com/deskward/deskward/pkg/errors"
)

// CreateTicketInput carries the fields of a new ticket. OrganizationID must come from the
// tenant-filtered request body.
type CreateTicketInput struct {
	OrganizationID string
	Subject        string
	Description    string
	Priority       string
	ClientID       *string
	RequesterID    *string
	AssigneeID     *string
	CatalogItemID  *string
}

// UpdateTicketInput lists mutable ticket fields. A nil pointer leaves the field untouched and
// a pointer to "" clears a reference.
type UpdateTicketInput struct {
	Subject       *string
	Description   *string
	Status        *models.TicketStatus
	Priority      *string
	AssigneeID    *string
	RequesterID   *string
	CatalogItemID *string
}

// TicketListOptions filters a ticket listing.
type TicketListOptions struct {
	Page       int
	PageSize   int
	Status     string
	AssigneeID string
}

// TicketService stores tickets. Every read is scoped by organization.
type TicketService struct {
	db    *gorm.DB
	store scopedStore[models.Ticket]
}

// NewTicketService constructs a TicketService.
func NewTicketService(db *gorm.DB) (*TicketService, error) {
	if db == nil {
		return nil, errors.New("ticket service: db is required")
	}
	return &TicketService{db: db, store: newScopedStore[models.Ticket](db, "ticket")}, nil
}

// FindScoped loads a ticket inside an organization.
func (s *TicketService) FindScoped(ctx context.Context, id, organizationID string) (*models.Ticket, error) {
	return s.store.FindScoped(ctx, id, organizationID)
}

// List returns a page of tickets of one organization.
func (s *TicketService) List(ctx context.Context, organizationID string, opts TicketListOptions) ([]models.Ticket, int64, error) {
	return s.store.list(ctx, organizationID, opts.Page, opts.PageSize, func(q *gorm.DB) *gorm.DB {
		if status := strings.TrimSpace(opts.Status); status != "" {
			q = q.Where("status = ?", status)
		}
		if assignee := strings.TrimSpace(opts.AssigneeID); assignee != "" {
			q = q.Where("assignee_id = ?", assignee)
		}
		return q
	})
}

// Create persists a ticket. A catalog item reference must belong to the same organization.
func (s *TicketService) Create(ctx context.Context, input CreateTicketInput) (*models.Ticket, error) {
	ctx = ensureContext(ctx)

	orgID := strings.TrimSpace(input.OrganizationID)
	subject := strings.TrimSpace(input.Subject)
	if orgID == "" {
		return nil, apperrors.NewBadRequest("organizationId is required")
	}
	if subject == "" {
		return nil, apperrors.NewBadRequest("subject is required")
	}

	ticket := &models.Ticket{
		OrganizationID: orgID,
		Subject:        subject,
		Description:    strings.TrimSpace(input.Description),
		Status:         models.TicketStatusOpen,
		Priority:       strings.TrimSpace(input.Priority),
		ClientID:       optionalString(input.ClientID),
		RequesterID:    optionalString(input.RequesterID),
		AssigneeID:     optionalString(input.AssigneeID),
		CatalogItemID:  optionalString(input.CatalogItemID),
	}
	if ticket.Priority == "" {
		ticket.Priority = "medium"
	}

	if err := s.checkReferences(ctx, orgID, ticket.CatalogItemID, ticket.ClientID); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Create(ticket).Error; err != nil {
		return nil, fmt.Errorf("ticket service: create: %w", err)
	}
	return ticket, nil
}

// Update applies input to a ticket previously loaded through FindScoped.
func (s *TicketService) Update(ctx context.Context, ticket *models.Ticket, input UpdateTicketInput) (*models.Ticket, error) {
	ctx = ensureContext(ctx)
	if ticket == nil {
		return nil, errors.New("ticket service: ticket is required")
	}

	if input.Subject != nil {
		subject := strings.TrimSpace(*input.Subject)
		if subject == "" {
			return nil, apperrors.NewBadRequest("subject cannot be empty")
		}
		ticket.Subject = subject
	}
	if input.Description != nil {
		ticket.Description = strings.TrimSpace(*input.Description)
	}
	if input.Status != nil {
		ticket.Status = *input.Status
	}
	if input.Priority != nil {
		ticket.Priority = strings.TrimSpace(*input.Priority)
	}
	if input.AssigneeID != nil {
		ticket.AssigneeID = optionalString(input.AssigneeID)
	}
	if input.RequesterID != nil {
		ticket.RequesterID = optionalString(input.RequesterID)
	}
	if input.CatalogItemID != nil {
		ticket.CatalogItemID = optionalString(input.CatalogItemID)
		if err := s.checkReferences(ctx, ticket.OrganizationID, ticket.CatalogItemID, nil); err != nil {
			return nil, err
		}
	}

	if err := s.db.WithContext(ctx).Save(ticket).Error; err != nil {
		return nil, fmt.Errorf("ticket service: update %s: %w", ticket.ID, err)
	}
	return ticket, nil
}

// Delete removes a ticket previously loaded through FindScoped.
func (s *TicketService) Delete(ctx context.Context, ticket *models.Ticket) error {
	if ticket == nil {
		return errors.New("ticket service: ticket is required")
	}
	result := s.db.WithContext(ensureContext(ctx)).
		Where("id = ? AND organization_id = ?", ticket.ID, ticket.OrganizationID).
		Delete(&models.Ticket{})
	if result.Error != nil {
		return fmt.Errorf("ticket service: delete %s: %w", ticket.ID, result.Error)
	}
	return nil
}

func (s *TicketService) checkReferences(ctx context.Context, orgID string, catalogItemID, clientID *string) error {
	if catalogItemID != nil {
		ok, err := belongs(ctx, s.db, &models.CatalogItem{}, *catalogItemID, orgID)
		if err != nil {
			return fmt.Errorf("ticket service: check catalog item: %w", err)
		}
		if !ok {
			return ErrForeignReference.WithMessage("catalogItemId does not belong to this organization")
		}
	}
	if clientID != nil {
		ok, err := belongs(ctx, s.db, &models.Client{}, *clientID, orgID)
		if err != nil {
			return fmt.Errorf("ticket service: check client: %w", err)
		}
		if !ok {
			return ErrForeignReference.WithMessage("clientId does not belong to this organization")
		}
	}
	return nil
}
