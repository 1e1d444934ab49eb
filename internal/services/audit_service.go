package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/deskward/deskward/internal/models"
)

// auditInsertBatch bounds the rows of one INSERT issued by LogBatch.
const auditInsertBatch = 100

// AuditEntry is one audit event before persistence.
type AuditEntry struct {
	UserID         *string
	Email          string
	OrganizationID string
	Action         string
	Resource       string
	ResourceID     string
	Result         string
	Path           string
	Metadata       map[string]any
}

// AuditFilters narrows List. Zero values match everything.
type AuditFilters struct {
	UserID   string
	Action   string
	Result   string
	Resource string
	Since    *time.Time
	Until    *time.Time
}

type AuditListOptions struct {
	Page     int
	PageSize int
	Filters  AuditFilters
}

// AuditService stores audit_logs rows and serves the organization-scoped audit trail.
type AuditService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewAuditService(db *gorm.DB) (*AuditService, error) {
	if db == nil {
		return nil, errors.New("audit service: db is required")
	}
	return &AuditService{db: db, now: time.Now}, nil
}

// Log stores a single entry.
func (s *AuditService) Log(ctx context.Context, entry AuditEntry) error {
	record, err := entry.toModel()
	if err != nil {
		return err
	}
	return s.db.WithContext(ensureContext(ctx)).Create(&record).Error
}

// LogBatch stores entries in as few statements as possible. Invalid entries are skipped and
// reported in the returned error; the valid ones are still written.
func (s *AuditService) LogBatch(ctx context.Context, entries []AuditEntry) error {
	records := make([]models.AuditLog, 0, len(entries))
	var invalid []error
	for _, entry := range entries {
		record, err := entry.toModel()
		if err != nil {
			invalid = append(invalid, err)
			continue
		}
		records = append(records, record)
	}

	if len(records) > 0 {
		if err := s.db.WithContext(ensureContext(ctx)).CreateInBatches(&records, auditInsertBatch).Error; err != nil {
			return fmt.Errorf("audit service: write %d entries: %w", len(records), err)
		}
	}
	return errors.Join(invalid...)
}

// List returns the organization's audit trail, newest first.
func (s *AuditService) List(ctx context.Context, organizationID string, opts AuditListOptions) ([]models.AuditLog, int64, error) {
	page, perPage := normalisePage(opts.Page, opts.PageSize)

	query := s.db.WithContext(ensureContext(ctx)).
		Model(&models.AuditLog{}).
		Where("organization_id = ?", organizationID).
		Scopes(auditFilterScope(opts.Filters))

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("audit service: count logs: %w", err)
	}

	var logs []models.AuditLog
	if err := query.Order("created_at DESC").
		Offset((page - 1) * perPage).
		Limit(perPage).
		Find(&logs).Error; err != nil {
		return nil, 0, fmt.Errorf("audit service: list logs: %w", err)
	}
	return logs, total, nil
}

// CleanupOlderThan deletes entries created more than retentionDays ago across all
// organizations and reports how many were removed.
func (s *AuditService) CleanupOlderThan(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, errors.New("audit service: retentionDays must be positive")
	}

	cutoff := s.now().AddDate(0, 0, -retentionDays)
	result := s.db.WithContext(ensureContext(ctx)).Where("created_at < ?", cutoff).Delete(&models.AuditLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("audit service: cleanup logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (e AuditEntry) toModel() (models.AuditLog, error) {
	action := strings.TrimSpace(e.Action)
	result := strings.TrimSpace(e.Result)
	switch {
	case action == "":
		return models.AuditLog{}, errors.New("audit service: action is required")
	case result == "":
		return models.AuditLog{}, fmt.Errorf("audit service: result is required for %s", action)
	}

	record := models.AuditLog{
		UserID:         optionalString(e.UserID),
		Email:          strings.TrimSpace(e.Email),
		OrganizationID: strings.TrimSpace(e.OrganizationID),
		Action:         action,
		Resource:       strings.TrimSpace(e.Resource),
		ResourceID:     strings.TrimSpace(e.ResourceID),
		Result:         result,
		Path:           strings.TrimSpace(e.Path),
	}
	if e.Metadata != nil {
		encoded, err := json.Marshal(e.Metadata)
		if err != nil {
			return models.AuditLog{}, fmt.Errorf("audit service: marshal %s metadata: %w", action, err)
		}
		record.Metadata = datatypes.JSON(encoded)
	}
	return record, nil
}

func auditFilterScope(filters AuditFilters) func(*gorm.DB) *gorm.DB {
	return func(query *gorm.DB) *gorm.DB {
		for column, value := range map[string]string{
			"user_id":  filters.UserID,
			"action":   filters.Action,
			"result":   filters.Result,
			"resource": filters.Resource,
		} {
			if value != "" {
				query = query.Where(column+" = ?", value)
			}
		}
		if filters.Since != nil {
			query = query.Where("created_at >= ?", *filters.Since)
		}
		if filters.Until != nil {
			query = query.Where("created_at <= ?", *filters.Until)
		}
		return query
	}
}
