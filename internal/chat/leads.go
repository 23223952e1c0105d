package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatlift/chatlift/internal/database"
	"github.com/chatlift/chatlift/internal/database/models"
)

var ErrLeadNotFound = errors.New("lead not found")

type LeadService struct {
	db *gorm.DB
}

func NewLeadService(db *gorm.DB) *LeadService {
	return &LeadService{db: db}
}

type LeadFilter struct {
	WidgetID *uuid.UUID
	Page     int
	PerPage  int
}

func (f *LeadFilter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PerPage < 1 {
		f.PerPage = 20
	}
	if f.PerPage > 100 {
		f.PerPage = 100
	}
}

func (s *LeadService) List(ctx context.Context, tenantID uuid.UUID, filter LeadFilter) ([]models.Lead, int64, error) {
	filter.normalize()

	query := s.db.WithContext(ctx).
		Model(&models.Lead{}).
		Scopes(database.TenantScope(tenantID))
	if filter.WidgetID != nil {
		query = query.Where("widget_id = ?", *filter.WidgetID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var leads []models.Lead
	if err := query.
		Order("created_at desc").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&leads).Error; err != nil {
		return nil, 0, err
	}

	return leads, total, nil
}

func (s *LeadService) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		First(&lead, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, err
	}
	return &lead, nil
}

type LeadInput struct {
	Email string
	Name  string
	Notes string
}

func (s *LeadService) Update(ctx context.Context, tenantID, id uuid.UUID, input LeadInput) (*models.Lead, error) {
	lead, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Email != "" {
		lead.Email = input.Email
	}
	if input.Name != "" {
		lead.Name = input.Name
	}
	if input.Notes != "" {
		lead.Notes = input.Notes
	}

	if err := s.db.WithContext(ctx).Save(lead).Error; err != nil {
		return nil, err
	}
	return lead, nil
}

func (s *LeadService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		Where("id = ?", id).
		Delete(&models.Lead{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrLeadNotFound
	}
	return nil
}
