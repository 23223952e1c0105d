package chat

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatlift/chatlift/internal/database"
	"github.com/chatlift/chatlift/internal/database/models"
)

var ErrConversationNotFound = errors.New("conversation not found")

type ConversationService struct {
	db *gorm.DB
}

func NewConversationService(db *gorm.DB) *ConversationService {
	return &ConversationService{db: db}
}

type ConversationFilter struct {
	WidgetID *uuid.UUID
	LeadID   *uuid.UUID
	Page     int
	PerPage  int
}

func (f *ConversationFilter) normalize() {
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

func (s *ConversationService) List(ctx context.Context, tenantID uuid.UUID, filter ConversationFilter) ([]models.Conversation, int64, error) {
	filter.normalize()

	query := s.db.WithContext(ctx).
		Model(&models.Conversation{}).
		Scopes(database.TenantScope(tenantID))
	if filter.WidgetID != nil {
		query = query.Where("widget_id = ?", *filter.WidgetID)
	}
	if filter.LeadID != nil {
		query = query.Where("lead_id = ?", *filter.LeadID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var conversations []models.Conversation
	if err := query.
		Order("last_message_at desc").
		Offset((filter.Page - 1) * filter.PerPage).
		Limit(filter.PerPage).
		Find(&conversations).Error; err != nil {
		return nil, 0, err
	}

	return conversations, total, nil
}

func (s *ConversationService) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		First(&conversation, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrConversationNotFound
		}
		return nil, err
	}
	return &conversation, nil
}
