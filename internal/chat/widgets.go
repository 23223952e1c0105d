package chat

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatlift/chatlift/internal/billing"
	"github.com/chatlift/chatlift/internal/database"
	"github.com/chatlift/chatlift/internal/database/models"
	"github.com/chatlift/chatlift/pkg/crypto"
)

const widgetKeyBytes = 24

var ErrWidgetNotFound = errors.New("widget not found")

// WidgetService manages chat widgets. All dashboard operations are scoped to
// the caller's tenant; only PublicConfig is keyed by the widget's public key.
type WidgetService struct {
	db        *gorm.DB
	encryptor *crypto.Encryptor
}

func NewWidgetService(db *gorm.DB, encryptor *crypto.Encryptor) *WidgetService {
	return &WidgetService{db: db, encryptor: encryptor}
}

type WidgetInput struct {
	Name          string
	Greeting      string
	AccentColor   string
	ModelProvider string
	APIKey        string
	IsActive      *bool
}

// Create stores a widget with a fresh unguessable public key. The AI-provider
// API key is encrypted before it touches the database.
func (s *WidgetService) Create(ctx context.Context, tenantID uuid.UUID, input WidgetInput) (*models.Widget, error) {
	publicKey, err := crypto.NewToken(widgetKeyBytes)
	if err != nil {
		return nil, err
	}

	widget := models.Widget{
		TenantID:    tenantID,
		Name:        input.Name,
		PublicKey:   publicKey,
		Greeting:    input.Greeting,
		AccentColor: input.AccentColor,
		IsActive:    true,
	}
	if input.ModelProvider != "" {
		widget.ModelProvider = input.ModelProvider
	}
	if input.APIKey != "" {
		ciphertext, err := s.encryptor.EncryptString(input.APIKey)
		if err != nil {
			return nil, err
		}
		widget.APIKeyCiphertext = ciphertext
	}

	if err := s.db.WithContext(ctx).Create(&widget).Error; err != nil {
		return nil, err
	}
	return &widget, nil
}

func (s *WidgetService) List(ctx context.Context, tenantID uuid.UUID) ([]models.Widget, error) {
	var widgets []models.Widget
	if err := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		Order("created_at asc").
		Find(&widgets).Error; err != nil {
		return nil, err
	}
	return widgets, nil
}

// Get loads one widget in the tenant. A widget owned by another tenant is
// indistinguishable from an absent one.
func (s *WidgetService) Get(ctx context.Context, tenantID, id uuid.UUID) (*models.Widget, error) {
	var widget models.Widget
	if err := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		First(&widget, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWidgetNotFound
		}
		return nil, err
	}
	return &widget, nil
}

func (s *WidgetService) Update(ctx context.Context, tenantID, id uuid.UUID, input WidgetInput) (*models.Widget, error) {
	widget, err := s.Get(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if input.Name != "" {
		widget.Name = input.Name
	}
	if input.Greeting != "" {
		widget.Greeting = input.Greeting
	}
	if input.AccentColor != "" {
		widget.AccentColor = input.AccentColor
	}
	if input.ModelProvider != "" {
		widget.ModelProvider = input.ModelProvider
	}
	if input.APIKey != "" {
		ciphertext, err := s.encryptor.EncryptString(input.APIKey)
		if err != nil {
			return nil, err
		}
		widget.APIKeyCiphertext = ciphertext
	}
	if input.IsActive != nil {
		widget.IsActive = *input.IsActive
	}

	if err := s.db.WithContext(ctx).Save(widget).Error; err != nil {
		return nil, err
	}
	return widget, nil
}

func (s *WidgetService) Delete(ctx context.Context, tenantID, id uuid.UUID) error {
	res := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		Where("id = ?", id).
		Delete(&models.Widget{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrWidgetNotFound
	}
	return nil
}

// PublicConfig resolves a widget by its public key and computes the owning
// tenant's serving decision. This is the only tenant-agnostic read in the
// system; the public key is the sole credential. Disabled widgets report
// not-found rather than paused.
func (s *WidgetService) PublicConfig(ctx context.Context, publicKey string) (*models.Widget, billing.Decision, error) {
	var widget models.Widget
	if err := s.db.WithContext(ctx).
		Preload("Tenant").
		Where("public_key = ? AND is_active = ?", publicKey, true).
		First(&widget).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, billing.Decision{}, ErrWidgetNotFound
		}
		return nil, billing.Decision{}, err
	}

	decision := billing.ServingDecision(widget.Tenant, time.Now())
	return &widget, decision, nil
}
