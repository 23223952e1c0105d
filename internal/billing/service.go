package billing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatlift/chatlift/internal/database/models"
)

var (
	ErrTenantNotFound   = errors.New("tenant not found")
	ErrNoBillingAccount = errors.New("tenant has no billing account")
)

// Snapshot is the derived subscription state for a tenant, computed on read.
type Snapshot struct {
	Plan             string     `json:"plan"`
	Status           string     `json:"status"`
	TrialEndsAt      *time.Time `json:"trial_ends_at,omitempty"`
	CurrentPeriodEnd *time.Time `json:"current_period_end,omitempty"`
	Decision         Decision   `json:"decision"`
}

type Service struct {
	db       *gorm.DB
	provider Provider
}

func NewService(db *gorm.DB, provider Provider) *Service {
	return &Service{db: db, provider: provider}
}

func (s *Service) tenant(ctx context.Context, tenantID uuid.UUID) (*models.Tenant, error) {
	var tenant models.Tenant
	if err := s.db.WithContext(ctx).First(&tenant, "id = ?", tenantID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, err
	}
	return &tenant, nil
}

// GetSnapshot returns the tenant's derived subscription state.
func (s *Service) GetSnapshot(ctx context.Context, tenantID uuid.UUID) (*Snapshot, error) {
	tenant, err := s.tenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	return &Snapshot{
		Plan:             tenant.Plan,
		Status:           tenant.SubscriptionStatus,
		TrialEndsAt:      tenant.TrialEndsAt,
		CurrentPeriodEnd: tenant.CurrentPeriodEnd,
		Decision:         ServingDecision(tenant, time.Now()),
	}, nil
}

// StartCheckout creates the provider customer on first use, persists its id,
// and returns a checkout URL.
func (s *Service) StartCheckout(ctx context.Context, tenantID uuid.UUID, ownerEmail string) (string, error) {
	tenant, err := s.tenant(ctx, tenantID)
	if err != nil {
		return "", err
	}

	customerID, err := s.ensureCustomer(ctx, tenant, ownerEmail)
	if err != nil {
		return "", err
	}

	return s.provider.CreateCheckoutSession(ctx, customerID)
}

// OpenPortal returns a billing-portal URL for a tenant that already has a
// provider customer.
func (s *Service) OpenPortal(ctx context.Context, tenantID uuid.UUID) (string, error) {
	tenant, err := s.tenant(ctx, tenantID)
	if err != nil {
		return "", err
	}

	if tenant.StripeCustomerID == nil || *tenant.StripeCustomerID == "" {
		return "", ErrNoBillingAccount
	}

	return s.provider.CreatePortalSession(ctx, *tenant.StripeCustomerID)
}

func (s *Service) ensureCustomer(ctx context.Context, tenant *models.Tenant, ownerEmail string) (string, error) {
	if tenant.StripeCustomerID != nil && *tenant.StripeCustomerID != "" {
		return *tenant.StripeCustomerID, nil
	}

	customerID, err := s.provider.CreateCustomer(ctx, ownerEmail, tenant.Name)
	if err != nil {
		return "", err
	}

	if err := s.db.WithContext(ctx).
		Model(&models.Tenant{}).
		Where("id = ?", tenant.ID).
		Update("stripe_customer_id", customerID).Error; err != nil {
		return "", err
	}

	return customerID, nil
}
