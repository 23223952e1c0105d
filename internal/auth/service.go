package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/chatlift/chatlift/internal/database"
	"github.com/chatlift/chatlift/internal/database/models"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Service struct {
	db          *gorm.DB
	jwt         *JWTService
	trialLength time.Duration
}

func NewService(db *gorm.DB, jwt *JWTService, trialLength time.Duration) *Service {
	return &Service{db: db, jwt: jwt, trialLength: trialLength}
}

type SignupInput struct {
	Email       string
	Password    string
	Name        string
	CompanyName string
}

type LoginInput struct {
	Email    string
	Password string
}

// Signup creates a tenant on a fresh trial and its owner identity in one
// transaction.
func (s *Service) Signup(ctx context.Context, input SignupInput) (*models.User, error) {
	email := normalizeEmail(input.Email)

	var existing models.User
	if err := s.db.WithContext(ctx).Where("email = ?", email).First(&existing).Error; err == nil {
		return nil, ErrUserExists
	}

	hash, err := HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	companyName := input.CompanyName
	if companyName == "" {
		companyName = input.Name + "'s Team"
	}

	trialEndsAt := time.Now().Add(s.trialLength)
	tenant := models.Tenant{
		Name:               companyName,
		SubscriptionStatus: models.SubscriptionTrialing,
		TrialEndsAt:        &trialEndsAt,
	}

	var user models.User
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&tenant).Error; err != nil {
			return err
		}

		user = models.User{
			Email:        email,
			PasswordHash: hash,
			Name:         input.Name,
			TenantID:     tenant.ID,
			Role:         string(RoleOwner),
		}

		return tx.Create(&user).Error
	})

	if err != nil {
		return nil, err
	}

	user.Tenant = &tenant
	return &user, nil
}

// Login verifies credentials. An unknown email and a wrong password are
// indistinguishable to the caller.
func (s *Service) Login(ctx context.Context, input LoginInput) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Preload("Tenant").
		Where("email = ?", normalizeEmail(input.Email)).
		First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !CheckPassword(input.Password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return &user, nil
}

// GetUser loads a user within the caller's tenant. A user belonging to another
// tenant reports not-found, same as an absent row.
func (s *Service) GetUser(ctx context.Context, tenantID, id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		Preload("Tenant").
		First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// ListTeam returns all members of the tenant.
func (s *Service) ListTeam(ctx context.Context, tenantID uuid.UUID) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).
		Scopes(database.TenantScope(tenantID)).
		Order("created_at asc").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
