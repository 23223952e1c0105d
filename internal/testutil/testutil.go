package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/chatlift/chatlift/internal/auth"
	"github.com/chatlift/chatlift/internal/database/models"
)

// SetupTestDB creates an in-memory SQLite database for testing
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	// A single connection keeps every session on the same in-memory database
	// and serializes concurrent writers the way SQLite expects.
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	// Run migrations
	err = db.AutoMigrate(
		&models.Tenant{},
		&models.User{},
		&models.Invitation{},
		&models.Widget{},
		&models.Lead{},
		&models.Conversation{},
	)
	if err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	return db
}

// CleanupTestDB closes the test database connection
func CleanupTestDB(t *testing.T, db *gorm.DB) {
	t.Helper()
	sqlDB, err := db.DB()
	if err != nil {
		t.Logf("warning: failed to get sql.DB: %v", err)
		return
	}
	sqlDB.Close()
}

// CreateTestTenant creates a tenant on an active trial
func CreateTestTenant(t *testing.T, db *gorm.DB) *models.Tenant {
	t.Helper()

	trialEnd := time.Now().Add(14 * 24 * time.Hour)
	tenant := &models.Tenant{
		Base: models.Base{
			ID: uuid.New(),
		},
		Name:               "Test Tenant " + uuid.New().String()[:8],
		Plan:               "starter",
		SubscriptionStatus: models.SubscriptionTrialing,
		TrialEndsAt:        &trialEnd,
	}

	if err := db.Create(tenant).Error; err != nil {
		t.Fatalf("failed to create test tenant: %v", err)
	}

	return tenant
}

// CreateTestUser creates a user in the given tenant with the given role
func CreateTestUser(t *testing.T, db *gorm.DB, tenant *models.Tenant, role string) *models.User {
	t.Helper()

	hash, err := auth.HashPassword("testpassword123")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}

	user := &models.User{
		Base: models.Base{
			ID: uuid.New(),
		},
		Email:        "test-" + uuid.New().String()[:8] + "@example.com",
		PasswordHash: hash,
		Name:         "Test User",
		TenantID:     tenant.ID,
		Role:         role,
	}

	if err := db.Create(user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}

	user.Tenant = tenant
	return user
}

// CreateTestWidget creates an active widget in the given tenant
func CreateTestWidget(t *testing.T, db *gorm.DB, tenantID uuid.UUID) *models.Widget {
	t.Helper()

	widget := &models.Widget{
		Base: models.Base{
			ID: uuid.New(),
		},
		TenantID:      tenantID,
		Name:          "Test Widget",
		PublicKey:     "pk-" + uuid.New().String(),
		Greeting:      "Hi there!",
		AccentColor:   "#4f46e5",
		ModelProvider: "openai",
		IsActive:      true,
	}

	if err := db.Create(widget).Error; err != nil {
		t.Fatalf("failed to create test widget: %v", err)
	}

	return widget
}

// CreateTestLead creates a lead attached to a widget
func CreateTestLead(t *testing.T, db *gorm.DB, tenantID, widgetID uuid.UUID) *models.Lead {
	t.Helper()

	lead := &models.Lead{
		Base: models.Base{
			ID: uuid.New(),
		},
		TenantID: tenantID,
		WidgetID: widgetID,
		Email:    "lead-" + uuid.New().String()[:8] + "@example.com",
		Name:     "Test Lead",
	}

	if err := db.Create(lead).Error; err != nil {
		t.Fatalf("failed to create test lead: %v", err)
	}

	return lead
}

// CreateTestConversation creates a conversation attached to a widget
func CreateTestConversation(t *testing.T, db *gorm.DB, tenantID, widgetID uuid.UUID) *models.Conversation {
	t.Helper()

	now := time.Now()
	conversation := &models.Conversation{
		Base: models.Base{
			ID: uuid.New(),
		},
		TenantID:      tenantID,
		WidgetID:      widgetID,
		VisitorKey:    "visitor-" + uuid.New().String()[:8],
		Messages:      `[{"role":"assistant","content":"Hi there!"}]`,
		StartedAt:     now,
		LastMessageAt: now,
	}

	if err := db.Create(conversation).Error; err != nil {
		t.Fatalf("failed to create test conversation: %v", err)
	}

	return conversation
}

// CreateTestInvitation creates a pending invitation in the given tenant
func CreateTestInvitation(t *testing.T, db *gorm.DB, tenantID, invitedBy uuid.UUID, email string) *models.Invitation {
	t.Helper()

	invitation := &models.Invitation{
		Base: models.Base{
			ID: uuid.New(),
		},
		TenantID:  tenantID,
		Token:     "invite-" + uuid.New().String(),
		Email:     email,
		Role:      "agent",
		InvitedBy: invitedBy,
		Status:    models.InvitationPending,
		ExpiresAt: time.Now().Add(7 * 24 * time.Hour),
	}

	if err := db.Create(invitation).Error; err != nil {
		t.Fatalf("failed to create test invitation: %v", err)
	}

	return invitation
}

// CreateTestJWTService creates a JWT service for testing
func CreateTestJWTService() *auth.JWTService {
	return auth.NewJWTService("test-secret-key-for-testing", 24*time.Hour)
}

// CreateTestSessionManager creates a session manager with insecure cookies
func CreateTestSessionManager() *auth.SessionManager {
	return auth.NewSessionManager(CreateTestJWTService(), 24*time.Hour, false)
}

// GenerateTestToken generates a valid JWT token for the given user
func GenerateTestToken(t *testing.T, jwtService *auth.JWTService, user *models.User) string {
	t.Helper()

	token, err := jwtService.GenerateToken(user.ID, user.TenantID, user.Email, user.Name, user.Role)
	if err != nil {
		t.Fatalf("failed to generate test token: %v", err)
	}

	return token
}

// AuthenticatedRequest creates an HTTP request with authentication
func AuthenticatedRequest(t *testing.T, method, path string, body interface{}, token string) *http.Request {
	t.Helper()

	var reqBody *bytes.Buffer
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("failed to marshal request body: %v", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return req
}

// UnauthenticatedRequest creates an HTTP request without authentication
func UnauthenticatedRequest(t *testing.T, method, path string, body interface{}) *http.Request {
	t.Helper()
	return AuthenticatedRequest(t, method, path, body, "")
}

// AssertStatus checks if the response has the expected status code
func AssertStatus(t *testing.T, rr *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if rr.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, rr.Code, rr.Body.String())
	}
}

// ParseJSONResponse parses the response body into the given struct
func ParseJSONResponse(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()

	if err := json.Unmarshal(rr.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to parse response body: %v. Body: %s", err, rr.Body.String())
	}
}

// TestContext creates a context with a timeout for tests
func TestContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// TestSetup holds all the common test dependencies
type TestSetup struct {
	DB         *gorm.DB
	JWTService *auth.JWTService
	Sessions   *auth.SessionManager
	Tenant     *models.Tenant
	Owner      *models.User
	Token      string
}

// NewTestContext creates a complete test setup with DB, tenant, owner, and token
func NewTestContext(t *testing.T) *TestSetup {
	t.Helper()

	db := SetupTestDB(t)
	jwtService := CreateTestJWTService()
	sessions := auth.NewSessionManager(jwtService, 24*time.Hour, false)
	tenant := CreateTestTenant(t, db)
	owner := CreateTestUser(t, db, tenant, "owner")
	token := GenerateTestToken(t, jwtService, owner)

	return &TestSetup{
		DB:         db,
		JWTService: jwtService,
		Sessions:   sessions,
		Tenant:     tenant,
		Owner:      owner,
		Token:      token,
	}
}

// Cleanup closes the test database
func (ts *TestSetup) Cleanup() {
	if ts.DB != nil {
		sqlDB, err := ts.DB.DB()
		if err == nil {
			sqlDB.Close()
		}
	}
}
