package database_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlift/chatlift/internal/database"
	"github.com/chatlift/chatlift/internal/database/models"
	"github.com/chatlift/chatlift/internal/testutil"
)

func TestTenantScope(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)

	tenantA := testutil.CreateTestTenant(t, db)
	tenantB := testutil.CreateTestTenant(t, db)
	testutil.CreateTestWidget(t, db, tenantA.ID)
	testutil.CreateTestWidget(t, db, tenantA.ID)
	testutil.CreateTestWidget(t, db, tenantB.ID)

	t.Run("restricts rows to one tenant", func(t *testing.T) {
		var widgets []models.Widget
		require.NoError(t, db.Scopes(database.TenantScope(tenantA.ID)).Find(&widgets).Error)
		assert.Len(t, widgets, 2)
		for _, w := range widgets {
			assert.Equal(t, tenantA.ID, w.TenantID)
		}
	})

	t.Run("nil tenant matches nothing", func(t *testing.T) {
		var widgets []models.Widget
		require.NoError(t, db.Scopes(database.TenantScope(uuid.Nil)).Find(&widgets).Error)
		assert.Empty(t, widgets)
	})

	t.Run("unknown tenant matches nothing", func(t *testing.T) {
		var widgets []models.Widget
		require.NoError(t, db.Scopes(database.TenantScope(uuid.New())).Find(&widgets).Error)
		assert.Empty(t, widgets)
	})
}
