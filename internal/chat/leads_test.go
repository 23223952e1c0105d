package chat_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatlift/chatlift/internal/chat"
	"github.com/chatlift/chatlift/internal/testutil"
)

func TestLeadService_List(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	svc := chat.NewLeadService(ts.DB)
	ctx := testutil.TestContext(t)

	widget := testutil.CreateTestWidget(t, ts.DB, ts.Tenant.ID)
	other := testutil.CreateTestWidget(t, ts.DB, ts.Tenant.ID)
	for i := 0; i < 3; i++ {
		testutil.CreateTestLead(t, ts.DB, ts.Tenant.ID, widget.ID)
	}
	testutil.CreateTestLead(t, ts.DB, ts.Tenant.ID, other.ID)

	otherTenant := testutil.CreateTestTenant(t, ts.DB)
	otherWidget := testutil.CreateTestWidget(t, ts.DB, otherTenant.ID)
	testutil.CreateTestLead(t, ts.DB, otherTenant.ID, otherWidget.ID)

	t.Run("lists only own tenant's leads", func(t *testing.T) {
		leads, total, err := svc.List(ctx, ts.Tenant.ID, chat.LeadFilter{})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		for _, lead := range leads {
			assert.Equal(t, ts.Tenant.ID, lead.TenantID)
		}
	})

	t.Run("filters by widget", func(t *testing.T) {
		leads, total, err := svc.List(ctx, ts.Tenant.ID, chat.LeadFilter{WidgetID: &widget.ID})
		require.NoError(t, err)
		assert.EqualValues(t, 3, total)
		for _, lead := range leads {
			assert.Equal(t, widget.ID, lead.WidgetID)
		}
	})

	t.Run("paginates", func(t *testing.T) {
		leads, total, err := svc.List(ctx, ts.Tenant.ID, chat.LeadFilter{Page: 1, PerPage: 2})
		require.NoError(t, err)
		assert.EqualValues(t, 4, total)
		assert.Len(t, leads, 2)

		rest, _, err := svc.List(ctx, ts.Tenant.ID, chat.LeadFilter{Page: 2, PerPage: 2})
		require.NoError(t, err)
		assert.Len(t, rest, 2)
	})
}

func TestLeadService_Update(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	svc := chat.NewLeadService(ts.DB)
	ctx := testutil.TestContext(t)

	widget := testutil.CreateTestWidget(t, ts.DB, ts.Tenant.ID)
	lead := testutil.CreateTestLead(t, ts.DB, ts.Tenant.ID, widget.ID)

	t.Run("updates contact fields", func(t *testing.T) {
		updated, err := svc.Update(ctx, ts.Tenant.ID, lead.ID, chat.LeadInput{
			Email: "updated@example.com",
			Name:  "Updated Name",
			Notes: "Followed up by phone",
		})
		require.NoError(t, err)
		assert.Equal(t, "updated@example.com", updated.Email)
		assert.Equal(t, "Updated Name", updated.Name)
		assert.Equal(t, "Followed up by phone", updated.Notes)
	})

	t.Run("cross-tenant update reports not found", func(t *testing.T) {
		otherTenant := testutil.CreateTestTenant(t, ts.DB)
		_, err := svc.Update(ctx, otherTenant.ID, lead.ID, chat.LeadInput{Name: "Hijack"})
		assert.Equal(t, chat.ErrLeadNotFound, err)
	})
}

func TestLeadService_Delete(t *testing.T) {
	ts := testutil.NewTestContext(t)
	defer ts.Cleanup()
	svc := chat.NewLeadService(ts.DB)
	ctx := testutil.TestContext(t)

	widget := testutil.CreateTestWidget(t, ts.DB, ts.Tenant.ID)
	lead := testutil.CreateTestLead(t, ts.DB, ts.Tenant.ID, widget.ID)

	t.Run("cross-tenant delete reports not found", func(t *testing.T) {
		otherTenant := testutil.CreateTestTenant(t, ts.DB)
		err := svc.Delete(ctx, otherTenant.ID, lead.ID)
		assert.Equal(t, chat.ErrLeadNotFound, err)
	})

	t.Run("deletes own lead", func(t *testing.T) {
		require.NoError(t, svc.Delete(ctx, ts.Tenant.ID, lead.ID))

		_, err := svc.Get(ctx, ts.Tenant.ID, lead.ID)
		assert.Equal(t, chat.ErrLeadNotFound, err)
	})
}
