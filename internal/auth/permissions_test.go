package auth_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chatlift/chatlift/internal/auth"
)

func TestRole_IsValid(t *testing.T) {
	assert.True(t, auth.RoleOwner.IsValid())
	assert.True(t, auth.RoleAgent.IsValid())
	assert.False(t, auth.Role("admin").IsValid())
	assert.False(t, auth.Role("").IsValid())
}

func TestRole_Can(t *testing.T) {
	tests := []struct {
		name string
		role auth.Role
		perm auth.Permission
		want bool
	}{
		{"owner can manage team", auth.RoleOwner, auth.PermTeamManage, true},
		{"owner can invite", auth.RoleOwner, auth.PermTeamInvite, true},
		{"owner can manage billing", auth.RoleOwner, auth.PermBillingManage, true},
		{"owner can write widgets", auth.RoleOwner, auth.PermWidgetWrite, true},
		{"agent can read widgets", auth.RoleAgent, auth.PermWidgetRead, true},
		{"agent can write widgets", auth.RoleAgent, auth.PermWidgetWrite, true},
		{"agent can read leads", auth.RoleAgent, auth.PermLeadRead, true},
		{"agent can write leads", auth.RoleAgent, auth.PermLeadWrite, true},
		{"agent can read conversations", auth.RoleAgent, auth.PermConversationRead, true},
		{"agent cannot manage team", auth.RoleAgent, auth.PermTeamManage, false},
		{"agent cannot invite", auth.RoleAgent, auth.PermTeamInvite, false},
		{"agent cannot manage billing", auth.RoleAgent, auth.PermBillingManage, false},
		{"unknown role holds nothing", auth.Role("superuser"), auth.PermWidgetRead, false},
		{"empty role holds nothing", auth.Role(""), auth.PermWidgetRead, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.role.Can(tt.perm))
		})
	}
}

func TestRole_CanAll(t *testing.T) {
	t.Run("owner holds every permission", func(t *testing.T) {
		assert.True(t, auth.RoleOwner.CanAll(
			auth.PermTeamManage,
			auth.PermTeamInvite,
			auth.PermWidgetRead,
			auth.PermWidgetWrite,
			auth.PermLeadRead,
			auth.PermLeadWrite,
			auth.PermConversationRead,
			auth.PermBillingManage,
		))
	})

	t.Run("one missing permission fails the set", func(t *testing.T) {
		assert.False(t, auth.RoleAgent.CanAll(auth.PermWidgetRead, auth.PermBillingManage))
	})

	t.Run("empty set always passes", func(t *testing.T) {
		assert.True(t, auth.RoleAgent.CanAll())
	})
}
