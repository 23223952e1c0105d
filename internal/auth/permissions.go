package auth

// Role determines the capability set of an identity within its tenant.
type Role string

const (
	RoleOwner Role = "owner"
	RoleAgent Role = "agent"
)

// Permission is a named capability required by a route.
type Permission string

const (
	PermTeamManage       Permission = "team:manage"
	PermTeamInvite       Permission = "team:invite"
	PermWidgetRead       Permission = "widget:read"
	PermWidgetWrite      Permission = "widget:write"
	PermLeadRead         Permission = "lead:read"
	PermLeadWrite        Permission = "lead:write"
	PermConversationRead Permission = "conversation:read"
	PermBillingManage    Permission = "billing:manage"
)

// rolePermissions is the static role→capability mapping. Owners hold every
// permission; agents are excluded from team and billing management.
var rolePermissions = map[Role]map[Permission]bool{
	RoleOwner: {
		PermTeamManage:       true,
		PermTeamInvite:       true,
		PermWidgetRead:       true,
		PermWidgetWrite:      true,
		PermLeadRead:         true,
		PermLeadWrite:        true,
		PermConversationRead: true,
		PermBillingManage:    true,
	},
	RoleAgent: {
		PermWidgetRead:       true,
		PermWidgetWrite:      true,
		PermLeadRead:         true,
		PermLeadWrite:        true,
		PermConversationRead: true,
	},
}

func (r Role) IsValid() bool {
	switch r {
	case RoleOwner, RoleAgent:
		return true
	default:
		return false
	}
}

// Can reports whether the role holds the permission. Unknown roles hold nothing.
func (r Role) Can(perm Permission) bool {
	return rolePermissions[r][perm]
}

// CanAll reports whether the role holds every permission in the set.
func (r Role) CanAll(perms ...Permission) bool {
	for _, p := range perms {
		if !rolePermissions[r][p] {
			return false
		}
	}
	return true
}
