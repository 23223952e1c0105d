package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TenantScope constrains a query to one tenant's rows. Every tenant-owned
// read and write must go through this scope with the tenant id taken from the
// authenticated session, never from request input. A nil tenant id matches
// nothing rather than everything.
func TenantScope(tenantID uuid.UUID) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("tenant_id = ?", tenantID)
	}
}
