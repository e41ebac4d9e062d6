package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Roles a UserAccount can hold.
const (
	RoleSuperAdmin = "SUPERADMIN"
	RoleAdmin      = "ADMIN"
	RoleEmployee   = "EMPLOYEE"
)

// UserAccount represents a login principal in the system.
// Standardized: Go (PascalCase) -> DB (snake_case) -> JSON (camelCase)
type UserAccount struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Password string `gorm:"not null" json:"-"`
	Role     string `gorm:"default:'EMPLOYEE';index" json:"role"`

	// Flat permission tags, interpreted by prefix (ORDER_ENTRY,
	// TASK_MANAGER, FMS:<folderId>, ADMIN_FMS:<folderId>).
	// EMPLOYEE accounts mirror their Employee profile's tags.
	Permissions datatypes.JSONSlice[string] `json:"permissions"`

	// Company details for ADMIN accounts.
	CompanyName  string `json:"companyName,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
	CompanyLogo  string `json:"companyLogo,omitempty"`
	Email        string `json:"email,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for UserAccount model
func (UserAccount) TableName() string {
	return "user_accounts"
}

// HasTag reports whether the account carries the exact permission tag.
func (u *UserAccount) HasTag(tag string) bool {
	for _, p := range u.Permissions {
		if p == tag {
			return true
		}
	}
	return false
}
