package models

import (
	"time"

	"gorm.io/datatypes"
)

// Employee statuses.
const (
	EmployeeActive  = "Active"
	EmployeeHold    = "Hold"
	EmployeeDeleted = "Deleted"
)

// Employee is the profile record behind an EMPLOYEE login. The name doubles
// as the login username; permission tags here are the source of truth and
// are mirrored onto the matching UserAccount on every mutation.
type Employee struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	Name       string `gorm:"uniqueIndex;not null" json:"name"`
	Department string `json:"department"`
	Status     string `gorm:"default:'Active'" json:"status"`

	// ID of the ADMIN account that owns this employee. Deleting that
	// admin cascades to this record and its UserAccount.
	AdminID string `gorm:"index" json:"adminId"`

	Permissions datatypes.JSONSlice[string] `json:"permissions"`
	Email       string                      `json:"email,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Employee model
func (Employee) TableName() string {
	return "employees"
}
