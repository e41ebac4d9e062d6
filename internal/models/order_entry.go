package models

import (
	"time"

	"gorm.io/datatypes"
)

// OrderEntry is one append-only submission of field data against a folder's
// schema. The same folder+order pair may have many entries; the newest one
// by creation time is the current snapshot.
type OrderEntry struct {
	ID       string `gorm:"primaryKey;type:uuid" json:"id"`
	FolderID string `gorm:"index;not null" json:"folderId"`
	OrderID  string `gorm:"index" json:"orderId"`

	Fields datatypes.JSONType[map[string]string] `json:"fields"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for OrderEntry model
func (OrderEntry) TableName() string {
	return "order_entries"
}

// PlanningEntry binds an order to a chosen start date. Append-only like
// order entries; the earliest entry per folder+order drives the derived
// step schedule.
type PlanningEntry struct {
	ID        string    `gorm:"primaryKey;type:uuid" json:"id"`
	FolderID  string    `gorm:"index;not null" json:"folderId"`
	OrderID   string    `gorm:"index" json:"orderId"`
	StartDate string    `json:"startDate"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for PlanningEntry model
func (PlanningEntry) TableName() string {
	return "planning_entries"
}
