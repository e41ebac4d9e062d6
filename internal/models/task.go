package models

import (
	"time"

	"gorm.io/gorm"
)

// Task statuses.
const (
	TaskInProgress = "In Progress"
	TaskCompleted  = "Completed"
	TaskDelayed    = "Delayed"
	TaskOverdue    = "Overdue"
	TaskOnTime     = "On Time"
	TaskPending    = "Pending"
)

// Task is a manually assigned unit of work. Tasks derived from folder
// process steps are never persisted as rows; they are materialized per
// request by the task service with a synthetic FMS_ display ID.
type Task struct {
	ID        string `gorm:"primaryKey;type:uuid" json:"id"`
	DisplayID string `gorm:"uniqueIndex" json:"displayId"`

	Title       string `json:"title"`
	Description string `json:"description,omitempty"`

	ProjectName string `json:"projectName,omitempty"`
	ClientName  string `json:"clientName,omitempty"`

	AssignedToID   string `gorm:"index" json:"assignedToId"`
	AssignedToName string `json:"assignedToName"`
	AssignedByID   string `gorm:"index" json:"assignedById"`
	AssignedByName string `json:"assignedByName"`

	TargetDate     string `json:"targetDate,omitempty"`
	CompletionDate string `json:"completionDate,omitempty"`

	Status  string `gorm:"default:'In Progress';index" json:"status"`
	Remarks string `json:"remarks,omitempty"`

	AssignedFile   string `json:"assignedFile,omitempty"`
	CompletionFile string `json:"completionFile,omitempty"`

	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// TableName specifies the table name for Task model
func (Task) TableName() string {
	return "tasks"
}
