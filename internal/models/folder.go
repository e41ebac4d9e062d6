package models

import (
	"time"

	"gorm.io/datatypes"
)

// ProcessStep is one row of a folder's process template. Status, remarks and
// completion metadata live on the template itself, so a status update is
// visible to every order that runs through the folder.
type ProcessStep struct {
	Label          string `json:"label"`
	Responsible    string `json:"responsible"`
	TargetType     string `json:"targetType"`
	Days           *int   `json:"days"`
	Status         string `json:"status"`
	Remarks        string `json:"remarks"`
	CompletionDate string `json:"completionDate"`
	CompletionFile string `json:"completionFile"`
}

// IsEmpty reports whether every user-entered field of the step is blank.
func (s ProcessStep) IsEmpty() bool {
	return s.Label == "" && s.Responsible == "" && s.TargetType == "" && s.Days == nil
}

// Folder is a named process flow: an ordered field schema for order entry
// plus an ordered list of process-step templates.
type Folder struct {
	ID         string `gorm:"primaryKey;type:uuid" json:"id"`
	Name       string `gorm:"not null" json:"name"`
	Configured bool   `gorm:"default:false" json:"configured"`

	FieldLabels datatypes.JSONSlice[string]      `json:"fieldLabels"`
	Steps       datatypes.JSONSlice[ProcessStep] `json:"steps"`

	// Optional order descriptor metadata captured at creation time.
	OrderID      string `json:"orderId,omitempty"`
	CustomerName string `json:"customerName,omitempty"`
	CompanyName  string `json:"companyName,omitempty"`
	RawMaterial  string `json:"rawMaterial,omitempty"`
	Quantity     *int   `json:"quantity,omitempty"`
	CDD          string `json:"cdd,omitempty"`
	MPD          string `json:"mpd,omitempty"`
	StartDate    string `json:"startDate,omitempty"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// TableName specifies the table name for Folder model
func (Folder) TableName() string {
	return "folders"
}

// FolderDraft stages the field-label half of a two-step schema edit. It
// replaces cross-request session state: the commit consumes the draft and
// an expired draft is ignored.
type FolderDraft struct {
	FolderID    string                      `gorm:"primaryKey;type:uuid" json:"folderId"`
	FieldLabels datatypes.JSONSlice[string] `json:"fieldLabels"`
	ExpiresAt   time.Time                   `json:"expiresAt"`
	CreatedAt   time.Time                   `json:"createdAt"`
}

// TableName specifies the table name for FolderDraft model
func (FolderDraft) TableName() string {
	return "folder_drafts"
}
