// Package folders manages the flow registry: named folders, their field
// schemas and process-step templates, and staged two-step schema edits.
package folders

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/flowline-app/flowmsgo/internal/models"
	"github.com/flowline-app/flowmsgo/internal/permissions"
)

// DraftTTL bounds how long a staged field schema stays committable.
const DraftTTL = 30 * time.Minute

// FolderStore is the persistence surface for flow definitions.
type FolderStore interface {
	Create(*models.Folder) error
	ByID(string) (*models.Folder, error)
	ByNameFold(string) (*models.Folder, error)
	All() ([]models.Folder, error)
	Save(*models.Folder) error
	Delete(string) error
}

// DraftStore persists staged schema edits.
type DraftStore interface {
	Put(*models.FolderDraft) error
	Get(string) (*models.FolderDraft, error)
	Delete(string) error
}

// UserStore grants folder tags to the admin who owns a new folder.
type UserStore interface {
	ByID(string) (*models.UserAccount, error)
	Save(*models.UserAccount) error
}

// Service is the flow registry.
type Service struct {
	folders FolderStore
	drafts  DraftStore
	users   UserStore
}

// New returns a folder service.
func New(folders FolderStore, drafts DraftStore, users UserStore) *Service {
	return &Service{folders: folders, drafts: drafts, users: users}
}

// CreateParams carries the optional order descriptor captured when a folder
// is created.
type CreateParams struct {
	Name         string
	OrderID      string
	CustomerName string
	CompanyName  string
	RawMaterial  string
	Quantity     *int
	CDD          string
	MPD          string
	StartDate    string
}

// CreateFolder registers a new unconfigured folder. Names are unique
// case-insensitively.
func (s *Service) CreateFolder(p CreateParams) (*models.Folder, error) {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return nil, fmt.Errorf("%w: folder name is required", models.ErrValidation)
	}
	if _, err := s.folders.ByNameFold(name); err == nil {
		return nil, fmt.Errorf("%w: folder %q already exists", models.ErrDuplicate, name)
	} else if err != models.ErrNotFound {
		return nil, err
	}

	folder := &models.Folder{
		Name:         name,
		OrderID:      strings.TrimSpace(p.OrderID),
		CustomerName: strings.TrimSpace(p.CustomerName),
		CompanyName:  strings.TrimSpace(p.CompanyName),
		RawMaterial:  strings.TrimSpace(p.RawMaterial),
		Quantity:     p.Quantity,
		CDD:          strings.TrimSpace(p.CDD),
		MPD:          strings.TrimSpace(p.MPD),
		StartDate:    strings.TrimSpace(p.StartDate),
	}
	if err := s.folders.Create(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// CreateFolderForAdmin creates a folder and grants its management tag to the
// admin account, so the creator can configure it immediately.
func (s *Service) CreateFolderForAdmin(adminID string, p CreateParams) (*models.Folder, error) {
	folder, err := s.CreateFolder(p)
	if err != nil {
		return nil, err
	}
	admin, err := s.users.ByID(adminID)
	if err != nil {
		return folder, nil
	}
	tag := permissions.AdminFolderTag(folder.ID)
	if !admin.HasTag(tag) {
		admin.Permissions = append(admin.Permissions, tag)
		if err := s.users.Save(admin); err != nil {
			return nil, err
		}
	}
	return folder, nil
}

// Get returns one folder.
func (s *Service) Get(id string) (*models.Folder, error) {
	return s.folders.ByID(id)
}

// All returns every folder, oldest first.
func (s *Service) All() ([]models.Folder, error) {
	return s.folders.All()
}

// ParseDays parses a day-offset string; anything unparseable becomes nil
// rather than an error.
func ParseDays(value string) *int {
	value = strings.TrimSpace(value)
	if value == "" || value == "-" {
		return nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return nil
	}
	return &n
}

// DefineSchema replaces the folder's field labels and step template
// wholesale and marks it configured. Blank labels and all-empty step rows
// are dropped; surviving order is preserved.
func (s *Service) DefineSchema(folderID string, labels []string, steps []models.ProcessStep) (*models.Folder, error) {
	folder, err := s.folders.ByID(folderID)
	if err != nil {
		return nil, err
	}

	cleanLabels := make(datatypes.JSONSlice[string], 0, len(labels))
	for _, label := range labels {
		if l := strings.TrimSpace(label); l != "" {
			cleanLabels = append(cleanLabels, l)
		}
	}

	cleanSteps := make(datatypes.JSONSlice[models.ProcessStep], 0, len(steps))
	for _, step := range steps {
		step.Label = strings.TrimSpace(step.Label)
		step.Responsible = strings.TrimSpace(step.Responsible)
		step.TargetType = strings.TrimSpace(step.TargetType)
		if step.IsEmpty() {
			continue
		}
		cleanSteps = append(cleanSteps, step)
	}

	folder.FieldLabels = cleanLabels
	folder.Steps = cleanSteps
	folder.Configured = true
	if err := s.folders.Save(folder); err != nil {
		return nil, err
	}
	return folder, nil
}

// StageFields stores the field-label half of a schema edit as a draft.
func (s *Service) StageFields(folderID string, labels []string) error {
	if _, err := s.folders.ByID(folderID); err != nil {
		return err
	}
	clean := make(datatypes.JSONSlice[string], 0, len(labels))
	for _, label := range labels {
		if l := strings.TrimSpace(label); l != "" {
			clean = append(clean, l)
		}
	}
	return s.drafts.Put(&models.FolderDraft{
		FolderID:    folderID,
		FieldLabels: clean,
		ExpiresAt:   time.Now().Add(DraftTTL),
	})
}

// CommitSchema finalizes a schema edit: labels come from the folder's live
// draft if one exists, otherwise the already-persisted labels carry over
// (the edit-steps-only flow). The draft is consumed on success.
func (s *Service) CommitSchema(folderID string, steps []models.ProcessStep) (*models.Folder, error) {
	folder, err := s.folders.ByID(folderID)
	if err != nil {
		return nil, err
	}

	labels := []string(folder.FieldLabels)
	hadDraft := false
	if draft, err := s.drafts.Get(folderID); err == nil {
		labels = []string(draft.FieldLabels)
		hadDraft = true
	}

	updated, err := s.DefineSchema(folderID, labels, steps)
	if err != nil {
		return nil, err
	}
	if hadDraft {
		_ = s.drafts.Delete(folderID)
	}
	return updated, nil
}

// DeleteFolder removes the folder and any staged draft.
func (s *Service) DeleteFolder(id string) error {
	if _, err := s.folders.ByID(id); err != nil {
		return err
	}
	_ = s.drafts.Delete(id)
	return s.folders.Delete(id)
}
