package store

import (
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/flowline-app/flowmsgo/internal/models"
)

// Folders is the GORM-backed flow definition store.
type Folders struct {
	db *gorm.DB
}

// NewFolders returns a Folders store on db.
func NewFolders(db *gorm.DB) *Folders { return &Folders{db: db} }

func (s *Folders) Create(f *models.Folder) error {
	ensureID(&f.ID)
	return s.db.Create(f).Error
}

func (s *Folders) ByID(id string) (*models.Folder, error) {
	var f models.Folder
	if err := s.db.Where("id = ?", id).First(&f).Error; err != nil {
		return nil, asNotFound(err)
	}
	return &f, nil
}

// ByNameFold looks a folder up by name, case-insensitively.
func (s *Folders) ByNameFold(name string) (*models.Folder, error) {
	var f models.Folder
	err := s.db.Where("LOWER(name) = ?", strings.ToLower(name)).First(&f).Error
	if err != nil {
		return nil, asNotFound(err)
	}
	return &f, nil
}

func (s *Folders) All() ([]models.Folder, error) {
	var folders []models.Folder
	if err := s.db.Order("created_at").Find(&folders).Error; err != nil {
		return nil, err
	}
	return folders, nil
}

func (s *Folders) Save(f *models.Folder) error {
	return s.db.Save(f).Error
}

func (s *Folders) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.Folder{}).Error
}

// Drafts is the GORM-backed store for staged schema edits.
type Drafts struct {
	db *gorm.DB
}

// NewDrafts returns a Drafts store on db.
func NewDrafts(db *gorm.DB) *Drafts { return &Drafts{db: db} }

// Put replaces any existing draft for the folder.
func (s *Drafts) Put(d *models.FolderDraft) error {
	if err := s.db.Where("folder_id = ?", d.FolderID).Delete(&models.FolderDraft{}).Error; err != nil {
		return err
	}
	return s.db.Create(d).Error
}

// Get returns the folder's draft, or ErrNotFound when absent or expired.
// Expired drafts are removed on the way out.
func (s *Drafts) Get(folderID string) (*models.FolderDraft, error) {
	var d models.FolderDraft
	if err := s.db.Where("folder_id = ?", folderID).First(&d).Error; err != nil {
		return nil, asNotFound(err)
	}
	if time.Now().After(d.ExpiresAt) {
		_ = s.Delete(folderID)
		return nil, models.ErrNotFound
	}
	return &d, nil
}

func (s *Drafts) Delete(folderID string) error {
	return s.db.Where("folder_id = ?", folderID).Delete(&models.FolderDraft{}).Error
}
