package store

import (
	"gorm.io/gorm"

	"github.com/flowline-app/flowmsgo/internal/models"
)

// Entries is the GORM-backed order entry store. Entries are append-only;
// "latest wins" is resolved at read time by creation timestamp.
type Entries struct {
	db *gorm.DB
}

// NewEntries returns an Entries store on db.
func NewEntries(db *gorm.DB) *Entries { return &Entries{db: db} }

func (s *Entries) Create(e *models.OrderEntry) error {
	ensureID(&e.ID)
	return s.db.Create(e).Error
}

func (s *Entries) ByID(id string) (*models.OrderEntry, error) {
	var e models.OrderEntry
	if err := s.db.Where("id = ?", id).First(&e).Error; err != nil {
		return nil, asNotFound(err)
	}
	return &e, nil
}

// ByFolderNewestFirst returns every entry for the folder, newest first.
func (s *Entries) ByFolderNewestFirst(folderID string) ([]models.OrderEntry, error) {
	var entries []models.OrderEntry
	err := s.db.Where("folder_id = ?", folderID).
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// LatestByFolderAndOrder returns the most recently created entry for the
// folder+order pair.
func (s *Entries) LatestByFolderAndOrder(folderID, orderID string) (*models.OrderEntry, error) {
	var e models.OrderEntry
	err := s.db.Where("folder_id = ? AND order_id = ?", folderID, orderID).
		Order("created_at DESC").
		First(&e).Error
	if err != nil {
		return nil, asNotFound(err)
	}
	return &e, nil
}

// Save overwrites an entry in place. This is the one exception to the
// append-only convention, used for planning-status stamps.
func (s *Entries) Save(e *models.OrderEntry) error {
	return s.db.Save(e).Error
}

// Plannings is the GORM-backed planning entry store.
type Plannings struct {
	db *gorm.DB
}

// NewPlannings returns a Plannings store on db.
func NewPlannings(db *gorm.DB) *Plannings { return &Plannings{db: db} }

func (s *Plannings) Create(p *models.PlanningEntry) error {
	ensureID(&p.ID)
	return s.db.Create(p).Error
}

// ByFolderOldestFirst returns the folder's planning entries in creation order.
func (s *Plannings) ByFolderOldestFirst(folderID string) ([]models.PlanningEntry, error) {
	var entries []models.PlanningEntry
	err := s.db.Where("folder_id = ?", folderID).
		Order("created_at ASC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// EarliestByFolderAndOrder returns the first planning entry recorded for the
// folder+order pair; the derived schedule is pinned to it.
func (s *Plannings) EarliestByFolderAndOrder(folderID, orderID string) (*models.PlanningEntry, error) {
	var p models.PlanningEntry
	err := s.db.Where("folder_id = ? AND order_id = ?", folderID, orderID).
		Order("created_at ASC").
		First(&p).Error
	if err != nil {
		return nil, asNotFound(err)
	}
	return &p, nil
}
