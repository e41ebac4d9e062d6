package store

import (
	"gorm.io/gorm"

	"github.com/flowline-app/flowmsgo/internal/models"
)

// Tasks is the GORM-backed manual task store.
type Tasks struct {
	db *gorm.DB
}

// NewTasks returns a Tasks store on db.
func NewTasks(db *gorm.DB) *Tasks { return &Tasks{db: db} }

func (s *Tasks) Create(t *models.Task) error {
	ensureID(&t.ID)
	return s.db.Create(t).Error
}

func (s *Tasks) Save(t *models.Task) error {
	return s.db.Save(t).Error
}

func (s *Tasks) ByDisplayID(displayID string) (*models.Task, error) {
	var t models.Task
	if err := s.db.Where("display_id = ?", displayID).First(&t).Error; err != nil {
		return nil, asNotFound(err)
	}
	return &t, nil
}

// ActiveByAssignee returns not-yet-completed tasks assigned to the user,
// newest first.
func (s *Tasks) ActiveByAssignee(userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Where("assigned_to_id = ? AND status <> ?", userID, models.TaskCompleted).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// CompletedByAssignee returns completed tasks assigned to the user.
func (s *Tasks) CompletedByAssignee(userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Where("assigned_to_id = ? AND status = ?", userID, models.TaskCompleted).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// DelegatedByAssigner returns tasks the user assigned to somebody else.
func (s *Tasks) DelegatedByAssigner(userID string) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.Where("assigned_by_id = ? AND assigned_to_id <> ?", userID, userID).
		Order("created_at DESC").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// Count returns the number of persisted tasks, used for display IDs.
func (s *Tasks) Count() (int64, error) {
	var n int64
	if err := s.db.Model(&models.Task{}).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
