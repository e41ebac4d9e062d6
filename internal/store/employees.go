package store

import (
	"gorm.io/gorm"

	"github.com/flowline-app/flowmsgo/internal/models"
)

// Employees is the GORM-backed employee profile store.
type Employees struct {
	db *gorm.DB
}

// NewEmployees returns an Employees store on db.
func NewEmployees(db *gorm.DB) *Employees { return &Employees{db: db} }

func (s *Employees) Create(e *models.Employee) error {
	ensureID(&e.ID)
	return s.db.Create(e).Error
}

func (s *Employees) ByID(id string) (*models.Employee, error) {
	var e models.Employee
	if err := s.db.Where("id = ?", id).First(&e).Error; err != nil {
		return nil, asNotFound(err)
	}
	return &e, nil
}

func (s *Employees) ByName(name string) (*models.Employee, error) {
	var e models.Employee
	if err := s.db.Where("name = ?", name).First(&e).Error; err != nil {
		return nil, asNotFound(err)
	}
	return &e, nil
}

func (s *Employees) ByAdminID(adminID string) ([]models.Employee, error) {
	var employees []models.Employee
	if err := s.db.Where("admin_id = ?", adminID).Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Employees) All() ([]models.Employee, error) {
	var employees []models.Employee
	if err := s.db.Order("id").Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

func (s *Employees) Save(e *models.Employee) error {
	return s.db.Save(e).Error
}

func (s *Employees) Delete(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.Employee{}).Error
}
