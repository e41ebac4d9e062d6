package store

import (
	"gorm.io/gorm"

	"github.com/flowline-app/flowmsgo/internal/models"
)

// Users is the GORM-backed account store.
type Users struct {
	db *gorm.DB
}

// NewUsers returns a Users store on db.
func NewUsers(db *gorm.DB) *Users { return &Users{db: db} }

func (s *Users) ByUsername(username string) (*models.UserAccount, error) {
	var u models.UserAccount
	if err := s.db.Where("username = ?", username).First(&u).Error; err != nil {
		return nil, asNotFound(err)
	}
	return &u, nil
}

func (s *Users) ByID(id string) (*models.UserAccount, error) {
	var u models.UserAccount
	if err := s.db.Where("id = ?", id).First(&u).Error; err != nil {
		return nil, asNotFound(err)
	}
	return &u, nil
}

func (s *Users) ByRole(role string) ([]models.UserAccount, error) {
	var users []models.UserAccount
	if err := s.db.Where("role = ?", role).Order("created_at").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *Users) Create(u *models.UserAccount) error {
	ensureID(&u.ID)
	return s.db.Create(u).Error
}

func (s *Users) Save(u *models.UserAccount) error {
	return s.db.Save(u).Error
}

func (s *Users) DeleteByUsername(username string) error {
	return s.db.Where("username = ?", username).Delete(&models.UserAccount{}).Error
}

func (s *Users) DeleteByID(id string) error {
	return s.db.Where("id = ?", id).Delete(&models.UserAccount{}).Error
}
