// Package employees manages principals: admin accounts, employee profiles
// and the login accounts paired with them, and folder-access grants.
package employees

import (
	"fmt"
	"log"
	"strings"

	"gorm.io/datatypes"

	"github.com/flowline-app/flowmsgo/internal/models"
	"github.com/flowline-app/flowmsgo/internal/permissions"
	"github.com/flowline-app/flowmsgo/internal/utils"
)

// DefaultPassword is assigned to accounts created through the admin flows
// until the user changes it.
const DefaultPassword = "1234567"

// EmployeeStore is the persistence surface for employee profiles.
type EmployeeStore interface {
	Create(*models.Employee) error
	ByID(string) (*models.Employee, error)
	ByName(string) (*models.Employee, error)
	ByAdminID(string) ([]models.Employee, error)
	All() ([]models.Employee, error)
	Save(*models.Employee) error
	Delete(string) error
}

// UserStore is the persistence surface for login accounts.
type UserStore interface {
	ByUsername(string) (*models.UserAccount, error)
	ByID(string) (*models.UserAccount, error)
	ByRole(string) ([]models.UserAccount, error)
	Create(*models.UserAccount) error
	Save(*models.UserAccount) error
	DeleteByUsername(string) error
	DeleteByID(string) error
}

// Service manages employees and admin accounts.
type Service struct {
	employees EmployeeStore
	users     UserStore
}

// New returns an employee service.
func New(employees EmployeeStore, users UserStore) *Service {
	return &Service{employees: employees, users: users}
}

// CreateEmployee registers a profile and its paired login account in one
// step. The account gets the default password and mirrors the profile's
// permission tags. If the account cannot be created the profile is rolled
// back, so the pair never splits.
func (s *Service) CreateEmployee(e *models.Employee) error {
	e.Name = strings.TrimSpace(e.Name)
	if e.Name == "" {
		return fmt.Errorf("%w: employee name is required", models.ErrValidation)
	}
	if _, err := s.users.ByUsername(e.Name); err == nil {
		return fmt.Errorf("%w: account %q already exists", models.ErrDuplicate, e.Name)
	} else if err != models.ErrNotFound {
		return err
	}

	if e.Status == "" {
		e.Status = models.EmployeeActive
	}
	if err := s.employees.Create(e); err != nil {
		return err
	}

	hash, err := utils.HashPassword(DefaultPassword)
	if err != nil {
		_ = s.employees.Delete(e.ID)
		return err
	}
	account := &models.UserAccount{
		Username:    e.Name,
		Password:    hash,
		Role:        models.RoleEmployee,
		Permissions: append(datatypes.JSONSlice[string]{}, e.Permissions...),
		Email:       e.Email,
	}
	if err := s.users.Create(account); err != nil {
		_ = s.employees.Delete(e.ID)
		return err
	}
	return nil
}

// UpdateEmployee applies profile edits. A rename also renames the paired
// account; permission changes mirror to it.
func (s *Service) UpdateEmployee(id string, update models.Employee) (*models.Employee, error) {
	e, err := s.employees.ByID(id)
	if err != nil {
		return nil, err
	}

	oldName := e.Name
	if name := strings.TrimSpace(update.Name); name != "" {
		e.Name = name
	}
	if update.Department != "" {
		e.Department = update.Department
	}
	if update.Status != "" {
		e.Status = update.Status
	}
	if update.Email != "" {
		e.Email = update.Email
	}
	if update.Permissions != nil {
		e.Permissions = update.Permissions
	}
	if err := s.employees.Save(e); err != nil {
		return nil, err
	}

	if account, err := s.users.ByUsername(oldName); err == nil {
		account.Username = e.Name
		account.Email = e.Email
		account.Permissions = append(datatypes.JSONSlice[string]{}, e.Permissions...)
		if err := s.users.Save(account); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// SetPermissions replaces the employee's tag list and mirrors it onto the
// paired account. A missing account is tolerated.
func (s *Service) SetPermissions(id string, tags []string) (*models.Employee, error) {
	e, err := s.employees.ByID(id)
	if err != nil {
		return nil, err
	}
	e.Permissions = datatypes.JSONSlice[string](tags)
	if err := s.employees.Save(e); err != nil {
		return nil, err
	}
	if account, err := s.users.ByUsername(e.Name); err == nil {
		account.Permissions = datatypes.JSONSlice[string](tags)
		if err := s.users.Save(account); err != nil {
			return nil, err
		}
	}
	return e, nil
}

// DeleteEmployee removes the profile and its paired account.
func (s *Service) DeleteEmployee(id string) error {
	e, err := s.employees.ByID(id)
	if err != nil {
		return err
	}
	if err := s.users.DeleteByUsername(e.Name); err != nil {
		log.Printf("⚠️ could not delete account for employee %s: %v", e.Name, err)
	}
	return s.employees.Delete(id)
}

// Get returns one employee profile.
func (s *Service) Get(id string) (*models.Employee, error) {
	return s.employees.ByID(id)
}

// ByName returns the profile matching a login username.
func (s *Service) ByName(name string) (*models.Employee, error) {
	return s.employees.ByName(name)
}

// ForAdmin lists the employees an admin owns; superadmins get everyone.
func (s *Service) ForAdmin(admin *models.UserAccount) ([]models.Employee, error) {
	if admin.Role == models.RoleSuperAdmin {
		return s.employees.All()
	}
	return s.employees.ByAdminID(admin.ID)
}

// AdminParams carries the fields of an admin account create or update.
type AdminParams struct {
	Username     string
	Email        string
	CompanyName  string
	CustomerName string
	CompanyLogo  string
	FolderIDs    []string
}

// CreateAdmin registers an ADMIN account with management tags for the given
// folders and the default password.
func (s *Service) CreateAdmin(p AdminParams) (*models.UserAccount, error) {
	username := strings.TrimSpace(p.Username)
	if username == "" {
		username = strings.TrimSpace(p.Email)
	}
	if username == "" {
		return nil, fmt.Errorf("%w: admin username or email is required", models.ErrValidation)
	}
	if _, err := s.users.ByUsername(username); err == nil {
		return nil, fmt.Errorf("%w: account %q already exists", models.ErrDuplicate, username)
	} else if err != models.ErrNotFound {
		return nil, err
	}

	hash, err := utils.HashPassword(DefaultPassword)
	if err != nil {
		return nil, err
	}
	account := &models.UserAccount{
		Username:     username,
		Password:     hash,
		Role:         models.RoleAdmin,
		Email:        strings.TrimSpace(p.Email),
		CompanyName:  strings.TrimSpace(p.CompanyName),
		CustomerName: strings.TrimSpace(p.CustomerName),
		CompanyLogo:  p.CompanyLogo,
		Permissions:  adminFolderTags(p.FolderIDs),
	}
	if err := s.users.Create(account); err != nil {
		return nil, err
	}
	return account, nil
}

// UpdateAdmin edits an ADMIN account. Folder grants are replaced wholesale;
// non-folder tags are preserved.
func (s *Service) UpdateAdmin(id string, p AdminParams) (*models.UserAccount, error) {
	account, err := s.users.ByID(id)
	if err != nil {
		return nil, err
	}
	if account.Role != models.RoleAdmin {
		return nil, fmt.Errorf("%w: account %s is not an admin", models.ErrValidation, id)
	}

	if v := strings.TrimSpace(p.Email); v != "" {
		account.Email = v
	}
	if v := strings.TrimSpace(p.CompanyName); v != "" {
		account.CompanyName = v
	}
	if v := strings.TrimSpace(p.CustomerName); v != "" {
		account.CustomerName = v
	}
	if p.CompanyLogo != "" {
		account.CompanyLogo = p.CompanyLogo
	}
	if p.FolderIDs != nil {
		kept := make(datatypes.JSONSlice[string], 0, len(account.Permissions))
		for _, tag := range account.Permissions {
			if !permissions.IsAdminFolderTag(tag) {
				kept = append(kept, tag)
			}
		}
		account.Permissions = append(kept, adminFolderTags(p.FolderIDs)...)
	}
	if err := s.users.Save(account); err != nil {
		return nil, err
	}
	return account, nil
}

// Admins lists all ADMIN accounts.
func (s *Service) Admins() ([]models.UserAccount, error) {
	return s.users.ByRole(models.RoleAdmin)
}

// DeleteAdmin removes the admin and cascades to its employees and their
// accounts. Per-employee failures are logged and skipped so one bad row
// cannot wedge the cascade.
func (s *Service) DeleteAdmin(id string) error {
	account, err := s.users.ByID(id)
	if err != nil {
		return err
	}
	if account.Role != models.RoleAdmin {
		return fmt.Errorf("%w: account %s is not an admin", models.ErrValidation, id)
	}

	owned, err := s.employees.ByAdminID(id)
	if err != nil {
		return err
	}
	for _, e := range owned {
		if err := s.users.DeleteByUsername(e.Name); err != nil {
			log.Printf("⚠️ cascade: could not delete account for %s: %v", e.Name, err)
		}
		if err := s.employees.Delete(e.ID); err != nil {
			log.Printf("⚠️ cascade: could not delete employee %s: %v", e.Name, err)
		}
	}
	return s.users.DeleteByID(id)
}

// FolderAccess is one admin's grant state for a folder.
type FolderAccess struct {
	AdminID  string `json:"adminId"`
	Username string `json:"username"`
	Granted  bool   `json:"granted"`
}

// FolderAccessMatrix reports, per admin, whether the folder's management
// tag is granted.
func (s *Service) FolderAccessMatrix(folderID string) ([]FolderAccess, error) {
	admins, err := s.users.ByRole(models.RoleAdmin)
	if err != nil {
		return nil, err
	}
	tag := permissions.AdminFolderTag(folderID)
	out := make([]FolderAccess, 0, len(admins))
	for i := range admins {
		out = append(out, FolderAccess{
			AdminID:  admins[i].ID,
			Username: admins[i].Username,
			Granted:  admins[i].HasTag(tag),
		})
	}
	return out, nil
}

// SetFolderAccess grants or revokes one folder's management tag for one
// admin.
func (s *Service) SetFolderAccess(adminID, folderID string, granted bool) error {
	account, err := s.users.ByID(adminID)
	if err != nil {
		return err
	}
	tag := permissions.AdminFolderTag(folderID)
	has := account.HasTag(tag)
	switch {
	case granted && !has:
		account.Permissions = append(account.Permissions, tag)
	case !granted && has:
		kept := make(datatypes.JSONSlice[string], 0, len(account.Permissions))
		for _, t := range account.Permissions {
			if t != tag {
				kept = append(kept, t)
			}
		}
		account.Permissions = kept
	default:
		return nil
	}
	return s.users.Save(account)
}

func adminFolderTags(folderIDs []string) datatypes.JSONSlice[string] {
	tags := make(datatypes.JSONSlice[string], 0, len(folderIDs))
	for _, id := range folderIDs {
		if id = strings.TrimSpace(id); id != "" {
			tags = append(tags, permissions.AdminFolderTag(id))
		}
	}
	return tags
}
