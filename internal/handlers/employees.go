package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/flowline-app/flowmsgo/internal/models"
)

// EmployeeRequest carries employee create/update fields.
type EmployeeRequest struct {
	Name        string   `json:"name"`
	Department  string   `json:"department"`
	Status      string   `json:"status"`
	Email       string   `json:"email"`
	Permissions []string `json:"permissions"`
}

// listEmployees returns the caller's employees: all of them for a
// superadmin, owned ones for an admin.
func (r *Router) listEmployees(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireRole(w, req, models.RoleSuperAdmin, models.RoleAdmin)
	if !ok {
		return
	}
	list, err := r.employeeSvc.ForAdmin(user)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, list)
}

// createEmployee registers a profile plus its login account.
func (r *Router) createEmployee(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireRole(w, req, models.RoleSuperAdmin, models.RoleAdmin)
	if !ok {
		return
	}

	var body EmployeeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	employee := &models.Employee{
		Name:        body.Name,
		Department:  body.Department,
		Status:      body.Status,
		Email:       body.Email,
		Permissions: body.Permissions,
		AdminID:     user.ID,
	}
	if err := r.employeeSvc.CreateEmployee(employee); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, employee)
}

// updateEmployee edits a profile; renames and permission changes follow
// through to the paired account.
func (r *Router) updateEmployee(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.requireRole(w, req, models.RoleSuperAdmin, models.RoleAdmin); !ok {
		return
	}

	var body EmployeeRequest
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := r.employeeSvc.UpdateEmployee(mux.Vars(req)["id"], models.Employee{
		Name:        body.Name,
		Department:  body.Department,
		Status:      body.Status,
		Email:       body.Email,
		Permissions: body.Permissions,
	})
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// setEmployeePermissions replaces the profile's tag list and mirrors it to
// the login account.
func (r *Router) setEmployeePermissions(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.requireRole(w, req, models.RoleSuperAdmin, models.RoleAdmin); !ok {
		return
	}

	var body struct {
		Permissions []string `json:"permissions"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	updated, err := r.employeeSvc.SetPermissions(mux.Vars(req)["id"], body.Permissions)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, updated)
}

// deleteEmployee removes the profile and its account.
func (r *Router) deleteEmployee(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.requireRole(w, req, models.RoleSuperAdmin, models.RoleAdmin); !ok {
		return
	}
	if err := r.employeeSvc.DeleteEmployee(mux.Vars(req)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Employee deleted"})
}
