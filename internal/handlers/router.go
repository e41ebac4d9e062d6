package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/flowline-app/flowmsgo/internal/config"
	"github.com/flowline-app/flowmsgo/internal/database"
	"github.com/flowline-app/flowmsgo/internal/middleware"
	"github.com/flowline-app/flowmsgo/internal/models"
	"github.com/flowline-app/flowmsgo/internal/permissions"
	"github.com/flowline-app/flowmsgo/internal/services/employees"
	"github.com/flowline-app/flowmsgo/internal/services/folders"
	"github.com/flowline-app/flowmsgo/internal/services/orders"
	"github.com/flowline-app/flowmsgo/internal/services/planning"
	"github.com/flowline-app/flowmsgo/internal/services/tasks"
	"github.com/flowline-app/flowmsgo/internal/storage"
	"github.com/flowline-app/flowmsgo/internal/store"
)

// Router wraps the mux router, stores and services
type Router struct {
	*mux.Router
	cfg   *config.Config
	authz *permissions.Authorizer

	users     *store.Users
	foldersSt *store.Folders

	employeeSvc *employees.Service
	folderSvc   *folders.Service
	orderSvc    *orders.Service
	planSvc     *planning.Service
	taskSvc     *tasks.Service

	files *storage.Files
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, audit zerolog.Logger) *Router {
	users := store.NewUsers(db.DB)
	employeesSt := store.NewEmployees(db.DB)
	foldersSt := store.NewFolders(db.DB)
	drafts := store.NewDrafts(db.DB)
	entries := store.NewEntries(db.DB)
	plannings := store.NewPlannings(db.DB)
	tasksSt := store.NewTasks(db.DB)

	r := &Router{
		Router:      mux.NewRouter(),
		cfg:         cfg,
		authz:       permissions.NewAuthorizer(audit),
		users:       users,
		foldersSt:   foldersSt,
		employeeSvc: employees.New(employeesSt, users),
		folderSvc:   folders.New(foldersSt, drafts, users),
		orderSvc:    orders.New(entries, foldersSt),
		planSvc:     planning.New(foldersSt, entries, plannings),
		taskSvc:     tasks.New(tasksSt, foldersSt, plannings, users),
		files:       storage.NewFiles(cfg.Uploads.Dir),
	}

	r.Use(middleware.Recovery)

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Auth routes
	auth := r.PathPrefix("/auth").Subrouter()
	auth.HandleFunc("/login", r.login).Methods("POST")
	auth.HandleFunc("/refresh", r.refresh).Methods("POST")

	// API routes (protected)
	api := r.PathPrefix("/api").Subrouter()
	api.Use(middleware.Auth(cfg.JWTSecret))

	api.HandleFunc("/auth/me", r.me).Methods("GET")

	// Superadmin: admin accounts and folder delegation
	api.HandleFunc("/superadmin/admins", r.listAdmins).Methods("GET")
	api.HandleFunc("/superadmin/admins", r.createAdmin).Methods("POST")
	api.HandleFunc("/superadmin/admins/{id}", r.updateAdmin).Methods("PUT")
	api.HandleFunc("/superadmin/admins/{id}", r.deleteAdmin).Methods("DELETE")
	api.HandleFunc("/superadmin/folder-access", r.folderAccessMatrix).Methods("GET")
	api.HandleFunc("/superadmin/folder-access", r.setFolderAccess).Methods("POST")

	// Folder registry
	api.HandleFunc("/fms", r.listFolders).Methods("GET")
	api.HandleFunc("/fms", r.createFolder).Methods("POST")
	api.HandleFunc("/fms/{id}", r.getFolder).Methods("GET")
	api.HandleFunc("/fms/{id}", r.deleteFolder).Methods("DELETE")
	api.HandleFunc("/fms/{id}/fields", r.stageFields).Methods("POST")
	api.HandleFunc("/fms/{id}/schema", r.commitSchema).Methods("POST")

	// Employees
	api.HandleFunc("/employees", r.listEmployees).Methods("GET")
	api.HandleFunc("/employees", r.createEmployee).Methods("POST")
	api.HandleFunc("/employees/{id}", r.updateEmployee).Methods("PUT")
	api.HandleFunc("/employees/{id}", r.deleteEmployee).Methods("DELETE")
	api.HandleFunc("/employees/{id}/permissions", r.setEmployeePermissions).Methods("PATCH")

	// Order entry
	api.HandleFunc("/orders/dashboard", r.orderDashboard).Methods("GET")
	api.HandleFunc("/orders/entry", r.submitEntry).Methods("POST")
	api.HandleFunc("/orders/entry", r.latestEntry).Methods("GET")

	// Planning
	api.HandleFunc("/orders/planning", r.schedulePlanning).Methods("POST")
	api.HandleFunc("/orders/planning", r.planningBlocks).Methods("GET")
	api.HandleFunc("/orders/planning-status", r.updatePlanningStatus).Methods("POST")
	api.HandleFunc("/orders/schedule", r.stepSchedule).Methods("GET")

	// Task manager
	api.HandleFunc("/tasks", r.listTasks).Methods("GET")
	api.HandleFunc("/tasks", r.createTask).Methods("POST")
	api.HandleFunc("/tasks/bulk", r.createTasksBulk).Methods("POST")
	api.HandleFunc("/tasks/stats", r.taskStats).Methods("GET")
	api.HandleFunc("/tasks/bulk-complete", r.completeTasksBulk).Methods("PATCH")
	api.HandleFunc("/tasks/{taskId}/status", r.updateTaskStatus).Methods("PATCH")

	// Employee folder views
	api.HandleFunc("/employee/fms", r.employeeFolders).Methods("GET")
	api.HandleFunc("/employee/fms/{id}", r.employeeFolder).Methods("GET")

	// Uploaded attachments
	r.PathPrefix("/uploads/").Handler(
		http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.Uploads.Dir))))

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// currentAccount resolves the authenticated account from the JWT claims.
func (r *Router) currentAccount(req *http.Request) (*models.UserAccount, bool) {
	username, ok := middleware.UsernameFromContext(req.Context())
	if !ok {
		return nil, false
	}
	user, err := r.users.ByUsername(username)
	if err != nil {
		return nil, false
	}
	return user, true
}

// principalFor builds the authorization view of an account. Employee tags
// come from the Employee profile; a missing profile leaves the tag list
// empty, which denies everywhere.
func (r *Router) principalFor(user *models.UserAccount) permissions.Principal {
	p := permissions.PrincipalFromAccount(user)
	if user.Role == models.RoleEmployee {
		p.Tags = nil
		if profile, err := r.employeeSvc.ByName(user.Username); err == nil {
			p.Tags = profile.Permissions
		}
	}
	return p
}

// authorize resolves the principal and checks it against the resource,
// writing the failure response itself.
func (r *Router) authorize(w http.ResponseWriter, req *http.Request, res permissions.Resource) (permissions.Principal, bool) {
	user, ok := r.currentAccount(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return permissions.Principal{}, false
	}
	p := r.principalFor(user)
	if !r.authz.Authorize(p, res) {
		respondError(w, http.StatusForbidden, "Access denied")
		return permissions.Principal{}, false
	}
	return p, true
}

// requireRole short-circuits unless the caller holds one of the roles.
func (r *Router) requireRole(w http.ResponseWriter, req *http.Request, roles ...string) (*models.UserAccount, bool) {
	user, ok := r.currentAccount(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return nil, false
	}
	for _, role := range roles {
		if user.Role == role {
			return user, true
		}
	}
	respondError(w, http.StatusForbidden, "Access denied")
	return nil, false
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps domain errors onto HTTP statuses.
func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrValidation):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrDuplicate):
		respondError(w, http.StatusConflict, err.Error())
	case errors.Is(err, models.ErrNotFound):
		respondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, models.ErrForbidden):
		respondError(w, http.StatusForbidden, err.Error())
	default:
		respondError(w, http.StatusInternalServerError, "Internal server error")
	}
}
