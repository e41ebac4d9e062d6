package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/flowline-app/flowmsgo/internal/models"
	"github.com/flowline-app/flowmsgo/internal/permissions"
	"github.com/flowline-app/flowmsgo/internal/services/folders"
)

// CreateFolderRequest carries a new folder's name and optional descriptor.
type CreateFolderRequest struct {
	Name         string `json:"name"`
	OrderID      string `json:"orderId"`
	CustomerName string `json:"customerName"`
	CompanyName  string `json:"companyName"`
	RawMaterial  string `json:"rawMaterial"`
	Quantity     *int   `json:"quantity"`
	CDD          string `json:"cdd"`
	MPD          string `json:"mpd"`
	StartDate    string `json:"startDate"`
}

// StepRequest is one process-step row as submitted from the schema form.
// Day offsets arrive as free text; unparseable values become open-ended.
type StepRequest struct {
	Label       string `json:"label"`
	Responsible string `json:"responsible"`
	TargetType  string `json:"targetType"`
	Days        string `json:"days"`
}

func (s StepRequest) toStep() models.ProcessStep {
	return models.ProcessStep{
		Label:       s.Label,
		Responsible: s.Responsible,
		TargetType:  s.TargetType,
		Days:        folders.ParseDays(s.Days),
	}
}

// listFolders returns the folders visible to the caller.
func (r *Router) listFolders(w http.ResponseWriter, req *http.Request) {
	user, ok := r.currentAccount(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	all, err := r.folderSvc.All()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, permissions.AccessibleFolders(r.principalFor(user), all))
}

// createFolder registers a folder. Superadmins create freely; the folder's
// management tag is granted to an admin named in the request, if any.
func (r *Router) createFolder(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.FolderLifecycleResource()); !ok {
		return
	}

	var body struct {
		CreateFolderRequest
		AdminID string `json:"adminId"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	params := folders.CreateParams{
		Name:         body.Name,
		OrderID:      body.OrderID,
		CustomerName: body.CustomerName,
		CompanyName:  body.CompanyName,
		RawMaterial:  body.RawMaterial,
		Quantity:     body.Quantity,
		CDD:          body.CDD,
		MPD:          body.MPD,
		StartDate:    body.StartDate,
	}

	var folder *models.Folder
	var err error
	if body.AdminID != "" {
		folder, err = r.folderSvc.CreateFolderForAdmin(body.AdminID, params)
	} else {
		folder, err = r.folderSvc.CreateFolder(params)
	}
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, folder)
}

// getFolder returns one folder for a caller with management or view access.
func (r *Router) getFolder(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	user, ok := r.currentAccount(req)
	if !ok {
		respondError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	p := r.principalFor(user)
	res := permissions.AdminFolderResource(id)
	if user.Role == models.RoleEmployee {
		res = permissions.FolderResource(id)
	}
	if !r.authz.Authorize(p, res) {
		respondError(w, http.StatusForbidden, "Access denied")
		return
	}

	folder, err := r.folderSvc.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, folder)
}

// deleteFolder removes a folder; superadmin only.
func (r *Router) deleteFolder(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.FolderLifecycleResource()); !ok {
		return
	}
	if err := r.folderSvc.DeleteFolder(mux.Vars(req)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Folder deleted"})
}

// stageFields stores the field-label half of a schema edit.
func (r *Router) stageFields(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	if _, ok := r.authorize(w, req, permissions.AdminFolderResource(id)); !ok {
		return
	}

	var body struct {
		FieldLabels []string `json:"fieldLabels"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := r.folderSvc.StageFields(id, body.FieldLabels); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Fields staged"})
}

// commitSchema finalizes a schema edit from the staged labels plus the
// submitted step rows.
func (r *Router) commitSchema(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	if _, ok := r.authorize(w, req, permissions.AdminFolderResource(id)); !ok {
		return
	}

	var body struct {
		Steps []StepRequest `json:"steps"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	steps := make([]models.ProcessStep, 0, len(body.Steps))
	for _, s := range body.Steps {
		steps = append(steps, s.toStep())
	}

	folder, err := r.folderSvc.CommitSchema(id, steps)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, folder)
}

// employeeFolders lists the folders the employee's FMS tags grant.
func (r *Router) employeeFolders(w http.ResponseWriter, req *http.Request) {
	p, ok := r.authorize(w, req, permissions.FolderIndexResource())
	if !ok {
		return
	}
	all, err := r.folderSvc.All()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, permissions.AccessibleFolders(p, all))
}

// employeeFolder returns one folder for an employee holding its FMS tag.
func (r *Router) employeeFolder(w http.ResponseWriter, req *http.Request) {
	id := mux.Vars(req)["id"]
	if _, ok := r.authorize(w, req, permissions.FolderResource(id)); !ok {
		return
	}
	folder, err := r.folderSvc.Get(id)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, folder)
}
