package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/flowline-app/flowmsgo/internal/models"
	"github.com/flowline-app/flowmsgo/internal/services/employees"
	"github.com/flowline-app/flowmsgo/internal/storage"
)

const maxLogoUpload = 5 << 20 // 5 MiB

// adminParamsFromForm reads admin fields from a multipart form, saving the
// optional company logo to disk. A logo store failure does not abort; it is
// returned separately so the account mutation can proceed and the response
// reports partial success.
func (r *Router) adminParamsFromForm(req *http.Request) (employees.AdminParams, *models.AttachmentError, error) {
	if err := req.ParseMultipartForm(maxLogoUpload); err != nil {
		return employees.AdminParams{}, nil, err
	}

	params := employees.AdminParams{
		Username:     req.FormValue("username"),
		Email:        req.FormValue("email"),
		CompanyName:  req.FormValue("companyName"),
		CustomerName: req.FormValue("customerName"),
	}
	if ids := req.FormValue("folderIds"); ids != "" {
		params.FolderIDs = strings.Split(ids, ",")
	}

	path, attErr := saveUpload(r.files, req, "logo", storage.SubdirLogos)
	params.CompanyLogo = path
	return params, attErr, nil
}

// listAdmins returns all ADMIN accounts.
func (r *Router) listAdmins(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.requireRole(w, req, models.RoleSuperAdmin); !ok {
		return
	}
	admins, err := r.employeeSvc.Admins()
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, admins)
}

// createAdmin registers an ADMIN account with folder grants and an optional
// company logo.
func (r *Router) createAdmin(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.requireRole(w, req, models.RoleSuperAdmin); !ok {
		return
	}

	params, attErr, err := r.adminParamsFromForm(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	account, err := r.employeeSvc.CreateAdmin(params)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if attErr != nil {
		respondPartial(w, http.StatusCreated, account, attErr)
		return
	}
	respondJSON(w, http.StatusCreated, account)
}

// updateAdmin edits an ADMIN account; folder grants are replaced wholesale.
func (r *Router) updateAdmin(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.requireRole(w, req, models.RoleSuperAdmin); !ok {
		return
	}

	params, attErr, err := r.adminParamsFromForm(req)
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	account, err := r.employeeSvc.UpdateAdmin(mux.Vars(req)["id"], params)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if attErr != nil {
		respondPartial(w, http.StatusOK, account, attErr)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

// deleteAdmin removes the admin and cascades to its employees.
func (r *Router) deleteAdmin(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.requireRole(w, req, models.RoleSuperAdmin); !ok {
		return
	}
	if err := r.employeeSvc.DeleteAdmin(mux.Vars(req)["id"]); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Admin deleted"})
}

// folderAccessMatrix reports per-admin grant state for one folder.
func (r *Router) folderAccessMatrix(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.requireRole(w, req, models.RoleSuperAdmin); !ok {
		return
	}
	folderID := req.URL.Query().Get("folderId")
	if folderID == "" {
		respondError(w, http.StatusBadRequest, "folderId is required")
		return
	}
	matrix, err := r.employeeSvc.FolderAccessMatrix(folderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, matrix)
}

// setFolderAccess grants or revokes one folder's management tag for one
// admin.
func (r *Router) setFolderAccess(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.requireRole(w, req, models.RoleSuperAdmin); !ok {
		return
	}

	var body struct {
		AdminID  string `json:"adminId"`
		FolderID string `json:"folderId"`
		Granted  bool   `json:"granted"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := r.employeeSvc.SetFolderAccess(body.AdminID, body.FolderID, body.Granted); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Folder access updated"})
}
