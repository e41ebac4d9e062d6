package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/flowline-app/flowmsgo/internal/permissions"
)

// orderDashboard returns the order-entry table for one folder.
func (r *Router) orderDashboard(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.OrderEntryResource()); !ok {
		return
	}
	folderID := req.URL.Query().Get("folderId")
	if folderID == "" {
		respondError(w, http.StatusBadRequest, "folderId is required")
		return
	}
	dash, err := r.orderSvc.DashboardFor(folderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, dash)
}

// submitEntry appends an order-entry submission.
func (r *Router) submitEntry(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.OrderEntryResource()); !ok {
		return
	}

	var body struct {
		FolderID string            `json:"folderId"`
		OrderID  string            `json:"orderId"`
		Fields   map[string]string `json:"fields"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	entry, err := r.orderSvc.SubmitEntry(body.FolderID, body.OrderID, body.Fields)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, entry)
}

// latestEntry returns the newest submission for a folder+order pair, or an
// empty object when none exists.
func (r *Router) latestEntry(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.OrderEntryResource()); !ok {
		return
	}
	entry, err := r.orderSvc.LatestEntry(
		req.URL.Query().Get("folderId"),
		req.URL.Query().Get("orderId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if entry == nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{})
		return
	}
	respondJSON(w, http.StatusOK, entry)
}

// schedulePlanning records a planning entry and stamps the order Planned.
func (r *Router) schedulePlanning(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.OrderEntryResource()); !ok {
		return
	}

	var body struct {
		FolderID  string `json:"folderId"`
		OrderID   string `json:"orderId"`
		StartDate string `json:"startDate"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := r.planSvc.SchedulePlanning(body.FolderID, body.OrderID, body.StartDate); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Planning scheduled"})
}

// planningBlocks returns the folder's planning view, one block per entry.
func (r *Router) planningBlocks(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.OrderEntryResource()); !ok {
		return
	}
	folderID := req.URL.Query().Get("folderId")
	if folderID == "" {
		respondError(w, http.StatusBadRequest, "folderId is required")
		return
	}
	blocks, err := r.planSvc.PlanningBlocks(folderID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, blocks)
}

// updatePlanningStatus sets the planning status on one entry.
func (r *Router) updatePlanningStatus(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.OrderEntryResource()); !ok {
		return
	}

	var body struct {
		EntryID string `json:"entryId"`
		Status  string `json:"status"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := r.planSvc.UpdateOrderPlanningStatus(body.EntryID, body.Status); err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "Planning status updated"})
}

// stepSchedule returns the derived step schedule for one folder+order.
func (r *Router) stepSchedule(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.OrderEntryResource()); !ok {
		return
	}
	rows, err := r.planSvc.DeriveStepSchedule(
		req.URL.Query().Get("folderId"),
		req.URL.Query().Get("orderId"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, rows)
}
