package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/flowline-app/flowmsgo/internal/models"
	"github.com/flowline-app/flowmsgo/internal/permissions"
	"github.com/flowline-app/flowmsgo/internal/services/tasks"
	"github.com/flowline-app/flowmsgo/internal/storage"
)

const maxTaskUpload = 10 << 20 // 10 MiB

// TaskRequest carries the fields of a manual task assignment.
type TaskRequest struct {
	Title          string `json:"title"`
	Description    string `json:"description"`
	ProjectName    string `json:"projectName"`
	ClientName     string `json:"clientName"`
	AssignedToID   string `json:"assignedToId"`
	AssignedToName string `json:"assignedToName"`
	TargetDate     string `json:"targetDate"`
	Remarks        string `json:"remarks"`
}

func (t TaskRequest) toTask(assigner *models.UserAccount) *models.Task {
	return &models.Task{
		Title:          t.Title,
		Description:    t.Description,
		ProjectName:    t.ProjectName,
		ClientName:     t.ClientName,
		AssignedToID:   t.AssignedToID,
		AssignedToName: t.AssignedToName,
		AssignedByID:   assigner.ID,
		AssignedByName: assigner.Username,
		TargetDate:     t.TargetDate,
		Remarks:        t.Remarks,
	}
}

// listTasks returns the caller's aggregated work queue.
func (r *Router) listTasks(w http.ResponseWriter, req *http.Request) {
	p, ok := r.authorize(w, req, permissions.TaskManagerResource())
	if !ok {
		return
	}
	buckets, err := r.taskSvc.ForUser(p.Username)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, buckets)
}

// taskStats returns the caller's dashboard counters and status histogram.
func (r *Router) taskStats(w http.ResponseWriter, req *http.Request) {
	p, ok := r.authorize(w, req, permissions.TaskManagerResource())
	if !ok {
		return
	}
	stats, err := r.taskSvc.StatsFor(p.Username)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

// createTask assigns a manual task, optionally with an attachment sent as
// multipart form data. Only admins assign tasks.
func (r *Router) createTask(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireRole(w, req, models.RoleSuperAdmin, models.RoleAdmin)
	if !ok {
		return
	}

	if err := req.ParseMultipartForm(maxTaskUpload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	taskReq := TaskRequest{
		Title:          req.FormValue("title"),
		Description:    req.FormValue("description"),
		ProjectName:    req.FormValue("projectName"),
		ClientName:     req.FormValue("clientName"),
		AssignedToID:   req.FormValue("assignedToId"),
		AssignedToName: req.FormValue("assignedToName"),
		TargetDate:     req.FormValue("targetDate"),
		Remarks:        req.FormValue("remarks"),
	}
	task := taskReq.toTask(user)

	path, attErr := saveUpload(r.files, req, "file", storage.SubdirTasks)
	task.AssignedFile = path

	created, err := r.taskSvc.Create(task)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if attErr != nil {
		respondPartial(w, http.StatusCreated, created, attErr)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// createTasksBulk assigns several tasks in one call.
func (r *Router) createTasksBulk(w http.ResponseWriter, req *http.Request) {
	user, ok := r.requireRole(w, req, models.RoleSuperAdmin, models.RoleAdmin)
	if !ok {
		return
	}

	var body struct {
		Tasks []TaskRequest `json:"tasks"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	list := make([]*models.Task, 0, len(body.Tasks))
	for _, t := range body.Tasks {
		list = append(list, t.toTask(user))
	}

	created, err := r.taskSvc.CreateBulk(list)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

// updateTaskStatus applies a status change, with an optional completion
// attachment. Synthetic step IDs write through to the folder template.
func (r *Router) updateTaskStatus(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.TaskManagerResource()); !ok {
		return
	}

	if err := req.ParseMultipartForm(maxTaskUpload); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	update := tasks.StatusUpdate{
		Status:         req.FormValue("status"),
		Remarks:        req.FormValue("remarks"),
		CompletionDate: req.FormValue("completionDate"),
	}
	if update.Status == "" {
		respondError(w, http.StatusBadRequest, "status is required")
		return
	}

	path, attErr := saveUpload(r.files, req, "file", storage.SubdirTasks)
	update.CompletionFile = path

	task, err := r.taskSvc.UpdateStatus(mux.Vars(req)["taskId"], update)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	if task == nil {
		respondJSON(w, http.StatusOK, map[string]string{"message": "Task not found"})
		return
	}
	if attErr != nil {
		respondPartial(w, http.StatusOK, task, attErr)
		return
	}
	respondJSON(w, http.StatusOK, task)
}

// completeTasksBulk marks many tasks Completed, skipping missing ones.
func (r *Router) completeTasksBulk(w http.ResponseWriter, req *http.Request) {
	if _, ok := r.authorize(w, req, permissions.TaskManagerResource()); !ok {
		return
	}

	var body struct {
		TaskIDs        []string `json:"taskIds"`
		Remarks        string   `json:"remarks"`
		CompletionDate string   `json:"completionDate"`
	}
	if err := json.NewDecoder(req.Body).Decode(&body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	updated, err := r.taskSvc.CompleteBulk(body.TaskIDs, body.Remarks, body.CompletionDate)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"updated": updated})
}
