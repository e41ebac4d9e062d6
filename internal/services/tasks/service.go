// Package tasks aggregates a user's work queue: manually assigned tasks
// plus tasks derived on the fly from folder process steps the user is
// responsible for. Derived tasks are never persisted; status updates on
// them write through to the folder's step template.
package tasks

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/flowline-app/flowmsgo/internal/models"
	"github.com/flowline-app/flowmsgo/internal/services/planning"
)

// StepTaskPrefix marks synthetic task IDs derived from folder steps.
const StepTaskPrefix = "FMS_"

// TaskStore is the persistence surface for manual tasks.
type TaskStore interface {
	Create(*models.Task) error
	Save(*models.Task) error
	ByDisplayID(string) (*models.Task, error)
	ActiveByAssignee(string) ([]models.Task, error)
	CompletedByAssignee(string) ([]models.Task, error)
	DelegatedByAssigner(string) ([]models.Task, error)
	Count() (int64, error)
}

// FolderStore supplies process templates for derived tasks and accepts the
// write-through on step status updates.
type FolderStore interface {
	All() ([]models.Folder, error)
	ByID(string) (*models.Folder, error)
	Save(*models.Folder) error
}

// PlanningStore supplies the planning entries derived tasks hang off.
type PlanningStore interface {
	ByFolderOldestFirst(string) ([]models.PlanningEntry, error)
}

// UserStore resolves usernames to accounts.
type UserStore interface {
	ByUsername(string) (*models.UserAccount, error)
}

// Service is the task aggregator.
type Service struct {
	tasks     TaskStore
	folders   FolderStore
	plannings PlanningStore
	users     UserStore
}

// New returns a task service.
func New(tasks TaskStore, folders FolderStore, plannings PlanningStore, users UserStore) *Service {
	return &Service{tasks: tasks, folders: folders, plannings: plannings, users: users}
}

// StepTaskID builds the synthetic display ID for a derived step task.
func StepTaskID(folderID, orderID string, stepIndex int) string {
	return fmt.Sprintf("%s%s_%s_%d", StepTaskPrefix, folderID, orderID, stepIndex)
}

// ParseStepTaskID splits a synthetic ID back into its parts. Folder IDs are
// UUIDs and carry no underscores; order IDs may, so the step index is taken
// from the last underscore.
func ParseStepTaskID(id string) (folderID, orderID string, stepIndex int, ok bool) {
	rest, found := strings.CutPrefix(id, StepTaskPrefix)
	if !found {
		return "", "", 0, false
	}
	i := strings.Index(rest, "_")
	if i <= 0 {
		return "", "", 0, false
	}
	folderID, rest = rest[:i], rest[i+1:]
	j := strings.LastIndex(rest, "_")
	if j <= 0 || j == len(rest)-1 {
		return "", "", 0, false
	}
	idx, err := strconv.Atoi(rest[j+1:])
	if err != nil || idx < 0 {
		return "", "", 0, false
	}
	return folderID, rest[:j], idx, true
}

// Buckets is a user's aggregated work queue.
type Buckets struct {
	Active    []models.Task `json:"active"`
	Completed []models.Task `json:"completed"`
	Delegated []models.Task `json:"delegated"`
}

// ForUser aggregates manual and derived tasks for the username. An unknown
// username yields empty buckets rather than an error.
func (s *Service) ForUser(username string) (*Buckets, error) {
	buckets := &Buckets{
		Active:    []models.Task{},
		Completed: []models.Task{},
		Delegated: []models.Task{},
	}

	user, err := s.users.ByUsername(username)
	if err != nil {
		if err == models.ErrNotFound {
			return buckets, nil
		}
		return nil, err
	}

	active, err := s.tasks.ActiveByAssignee(user.ID)
	if err != nil {
		return nil, err
	}
	completed, err := s.tasks.CompletedByAssignee(user.ID)
	if err != nil {
		return nil, err
	}
	delegated, err := s.tasks.DelegatedByAssigner(user.ID)
	if err != nil {
		return nil, err
	}
	buckets.Active = append(buckets.Active, active...)
	buckets.Completed = append(buckets.Completed, completed...)
	buckets.Delegated = append(buckets.Delegated, delegated...)

	derived, err := s.deriveStepTasks(username)
	if err != nil {
		return nil, err
	}
	for _, task := range derived {
		if strings.EqualFold(task.Status, models.TaskCompleted) {
			buckets.Completed = append(buckets.Completed, task)
		} else {
			buckets.Active = append(buckets.Active, task)
		}
	}
	return buckets, nil
}

// deriveStepTasks walks every folder's planning entries and materializes a
// task for each template step whose responsible matches the username,
// case-insensitively. Planning entries whose start date does not parse
// produce no tasks.
func (s *Service) deriveStepTasks(username string) ([]models.Task, error) {
	folders, err := s.folders.All()
	if err != nil {
		return nil, err
	}

	var derived []models.Task
	for _, folder := range folders {
		plannings, err := s.plannings.ByFolderOldestFirst(folder.ID)
		if err != nil {
			return nil, err
		}
		for _, p := range plannings {
			if _, err := time.Parse(planning.DateLayout, strings.TrimSpace(p.StartDate)); err != nil {
				continue
			}
			rows := planning.DeriveRows(&folder, p.StartDate)
			for i, step := range folder.Steps {
				if !strings.EqualFold(strings.TrimSpace(step.Responsible), username) {
					continue
				}
				status := step.Status
				if status == "" {
					status = models.TaskPending
				}
				derived = append(derived, models.Task{
					ID:             StepTaskID(folder.ID, p.OrderID, i),
					DisplayID:      StepTaskID(folder.ID, p.OrderID, i),
					Title:          "FMS: " + step.Label,
					Description:    fmt.Sprintf("Process step for order %s", p.OrderID),
					ProjectName:    folder.Name,
					ClientName:     folder.CustomerName,
					AssignedToName: username,
					AssignedByName: "Admin",
					TargetDate:     rows[i].TargetDate,
					CompletionDate: step.CompletionDate,
					Status:         status,
					Remarks:        step.Remarks,
					CompletionFile: step.CompletionFile,
				})
			}
		}
	}
	return derived, nil
}

// ChartSlice is one histogram bucket with its display color.
type ChartSlice struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Color string `json:"color"`
}

// Stats is the task dashboard summary for one user.
type Stats struct {
	Total         int          `json:"total"`
	Completed     int          `json:"completed"`
	OnTime        int          `json:"onTime"`
	OnTimePercent string       `json:"onTimePercent"`
	Histogram     []ChartSlice `json:"histogram"`
}

var chartColors = map[string]string{
	models.TaskOnTime:     "#28a745",
	models.TaskInProgress: "#007bff",
	models.TaskDelayed:    "#ffc107",
	models.TaskOverdue:    "#dc3545",
	models.TaskPending:    "#6c757d",
}

// histogramOrder fixes the category layout of the status chart.
var histogramOrder = []string{
	models.TaskOnTime,
	models.TaskInProgress,
	models.TaskDelayed,
	models.TaskOverdue,
	models.TaskPending,
}

// StatsFor computes the dashboard counters over everything assigned to the
// user, manual and derived alike. A task counts as on time when its status
// is On Time or Completed.
func (s *Service) StatsFor(username string) (*Stats, error) {
	buckets, err := s.ForUser(username)
	if err != nil {
		return nil, err
	}

	all := append(append([]models.Task{}, buckets.Active...), buckets.Completed...)
	stats := &Stats{Total: len(all)}
	counts := map[string]int{}
	for _, task := range all {
		counts[task.Status]++
		if strings.EqualFold(task.Status, models.TaskCompleted) {
			stats.Completed++
		}
		if strings.EqualFold(task.Status, models.TaskOnTime) || strings.EqualFold(task.Status, models.TaskCompleted) {
			stats.OnTime++
		}
	}

	stats.OnTimePercent = "0%"
	if stats.Total > 0 {
		stats.OnTimePercent = fmt.Sprintf("%.0f%%", float64(stats.OnTime)/float64(stats.Total)*100)
	}
	for _, label := range histogramOrder {
		stats.Histogram = append(stats.Histogram, ChartSlice{
			Label: label,
			Count: counts[label],
			Color: chartColors[label],
		})
	}
	return stats, nil
}

// Create persists a manual task, assigning the next sequential display ID
// and defaulting the status to In Progress.
func (s *Service) Create(task *models.Task) (*models.Task, error) {
	if strings.TrimSpace(task.Title) == "" {
		return nil, fmt.Errorf("%w: task title is required", models.ErrValidation)
	}
	n, err := s.tasks.Count()
	if err != nil {
		return nil, err
	}
	task.DisplayID = fmt.Sprintf("TASK-%03d", n+1)
	if task.Status == "" {
		task.Status = models.TaskInProgress
	}
	if err := s.tasks.Create(task); err != nil {
		return nil, err
	}
	return task, nil
}

// CreateBulk persists many tasks in one call, keeping display IDs
// sequential. It stops on the first failure.
func (s *Service) CreateBulk(tasks []*models.Task) ([]*models.Task, error) {
	created := make([]*models.Task, 0, len(tasks))
	for _, task := range tasks {
		t, err := s.Create(task)
		if err != nil {
			return created, err
		}
		created = append(created, t)
	}
	return created, nil
}

// StatusUpdate carries the mutable fields of a status change.
type StatusUpdate struct {
	Status         string
	Remarks        string
	CompletionDate string
	CompletionFile string
}

// UpdateStatus applies a status change. Synthetic step IDs route to the
// folder's step template, so the change is shared by every order on that
// folder; plain IDs update the persisted task. A missing target is a
// no-op: both results come back nil.
func (s *Service) UpdateStatus(displayID string, update StatusUpdate) (*models.Task, error) {
	if folderID, orderID, stepIndex, ok := ParseStepTaskID(displayID); ok {
		return s.updateStepStatus(folderID, orderID, stepIndex, update)
	}

	task, err := s.tasks.ByDisplayID(displayID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	task.Status = update.Status
	if update.Remarks != "" {
		task.Remarks = update.Remarks
	}
	if update.CompletionDate != "" {
		task.CompletionDate = update.CompletionDate
	}
	if update.CompletionFile != "" {
		task.CompletionFile = update.CompletionFile
	}
	if strings.EqualFold(update.Status, models.TaskCompleted) && task.CompletionDate == "" {
		task.CompletionDate = time.Now().Format("2006-01-02")
	}
	if err := s.tasks.Save(task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *Service) updateStepStatus(folderID, orderID string, stepIndex int, update StatusUpdate) (*models.Task, error) {
	folder, err := s.folders.ByID(folderID)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	if stepIndex >= len(folder.Steps) {
		return nil, nil
	}

	step := folder.Steps[stepIndex]
	step.Status = update.Status
	if update.Remarks != "" {
		step.Remarks = update.Remarks
	}
	if update.CompletionDate != "" {
		step.CompletionDate = update.CompletionDate
	}
	if update.CompletionFile != "" {
		step.CompletionFile = update.CompletionFile
	}
	if strings.EqualFold(update.Status, models.TaskCompleted) && step.CompletionDate == "" {
		step.CompletionDate = time.Now().Format("2006-01-02")
	}
	folder.Steps[stepIndex] = step
	if err := s.folders.Save(folder); err != nil {
		return nil, err
	}

	return &models.Task{
		ID:             StepTaskID(folderID, orderID, stepIndex),
		DisplayID:      StepTaskID(folderID, orderID, stepIndex),
		Title:          "FMS: " + step.Label,
		ProjectName:    folder.Name,
		Status:         step.Status,
		Remarks:        step.Remarks,
		CompletionDate: step.CompletionDate,
		CompletionFile: step.CompletionFile,
	}, nil
}

// CompleteBulk marks each ID Completed, skipping ones that no longer exist.
// It returns how many were updated.
func (s *Service) CompleteBulk(displayIDs []string, remarks, completionDate string) (int, error) {
	updated := 0
	for _, id := range displayIDs {
		task, err := s.UpdateStatus(id, StatusUpdate{
			Status:         models.TaskCompleted,
			Remarks:        remarks,
			CompletionDate: completionDate,
		})
		if err != nil {
			return updated, err
		}
		if task == nil {
			continue
		}
		updated++
	}
	return updated, nil
}
