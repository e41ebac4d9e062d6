package tasks

import (
	"errors"
	"fmt"
	"testing"

	"gorm.io/datatypes"

	"github.com/flowline-app/flowmsgo/internal/models"
)

func intp(n int) *int { return &n }

type fakeTasks struct {
	tasks []models.Task
}

func (f *fakeTasks) Create(t *models.Task) error {
	if t.ID == "" {
		t.ID = fmt.Sprintf("t%d", len(f.tasks)+1)
	}
	f.tasks = append(f.tasks, *t)
	return nil
}

func (f *fakeTasks) Save(t *models.Task) error {
	for i := range f.tasks {
		if f.tasks[i].ID == t.ID {
			f.tasks[i] = *t
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakeTasks) ByDisplayID(displayID string) (*models.Task, error) {
	for i := range f.tasks {
		if f.tasks[i].DisplayID == displayID {
			t := f.tasks[i]
			return &t, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeTasks) ActiveByAssignee(userID string) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if t.AssignedToID == userID && t.Status != models.TaskCompleted {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) CompletedByAssignee(userID string) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if t.AssignedToID == userID && t.Status == models.TaskCompleted {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) DelegatedByAssigner(userID string) ([]models.Task, error) {
	var out []models.Task
	for _, t := range f.tasks {
		if t.AssignedByID == userID && t.AssignedToID != userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (f *fakeTasks) Count() (int64, error) { return int64(len(f.tasks)), nil }

type fakeFolders struct {
	byID map[string]*models.Folder
}

func (f *fakeFolders) All() ([]models.Folder, error) {
	var out []models.Folder
	for _, folder := range f.byID {
		out = append(out, *folder)
	}
	return out, nil
}

func (f *fakeFolders) ByID(id string) (*models.Folder, error) {
	if folder, ok := f.byID[id]; ok {
		return folder, nil
	}
	return nil, models.ErrNotFound
}

func (f *fakeFolders) Save(folder *models.Folder) error {
	f.byID[folder.ID] = folder
	return nil
}

type fakePlannings struct {
	byFolder map[string][]models.PlanningEntry
}

func (f *fakePlannings) ByFolderOldestFirst(folderID string) ([]models.PlanningEntry, error) {
	return f.byFolder[folderID], nil
}

type fakeUsers struct {
	byUsername map[string]*models.UserAccount
}

func (f *fakeUsers) ByUsername(username string) (*models.UserAccount, error) {
	if u, ok := f.byUsername[username]; ok {
		return u, nil
	}
	return nil, models.ErrNotFound
}

func fixture() (*Service, *fakeTasks, *fakeFolders, *fakePlannings) {
	tasks := &fakeTasks{}
	folders := &fakeFolders{byID: map[string]*models.Folder{
		"folder1": {
			ID:           "folder1",
			Name:         "Extrusion",
			CustomerName: "Acme",
			Steps: datatypes.JSONSlice[models.ProcessStep]{
				{Label: "Cutting", Responsible: "Alice", Days: intp(0)},
				{Label: "Welding", Responsible: "bob", Days: intp(5)},
			},
		},
	}}
	plannings := &fakePlannings{byFolder: map[string][]models.PlanningEntry{
		"folder1": {
			{ID: "p1", FolderID: "folder1", OrderID: "ORD-1", StartDate: "2025-01-01"},
			{ID: "p2", FolderID: "folder1", OrderID: "ORD-2", StartDate: "2025-02-01"},
		},
	}}
	users := &fakeUsers{byUsername: map[string]*models.UserAccount{
		"alice": {ID: "u-alice", Username: "alice", Role: models.RoleEmployee},
	}}
	return New(tasks, folders, plannings, users), tasks, folders, plannings
}

func TestParseStepTaskID(t *testing.T) {
	id := StepTaskID("folder1", "ORD_A_1", 3)
	folderID, orderID, idx, ok := ParseStepTaskID(id)
	if !ok || folderID != "folder1" || orderID != "ORD_A_1" || idx != 3 {
		t.Fatalf("parsed (%q, %q, %d, %v)", folderID, orderID, idx, ok)
	}

	for _, bad := range []string{"TASK-001", "FMS_", "FMS_f1", "FMS_f1_ord", "FMS_f1_ord_x", "FMS_f1_ord_-1"} {
		if _, _, _, ok := ParseStepTaskID(bad); ok {
			t.Errorf("ParseStepTaskID(%q) accepted", bad)
		}
	}
}

func TestForUserDerivesStepTasksCaseInsensitively(t *testing.T) {
	svc, _, _, _ := fixture()
	buckets, err := svc.ForUser("alice")
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	// Responsible is "Alice" on the template; one derived task per planning
	// entry on the folder.
	if len(buckets.Active) != 2 {
		t.Fatalf("active = %d, want 2 derived tasks", len(buckets.Active))
	}
	first := buckets.Active[0]
	if first.DisplayID != StepTaskID("folder1", "ORD-1", 0) {
		t.Errorf("display id = %q", first.DisplayID)
	}
	if first.Status != models.TaskPending {
		t.Errorf("status = %q, want Pending default", first.Status)
	}
	if first.TargetDate != "2025-01-01" {
		t.Errorf("target = %q, want start+0d", first.TargetDate)
	}
	if first.ProjectName != "Extrusion" || first.ClientName != "Acme" {
		t.Errorf("labels = %q/%q", first.ProjectName, first.ClientName)
	}
}

func TestForUserUnknownUsernameIsEmpty(t *testing.T) {
	svc, _, _, _ := fixture()
	buckets, err := svc.ForUser("nobody")
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if len(buckets.Active)+len(buckets.Completed)+len(buckets.Delegated) != 0 {
		t.Errorf("buckets not empty: %+v", buckets)
	}
}

func TestForUserBucketsManualTasks(t *testing.T) {
	svc, tasks, _, _ := fixture()
	tasks.tasks = []models.Task{
		{ID: "t1", DisplayID: "TASK-001", AssignedToID: "u-alice", Status: models.TaskInProgress},
		{ID: "t2", DisplayID: "TASK-002", AssignedToID: "u-alice", Status: models.TaskCompleted},
		{ID: "t3", DisplayID: "TASK-003", AssignedToID: "u-bob", AssignedByID: "u-alice", Status: models.TaskInProgress},
	}

	buckets, err := svc.ForUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets.Completed) != 1 || buckets.Completed[0].DisplayID != "TASK-002" {
		t.Errorf("completed = %+v", buckets.Completed)
	}
	if len(buckets.Delegated) != 1 || buckets.Delegated[0].DisplayID != "TASK-003" {
		t.Errorf("delegated = %+v", buckets.Delegated)
	}
	// One manual active plus two derived.
	if len(buckets.Active) != 3 {
		t.Errorf("active = %d, want 3", len(buckets.Active))
	}
}

func TestSharedStepStatusAcrossOrders(t *testing.T) {
	svc, _, folders, _ := fixture()

	// Complete the Cutting step via the ORD-1 synthetic task.
	updated, err := svc.UpdateStatus(StepTaskID("folder1", "ORD-1", 0), StatusUpdate{
		Status:  models.TaskCompleted,
		Remarks: "done",
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != models.TaskCompleted {
		t.Errorf("returned status = %q", updated.Status)
	}
	if folders.byID["folder1"].Steps[0].Status != models.TaskCompleted {
		t.Error("template step not updated")
	}
	if updated.CompletionDate == "" {
		t.Error("completion date not defaulted")
	}

	// The status lives on the template, so ORD-2's derived task reflects it.
	buckets, err := svc.ForUser("alice")
	if err != nil {
		t.Fatal(err)
	}
	if len(buckets.Completed) != 2 {
		t.Fatalf("completed = %d, want the step completed for both orders", len(buckets.Completed))
	}
}

func TestUpdateStatusMissingTargetsAreNoops(t *testing.T) {
	svc, _, _, _ := fixture()
	for _, id := range []string{
		"TASK-999",
		StepTaskID("folder1", "ORD-1", 9),
		StepTaskID("missing", "ORD-1", 0),
	} {
		task, err := svc.UpdateStatus(id, StatusUpdate{Status: models.TaskCompleted})
		if err != nil {
			t.Errorf("UpdateStatus(%q) err = %v, want no-op", id, err)
		}
		if task != nil {
			t.Errorf("UpdateStatus(%q) = %+v, want nil", id, task)
		}
	}
}

func TestForUserSkipsUnparseablePlanning(t *testing.T) {
	svc, _, _, plannings := fixture()
	plannings.byFolder["folder1"] = []models.PlanningEntry{
		{ID: "p1", FolderID: "folder1", OrderID: "ORD-X", StartDate: "garbage"},
	}

	buckets, err := svc.ForUser("alice")
	if err != nil {
		t.Fatalf("for user: %v", err)
	}
	if n := len(buckets.Active) + len(buckets.Completed); n != 0 {
		t.Fatalf("derived %d tasks from an unparseable start date, want 0", n)
	}
}

func TestCreateAssignsSequentialDisplayIDs(t *testing.T) {
	svc, _, _, _ := fixture()
	first, err := svc.Create(&models.Task{Title: "Review drawings"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := svc.Create(&models.Task{Title: "Order stock", Status: models.TaskDelayed})
	if err != nil {
		t.Fatal(err)
	}
	if first.DisplayID != "TASK-001" || second.DisplayID != "TASK-002" {
		t.Errorf("display ids = %q, %q", first.DisplayID, second.DisplayID)
	}
	if first.Status != models.TaskInProgress {
		t.Errorf("default status = %q", first.Status)
	}
	if second.Status != models.TaskDelayed {
		t.Errorf("explicit status overridden to %q", second.Status)
	}

	if _, err := svc.Create(&models.Task{}); !errors.Is(err, models.ErrValidation) {
		t.Errorf("blank title err = %v", err)
	}
}

func TestCreateBulk(t *testing.T) {
	svc, tasks, _, _ := fixture()
	created, err := svc.CreateBulk([]*models.Task{
		{Title: "One"},
		{Title: "Two"},
		{Title: "Three"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(created) != 3 || len(tasks.tasks) != 3 {
		t.Fatalf("created = %d, stored = %d", len(created), len(tasks.tasks))
	}
	if created[2].DisplayID != "TASK-003" {
		t.Errorf("last display id = %q", created[2].DisplayID)
	}
}

func TestCompleteBulkSkipsMissing(t *testing.T) {
	svc, _, _, _ := fixture()
	if _, err := svc.Create(&models.Task{Title: "One"}); err != nil {
		t.Fatal(err)
	}

	updated, err := svc.CompleteBulk([]string{"TASK-001", "TASK-404", StepTaskID("folder1", "ORD-1", 1)}, "batch", "2025-03-01")
	if err != nil {
		t.Fatalf("bulk: %v", err)
	}
	if updated != 2 {
		t.Errorf("updated = %d, want 2 (missing skipped)", updated)
	}
}

func TestStatsHistogramAndOnTimePercent(t *testing.T) {
	svc, tasks, folders, plannings := fixture()
	// Drop derived noise: no plannings, no folder steps for alice.
	plannings.byFolder = map[string][]models.PlanningEntry{}
	folders.byID = map[string]*models.Folder{}

	tasks.tasks = []models.Task{
		{ID: "t1", DisplayID: "TASK-001", AssignedToID: "u-alice", Status: models.TaskCompleted},
		{ID: "t2", DisplayID: "TASK-002", AssignedToID: "u-alice", Status: models.TaskOnTime},
		{ID: "t3", DisplayID: "TASK-003", AssignedToID: "u-alice", Status: models.TaskInProgress},
		{ID: "t4", DisplayID: "TASK-004", AssignedToID: "u-alice", Status: models.TaskOverdue},
	}

	stats, err := svc.StatsFor("alice")
	if err != nil {
		t.Fatal(err)
	}
	if stats.Total != 4 || stats.Completed != 1 || stats.OnTime != 2 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.OnTimePercent != "50%" {
		t.Errorf("on-time percent = %q", stats.OnTimePercent)
	}
	if len(stats.Histogram) != 5 {
		t.Fatalf("histogram slices = %d, want fixed 5 categories", len(stats.Histogram))
	}
	byLabel := map[string]ChartSlice{}
	for _, slice := range stats.Histogram {
		byLabel[slice.Label] = slice
		if slice.Color == "" {
			t.Errorf("slice %q has no color", slice.Label)
		}
	}
	if byLabel[models.TaskOnTime].Count != 1 || byLabel[models.TaskOverdue].Count != 1 {
		t.Errorf("histogram = %+v", stats.Histogram)
	}
	if byLabel[models.TaskDelayed].Count != 0 {
		t.Errorf("empty category missing from histogram: %+v", stats.Histogram)
	}
}

func TestStatsZeroTasks(t *testing.T) {
	svc, _, folders, plannings := fixture()
	plannings.byFolder = map[string][]models.PlanningEntry{}
	folders.byID = map[string]*models.Folder{}

	stats, err := svc.StatsFor("alice")
	if err != nil {
		t.Fatal(err)
	}
	if stats.OnTimePercent != "0%" {
		t.Errorf("zero-task percent = %q", stats.OnTimePercent)
	}
}
