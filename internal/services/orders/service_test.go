package orders

import (
	"errors"
	"sort"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/flowline-app/flowmsgo/internal/models"
)

type fakeEntries struct {
	entries []models.OrderEntry
	clock   time.Time
}

func (f *fakeEntries) Create(e *models.OrderEntry) error {
	f.clock = f.clock.Add(time.Second)
	e.ID = e.FolderID + "-" + e.OrderID + "-" + f.clock.Format("150405")
	e.CreatedAt = f.clock
	f.entries = append(f.entries, *e)
	return nil
}

func (f *fakeEntries) ByID(id string) (*models.OrderEntry, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			e := f.entries[i]
			return &e, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeEntries) ByFolderNewestFirst(folderID string) ([]models.OrderEntry, error) {
	var out []models.OrderEntry
	for _, e := range f.entries {
		if e.FolderID == folderID {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeEntries) LatestByFolderAndOrder(folderID, orderID string) (*models.OrderEntry, error) {
	all, _ := f.ByFolderNewestFirst(folderID)
	for _, e := range all {
		if e.OrderID == orderID {
			e := e
			return &e, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakeEntries) Save(e *models.OrderEntry) error {
	for i := range f.entries {
		if f.entries[i].ID == e.ID {
			f.entries[i] = *e
			return nil
		}
	}
	return models.ErrNotFound
}

type fakeFolders struct {
	folders map[string]*models.Folder
}

func (f *fakeFolders) ByID(id string) (*models.Folder, error) {
	if folder, ok := f.folders[id]; ok {
		return folder, nil
	}
	return nil, models.ErrNotFound
}

func TestNormalizeKey(t *testing.T) {
	cases := map[string]string{
		"Order Date":        "order_date",
		"  Raw  Material  ": "raw_material",
		"PO#/Ref":           "po_ref",
		"__already__":       "already",
		"order_date":        "order_date",
	}
	for in, want := range cases {
		if got := NormalizeKey(in); got != want {
			t.Errorf("NormalizeKey(%q) = %q, want %q", in, got, want)
		}
		// Normalization is idempotent.
		if got := NormalizeKey(NormalizeKey(in)); got != want {
			t.Errorf("NormalizeKey twice on %q = %q, want %q", in, got, want)
		}
	}
}

func TestFindFieldValue(t *testing.T) {
	fields := map[string]string{
		"order_date": "2025-01-01",
		"quantity":   "",
	}
	if got := FindFieldValue(fields, "Order Date", "order_date"); got != "2025-01-01" {
		t.Errorf("canonical lookup = %q", got)
	}
	if got := FindFieldValue(fields, "Order Date", ""); got != "2025-01-01" {
		t.Errorf("label scan = %q", got)
	}
	if got := FindFieldValue(fields, "Quantity", "quantity"); got != Absent {
		t.Errorf("blank value = %q, want %q", got, Absent)
	}
	if got := FindFieldValue(fields, "Missing", "missing"); got != Absent {
		t.Errorf("missing key = %q, want %q", got, Absent)
	}
	if got := FindFieldValue(nil, "Anything", "anything"); got != Absent {
		t.Errorf("nil map = %q, want %q", got, Absent)
	}
}

func TestSubmitEntryAppendsAndNormalizes(t *testing.T) {
	entries := &fakeEntries{}
	svc := New(entries, &fakeFolders{})

	first, err := svc.SubmitEntry("f1", "ORD-1", map[string]string{"Order Date": "2025-01-01"})
	if err != nil {
		t.Fatalf("first submit: %v", err)
	}
	second, err := svc.SubmitEntry("f1", "ORD-1", map[string]string{"order_date": "2025-02-02"})
	if err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if first.ID == second.ID {
		t.Fatal("resubmission overwrote the prior entry")
	}
	if len(entries.entries) != 2 {
		t.Fatalf("entry count = %d, want 2", len(entries.entries))
	}

	latest, err := svc.LatestEntry("f1", "ORD-1")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if got := latest.Fields.Data()["order_date"]; got != "2025-02-02" {
		t.Errorf("latest order_date = %q, want the newer submission", got)
	}
}

func TestSubmitEntryRequiresFolder(t *testing.T) {
	svc := New(&fakeEntries{}, &fakeFolders{})
	_, err := svc.SubmitEntry("  ", "ORD-1", nil)
	if !errors.Is(err, models.ErrValidation) {
		t.Fatalf("err = %v, want validation error", err)
	}
}

func TestLatestEntryAbsent(t *testing.T) {
	svc := New(&fakeEntries{}, &fakeFolders{})
	entry, err := svc.LatestEntry("f1", "nope")
	if err != nil || entry != nil {
		t.Fatalf("got (%v, %v), want (nil, nil)", entry, err)
	}
}

func TestDashboardRowsAndPendingOrders(t *testing.T) {
	entries := &fakeEntries{}
	folders := &fakeFolders{folders: map[string]*models.Folder{
		"f1": {
			ID:          "f1",
			Name:        "Extrusion",
			FieldLabels: datatypes.JSONSlice[string]{"Order Date", "Quantity"},
		},
	}}
	svc := New(entries, folders)

	if _, err := svc.SubmitEntry("f1", "ORD-1", map[string]string{"Order Date": "2025-01-01", "Quantity": "10"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SubmitEntry("f1", "ORD-2", map[string]string{
		"Order Date":      "2025-01-05",
		PlanningStatusKey: "Planned",
	}); err != nil {
		t.Fatal(err)
	}

	dash, err := svc.DashboardFor("f1")
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if dash.TotalOrders != 2 || len(dash.Rows) != 2 {
		t.Fatalf("rows = %d, total = %d", len(dash.Rows), dash.TotalOrders)
	}
	// Newest first.
	if dash.Rows[0].OrderID != "ORD-2" {
		t.Errorf("first row order = %q, want ORD-2", dash.Rows[0].OrderID)
	}
	if dash.Rows[0].PlanningStatus != "Planned" {
		t.Errorf("planned row status = %q", dash.Rows[0].PlanningStatus)
	}
	if dash.Rows[1].PlanningStatus != "Pending" {
		t.Errorf("unstamped row status = %q, want Pending", dash.Rows[1].PlanningStatus)
	}
	if len(dash.PendingOrderIDs) != 1 || dash.PendingOrderIDs[0] != "ORD-1" {
		t.Errorf("pending orders = %v, want [ORD-1]", dash.PendingOrderIDs)
	}
	if got := dash.Rows[1].Values; len(got) != 2 || got[0] != "2025-01-01" || got[1] != "10" {
		t.Errorf("row values = %v", got)
	}
}
