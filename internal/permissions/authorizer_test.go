package permissions

import (
	"fmt"
	"testing"

	"github.com/rs/zerolog"

	"github.com/flowline-app/flowmsgo/internal/models"
)

func testAuthorizer() *Authorizer {
	return NewAuthorizer(zerolog.Nop())
}

func TestParseCapability(t *testing.T) {
	cases := []struct {
		tag    string
		kind   CapabilityKind
		folder string
	}{
		{"ORDER_ENTRY", CapOrderEntry, ""},
		{"TASK_MANAGER", CapTaskManager, ""},
		{"FMS:folder1", CapFolder, "folder1"},
		{"ADMIN_FMS:folder7", CapAdminFolder, "folder7"},
		{"SOMETHING_ELSE", CapInvalid, ""},
		{"", CapInvalid, ""},
	}

	for _, c := range cases {
		got := ParseCapability(c.tag)
		if got.Kind != c.kind || got.FolderID != c.folder {
			t.Errorf("ParseCapability(%q) = %+v, want kind=%v folder=%q", c.tag, got, c.kind, c.folder)
		}
	}
}

func TestEmployeeFolderAccess(t *testing.T) {
	a := testAuthorizer()
	emp := Principal{Username: "Rahul", Role: models.RoleEmployee, Tags: []string{"FMS:folder1"}}

	if !a.Authorize(emp, ParseResource("/employee/fms/folder1")) {
		t.Error("Employee with FMS:folder1 should access folder1")
	}
	if a.Authorize(emp, ParseResource("/employee/fms/folder2")) {
		t.Error("Employee with FMS:folder1 should be denied folder2")
	}
	if !a.Authorize(emp, ParseResource("/employee/fms")) {
		t.Error("Any FMS tag should open the folder index")
	}
	if a.Authorize(emp, ParseResource("/employee/order-entry")) {
		t.Error("Order entry requires the ORDER_ENTRY tag")
	}
	if a.Authorize(emp, ParseResource("/employee/task-manager/api/tasks")) {
		t.Error("Task manager requires the TASK_MANAGER tag")
	}
}

func TestFeatureTags(t *testing.T) {
	a := testAuthorizer()
	emp := Principal{Username: "E1", Role: models.RoleEmployee, Tags: []string{"ORDER_ENTRY", "TASK_MANAGER"}}

	if !a.Authorize(emp, ParseResource("/employee/order-entry")) {
		t.Error("ORDER_ENTRY tag should open order entry")
	}
	if !a.Authorize(emp, ParseResource("/employee/task-manager")) {
		t.Error("TASK_MANAGER tag should open the task manager")
	}
	if a.Authorize(emp, ParseResource("/employee/fms")) {
		t.Error("No FMS tags means no folder index")
	}
}

func TestSuperAdminBypassesChecks(t *testing.T) {
	a := testAuthorizer()
	sa := Principal{Username: "superadmin", Role: models.RoleSuperAdmin}

	for _, res := range []Resource{
		ParseResource("/employee/fms/any-folder"),
		FolderLifecycleResource(),
		AdminFolderResource("folder9"),
	} {
		if !a.Authorize(sa, res) {
			t.Errorf("superadmin should be authorized for %s", res.Path)
		}
	}
}

func TestAdminFolderManagement(t *testing.T) {
	a := testAuthorizer()
	admin := Principal{Username: "acme@corp.com", Role: models.RoleAdmin, Tags: []string{"ADMIN_FMS:folder7"}}

	if !a.Authorize(admin, AdminFolderResource("folder7")) {
		t.Error("Admin should manage a folder it holds the ADMIN_FMS tag for")
	}
	if a.Authorize(admin, AdminFolderResource("folder8")) {
		t.Error("Admin should be denied folders it holds no tag for")
	}
	if a.Authorize(admin, FolderLifecycleResource()) {
		t.Error("Folder creation/deletion is superadmin-exclusive")
	}
}

func TestUnknownResourceAndTagsDeny(t *testing.T) {
	a := testAuthorizer()
	emp := Principal{Username: "E2", Role: models.RoleEmployee, Tags: []string{"MYSTERY_TAG", "FMSX:oops"}}

	if a.Authorize(emp, ParseResource("/employee/unknown-feature")) {
		t.Error("Unrecognized resource patterns must be denied")
	}
	if a.Authorize(emp, ParseResource("/employee/fms")) {
		t.Error("Unknown tag prefixes must grant nothing")
	}
}

func TestMissingProfileDenies(t *testing.T) {
	a := testAuthorizer()
	// Employee without a stored profile carries no tags.
	ghost := Principal{Username: "ghost", Role: models.RoleEmployee}

	if a.Authorize(ghost, ParseResource("/employee/order-entry")) {
		t.Error("Principal without a profile must be forbidden, not crash")
	}
}

func TestAccessibleFolders(t *testing.T) {
	folders := []models.Folder{{ID: "folder7", Name: "Dispatch"}}
	for i := 0; i < 10; i++ {
		folders = append(folders, models.Folder{ID: fmt.Sprintf("other%d", i)})
	}

	admin := Principal{Username: "a", Role: models.RoleAdmin, Tags: []string{"ADMIN_FMS:folder7"}}
	got := AccessibleFolders(admin, folders)
	if len(got) != 1 || got[0].ID != "folder7" {
		t.Fatalf("AccessibleFolders = %v, want exactly folder7", got)
	}

	emp := Principal{Username: "e", Role: models.RoleEmployee, Tags: []string{"FMS:folder7"}}
	got = AccessibleFolders(emp, folders)
	if len(got) != 1 || got[0].ID != "folder7" {
		t.Fatalf("employee AccessibleFolders = %v, want exactly folder7", got)
	}

	sa := Principal{Role: models.RoleSuperAdmin}
	if got := AccessibleFolders(sa, folders); len(got) != len(folders) {
		t.Fatalf("superadmin sees %d folders, want %d", len(got), len(folders))
	}
}
