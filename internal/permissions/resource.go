package permissions

import "strings"

// ResourceKind enumerates the protected resource patterns.
type ResourceKind int

const (
	// ResUnknown is any path the authorizer does not recognize; denied.
	ResUnknown ResourceKind = iota
	// ResOrderEntry covers /employee/order-entry and below.
	ResOrderEntry
	// ResTaskManager covers /employee/task-manager and below.
	ResTaskManager
	// ResFolderIndex is the /employee/fms listing page.
	ResFolderIndex
	// ResFolder is a specific /employee/fms/<folderId> view.
	ResFolder
	// ResAdminFolder is admin management of a specific folder.
	ResAdminFolder
	// ResFolderLifecycle is folder creation/deletion (superadmin only).
	ResFolderLifecycle
)

// Resource is a parsed protected resource.
type Resource struct {
	Kind     ResourceKind
	FolderID string
	// Path keeps the raw request path for audit logging.
	Path string
}

// OrderEntryResource names the order-entry feature surface.
func OrderEntryResource() Resource {
	return Resource{Kind: ResOrderEntry, Path: "/employee/order-entry"}
}

// TaskManagerResource names the task-manager feature surface.
func TaskManagerResource() Resource {
	return Resource{Kind: ResTaskManager, Path: "/employee/task-manager"}
}

// FolderIndexResource names the employee FMS index.
func FolderIndexResource() Resource {
	return Resource{Kind: ResFolderIndex, Path: "/employee/fms"}
}

// FolderResource names one employee-visible folder.
func FolderResource(folderID string) Resource {
	return Resource{Kind: ResFolder, FolderID: folderID, Path: "/employee/fms/" + folderID}
}

// AdminFolderResource names admin management of one folder.
func AdminFolderResource(folderID string) Resource {
	return Resource{Kind: ResAdminFolder, FolderID: folderID, Path: "/admin/fms/" + folderID}
}

// FolderLifecycleResource names folder create/delete operations.
func FolderLifecycleResource() Resource {
	return Resource{Kind: ResFolderLifecycle, Path: "/admin/fms"}
}

// ParseResource maps an employee-facing request path onto a Resource.
// Paths outside the known patterns parse to ResUnknown and are denied.
func ParseResource(path string) Resource {
	p := strings.TrimSuffix(path, "/")
	switch {
	case strings.HasPrefix(p, "/employee/order-entry"):
		return Resource{Kind: ResOrderEntry, Path: path}
	case strings.HasPrefix(p, "/employee/task-manager"):
		return Resource{Kind: ResTaskManager, Path: path}
	case p == "/employee/fms":
		return Resource{Kind: ResFolderIndex, Path: path}
	case strings.HasPrefix(p, "/employee/fms/"):
		rest := strings.TrimPrefix(p, "/employee/fms/")
		id := rest
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			id = rest[:i]
		}
		return Resource{Kind: ResFolder, FolderID: id, Path: path}
	default:
		return Resource{Kind: ResUnknown, Path: path}
	}
}
