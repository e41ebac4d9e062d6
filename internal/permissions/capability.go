package permissions

import "strings"

// CapabilityKind enumerates what a permission tag grants.
type CapabilityKind int

const (
	// CapInvalid marks a tag with an unknown prefix; it grants nothing.
	CapInvalid CapabilityKind = iota
	// CapOrderEntry grants the order-entry feature.
	CapOrderEntry
	// CapTaskManager grants the task-manager feature.
	CapTaskManager
	// CapFolder grants employee access to one FMS folder.
	CapFolder
	// CapAdminFolder grants admin management access to one FMS folder.
	CapAdminFolder
)

// Tag prefixes as stored on UserAccount/Employee permission lists.
const (
	tagOrderEntry        = "ORDER_ENTRY"
	tagTaskManager       = "TASK_MANAGER"
	folderTagPrefix      = "FMS:"
	adminFolderTagPrefix = "ADMIN_FMS:"
)

// Capability is the typed form of a flat permission tag.
type Capability struct {
	Kind     CapabilityKind
	FolderID string
}

// ParseCapability interprets a stored tag by prefix. Unknown prefixes come
// back as CapInvalid so the authorizer fails closed on them.
func ParseCapability(tag string) Capability {
	switch {
	case tag == tagOrderEntry:
		return Capability{Kind: CapOrderEntry}
	case tag == tagTaskManager:
		return Capability{Kind: CapTaskManager}
	case strings.HasPrefix(tag, adminFolderTagPrefix):
		return Capability{Kind: CapAdminFolder, FolderID: tag[len(adminFolderTagPrefix):]}
	case strings.HasPrefix(tag, folderTagPrefix):
		return Capability{Kind: CapFolder, FolderID: tag[len(folderTagPrefix):]}
	default:
		return Capability{Kind: CapInvalid}
	}
}

// FolderTag builds the employee access tag for a folder.
func FolderTag(folderID string) string { return folderTagPrefix + folderID }

// AdminFolderTag builds the admin management tag for a folder.
func AdminFolderTag(folderID string) string { return adminFolderTagPrefix + folderID }

// IsAdminFolderTag reports whether the raw tag is an ADMIN_FMS grant.
func IsAdminFolderTag(tag string) bool { return strings.HasPrefix(tag, adminFolderTagPrefix) }

// IsFolderTag reports whether the raw tag is an employee FMS grant.
func IsFolderTag(tag string) bool {
	return strings.HasPrefix(tag, folderTagPrefix) && !strings.HasPrefix(tag, adminFolderTagPrefix)
}

// parseAll converts a stored tag list, dropping invalid entries.
func parseAll(tags []string) []Capability {
	caps := make([]Capability, 0, len(tags))
	for _, t := range tags {
		if c := ParseCapability(t); c.Kind != CapInvalid {
			caps = append(caps, c)
		}
	}
	return caps
}
