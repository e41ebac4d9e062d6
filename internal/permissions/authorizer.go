package permissions

import (
	"github.com/rs/zerolog"

	"github.com/flowline-app/flowmsgo/internal/models"
)

// Principal is the identity view the authorizer works with. Tags come from
// the UserAccount for admins and from the Employee profile for employees;
// a missing profile is represented by an empty tag list, which denies.
type Principal struct {
	ID       string
	Username string
	Role     string
	Tags     []string
}

// PrincipalFromAccount builds a Principal from a login account.
func PrincipalFromAccount(u *models.UserAccount) Principal {
	return Principal{ID: u.ID, Username: u.Username, Role: u.Role, Tags: u.Permissions}
}

// Authorizer evaluates capability tags against resources. Every decision is
// written to the audit log with principal, resource and outcome.
type Authorizer struct {
	log zerolog.Logger
}

// NewAuthorizer returns an Authorizer writing audit events to log.
func NewAuthorizer(log zerolog.Logger) *Authorizer {
	return &Authorizer{log: log}
}

// Authorize reports whether the principal may access the resource.
// SUPERADMIN is authorized for everything; everything else is evaluated
// against the principal's parsed capabilities and denied by default.
func (a *Authorizer) Authorize(p Principal, res Resource) bool {
	allowed := a.evaluate(p, res)
	a.log.Info().
		Str("principal", p.Username).
		Str("role", p.Role).
		Str("resource", res.Path).
		Bool("allowed", allowed).
		Msg("access check")
	return allowed
}

func (a *Authorizer) evaluate(p Principal, res Resource) bool {
	if p.Role == models.RoleSuperAdmin {
		return true
	}

	caps := parseAll(p.Tags)

	switch res.Kind {
	case ResFolderLifecycle:
		// Folder creation/deletion stays superadmin-exclusive even for
		// admins that own delegated folders.
		return false

	case ResAdminFolder:
		if p.Role != models.RoleAdmin {
			return false
		}
		for _, c := range caps {
			if c.Kind == CapAdminFolder && c.FolderID == res.FolderID {
				return true
			}
		}
		return false

	case ResOrderEntry:
		return p.Role == models.RoleEmployee && hasKind(caps, CapOrderEntry)

	case ResTaskManager:
		return p.Role == models.RoleEmployee && hasKind(caps, CapTaskManager)

	case ResFolderIndex:
		return p.Role == models.RoleEmployee && hasKind(caps, CapFolder)

	case ResFolder:
		if p.Role != models.RoleEmployee {
			return false
		}
		for _, c := range caps {
			if c.Kind == CapFolder && c.FolderID == res.FolderID {
				return true
			}
		}
		return false

	default:
		return false
	}
}

func hasKind(caps []Capability, kind CapabilityKind) bool {
	for _, c := range caps {
		if c.Kind == kind {
			return true
		}
	}
	return false
}

// AccessibleFolders filters folders down to those the principal's
// folder-scoped capabilities grant: ADMIN_FMS tags for admins, FMS tags for
// employees, everything for superadmin.
func AccessibleFolders(p Principal, folders []models.Folder) []models.Folder {
	if p.Role == models.RoleSuperAdmin {
		return folders
	}
	want := CapFolder
	if p.Role == models.RoleAdmin {
		want = CapAdminFolder
	}
	granted := map[string]bool{}
	for _, c := range parseAll(p.Tags) {
		if c.Kind == want {
			granted[c.FolderID] = true
		}
	}
	out := make([]models.Folder, 0, len(granted))
	for _, f := range folders {
		if granted[f.ID] {
			out = append(out, f)
		}
	}
	return out
}
