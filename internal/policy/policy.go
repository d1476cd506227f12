// Package policy decides who may do what to which record. Every endpoint asks
// the same Policy with a resource, an action and, for record-level actions,
// the target record.
package policy

import (
	"workforce-portal/internal/domain"
	"workforce-portal/internal/models"
)

type Resource string

const (
	Users     Resource = "users"
	Tasks     Resource = "tasks"
	Notes     Resource = "notes"
	Clients   Resource = "clients"
	Folders   Resource = "folders"
	Documents Resource = "documents"
	Reports   Resource = "reports"
	Dashboard Resource = "dashboard"
)

type Action string

const (
	List   Action = "list"
	Get    Action = "get"
	Create Action = "create"
	Update Action = "update"
	Delete Action = "delete"
)

// Identity is the verified caller of one request.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// Target is the record a get, update or delete is aimed at.
type Target struct {
	ID        string
	OwnerID   string
	Assignees []string
}

func (t *Target) assigned(userID string) bool {
	if t == nil {
		return false
	}
	for _, id := range t.Assignees {
		if id == userID {
			return true
		}
	}
	return false
}

func (t *Target) ownedBy(userID string) bool {
	return t != nil && t.OwnerID == userID
}

type Effect int

const (
	Deny Effect = iota
	Allow
	// AllowRestricted permits an update that may only touch Writable fields.
	AllowRestricted
)

type Decision struct {
	Effect Effect
	Reason string
	// Scope, when set, limits list results to records related to that user id.
	Scope    string
	Writable []string
}

func (d Decision) Allowed() bool {
	return d.Effect != Deny
}

// Err is nil for allowed decisions and a forbidden error otherwise.
func (d Decision) Err() error {
	if d.Allowed() {
		return nil
	}
	return domain.Forbidden(d.Reason)
}

// Restrict drops every field the decision does not let the caller write.
// Unrestricted decisions return patch unchanged.
func (d Decision) Restrict(patch map[string]any) map[string]any {
	if d.Effect != AllowRestricted {
		return patch
	}
	out := make(map[string]any, len(d.Writable))
	for _, f := range d.Writable {
		if v, ok := patch[f]; ok {
			out[f] = v
		}
	}
	return out
}

type rule func(id Identity, act Action, t *Target) Decision

// Policy is stateless; one instance serves every request.
type Policy struct {
	rules map[Resource]rule
}

func New() *Policy {
	return &Policy{rules: map[Resource]rule{
		Users:     usersRule,
		Tasks:     tasksRule,
		Notes:     notesRule,
		Clients:   adminOnly,
		Folders:   adminOnly,
		Documents: adminOnly,
		Reports:   reportsRule,
		Dashboard: dashboardRule,
	}}
}

// Evaluate returns the decision for id performing act on res. t may be nil for
// list and create.
func (p *Policy) Evaluate(id Identity, res Resource, act Action, t *Target) Decision {
	r, ok := p.rules[res]
	if !ok {
		return deny("Unknown resource")
	}
	return r(id, act, t)
}

// Authorize is Evaluate reduced to an error.
func (p *Policy) Authorize(id Identity, res Resource, act Action, t *Target) error {
	return p.Evaluate(id, res, act, t).Err()
}

func allow() Decision               { return Decision{Effect: Allow} }
func deny(reason string) Decision   { return Decision{Effect: Deny, Reason: reason} }
func scoped(userID string) Decision { return Decision{Effect: Allow, Scope: userID} }

const (
	reasonAdminOnly = "Access denied. Only administrators can perform this action"
	reasonForbidden = "Access denied"
)

func adminOnly(id Identity, _ Action, _ *Target) Decision {
	if id.IsAdmin() {
		return allow()
	}
	return deny(reasonAdminOnly)
}

func usersRule(id Identity, act Action, t *Target) Decision {
	if act == Delete && t != nil && t.ID == id.UserID {
		return deny("You cannot delete your own account")
	}
	return adminOnly(id, act, t)
}

func tasksRule(id Identity, act Action, t *Target) Decision {
	switch act {
	case List:
		if id.IsAdmin() {
			return allow()
		}
		return scoped(id.UserID)
	case Get:
		if id.IsAdmin() || t.assigned(id.UserID) {
			return allow()
		}
		return deny(reasonForbidden)
	case Update:
		if id.IsAdmin() {
			return allow()
		}
		if t.assigned(id.UserID) {
			return Decision{Effect: AllowRestricted, Writable: []string{"status"}}
		}
		return deny(reasonForbidden)
	default:
		return adminOnly(id, act, t)
	}
}

// notesRule lets everyone read every note; only writes are owner-checked.
func notesRule(id Identity, act Action, t *Target) Decision {
	switch act {
	case List, Get, Create:
		return allow()
	default:
		if id.IsAdmin() || t.ownedBy(id.UserID) {
			return allow()
		}
		return deny(reasonForbidden)
	}
}

func reportsRule(id Identity, act Action, t *Target) Decision {
	switch act {
	case List:
		if id.IsAdmin() {
			return allow()
		}
		return scoped(id.UserID)
	case Create:
		return scoped(id.UserID)
	default:
		if id.IsAdmin() || t.ownedBy(id.UserID) {
			return allow()
		}
		return deny(reasonForbidden)
	}
}

func dashboardRule(id Identity, _ Action, _ *Target) Decision {
	if id.IsAdmin() {
		return allow()
	}
	return scoped(id.UserID)
}

// TaskTarget, NoteTarget and ReportTarget adapt stored records for Evaluate.
func TaskTarget(t models.Task) *Target {
	return &Target{ID: t.ID, OwnerID: t.CreatedBy, Assignees: t.AssignedTo}
}

func NoteTarget(n models.Note) *Target {
	return &Target{ID: n.ID, OwnerID: n.CreatedBy}
}

func ReportTarget(r models.Report) *Target {
	return &Target{ID: r.ID, OwnerID: r.UserID}
}
