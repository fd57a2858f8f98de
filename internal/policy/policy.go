// Package policy centralizes every authorization decision for task
// operations. All role checks live here; handlers and services consult
// the evaluator instead of comparing roles inline, so the rules cannot
// drift between call sites.
package policy

import (
	"github.com/yamadayuki/task-tracker-api/internal/models"
)

// Principal is the authenticated identity making a request.
type Principal struct {
	UserID uint64
	Role   models.Role
}

// IsAdmin reports whether the principal has the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == models.RoleAdmin
}

// Action is an operation a principal may request on a task.
type Action int

const (
	// ActionRead covers fetching a single task by id.
	ActionRead Action = iota
	// ActionUpdate covers field mutations other than reassignment.
	ActionUpdate
	// ActionDelete covers permanent removal.
	ActionDelete
	// ActionChangeAssignee covers reassigning a task to another user.
	ActionChangeAssignee
)

// Can decides whether the principal may perform the action on the task.
// Pure function, no I/O: the task must already be loaded.
//
//	Read:           admin, assignee, or creator
//	Update:         admin or assignee
//	Delete:         admin or creator (an assignee who is not the creator
//	                cannot delete a task they were merely assigned)
//	ChangeAssignee: admin only
func Can(p Principal, a Action, t *models.Task) bool {
	if p.IsAdmin() {
		return true
	}

	switch a {
	case ActionRead:
		return t.AssigneeID == p.UserID || t.CreatorID == p.UserID
	case ActionUpdate:
		return t.AssigneeID == p.UserID
	case ActionDelete:
		return t.CreatorID == p.UserID
	case ActionChangeAssignee:
		return false
	}

	return false
}

// Scope describes the implicit visibility filter a list query must apply.
type Scope struct {
	// All is true for admins: no implicit filter.
	All bool
	// UserID restricts results to tasks where the user is assignee or
	// creator. Only meaningful when All is false.
	UserID uint64
}

// ListScope returns the visibility scope for list queries. Admins see
// everything; everyone else sees only tasks they are assigned to or
// created.
func ListScope(p Principal) Scope {
	if p.IsAdmin() {
		return Scope{All: true}
	}
	return Scope{UserID: p.UserID}
}
