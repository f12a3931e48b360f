// Package rbac holds the single member-management permission rule set.
// Every surface that exposes a member action must consult Can; the rules
// are never re-encoded at a call site.
package rbac

type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleManager Role = "manager"
	RoleAnalyst Role = "analyst"
	RoleViewer  Role = "viewer"
)

type Action string

const (
	ActionEditRole     Action = "edit_role"
	ActionRemoveMember Action = "remove_member"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleOwner, RoleAdmin, RoleManager, RoleAnalyst, RoleViewer:
		return Role(s), true
	}
	return "", false
}

// Can decides whether the actor may perform action on the target member.
// Rules are evaluated in order, first match wins:
//  1. self-targeting is forbidden, even for an owner;
//  2. edit_role requires owner or admin;
//  3. remove_member requires owner;
//  4. anything else is denied.
func Can(actorID, targetID uint, actorRole Role, action Action) bool {
	if actorID == targetID {
		return false
	}
	switch action {
	case ActionEditRole:
		return actorRole == RoleOwner || actorRole == RoleAdmin
	case ActionRemoveMember:
		return actorRole == RoleOwner
	}
	return false
}
