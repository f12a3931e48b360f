package rbac

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCan_RuleTable(t *testing.T) {
	t.Parallel()

	roles := []Role{RoleOwner, RoleAdmin, RoleManager, RoleAnalyst, RoleViewer}

	allowed := map[Action]map[Role]bool{
		ActionEditRole:     {RoleOwner: true, RoleAdmin: true},
		ActionRemoveMember: {RoleOwner: true},
	}

	for _, action := range []Action{ActionEditRole, ActionRemoveMember} {
		for _, role := range roles {
			role, action := role, action
			t.Run(string(action)+"/"+string(role), func(t *testing.T) {
				t.Parallel()
				got := Can(1, 2, role, action)
				assert.Equal(t, allowed[action][role], got)
			})
		}
	}
}

func TestCan_SelfActionForbidden(t *testing.T) {
	t.Parallel()

	// Even an owner may not edit their own role or remove themselves.
	for _, role := range []Role{RoleOwner, RoleAdmin, RoleManager, RoleAnalyst, RoleViewer} {
		assert.False(t, Can(7, 7, role, ActionEditRole), "edit_role self as %s", role)
		assert.False(t, Can(7, 7, role, ActionRemoveMember), "remove_member self as %s", role)
	}
}

func TestCan_AdminCannotChangeOwnRole(t *testing.T) {
	t.Parallel()

	assert.True(t, Can(1, 2, RoleAdmin, ActionEditRole))
	assert.False(t, Can(1, 1, RoleAdmin, ActionEditRole))
}

func TestCan_UnknownActionDenied(t *testing.T) {
	t.Parallel()

	assert.False(t, Can(1, 2, RoleOwner, Action("invite_member")))
}

func TestParseRole(t *testing.T) {
	t.Parallel()

	for _, s := range []string{"owner", "admin", "manager", "analyst", "viewer"} {
		role, ok := ParseRole(s)
		require.True(t, ok, s)
		assert.Equal(t, Role(s), role)
	}

	_, ok := ParseRole("superuser")
	assert.False(t, ok)
}
