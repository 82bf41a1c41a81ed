package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPermissionSetFor(t *testing.T) {
	set := PermissionSet{
		RoleAdministrador: FullAccess(),
		RoleDeportista:    ReadOnly(),
	}

	t.Run("declared role", func(t *testing.T) {
		perms := set.For(RoleAdministrador)

		assert.True(t, perms.CanView)
		assert.True(t, perms.CanCreate)
		assert.True(t, perms.CanEdit)
		assert.True(t, perms.CanDelete)
	})

	t.Run("read only role", func(t *testing.T) {
		perms := set.For(RoleDeportista)

		assert.True(t, perms.CanView)
		assert.False(t, perms.CanCreate)
		assert.False(t, perms.CanEdit)
		assert.False(t, perms.CanDelete)
	})

	t.Run("unknown role gets nothing", func(t *testing.T) {
		perms := set.For(RoleDefault)

		assert.Equal(t, Permissions{}, perms)
	})
}

func TestPermissionSetKnows(t *testing.T) {
	set := PermissionSet{RoleControl: ReadOnly()}

	assert.True(t, set.Knows(RoleControl))
	assert.False(t, set.Knows(RoleAdministrador))
}
