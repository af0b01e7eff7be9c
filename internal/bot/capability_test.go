package bot

import (
	"testing"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"github.com/stretchr/testify/assert"
)

func TestHoldsModeratorRole(t *testing.T) {
	t.Parallel()

	memberRoles := []snowflake.ID{200, 201}

	assert.True(t, holdsModeratorRole(201, memberRoles))
	assert.False(t, holdsModeratorRole(300, memberRoles))
	assert.False(t, holdsModeratorRole(0, memberRoles), "an unset moderator role grants nothing")
}

func TestPermissionsFromRoles(t *testing.T) {
	t.Parallel()

	const guildID = 1

	roles := []discord.Role{
		{ID: snowflake.ID(guildID), Permissions: discord.PermissionSendMessages},
		{ID: 200, Permissions: discord.PermissionManageMessages},
		{ID: 300, Permissions: discord.PermissionAdministrator},
	}

	// Role 200 held: manage-messages plus the @everyone baseline.
	perms := permissionsFromRoles(guildID, []snowflake.ID{200}, roles)
	assert.True(t, perms.Has(discord.PermissionManageMessages))
	assert.True(t, perms.Has(discord.PermissionSendMessages))
	assert.False(t, perms.Has(discord.PermissionAdministrator))

	// No roles held: only the @everyone baseline applies.
	perms = permissionsFromRoles(guildID, nil, roles)
	assert.False(t, perms.Has(discord.PermissionManageMessages))
	assert.True(t, perms.Has(discord.PermissionSendMessages))

	// Role 300 held: administrator flows through.
	perms = permissionsFromRoles(guildID, []snowflake.ID{300}, roles)
	assert.True(t, perms.Has(discord.PermissionAdministrator))
}
