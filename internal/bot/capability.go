package bot

import (
	"context"

	"github.com/disgoorg/disgo/discord"
	"github.com/disgoorg/snowflake/v2"
	"go.uber.org/zap"
)

// hasModeration reports whether the member holds the moderation
// capability: the configured moderator role, or manage-messages or
// administrator through their roles. Lookup failures deny.
func (b *Bot) hasModeration(ctx context.Context, guildID, actorID uint64) bool {
	member, err := b.client.Rest().GetMember(snowflake.ID(guildID), snowflake.ID(actorID))
	if err != nil {
		b.logger.Warn("Failed to fetch member for capability check",
			zap.Error(err),
			zap.Uint64("guildID", guildID),
			zap.Uint64("actorID", actorID))

		return false
	}

	settings, err := b.guildSettings(ctx, guildID)
	if err == nil && holdsModeratorRole(settings.ModeratorRoleID, member.RoleIDs) {
		return true
	}

	roles, err := b.client.Rest().GetRoles(snowflake.ID(guildID))
	if err != nil {
		b.logger.Warn("Failed to fetch guild roles for capability check",
			zap.Error(err),
			zap.Uint64("guildID", guildID))

		return false
	}

	permissions := permissionsFromRoles(guildID, member.RoleIDs, roles)

	return permissions.Has(discord.PermissionAdministrator) ||
		permissions.Has(discord.PermissionManageMessages)
}

func holdsModeratorRole(moderatorRoleID uint64, memberRoles []snowflake.ID) bool {
	if moderatorRoleID == 0 {
		return false
	}

	for _, roleID := range memberRoles {
		if uint64(roleID) == moderatorRoleID {
			return true
		}
	}

	return false
}

// permissionsFromRoles accumulates the permissions the member's roles
// grant. The @everyone role shares the guild's ID and always applies.
func permissionsFromRoles(guildID uint64, memberRoles []snowflake.ID, roles []discord.Role) discord.Permissions {
	var permissions discord.Permissions

	for _, role := range roles {
		if uint64(role.ID) == guildID {
			permissions = permissions.Add(role.Permissions)
			continue
		}

		for _, roleID := range memberRoles {
			if role.ID == roleID {
				permissions = permissions.Add(role.Permissions)
				break
			}
		}
	}

	return permissions
}
