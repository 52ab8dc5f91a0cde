package usecases

import (
	"supportbot/clients"
	"supportbot/models"
)

// IsAdmin reports whether the member holds the configured admin role or the platform
// Administrator permission. cfg may be nil before setup.
func IsAdmin(it *models.Interaction, cfg *models.GuildConfig) bool {
	if clients.Permissions(it.MemberPermissions).Has(clients.PermissionAdministrator) {
		return true
	}
	return cfg != nil && it.HasRole(cfg.AdminRoleID)
}

// IsStaff reports whether the member may work tickets. Admins are staff.
func IsStaff(it *models.Interaction, cfg *models.GuildConfig) bool {
	return IsAdmin(it, cfg) || (cfg != nil && it.HasRole(cfg.StaffRoleID))
}
