package auth

import "github.com/mouwaficbdr/my-facebook/internal/models"

// Role checks used by the session middleware and the back office gate.

func IsAdmin(claims *Claims) bool {
	return claims.Role == models.UserRoleAdmin
}

func IsModeratorOrHigher(claims *Claims) bool {
	return claims.Role == models.UserRoleModerator || claims.Role == models.UserRoleAdmin
}

// ValidRole reports whether role is one of the known account roles.
func ValidRole(role models.UserRole) bool {
	switch role {
	case models.UserRoleUser, models.UserRoleModerator, models.UserRoleAdmin:
		return true
	default:
		return false
	}
}
