package models

type UserRole string

const (
	UserRoleUser      UserRole = "user"
	UserRoleModerator UserRole = "moderator"
	UserRoleAdmin     UserRole = "admin"
)

type Genre string

const (
	GenreHomme Genre = "Homme"
	GenreFemme Genre = "Femme"
	GenreAutre Genre = "Autre"
)
