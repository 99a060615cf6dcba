package models

// Role — роль пользователя. Порядок привилегий строгий: owner > manager > captain > player.
type Role string

const (
	RoleOwner   Role = "owner"
	RoleManager Role = "manager"
	RoleCaptain Role = "captain"
	RolePlayer  Role = "player"
)

// Rank returns the privilege level of the role. Unknown roles rank below player.
func (r Role) Rank() int {
	switch r {
	case RoleOwner:
		return 4
	case RoleManager:
		return 3
	case RoleCaptain:
		return 2
	case RolePlayer:
		return 1
	default:
		return 0
	}
}

func (r Role) Valid() bool {
	return r.Rank() > 0
}

// AtLeast reports whether r carries at least the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && r.Rank() >= min.Rank()
}

// TeamBound reports whether a team assignment is meaningful for the role.
func (r Role) TeamBound() bool {
	return r == RoleCaptain || r == RolePlayer
}
