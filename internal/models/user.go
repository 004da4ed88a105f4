package models

import "gorm.io/gorm"

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleManager UserRole = "manager"
	RoleStaff   UserRole = "staff"
	RoleViewer  UserRole = "viewer"
)

type Permission string

const (
	PermItemsView    Permission = "items.view"
	PermItemsManage  Permission = "items.manage"
	PermLeasesView   Permission = "leases.view"
	PermLeasesManage Permission = "leases.manage"
	PermActivityView Permission = "activity.view"
	PermUsersManage  Permission = "users.manage"
)

var rolePermissions = map[UserRole][]Permission{
	RoleAdmin: {
		PermItemsView, PermItemsManage,
		PermLeasesView, PermLeasesManage,
		PermActivityView, PermUsersManage,
	},
	RoleManager: {
		PermItemsView, PermItemsManage,
		PermLeasesView, PermLeasesManage,
		PermActivityView,
	},
	RoleStaff: {
		PermItemsView,
		PermLeasesView, PermLeasesManage,
	},
	RoleViewer: {
		PermItemsView,
		PermLeasesView,
	},
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	_, ok := rolePermissions[r]
	return ok
}

// Can reports whether the role grants perm.
func (r UserRole) Can(perm Permission) bool {
	for _, p := range rolePermissions[r] {
		if p == perm {
			return true
		}
	}
	return false
}

// Permissions returns the permissions granted to the role.
func (r UserRole) Permissions() []Permission {
	perms := rolePermissions[r]
	out := make([]Permission, len(perms))
	copy(out, perms)
	return out
}

type User struct {
	gorm.Model
	Username     string   `gorm:"uniqueIndex;size:50;not null" json:"username"`
	PasswordHash string   `gorm:"not null" json:"-"`
	Role         UserRole `gorm:"type:varchar(20);not null" json:"role"`
}
