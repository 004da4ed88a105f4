package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRolePermissions(t *testing.T) {
	assert.True(t, RoleAdmin.Can(PermUsersManage))
	assert.False(t, RoleManager.Can(PermUsersManage))
	assert.True(t, RoleManager.Can(PermActivityView))
	assert.True(t, RoleStaff.Can(PermLeasesManage))
	assert.False(t, RoleStaff.Can(PermItemsManage))
	assert.False(t, RoleViewer.Can(PermLeasesManage))
	assert.False(t, UserRole("intruder").Can(PermItemsView))
}

func TestRoleValid(t *testing.T) {
	for _, r := range []UserRole{RoleAdmin, RoleManager, RoleStaff, RoleViewer} {
		assert.True(t, r.Valid(), r)
	}
	assert.False(t, UserRole("").Valid())
	assert.False(t, UserRole("root").Valid())
}

func TestPermissionsReturnsCopy(t *testing.T) {
	perms := RoleViewer.Permissions()
	perms[0] = PermUsersManage
	assert.False(t, RoleViewer.Can(PermUsersManage))
}

func TestLeaseStatusOpen(t *testing.T) {
	assert.True(t, LeaseActive.Open())
	assert.True(t, LeaseOverdue.Open())
	assert.False(t, LeaseReturned.Open())
}

func TestItemLowStock(t *testing.T) {
	assert.True(t, Item{QuantityAvailable: 2, ReorderLevel: 2}.LowStock())
	assert.False(t, Item{QuantityAvailable: 3, ReorderLevel: 2}.LowStock())
}
