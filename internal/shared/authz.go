package shared

// Permissions guarding the menu planning platform. Mutating routes consult
// these through the policy middleware, never through ad hoc handler checks.
const (
	PermMenusView = "menus.view"
	PermMenusEdit = "menus.edit"

	PermMasterdataView = "masterdata.view"
	PermMasterdataEdit = "masterdata.edit"

	// Menu type deletion is the one masterdata operation restricted to admins.
	PermMenuTypesDelete = "menutypes.delete"

	PermReportsView   = "reports.view"
	PermReportsExport = "reports.export"

	PermUsersManage = "users.manage"
)

// AllScopes lists every permission known to the platform.
func AllScopes() []string {
	return []string{
		PermMenusView,
		PermMenusEdit,
		PermMasterdataView,
		PermMasterdataEdit,
		PermMenuTypesDelete,
		PermReportsView,
		PermReportsExport,
		PermUsersManage,
	}
}
