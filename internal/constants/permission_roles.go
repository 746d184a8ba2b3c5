package constants

// PermissionRoles maps each permission to the roles allowed to perform it.
// Direction surfaces (commission ledger, admin dashboard, team oversight,
// exports) are admin-only; everything else is open to any logged-in employee.
var PermissionRoles = map[string][]string{
	CreateReco:        {Employee, Admin},
	ViewOwn:           {Employee, Admin},
	AddNote:           {Employee, Admin},
	SuggestFeature:    {Employee, Admin},
	ViewDirection:     {Admin},
	ManageCommissions: {Admin},
	ViewTeams:         {Admin},
	ExportData:        {Admin},
}

// AllowedRole returns true if role is in the list of allowed roles for the permission.
func AllowedRole(permission, role string) bool {
	roles, ok := PermissionRoles[permission]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
