package valueobject

// ModeratorPermissions is the immutable permission set of a moderator.
// A moderator's set is always replaced wholesale, never mutated
// flag-by-flag.
type ModeratorPermissions struct {
	CanManageUsers      bool
	CanManageContent    bool
	CanViewReports      bool
	CanManageModerators bool
}

// DefaultPermissions is what a freshly created moderator gets: everything
// except managing other moderators.
func DefaultPermissions() ModeratorPermissions {
	return ModeratorPermissions{
		CanManageUsers:   true,
		CanManageContent: true,
		CanViewReports:   true,
	}
}

// SuperAdminPermissions grants every flag.
func SuperAdminPermissions() ModeratorPermissions {
	return ModeratorPermissions{
		CanManageUsers:      true,
		CanManageContent:    true,
		CanViewReports:      true,
		CanManageModerators: true,
	}
}
