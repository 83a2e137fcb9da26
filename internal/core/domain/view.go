package domain

// View is a protected page together with the roles allowed to open it.
// An empty Roles set admits any authenticated identity.
type View struct {
	Path  Path
	Name  string
	Roles RoleSet
}

// Views lists the portal's protected pages.
func Views() []View {
	return []View{
		{Path: "/admin/dashboard", Name: "Admin Dashboard", Roles: NewRoleSet(RoleAdmin)},
		{Path: "/hospital/dashboard", Name: "Hospital Dashboard", Roles: NewRoleSet(RoleAdmin)},
		{Path: "/doctor/dashboard", Name: "Doctor Dashboard", Roles: NewRoleSet(RoleDoctor)},
		{Path: "/nurse/dashboard", Name: "Nurse Dashboard", Roles: NewRoleSet(RoleNurse)},
		{Path: "/patient/dashboard", Name: "Patient Dashboard", Roles: NewRoleSet(RolePatient)},
		{Path: "/superadmin/dashboard", Name: "Super Admin Dashboard", Roles: NewRoleSet(RoleSuperAdmin)},
		{Path: "/upload", Name: "Upload", Roles: NewRoleSet(RoleAdmin, RoleDoctor)},
		{Path: "/patient/details", Name: "Patients", Roles: NewRoleSet(RoleAdmin, RoleDoctor, RoleNurse)},
		{Path: "/doctor/details", Name: "Doctors", Roles: NewRoleSet(RoleAdmin)},
		{Path: "/superadmin/hospital/details", Name: "Hospital", Roles: NewRoleSet(RoleSuperAdmin)},
	}
}

// NavItem is a sidebar entry.
type NavItem struct {
	Name  string `json:"name"`
	Path  Path   `json:"path"`
	Roles []Role `json:"-"`
}

var navItems = []NavItem{
	{Name: "Dashboard", Path: PathDashboard, Roles: AllRoles()},
	{Name: "Upload", Path: "/upload", Roles: []Role{RoleAdmin, RoleDoctor}},
	{Name: "Patients", Path: "/patient/details", Roles: []Role{RoleAdmin, RoleDoctor, RoleNurse}},
	{Name: "Doctors", Path: "/doctor/details", Roles: []Role{RoleAdmin}},
	{Name: "Hospital", Path: "/superadmin/hospital/details", Roles: []Role{RoleSuperAdmin}},
	{Name: "Sign Out", Path: PathSignOut, Roles: AllRoles()},
}

// NavigationFor returns the sidebar entries visible to role.
func NavigationFor(role Role) []NavItem {
	out := make([]NavItem, 0, len(navItems))
	for _, item := range navItems {
		if len(item.Roles) == 0 || NewRoleSet(item.Roles...).Contains(role) {
			out = append(out, item)
		}
	}
	return out
}
