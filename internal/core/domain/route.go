package domain

import (
	"errors"
	"fmt"
)

// Path is an application route.
type Path string

const (
	PathSignIn    Path = "/auth/signin"
	PathSignOut   Path = "/auth/signout"
	PathDashboard Path = "/dashboard"
)

var ErrUnmappedRole = errors.New("role has no landing route")

// roleRoutes maps every role to its landing dashboard. Adding a Role
// constant without an entry here fails TestRoleRouteTableIsTotal.
var roleRoutes = map[Role]Path{
	RoleAdmin:      "/hospital/dashboard",
	RoleDoctor:     "/doctor/dashboard",
	RoleNurse:      "/nurse/dashboard",
	RolePatient:    "/patient/dashboard",
	RoleSuperAdmin: "/superadmin/dashboard",
}

// LandingRouteFor returns the default destination for role.
func LandingRouteFor(role Role) (Path, error) {
	p, ok := roleRoutes[role]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnmappedRole, role)
	}
	return p, nil
}
