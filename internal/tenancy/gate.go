package tenancy

// GateInput is the input of the coarse role check attached to a route.
type GateInput struct {
	Principal *Principal
	// AllowedRoles is the route allow-list. Empty admits any authenticated principal.
	AllowedRoles []string
	Path         string
}

// Gate decides whether the principal's role is admitted by the route allow-list.
func Gate(in GateInput) Decision {
	if in.Principal == nil {
		return unauthenticated()
	}
	if len(in.AllowedRoles) == 0 || in.Principal.HasRole(in.AllowedRoles...) {
		return allow()
	}
	return Decision{
		Outcome:       Forbidden,
		UserRole:      in.Principal.Role,
		RequiredRoles: append([]string(nil), in.AllowedRoles...),
	}
}
