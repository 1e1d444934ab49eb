package tenancy

// Outcome is the result class of a guard evaluation.
type Outcome int

const (
	Allow Outcome = iota
	Unauthenticated
	Forbidden
	NotFound
	ValidationError
)

func (o Outcome) String() string {
	switch o {
	case Allow:
		return "allow"
	case Unauthenticated:
		return "unauthenticated"
	case Forbidden:
		return "forbidden"
	case NotFound:
		return "not_found"
	case ValidationError:
		return "validation_error"
	default:
		return "unknown"
	}
}

// Decision is the value every guard returns. Only the fields relevant to Outcome are set.
type Decision struct {
	Outcome Outcome

	// UserRole and RequiredRoles accompany Forbidden decisions from the role gate.
	UserRole      string
	RequiredRoles []string

	// ResourceID accompanies NotFound decisions.
	ResourceID string

	// Field names the offending body or query field for ValidationError decisions.
	Field  string
	Reason string
}

// Allowed reports whether the request may continue.
func (d Decision) Allowed() bool { return d.Outcome == Allow }

func allow() Decision { return Decision{Outcome: Allow} }

func unauthenticated() Decision { return Decision{Outcome: Unauthenticated} }

func invalidField(field, reason string) Decision {
	return Decision{Outcome: ValidationError, Field: field, Reason: reason}
}

// Validation reasons.
const (
	ReasonForeignTenant  = "foreign_tenant"
	ReasonTenantMismatch = "tenant_mismatch"
	ReasonMalformed      = "malformed"
)
