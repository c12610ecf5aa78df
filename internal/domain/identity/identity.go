package identity

type Role string

const (
	RoleUser     Role = "user"
	RoleVerifier Role = "verifier"
	RoleAdmin    Role = "admin"
)

// ParseRole maps a raw role string onto the known role set.
func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleVerifier, RoleAdmin:
		return Role(s), true
	}
	return "", false
}

// Principal is the authenticated actor performing an operation. It is
// supplied by the identity provider, never resolved here.
type Principal struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Role Role   `json:"role"`
}

func (p Principal) Valid() bool { return p.ID != "" }

// CanVerify reports whether the principal may move a pending loan.
func (p Principal) CanVerify() bool { return p.Role == RoleVerifier || p.Role == RoleAdmin }

// CanApprove reports whether the principal may decide a verified loan.
func (p Principal) CanApprove() bool { return p.Role == RoleAdmin }
