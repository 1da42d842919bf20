package identity

// Role is one of six privilege levels. Only its ordinal rank is meaningful.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleHRManager Role = "hr-manager"
	RoleTeamLead  Role = "team-lead"
	RoleEmployee  Role = "employee"
	RoleIntern    Role = "intern"
	RoleGuest     Role = "guest"
)

var roleRanks = map[Role]int{
	RoleAdmin:     5,
	RoleHRManager: 4,
	RoleTeamLead:  3,
	RoleEmployee:  2,
	RoleIntern:    1,
	RoleGuest:     0,
}

// Roles lists every role from most to least privileged.
func Roles() []Role {
	return []Role{RoleAdmin, RoleHRManager, RoleTeamLead, RoleEmployee, RoleIntern, RoleGuest}
}

func ParseRole(s string) (Role, bool) {
	r := Role(s)
	return r, r.Valid()
}

func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the ordinal of r; ok is false for unknown roles.
func (r Role) Rank() (rank int, ok bool) {
	rank, ok = roleRanks[r]
	return rank, ok
}

// AtLeast reports whether r ranks at or above required. Unknown roles on
// either side never satisfy the comparison.
func (r Role) AtLeast(required Role) bool {
	have, ok := r.Rank()
	if !ok {
		return false
	}
	need, ok := required.Rank()
	if !ok {
		return false
	}
	return have >= need
}

func (r Role) String() string {
	return string(r)
}
