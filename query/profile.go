package query

// Profile is the merged view of one identity across both directories. It is
// only ever built whole: one organization account, one department account and
// the department groups, or nothing.
type Profile struct {
	// ZID is the canonical organization-wide identifier.
	ZID string `json:"zid"`
	// Name is the self-chosen human-readable name.
	Name string `json:"name"`
	// Email address.
	Email string `json:"email"`
	// Aliases are the CSE login aliases.
	Aliases []string `json:"aliases,omitempty"`
	// Company is the faculty or business unit, when recorded.
	Company string `json:"company,omitempty"`
	// Department or school, when recorded.
	Department string `json:"department,omitempty"`
	// CSEGroups are the CSE group memberships, in search order.
	CSEGroups []string `json:"cse_groups,omitempty"`
}
