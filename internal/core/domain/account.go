package domain

import "time"

// Role classifies an account and determines which dashboard it lands on.
type Role string

const (
	RoleClient         Role = "client"
	RoleDriver         Role = "driver"
	RoleClearanceAgent Role = "clearance_agent"
	RoleAdmin          Role = "admin"
)

// AllRoles lists every recognized role, in registration-form order.
var AllRoles = []Role{RoleClient, RoleDriver, RoleClearanceAgent, RoleAdmin}

// roleLabels maps each role to its human-readable display name.
var roleLabels = map[Role]string{
	RoleClient:         "Client",
	RoleDriver:         "Driver",
	RoleClearanceAgent: "Clearance Agent",
	RoleAdmin:          "Admin",
}

// dashboardPaths is the single role→destination table consulted by login,
// registration and the dashboard dispatcher.
var dashboardPaths = map[Role]string{
	RoleClient:         "/dashboard/client/",
	RoleDriver:         "/dashboard/driver/",
	RoleClearanceAgent: "/dashboard/clearance-agent/",
	RoleAdmin:          "/dashboard/admin/",
}

// PathDashboard is the generic role-dispatch endpoint, also the fallback
// destination for unrecognized roles.
const PathDashboard = "/dashboard/"

// PathLogin is where unauthenticated dashboard requests are sent.
const PathLogin = "/login/"

// Valid reports whether r is one of the four recognized roles.
func (r Role) Valid() bool {
	_, ok := roleLabels[r]
	return ok
}

// Label returns the display name for the role, or the raw value when the
// role is unrecognized.
func (r Role) Label() string {
	if label, ok := roleLabels[r]; ok {
		return label
	}
	return string(r)
}

// DashboardPath returns the dashboard destination for the role.
// Unrecognized roles fall through to the generic dashboard.
func (r Role) DashboardPath() string {
	if path, ok := dashboardPaths[r]; ok {
		return path
	}
	return PathDashboard
}

// Account is the canonical record of one portal user.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	PhoneNumber  string    `json:"phone_number,omitempty"`
	IsActive     bool      `json:"is_active"`
	IsStaff      bool      `json:"is_staff"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RoleCounts holds the number of accounts per role, computed at request time
// for the admin dashboard.
type RoleCounts struct {
	Clients         int64 `json:"clients"`
	Drivers         int64 `json:"drivers"`
	ClearanceAgents int64 `json:"clearance_agents"`
	Admins          int64 `json:"admins"`
}

// Total returns the sum across all four roles.
func (rc RoleCounts) Total() int64 {
	return rc.Clients + rc.Drivers + rc.ClearanceAgents + rc.Admins
}
