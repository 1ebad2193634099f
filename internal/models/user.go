package models

import "strings"

// ViewerRole is the role derived from the employee directory at login.
type ViewerRole string

const (
	RoleEmployee         ViewerRole = "employee"
	RoleReportingManager ViewerRole = "reporting_manager"
	RoleZonalManager     ViewerRole = "zonal_manager"
	RoleProgramTeam      ViewerRole = "program_team"
)

// Valid reports whether r is one of the known roles.
func (r ViewerRole) Valid() bool {
	switch r {
	case RoleEmployee, RoleReportingManager, RoleZonalManager, RoleProgramTeam:
		return true
	}
	return false
}

// Directory values as written by HR data entry.
const (
	TeamSales      = "Sales"
	TeamProgram    = "Program Team"
	StatusActive   = "Active"
	StatusInactive = "Inactive"
)

// Employee is a row of the employee roster.
type Employee struct {
	Email                 string `db:"email" json:"email"`
	Name                  string `db:"name" json:"name"`
	Team                  string `db:"team" json:"team"`
	Status                string `db:"status" json:"status"`
	LineOfBusiness        string `db:"line_of_business" json:"line_of_business"`
	ReportingManager      string `db:"reporting_manager" json:"reporting_manager"`
	ReportingManagerEmail string `db:"reporting_manager_email" json:"reporting_manager_email"`
	ZonalManager          string `db:"zonal_manager" json:"zonal_manager"`
	ZonalManagerEmail     string `db:"zonal_manager_email" json:"zonal_manager_email"`
}

// Active reports whether the roster marks the employee active.
func (e Employee) Active() bool {
	return strings.EqualFold(strings.TrimSpace(e.Status), StatusActive)
}

// ActiveSales reports whether the employee is an active member of the Sales team.
func (e Employee) ActiveSales() bool {
	return e.Active() && e.Team == TeamSales
}

// Entry returns the identity/name pair of the employee.
func (e Employee) Entry() DirectoryEntry {
	return DirectoryEntry{Email: e.Email, Name: e.Name}
}

// DirectoryEntry is an identity/name pair used in filter dropdowns and manager listings.
type DirectoryEntry struct {
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`
}

// DirectorySnapshot is the slice of the roster needed to classify a viewer: the viewer's own row and
// any active Sales rows that reference the viewer as a manager.
type DirectorySnapshot struct {
	Employees []Employee
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
