package service

import (
	"strings"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
)

// ClassifyRole derives the viewer's role from a directory snapshot. Program Team members are
// classified first; everyone else must be active. A viewer named as zonal manager by an active Sales
// employee outranks one named only as reporting manager.
func ClassifyRole(snapshot models.DirectorySnapshot, email string) (models.ViewerRole, error) {
	email = strings.TrimSpace(email)
	var viewer *models.Employee
	for i := range snapshot.Employees {
		if strings.EqualFold(snapshot.Employees[i].Email, email) {
			viewer = &snapshot.Employees[i]
			break
		}
	}
	if viewer == nil {
		return "", appErrors.Clone(appErrors.ErrRoleUnresolved, "viewer not present in directory")
	}
	if viewer.Team == models.TeamProgram {
		return models.RoleProgramTeam, nil
	}
	if !viewer.Active() {
		return "", appErrors.Clone(appErrors.ErrRoleUnresolved, "viewer is not active")
	}

	reportingManager := false
	for _, employee := range snapshot.Employees {
		if !employee.ActiveSales() {
			continue
		}
		if strings.EqualFold(employee.ZonalManagerEmail, viewer.Email) {
			return models.RoleZonalManager, nil
		}
		if strings.EqualFold(employee.ReportingManagerEmail, viewer.Email) {
			reportingManager = true
		}
	}
	if reportingManager {
		return models.RoleReportingManager, nil
	}
	return models.RoleEmployee, nil
}
