package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
)

const (
	zmEmail    = "zara@acme.test"
	zm2Email   = "zubin@acme.test"
	rm1Email   = "ravi@acme.test"
	rm2Email   = "rekha@acme.test"
	rm3Email   = "rohan@acme.test"
	e1Email    = "asha@acme.test"
	e2Email    = "bala@acme.test"
	e3Email    = "chitra@acme.test"
	e4Email    = "dev@acme.test"
	goneEmail  = "gone@acme.test"
	ptEmail    = "priya@acme.test"
	orderLOB   = "K8"
	otherLOB   = "Test Prep"
	activeFlag = models.StatusActive
)

type fakeRoster struct {
	employees []models.Employee
	err       error
}

func sales(email, name, rm, rmName, zm, zmName, lob string) models.Employee {
	return models.Employee{
		Email:                 email,
		Name:                  name,
		Team:                  models.TeamSales,
		Status:                activeFlag,
		LineOfBusiness:        lob,
		ReportingManager:      rmName,
		ReportingManagerEmail: rm,
		ZonalManager:          zmName,
		ZonalManagerEmail:     zm,
	}
}

// newRoster builds two zones. Zara manages Ravi (Asha, Bala) and Rekha (Chitra); Zubin manages
// Rohan (Dev). Bala sells outside the order line of business and Gone is inactive.
func newRoster() *fakeRoster {
	gone := sales(goneEmail, "Gone", rm1Email, "Ravi", zmEmail, "Zara", orderLOB)
	gone.Status = models.StatusInactive
	return &fakeRoster{employees: []models.Employee{
		sales(zmEmail, "Zara", "", "", "", "", orderLOB),
		sales(zm2Email, "Zubin", "", "", "", "", orderLOB),
		sales(rm1Email, "Ravi", "", "", zmEmail, "Zara", orderLOB),
		sales(rm2Email, "Rekha", "", "", zmEmail, "Zara", orderLOB),
		sales(rm3Email, "Rohan", "", "", zm2Email, "Zubin", orderLOB),
		sales(e1Email, "Asha", rm1Email, "Ravi", zmEmail, "Zara", orderLOB),
		sales(e2Email, "Bala", rm1Email, "Ravi", zmEmail, "Zara", otherLOB),
		sales(e3Email, "Chitra", rm2Email, "Rekha", zmEmail, "Zara", orderLOB),
		sales(e4Email, "Dev", rm3Email, "Rohan", zm2Email, "Zubin", orderLOB),
		gone,
		{Email: ptEmail, Name: "Priya", Team: models.TeamProgram, Status: activeFlag},
	}}
}

func (f *fakeRoster) FindByEmail(_ context.Context, email string) (*models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, employee := range f.employees {
		if strings.EqualFold(employee.Email, email) {
			e := employee
			return &e, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeRoster) Snapshot(_ context.Context, _ string) (models.DirectorySnapshot, error) {
	if f.err != nil {
		return models.DirectorySnapshot{}, f.err
	}
	return models.DirectorySnapshot{Employees: append([]models.Employee(nil), f.employees...)}, nil
}

func (f *fakeRoster) ActiveSales(context.Context) ([]models.Employee, error) {
	return f.where(func(models.Employee) bool { return true })
}

func (f *fakeRoster) ByReportingManager(_ context.Context, rm string) ([]models.Employee, error) {
	return f.where(func(e models.Employee) bool { return strings.EqualFold(e.ReportingManagerEmail, rm) })
}

func (f *fakeRoster) ByZonalManager(_ context.Context, zm string) ([]models.Employee, error) {
	return f.where(func(e models.Employee) bool { return strings.EqualFold(e.ZonalManagerEmail, zm) })
}

func (f *fakeRoster) Eligible(_ context.Context, emails []string, lobs []string) ([]string, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]string, 0)
	for _, employee := range f.employees {
		if !employee.ActiveSales() || !containsEmail(emails, employee.Email) {
			continue
		}
		if len(lobs) > 0 && !containsEmail(lobs, employee.LineOfBusiness) {
			continue
		}
		out = append(out, employee.Email)
	}
	return out, nil
}

func (f *fakeRoster) where(match func(models.Employee) bool) ([]models.Employee, error) {
	if f.err != nil {
		return nil, f.err
	}
	out := make([]models.Employee, 0)
	for _, employee := range f.employees {
		if employee.ActiveSales() && match(employee) {
			out = append(out, employee)
		}
	}
	return out, nil
}

func newDirectory(roster *fakeRoster) *DirectoryService {
	return NewDirectoryService(roster, DirectoryServiceConfig{OrderLinesOfBusiness: []string{orderLOB}}, nil)
}

func entryEmails(entries []models.DirectoryEntry) []string {
	out := make([]string, len(entries))
	for i, entry := range entries {
		out[i] = entry.Email
	}
	return out
}

func TestClassifyRole(t *testing.T) {
	snapshot, err := newRoster().Snapshot(context.Background(), "")
	require.NoError(t, err)

	cases := map[string]models.ViewerRole{
		ptEmail:                  models.RoleProgramTeam,
		zmEmail:                  models.RoleZonalManager,
		rm1Email:                 models.RoleReportingManager,
		e1Email:                  models.RoleEmployee,
		strings.ToUpper(e3Email): models.RoleEmployee,
	}
	for email, want := range cases {
		role, err := ClassifyRole(snapshot, email)
		require.NoError(t, err, email)
		assert.Equal(t, want, role, email)
	}
}

func TestClassifyRoleRejectsUnknownAndInactive(t *testing.T) {
	snapshot, _ := newRoster().Snapshot(context.Background(), "")

	_, err := ClassifyRole(snapshot, "stranger@acme.test")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRoleUnresolved.Code, appErrors.FromError(err).Code)

	_, err = ClassifyRole(snapshot, goneEmail)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrRoleUnresolved.Code, appErrors.FromError(err).Code)
}

func TestClassifyRoleIgnoresInactiveReports(t *testing.T) {
	lead := sales("lead@acme.test", "Lead", "", "", "", "", orderLOB)
	report := sales("report@acme.test", "Report", lead.Email, "Lead", "", "", orderLOB)
	report.Status = models.StatusInactive

	role, err := ClassifyRole(models.DirectorySnapshot{Employees: []models.Employee{lead, report}}, lead.Email)
	require.NoError(t, err)
	assert.Equal(t, models.RoleEmployee, role)
}

func TestDirectoryEmployeesUnderRMIncludesManager(t *testing.T) {
	dir := newDirectory(newRoster())

	employees, err := dir.EmployeesUnderRM(context.Background(), rm1Email)
	require.NoError(t, err)
	assert.Equal(t, []string{e1Email, e2Email, rm1Email}, emailsOf(employees))
}

func TestDirectoryRMsUnderZM(t *testing.T) {
	dir := newDirectory(newRoster())

	managers, err := dir.RMsUnderZM(context.Background(), zmEmail)
	require.NoError(t, err)
	assert.Equal(t, []string{rm1Email, rm2Email}, entryEmails(managers))
	assert.Equal(t, "Ravi", managers[0].Name)
}

func TestDirectoryAllZMs(t *testing.T) {
	dir := newDirectory(newRoster())

	zms, err := dir.AllZMs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{zmEmail, zm2Email}, entryEmails(zms))
}

func TestDirectoryEligibleKeepsOrderAndAppliesLinesOfBusiness(t *testing.T) {
	dir := newDirectory(newRoster())
	input := []string{e3Email, e2Email, goneEmail, e1Email}

	salesScope, err := dir.Eligible(context.Background(), input, false)
	require.NoError(t, err)
	assert.Equal(t, []string{e3Email, e2Email, e1Email}, salesScope)

	orders, err := dir.Eligible(context.Background(), input, true)
	require.NoError(t, err)
	assert.Equal(t, []string{e3Email, e1Email}, orders)

	empty, err := dir.Eligible(context.Background(), nil, true)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestDirectoryMatchesManagerReferencesIgnoringCase(t *testing.T) {
	roster := newRoster()
	for i := range roster.employees {
		if roster.employees[i].ReportingManagerEmail == rm1Email {
			roster.employees[i].ReportingManagerEmail = strings.ToUpper(rm1Email)
		}
	}
	dir := newDirectory(roster)
	ctx := context.Background()

	snapshot, err := roster.Snapshot(ctx, rm1Email)
	require.NoError(t, err)
	role, err := ClassifyRole(snapshot, rm1Email)
	require.NoError(t, err)
	assert.Equal(t, models.RoleReportingManager, role)

	scope, err := NewScopeService(dir, true, nil).Resolve(ctx, models.Session{Email: rm1Email, Role: role}, models.FilterState{})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{e1Email, e2Email, rm1Email}, scope)

	eligible, err := dir.Eligible(ctx, []string{strings.ToUpper(e1Email), e3Email}, false)
	require.NoError(t, err)
	assert.Equal(t, []string{strings.ToUpper(e1Email), e3Email}, eligible)
}

func TestFilterOptionsByRole(t *testing.T) {
	dir := newDirectory(newRoster())
	ctx := context.Background()

	t.Run("employee sees no dropdowns", func(t *testing.T) {
		opts, err := dir.FilterOptions(ctx, models.Session{Email: e1Email, Role: models.RoleEmployee}, models.FilterState{}, "")
		require.NoError(t, err)
		assert.False(t, opts.ShowZonalManagers || opts.ShowReporting || opts.ShowEmployees)
		assert.Empty(t, opts.Employees)
		assert.Equal(t, SampleStatusFilters, opts.SampleStatuses)
	})

	t.Run("reporting manager sees their team", func(t *testing.T) {
		opts, err := dir.FilterOptions(ctx, models.Session{Email: rm1Email, Role: models.RoleReportingManager}, models.FilterState{}, "")
		require.NoError(t, err)
		assert.True(t, opts.ShowEmployees)
		assert.False(t, opts.ShowReporting)
		assert.Equal(t, []string{e1Email, e2Email, rm1Email}, entryEmails(opts.Employees))
	})

	t.Run("zonal manager employees follow the selected rm", func(t *testing.T) {
		session := models.Session{Email: zmEmail, Role: models.RoleZonalManager}
		opts, err := dir.FilterOptions(ctx, session, models.FilterState{}, "")
		require.NoError(t, err)
		assert.Equal(t, []string{rm1Email, rm2Email}, entryEmails(opts.ReportingManagers))
		assert.Empty(t, opts.Employees)

		opts, err = dir.FilterOptions(ctx, session, models.FilterState{SelectedRM: rm2Email, SelectedEmployee: e1Email}, models.ChangedReportingManager)
		require.NoError(t, err)
		assert.Equal(t, []string{e3Email, rm2Email}, entryEmails(opts.Employees))
		assert.Equal(t, models.FilterAll, opts.Filter.SelectedEmployee)
	})

	t.Run("program team narrows by zone", func(t *testing.T) {
		session := models.Session{Email: ptEmail, Role: models.RoleProgramTeam}
		opts, err := dir.FilterOptions(ctx, session, models.FilterState{SelectedZM: zm2Email, SelectedRM: rm1Email}, models.ChangedZonalManager)
		require.NoError(t, err)
		assert.True(t, opts.ShowZonalManagers)
		assert.Equal(t, models.FilterAll, opts.Filter.SelectedRM)
		assert.Equal(t, []string{zmEmail, zm2Email}, entryEmails(opts.ZonalManagers))
		assert.Equal(t, []string{rm3Email}, entryEmails(opts.ReportingManagers))
		assert.Equal(t, []string{e4Email, rm3Email}, entryEmails(opts.Employees))
	})

	t.Run("program team without selection sees everyone", func(t *testing.T) {
		session := models.Session{Email: ptEmail, Role: models.RoleProgramTeam}
		opts, err := dir.FilterOptions(ctx, session, models.FilterState{}, "")
		require.NoError(t, err)
		assert.Len(t, opts.Employees, 9)
		assert.Equal(t, []string{rm1Email, rm2Email, rm3Email}, entryEmails(opts.ReportingManagers))
	})
}

func TestFilterOptionsPropagatesDirectoryErrors(t *testing.T) {
	roster := newRoster()
	roster.err = errors.New("db down")
	dir := newDirectory(roster)

	_, err := dir.FilterOptions(context.Background(), models.Session{Email: zmEmail, Role: models.RoleZonalManager}, models.FilterState{}, "")
	require.Error(t, err)
}
