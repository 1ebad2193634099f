package service

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sales-dashboard-api/internal/dto"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
)

type employeeDirectory interface {
	FindByEmail(ctx context.Context, email string) (*models.Employee, error)
	Snapshot(ctx context.Context, email string) (models.DirectorySnapshot, error)
	ActiveSales(ctx context.Context) ([]models.Employee, error)
	ByReportingManager(ctx context.Context, rm string) ([]models.Employee, error)
	ByZonalManager(ctx context.Context, zm string) ([]models.Employee, error)
	Eligible(ctx context.Context, emails []string, linesOfBusiness []string) ([]string, error)
}

// Status labels offered by the filter bar.
var (
	SampleStatusFilters = []string{
		models.FilterAll,
		models.SampleFilterZMApprovalPending,
		models.SampleFilterOrderPlaced,
		models.SampleFilterDispatched,
		models.SampleFilterDelivered,
	}
	OrderStatusFilters = []string{
		models.FilterAll,
		models.OrderFilterInProgress,
		models.OrderFilterYetToDispatch,
		models.OrderFilterZMApprovalPending,
		models.OrderFilterDispatched,
		models.OrderFilterDelivered,
		models.OrderStatusCancelled,
	}
)

// DirectoryServiceConfig carries roster rules.
type DirectoryServiceConfig struct {
	OrderLinesOfBusiness []string
}

// DirectoryService walks the org hierarchy. Every listing is deduplicated by email, first
// occurrence winning, and ordered by name then email.
type DirectoryService struct {
	repo   employeeDirectory
	cfg    DirectoryServiceConfig
	logger *zap.Logger
}

// NewDirectoryService constructs a DirectoryService.
func NewDirectoryService(repo employeeDirectory, cfg DirectoryServiceConfig, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{repo: repo, cfg: cfg, logger: logger}
}

// Employee returns the roster row of email.
func (s *DirectoryService) Employee(ctx context.Context, email string) (*models.Employee, error) {
	return s.repo.FindByEmail(ctx, email)
}

// Snapshot loads what ClassifyRole needs for email.
func (s *DirectoryService) Snapshot(ctx context.Context, email string) (models.DirectorySnapshot, error) {
	return s.repo.Snapshot(ctx, email)
}

// EmployeesUnderRM lists the RM's active Sales reports. The RM is included when they are active Sales.
func (s *DirectoryService) EmployeesUnderRM(ctx context.Context, rm string) ([]models.Employee, error) {
	reports, err := s.repo.ByReportingManager(ctx, rm)
	if err != nil {
		return nil, err
	}
	employees := dedupeEmployees(reports)
	if containsEmployee(employees, rm) {
		return employees, nil
	}
	manager, err := s.repo.FindByEmail(ctx, rm)
	if err != nil {
		// An RM missing from the roster still manages their reports.
		s.logger.Debug("reporting manager not in roster", zap.String("rm", rm), zap.Error(err))
		return employees, nil
	}
	if manager.ActiveSales() {
		employees = sortEmployees(append(employees, *manager))
	}
	return employees, nil
}

// RMsUnderZM lists the reporting managers with at least one active Sales report under zm.
func (s *DirectoryService) RMsUnderZM(ctx context.Context, zm string) ([]models.DirectoryEntry, error) {
	employees, err := s.repo.ByZonalManager(ctx, zm)
	if err != nil {
		return nil, err
	}
	return reportingManagers(employees), nil
}

// EmployeesUnderZM lists active Sales employees whose zonal manager is zm.
func (s *DirectoryService) EmployeesUnderZM(ctx context.Context, zm string) ([]models.Employee, error) {
	employees, err := s.repo.ByZonalManager(ctx, zm)
	if err != nil {
		return nil, err
	}
	return dedupeEmployees(employees), nil
}

// AllActiveSales lists every active Sales employee.
func (s *DirectoryService) AllActiveSales(ctx context.Context) ([]models.Employee, error) {
	employees, err := s.repo.ActiveSales(ctx)
	if err != nil {
		return nil, err
	}
	return dedupeEmployees(employees), nil
}

// AllRMs lists every reporting manager referenced by an active Sales employee.
func (s *DirectoryService) AllRMs(ctx context.Context) ([]models.DirectoryEntry, error) {
	employees, err := s.repo.ActiveSales(ctx)
	if err != nil {
		return nil, err
	}
	return reportingManagers(employees), nil
}

// AllZMs lists every zonal manager referenced by an active Sales employee.
func (s *DirectoryService) AllZMs(ctx context.Context) ([]models.DirectoryEntry, error) {
	employees, err := s.repo.ActiveSales(ctx)
	if err != nil {
		return nil, err
	}
	entries := make([]models.DirectoryEntry, 0)
	for _, employee := range employees {
		if strings.TrimSpace(employee.ZonalManagerEmail) == "" {
			continue
		}
		entries = append(entries, models.DirectoryEntry{Email: employee.ZonalManagerEmail, Name: employee.ZonalManager})
	}
	return dedupeEntries(entries), nil
}

// Eligible drops every email that is not an active Sales employee, and for order queries every
// employee outside the configured lines of business. Input order is kept.
func (s *DirectoryService) Eligible(ctx context.Context, emails []string, forOrders bool) ([]string, error) {
	if len(emails) == 0 {
		return []string{}, nil
	}
	var lobs []string
	if forOrders {
		lobs = s.cfg.OrderLinesOfBusiness
	}
	valid, err := s.repo.Eligible(ctx, emails, lobs)
	if err != nil {
		return nil, err
	}
	allowed := make(map[string]struct{}, len(valid))
	for _, email := range valid {
		allowed[strings.ToLower(email)] = struct{}{}
	}
	out := make([]string, 0, len(valid))
	for _, email := range emails {
		if _, ok := allowed[strings.ToLower(strings.TrimSpace(email))]; ok {
			out = append(out, email)
		}
	}
	return out, nil
}

// FilterOptions computes the filter bar dropdowns for the viewer after applying the narrowing rule
// for the field named by changed.
func (s *DirectoryService) FilterOptions(ctx context.Context, session models.Session, filter models.FilterState, changed string) (*dto.FilterOptions, error) {
	filter = filter.Normalize().Narrow(changed)
	opts := &dto.FilterOptions{
		Filter:            filter,
		ZonalManagers:     []models.DirectoryEntry{},
		ReportingManagers: []models.DirectoryEntry{},
		Employees:         []models.DirectoryEntry{},
		SampleStatuses:    SampleStatusFilters,
		OrderStatuses:     OrderStatusFilters,
	}

	var err error
	switch session.Role {
	case models.RoleReportingManager:
		opts.ShowEmployees = true
		opts.Employees, err = s.entriesUnderRM(ctx, session.Email)
	case models.RoleZonalManager:
		opts.ShowReporting, opts.ShowEmployees = true, true
		if opts.ReportingManagers, err = s.RMsUnderZM(ctx, session.Email); err != nil {
			return nil, err
		}
		if models.IsSelected(filter.SelectedRM) {
			opts.Employees, err = s.entriesUnderRM(ctx, filter.SelectedRM)
		}
	case models.RoleProgramTeam:
		opts.ShowZonalManagers, opts.ShowReporting, opts.ShowEmployees = true, true, true
		if opts.ZonalManagers, err = s.AllZMs(ctx); err != nil {
			return nil, err
		}
		err = s.programTeamOptions(ctx, filter, opts)
	}
	if err != nil {
		return nil, err
	}
	return opts, nil
}

func (s *DirectoryService) programTeamOptions(ctx context.Context, filter models.FilterState, opts *dto.FilterOptions) error {
	var err error
	if models.IsSelected(filter.SelectedZM) {
		if opts.ReportingManagers, err = s.RMsUnderZM(ctx, filter.SelectedZM); err != nil {
			return err
		}
	} else if opts.ReportingManagers, err = s.AllRMs(ctx); err != nil {
		return err
	}

	var employees []models.Employee
	switch {
	case models.IsSelected(filter.SelectedRM):
		employees, err = s.EmployeesUnderRM(ctx, filter.SelectedRM)
	case models.IsSelected(filter.SelectedZM):
		employees, err = s.EmployeesUnderZM(ctx, filter.SelectedZM)
	default:
		employees, err = s.AllActiveSales(ctx)
	}
	if err != nil {
		return err
	}
	opts.Employees = toEntries(employees)
	return nil
}

func (s *DirectoryService) entriesUnderRM(ctx context.Context, rm string) ([]models.DirectoryEntry, error) {
	employees, err := s.EmployeesUnderRM(ctx, rm)
	if err != nil {
		return nil, err
	}
	return toEntries(employees), nil
}

func reportingManagers(employees []models.Employee) []models.DirectoryEntry {
	entries := make([]models.DirectoryEntry, 0)
	for _, employee := range employees {
		if strings.TrimSpace(employee.ReportingManagerEmail) == "" {
			continue
		}
		entries = append(entries, models.DirectoryEntry{Email: employee.ReportingManagerEmail, Name: employee.ReportingManager})
	}
	return dedupeEntries(entries)
}

func dedupeEntries(entries []models.DirectoryEntry) []models.DirectoryEntry {
	seen := make(map[string]struct{}, len(entries))
	out := make([]models.DirectoryEntry, 0, len(entries))
	for _, entry := range entries {
		if _, ok := seen[entry.Email]; ok {
			continue
		}
		seen[entry.Email] = struct{}{}
		out = append(out, entry)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Email < out[j].Email
	})
	return out
}

func dedupeEmployees(employees []models.Employee) []models.Employee {
	seen := make(map[string]struct{}, len(employees))
	out := make([]models.Employee, 0, len(employees))
	for _, employee := range employees {
		if _, ok := seen[employee.Email]; ok {
			continue
		}
		seen[employee.Email] = struct{}{}
		out = append(out, employee)
	}
	return sortEmployees(out)
}

func sortEmployees(employees []models.Employee) []models.Employee {
	sort.SliceStable(employees, func(i, j int) bool {
		if employees[i].Name != employees[j].Name {
			return employees[i].Name < employees[j].Name
		}
		return employees[i].Email < employees[j].Email
	})
	return employees
}

func containsEmployee(employees []models.Employee, email string) bool {
	for _, employee := range employees {
		if strings.EqualFold(employee.Email, email) {
			return true
		}
	}
	return false
}

func toEntries(employees []models.Employee) []models.DirectoryEntry {
	entries := make([]models.DirectoryEntry, len(employees))
	for i, employee := range employees {
		entries[i] = employee.Entry()
	}
	return entries
}

func emailsOf(employees []models.Employee) []string {
	emails := make([]string, len(employees))
	for i, employee := range employees {
		emails[i] = employee.Email
	}
	return emails
}
