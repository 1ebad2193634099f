package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
)

type hierarchy interface {
	EmployeesUnderRM(ctx context.Context, rm string) ([]models.Employee, error)
	RMsUnderZM(ctx context.Context, zm string) ([]models.DirectoryEntry, error)
	AllActiveSales(ctx context.Context) ([]models.Employee, error)
	Eligible(ctx context.Context, emails []string, forOrders bool) ([]string, error)
}

// ScopeService resolves the employee emails a viewer may see.
type ScopeService struct {
	directory      hierarchy
	enforceSubtree bool
	logger         *zap.Logger
}

// NewScopeService constructs a ScopeService. With enforceSubtree, a manager selecting someone
// outside their own subtree resolves to an empty scope.
func NewScopeService(directory hierarchy, enforceSubtree bool, logger *zap.Logger) *ScopeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScopeService{directory: directory, enforceSubtree: enforceSubtree, logger: logger}
}

// Resolve returns the viewer's scope for filter before eligibility re-validation.
func (s *ScopeService) Resolve(ctx context.Context, session models.Session, filter models.FilterState) ([]string, error) {
	filter = filter.Normalize()
	switch session.Role {
	case models.RoleEmployee:
		return []string{session.Email}, nil
	case models.RoleReportingManager:
		return s.resolveReportingManager(ctx, session.Email, filter)
	case models.RoleZonalManager:
		return s.resolveZonalManager(ctx, session.Email, filter)
	case models.RoleProgramTeam:
		return s.resolveProgramTeam(ctx, filter)
	default:
		return nil, appErrors.Clone(appErrors.ErrForbidden, "unknown viewer role")
	}
}

// ResolveEligible resolves the scope and drops identities that fail directory re-validation.
func (s *ScopeService) ResolveEligible(ctx context.Context, session models.Session, filter models.FilterState, forOrders bool) ([]string, error) {
	scope, err := s.Resolve(ctx, session, filter)
	if err != nil {
		return nil, err
	}
	if len(scope) == 0 {
		return []string{}, nil
	}
	return s.directory.Eligible(ctx, scope, forOrders)
}

func (s *ScopeService) resolveReportingManager(ctx context.Context, rm string, filter models.FilterState) ([]string, error) {
	team, err := s.managedSet(ctx, rm)
	if err != nil {
		return nil, err
	}
	if models.IsSelected(filter.SelectedEmployee) {
		return s.within(team, filter.SelectedEmployee, rm), nil
	}
	return team, nil
}

func (s *ScopeService) resolveZonalManager(ctx context.Context, zm string, filter models.FilterState) ([]string, error) {
	managers, err := s.directory.RMsUnderZM(ctx, zm)
	if err != nil {
		return nil, err
	}

	if models.IsSelected(filter.SelectedEmployee) {
		if !s.enforceSubtree {
			return []string{filter.SelectedEmployee}, nil
		}
		subtree, err := s.subtree(ctx, managers)
		if err != nil {
			return nil, err
		}
		return s.within(appendUnique(subtree, zm), filter.SelectedEmployee, zm), nil
	}

	if models.IsSelected(filter.SelectedRM) {
		if s.enforceSubtree && !containsEntry(managers, filter.SelectedRM) {
			s.logger.Warn("reporting manager outside viewer subtree", zap.String("viewer", zm), zap.String("rm", filter.SelectedRM))
			return []string{}, nil
		}
		return s.managedSet(ctx, filter.SelectedRM)
	}
	return s.subtree(ctx, managers)
}

func (s *ScopeService) resolveProgramTeam(ctx context.Context, filter models.FilterState) ([]string, error) {
	if models.IsSelected(filter.SelectedEmployee) {
		return []string{filter.SelectedEmployee}, nil
	}
	employees, err := s.directory.AllActiveSales(ctx)
	if err != nil {
		return nil, err
	}
	scope := make([]string, 0, len(employees))
	for _, employee := range employees {
		if models.IsSelected(filter.SelectedZM) && !strings.EqualFold(employee.ZonalManagerEmail, filter.SelectedZM) {
			continue
		}
		if models.IsSelected(filter.SelectedRM) && !strings.EqualFold(employee.ReportingManagerEmail, filter.SelectedRM) {
			continue
		}
		scope = append(scope, employee.Email)
	}
	return scope, nil
}

// managedSet is an RM's reports plus the RM.
func (s *ScopeService) managedSet(ctx context.Context, rm string) ([]string, error) {
	employees, err := s.directory.EmployeesUnderRM(ctx, rm)
	if err != nil {
		return nil, err
	}
	return appendUnique(emailsOf(employees), rm), nil
}

func (s *ScopeService) subtree(ctx context.Context, managers []models.DirectoryEntry) ([]string, error) {
	scope := make([]string, 0)
	for _, manager := range managers {
		team, err := s.managedSet(ctx, manager.Email)
		if err != nil {
			return nil, err
		}
		scope = appendUnique(scope, team...)
	}
	return scope, nil
}

func (s *ScopeService) within(scope []string, selected, viewer string) []string {
	if !s.enforceSubtree || containsEmail(scope, selected) {
		return []string{selected}
	}
	s.logger.Warn("selected employee outside viewer subtree", zap.String("viewer", viewer), zap.String("employee", selected))
	return []string{}
}

func appendUnique(dst []string, values ...string) []string {
	for _, value := range values {
		if !containsEmail(dst, value) {
			dst = append(dst, value)
		}
	}
	return dst
}

func containsEmail(emails []string, email string) bool {
	for _, candidate := range emails {
		if strings.EqualFold(candidate, email) {
			return true
		}
	}
	return false
}

func containsEntry(entries []models.DirectoryEntry, email string) bool {
	for _, entry := range entries {
		if strings.EqualFold(entry.Email, email) {
			return true
		}
	}
	return false
}
