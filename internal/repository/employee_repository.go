package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
)

const employeeColumns = `COALESCE(email, '') AS email, COALESCE(name, '') AS name, COALESCE(team, '') AS team,
        COALESCE(status, '') AS status, COALESCE(line_of_business, '') AS line_of_business,
        COALESCE(reporting_manager, '') AS reporting_manager, COALESCE(reporting_manager_email, '') AS reporting_manager_email,
        COALESCE(zonal_manager, '') AS zonal_manager, COALESCE(zonal_manager_email, '') AS zonal_manager_email`

// EmployeeRepository reads the externally maintained employee roster.
type EmployeeRepository struct {
	db    *sqlx.DB
	table string
}

// NewEmployeeRepository constructs an EmployeeRepository over the named roster table.
func NewEmployeeRepository(db *sqlx.DB, table string) *EmployeeRepository {
	return &EmployeeRepository{db: db, table: pq.QuoteIdentifier(table)}
}

// FindByEmail returns the roster row for email, matched case-insensitively.
func (r *EmployeeRepository) FindByEmail(ctx context.Context, email string) (*models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(email) = LOWER($1) LIMIT 1`, employeeColumns, r.table)
	var employee models.Employee
	if err := r.db.GetContext(ctx, &employee, query, strings.TrimSpace(email)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("find employee by email: %w", err)
	}
	return &employee, nil
}

// Snapshot loads the viewer's own row plus every active Sales row naming the viewer as a manager.
func (r *EmployeeRepository) Snapshot(ctx context.Context, email string) (models.DirectorySnapshot, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s
        WHERE LOWER(email) = LOWER($1)
           OR (status = $2 AND team = $3 AND (LOWER(reporting_manager_email) = LOWER($1) OR LOWER(zonal_manager_email) = LOWER($1)))`,
		employeeColumns, r.table)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, strings.TrimSpace(email), models.StatusActive, models.TeamSales); err != nil {
		return models.DirectorySnapshot{}, fmt.Errorf("load directory snapshot: %w", err)
	}
	return models.DirectorySnapshot{Employees: employees}, nil
}

// ActiveSales lists every active Sales employee ordered by name.
func (r *EmployeeRepository) ActiveSales(ctx context.Context) ([]models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE status = $1 AND team = $2 ORDER BY name, email`, employeeColumns, r.table)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, models.StatusActive, models.TeamSales); err != nil {
		return nil, fmt.Errorf("list active sales employees: %w", err)
	}
	return employees, nil
}

// ByReportingManager lists active Sales employees reporting to rm. Manager references match
// case-insensitively, like every other email lookup here.
func (r *EmployeeRepository) ByReportingManager(ctx context.Context, rm string) ([]models.Employee, error) {
	return r.byManager(ctx, "reporting_manager_email", rm)
}

// ByZonalManager lists active Sales employees under the zonal manager zm.
func (r *EmployeeRepository) ByZonalManager(ctx context.Context, zm string) ([]models.Employee, error) {
	return r.byManager(ctx, "zonal_manager_email", zm)
}

func (r *EmployeeRepository) byManager(ctx context.Context, column, manager string) ([]models.Employee, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(%s) = LOWER($1) AND status = $2 AND team = $3 ORDER BY name, email`,
		employeeColumns, r.table, column)
	var employees []models.Employee
	if err := r.db.SelectContext(ctx, &employees, query, strings.TrimSpace(manager), models.StatusActive, models.TeamSales); err != nil {
		return nil, fmt.Errorf("list employees by %s: %w", column, err)
	}
	return employees, nil
}

// Eligible returns the subset of emails that are active Sales employees. When linesOfBusiness is
// non-empty the employee's line of business must also be one of them.
func (r *EmployeeRepository) Eligible(ctx context.Context, emails []string, linesOfBusiness []string) ([]string, error) {
	if len(emails) == 0 {
		return []string{}, nil
	}
	lowered := make([]string, len(emails))
	for i, email := range emails {
		lowered[i] = strings.ToLower(strings.TrimSpace(email))
	}
	query := fmt.Sprintf(`SELECT email FROM %s WHERE LOWER(email) = ANY($1) AND status = $2 AND team = $3`, r.table)
	args := []interface{}{pq.Array(lowered), models.StatusActive, models.TeamSales}
	if len(linesOfBusiness) > 0 {
		query += " AND line_of_business = ANY($4)"
		args = append(args, pq.Array(linesOfBusiness))
	}
	var eligible []string
	if err := r.db.SelectContext(ctx, &eligible, query, args...); err != nil {
		return nil, fmt.Errorf("revalidate scope: %w", err)
	}
	return eligible, nil
}
