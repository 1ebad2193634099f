package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
)

// QuotaRepository reads per-employee sample quotas. The backing sheet keeps its original mixed-case
// column names, so every identifier is quoted.
type QuotaRepository struct {
	db    *sqlx.DB
	table string
}

// NewQuotaRepository constructs a QuotaRepository over the named table.
func NewQuotaRepository(db *sqlx.DB, table string) *QuotaRepository {
	return &QuotaRepository{db: db, table: pq.QuoteIdentifier(table)}
}

// ListByEmployees returns quota rows for the given employees.
func (r *QuotaRepository) ListByEmployees(ctx context.Context, emails []string) ([]models.QuotaRecord, error) {
	if len(emails) == 0 {
		return []models.QuotaRecord{}, nil
	}
	query := fmt.Sprintf(`SELECT "Employee_Email_ID" AS employee_email,
        COALESCE("Max_Quota", 0)::float8 AS max_quota, COALESCE("Quota_Used", 0)::float8 AS quota_used
        FROM %s WHERE "Employee_Email_ID" = ANY($1)`, r.table)
	var quotas []models.QuotaRecord
	if err := r.db.SelectContext(ctx, &quotas, query, pq.Array(emails)); err != nil {
		return nil, fmt.Errorf("list quotas: %w", err)
	}
	return quotas, nil
}
