package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
)

const sampleRequestColumns = `submission_id, employee_email, "timestamp", COALESCE(total_books, 0)::int AS total_books,
        COALESCE(sku_info, '') AS sku_info, COALESCE(sample_status, '') AS sample_status, COALESCE(zm_approval, '') AS zm_approval,
        COALESCE(dispatched_date::text, '') AS dispatched_date, COALESCE(tracking_id, '') AS tracking_id,
        COALESCE(tracking_link, '') AS tracking_link, COALESCE(delivered_date::text, '') AS delivered_date`

// SampleRequestRepository reads sample request submissions.
type SampleRequestRepository struct {
	db    *sqlx.DB
	table string
}

// NewSampleRequestRepository constructs a SampleRequestRepository over the named table.
func NewSampleRequestRepository(db *sqlx.DB, table string) *SampleRequestRepository {
	return &SampleRequestRepository{db: db, table: pq.QuoteIdentifier(table)}
}

// List returns requests owned by the query's employees, newest first.
func (r *SampleRequestRepository) List(ctx context.Context, q models.RecordQuery) ([]models.SampleRequest, error) {
	if len(q.Emails) == 0 {
		return []models.SampleRequest{}, nil
	}
	args := []interface{}{pq.Array(q.Emails)}
	conditions := []string{"employee_email = ANY($1)"}

	if q.Start != nil {
		conditions = append(conditions, fmt.Sprintf(`"timestamp" >= $%d`, len(args)+1))
		args = append(args, *q.Start)
	}
	if q.End != nil {
		conditions = append(conditions, fmt.Sprintf(`"timestamp" < $%d`, len(args)+1))
		args = append(args, *q.End)
	}
	conditions, args = sampleStatusCondition(q.Status, conditions, args)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY "timestamp" DESC`,
		sampleRequestColumns, r.table, strings.Join(conditions, " AND "))

	var requests []models.SampleRequest
	if err := r.db.SelectContext(ctx, &requests, query, args...); err != nil {
		return nil, fmt.Errorf("list sample requests: %w", err)
	}
	return requests, nil
}

func sampleStatusCondition(status string, conditions []string, args []interface{}) ([]string, []interface{}) {
	if !models.IsSelected(status) {
		return conditions, args
	}
	next := len(args) + 1
	switch status {
	case models.SampleFilterZMApprovalPending:
		conditions = append(conditions, fmt.Sprintf("sample_status = $%d AND zm_approval = $%d", next, next+1))
		args = append(args, models.SampleStatusRequestReceived, models.ZMApprovalPending)
	case models.SampleFilterOrderPlaced:
		conditions = append(conditions, fmt.Sprintf("sample_status = ANY($%d)", next))
		args = append(args, pq.Array([]string{models.SampleStatusRequestReceived, models.SampleStatusB2BUploaded}))
	case models.SampleFilterDispatched:
		conditions = append(conditions, fmt.Sprintf("sample_status = $%d", next))
		args = append(args, models.SampleStatusDispatched)
	case models.SampleFilterDelivered:
		conditions = append(conditions, fmt.Sprintf("sample_status = $%d", next))
		args = append(args, models.SampleStatusDelivered)
	default:
		conditions = append(conditions, fmt.Sprintf("sample_status = $%d", next))
		args = append(args, status)
	}
	return conditions, args
}
