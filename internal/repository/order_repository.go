package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
)

const orderColumns = `submission_id, employee_email_id, time_stamp, COALESCE(company_trade_name, '') AS company_trade_name,
        COALESCE(order_amount, 0) AS order_amount, COALESCE(no_of_books, 0)::int AS no_of_books, COALESCE(sku_info, '') AS sku_info,
        COALESCE(status, '') AS status, COALESCE(zm_approval, '') AS zm_approval, COALESCE(invoice_link, '') AS invoice_link,
        COALESCE(dispatched_date::text, '') AS dispatched_date, COALESCE(tracking_id, '') AS tracking_id,
        COALESCE(no_of_boxes::text, '') AS no_of_boxes, COALESCE(logistic_partner, '') AS logistic_partner,
        COALESCE(tracking_link, '') AS tracking_link, COALESCE(delivered_date::text, '') AS delivered_date`

// OrderRepository reads order form rows. One submission may span several rows.
type OrderRepository struct {
	db    *sqlx.DB
	table string
}

// NewOrderRepository constructs an OrderRepository over the named table.
func NewOrderRepository(db *sqlx.DB, table string) *OrderRepository {
	return &OrderRepository{db: db, table: pq.QuoteIdentifier(table)}
}

// List returns order rows owned by the query's employees, newest first.
func (r *OrderRepository) List(ctx context.Context, q models.RecordQuery) ([]models.Order, error) {
	if len(q.Emails) == 0 {
		return []models.Order{}, nil
	}
	args := []interface{}{pq.Array(q.Emails)}
	conditions := []string{"employee_email_id = ANY($1)"}

	if q.Start != nil {
		conditions = append(conditions, fmt.Sprintf("time_stamp >= $%d", len(args)+1))
		args = append(args, *q.Start)
	}
	if q.End != nil {
		conditions = append(conditions, fmt.Sprintf("time_stamp < $%d", len(args)+1))
		args = append(args, *q.End)
	}
	if models.IsSelected(q.Customer) {
		conditions = append(conditions, fmt.Sprintf("company_trade_name = $%d", len(args)+1))
		args = append(args, q.Customer)
	}
	conditions, args = orderStatusCondition(q.Status, conditions, args)

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY time_stamp DESC`,
		orderColumns, r.table, strings.Join(conditions, " AND "))

	var orders []models.Order
	if err := r.db.SelectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func orderStatusCondition(status string, conditions []string, args []interface{}) ([]string, []interface{}) {
	if !models.IsSelected(status) {
		return conditions, args
	}
	next := len(args) + 1
	switch status {
	case models.OrderFilterInProgress:
		conditions = append(conditions, fmt.Sprintf("status = $%d", next))
		args = append(args, models.OrderStatusRequestReceived)
	case models.OrderFilterYetToDispatch:
		conditions = append(conditions, fmt.Sprintf("status = ANY($%d)", next))
		args = append(args, pq.Array([]string{models.OrderStatusB2BUploaded, models.OrderStatusInvoiceCreated}))
	case models.OrderFilterZMApprovalPending:
		conditions = append(conditions, fmt.Sprintf("zm_approval = $%d", next))
		args = append(args, models.ZMApprovalPending)
	case models.OrderFilterDispatched:
		conditions = append(conditions, fmt.Sprintf("status = $%d", next))
		args = append(args, models.OrderStatusDispatched)
	case models.OrderFilterDelivered:
		conditions = append(conditions, fmt.Sprintf("status = $%d", next))
		args = append(args, models.OrderStatusDelivered)
	default:
		conditions = append(conditions, fmt.Sprintf("status = $%d", next))
		args = append(args, status)
	}
	return conditions, args
}
