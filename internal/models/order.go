package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order status values.
const (
	OrderStatusRequestReceived = "Request Received"
	OrderStatusB2BUploaded     = "B2B App Uploaded"
	OrderStatusInvoiceCreated  = "Invoice Created"
	OrderStatusDispatched      = "Dispatched with Tracking ID"
	OrderStatusDelivered       = "Delivered"
	OrderStatusCancelled       = "Cancelled"
)

// Status filter labels offered on the order page. Any other label is matched exactly.
const (
	OrderFilterInProgress        = "Order In Progress"
	OrderFilterYetToDispatch     = "Yet to be Dispatched"
	OrderFilterZMApprovalPending = "ZM Approval Pending"
	OrderFilterDispatched        = "Dispatched"
	OrderFilterDelivered         = "Delivered"
)

// Order is one row of the order form. A submission may span several rows, one per SKU line.
type Order struct {
	SubmissionID     string          `db:"submission_id" json:"submission_id"`
	EmployeeEmail    string          `db:"employee_email_id" json:"employee_email_id"`
	Timestamp        time.Time       `db:"time_stamp" json:"time_stamp"`
	CompanyTradeName string          `db:"company_trade_name" json:"company_trade_name"`
	OrderAmount      decimal.Decimal `db:"order_amount" json:"order_amount"`
	NoOfBooks        int             `db:"no_of_books" json:"no_of_books"`
	SKUInfo          string          `db:"sku_info" json:"sku_info"`
	Status           string          `db:"status" json:"status"`
	ZMApproval       string          `db:"zm_approval" json:"zm_approval"`
	InvoiceLink      string          `db:"invoice_link" json:"invoice_link"`
	DispatchedDate   string          `db:"dispatched_date" json:"dispatched_date"`
	TrackingID       string          `db:"tracking_id" json:"tracking_id"`
	NoOfBoxes        string          `db:"no_of_boxes" json:"no_of_boxes"`
	LogisticPartner  string          `db:"logistic_partner" json:"logistic_partner"`
	TrackingLink     string          `db:"tracking_link" json:"tracking_link"`
	DeliveredDate    string          `db:"delivered_date" json:"delivered_date"`
}

// Cancelled reports whether the order row was cancelled.
func (o Order) Cancelled() bool {
	return o.Status == OrderStatusCancelled
}

// QuotaRecord is an employee's sample quota.
type QuotaRecord struct {
	EmployeeEmail string  `db:"employee_email" json:"employee_email"`
	MaxQuota      float64 `db:"max_quota" json:"max_quota"`
	QuotaUsed     float64 `db:"quota_used" json:"quota_used"`
}
