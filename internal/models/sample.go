package models

import "time"

// Sample request status values.
const (
	SampleStatusRequestReceived = "Request Received"
	SampleStatusB2BUploaded     = "B2B App Uploaded"
	SampleStatusDispatched      = "Dispatched with Tracking ID"
	SampleStatusDelivered       = "Delivered"

	ZMApprovalPending = "Pending Approval"
)

// Status filter labels offered on the sample page. Any other label is matched exactly.
const (
	SampleFilterZMApprovalPending = "ZM Approval Pending"
	SampleFilterOrderPlaced       = "Order Placed"
	SampleFilterDispatched        = "Dispatched"
	SampleFilterDelivered         = "Delivered"
)

// SampleRequest is a sample request submission.
type SampleRequest struct {
	SubmissionID   string    `db:"submission_id" json:"submission_id"`
	EmployeeEmail  string    `db:"employee_email" json:"employee_email"`
	Timestamp      time.Time `db:"timestamp" json:"timestamp"`
	TotalBooks     int       `db:"total_books" json:"total_books"`
	SKUInfo        string    `db:"sku_info" json:"sku_info"`
	SampleStatus   string    `db:"sample_status" json:"sample_status"`
	ZMApproval     string    `db:"zm_approval" json:"zm_approval"`
	DispatchedDate string    `db:"dispatched_date" json:"dispatched_date"`
	TrackingID     string    `db:"tracking_id" json:"tracking_id"`
	TrackingLink   string    `db:"tracking_link" json:"tracking_link"`
	DeliveredDate  string    `db:"delivered_date" json:"delivered_date"`
}

// RecordQuery is the resolved query passed to record repositories.
type RecordQuery struct {
	Emails   []string
	Start    *time.Time
	End      *time.Time
	Status   string
	Customer string
}
