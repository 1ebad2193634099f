package dto

import (
	"github.com/shopspring/decimal"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
)

// SampleKPIs summarises sample requests in scope.
type SampleKPIs struct {
	SampleOrderPlaced int `json:"sampleOrderPlaced"`
	TotalRequestBooks int `json:"totalRequestBooks"`
	OrderReceived     int `json:"orderReceived"`
	ZMApprovalPending int `json:"zmApprovalPending"`
	Dispatched        int `json:"dispatched"`
	Delivered         int `json:"delivered"`
}

// OrderKPIs summarises orders in scope. Amount, books and placed count exclude cancelled rows.
type OrderKPIs struct {
	TotalInvoiceAmount decimal.Decimal `json:"totalInvoiceAmount"`
	TotalBooks         int             `json:"totalBooks"`
	TotalOrderPlaced   int             `json:"totalOrderPlaced"`
	OrderInProcess     int             `json:"orderInProcess"`
	YetToBeDispatched  int             `json:"yetToBeDispatched"`
	ZMApprovalPending  int             `json:"zmApprovalPending"`
	OrderInTransit     int             `json:"orderInTransit"`
	OrderDelivered     int             `json:"orderDelivered"`
	OrderCancelled     int             `json:"orderCancelled"`
}

// QuotaSummary rolls up sample quota across the scope.
type QuotaSummary struct {
	MaxQuota   float64 `json:"maxQuota"`
	QuotaUsed  float64 `json:"quotaUsed"`
	Remaining  float64 `json:"remaining"`
	Percentage float64 `json:"percentage"`
}

// Quota utilisation tiers.
const (
	TierCritical = "critical"
	TierWarning  = "warning"
	TierNormal   = "normal"
)

// QuotaUtilisationRow is one employee's quota usage.
type QuotaUtilisationRow struct {
	EmployeeEmail string  `json:"employeeEmail"`
	MaxQuota      float64 `json:"maxQuota"`
	QuotaUsed     float64 `json:"quotaUsed"`
	Remaining     float64 `json:"remaining"`
	Percentage    float64 `json:"percentage"`
	Tier          string  `json:"tier"`
}

// CustomerTotal is a customer's non-cancelled invoice and book totals.
type CustomerTotal struct {
	Rank          int             `json:"rank"`
	CustomerName  string          `json:"customerName"`
	InvoiceAmount decimal.Decimal `json:"invoiceAmount"`
	TotalBooks    int             `json:"totalBooks"`
}

// BookCount is the accumulated quantity of one book.
type BookCount struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// BookRanking lists the highest and lowest quantity books. Low starts with the lowest.
type BookRanking struct {
	Top []BookCount `json:"top"`
	Low []BookCount `json:"low"`
}

// DashboardSummary is the landing page payload.
type DashboardSummary struct {
	Samples  SampleKPIs   `json:"samples"`
	Quota    QuotaSummary `json:"quota"`
	Orders   OrderKPIs    `json:"orders"`
	Degraded []string     `json:"-"`
}

// SamplePage is the sample request view.
type SamplePage struct {
	Requests    []models.SampleRequest `json:"requests"`
	KPIs        SampleKPIs             `json:"kpis"`
	Quota       QuotaSummary           `json:"quota"`
	Utilisation []QuotaUtilisationRow  `json:"utilisation"`
	Books       BookRanking            `json:"books"`
	Pagination  *models.Pagination     `json:"pagination,omitempty"`
	Degraded    []string               `json:"-"`
}

// OrderPage is the order overview.
type OrderPage struct {
	Orders          []models.Order     `json:"orders"`
	KPIs            OrderKPIs          `json:"kpis"`
	Customers       []CustomerTotal    `json:"customers"`
	CustomerChart   []CustomerTotal    `json:"customerChart"`
	UniqueCustomers []string           `json:"uniqueCustomers"`
	Books           BookRanking        `json:"books"`
	Pagination      *models.Pagination `json:"pagination,omitempty"`
	Degraded        []string           `json:"-"`
}

// CustomerPage is the customer-wise analysis view.
type CustomerPage struct {
	Customers  []CustomerTotal    `json:"customers"`
	Total      decimal.Decimal    `json:"total"`
	Pagination *models.Pagination `json:"pagination,omitempty"`
	Degraded   []string           `json:"-"`
}

// FilterOptions holds the filter bar dropdown contents for a viewer.
type FilterOptions struct {
	Filter            models.FilterState      `json:"filter"`
	ShowZonalManagers bool                    `json:"showZonalManagers"`
	ShowReporting     bool                    `json:"showReportingManagers"`
	ShowEmployees     bool                    `json:"showEmployees"`
	ZonalManagers     []models.DirectoryEntry `json:"zonalManagers"`
	ReportingManagers []models.DirectoryEntry `json:"reportingManagers"`
	Employees         []models.DirectoryEntry `json:"employees"`
	SampleStatuses    []string                `json:"sampleStatuses"`
	OrderStatuses     []string                `json:"orderStatuses"`
}
