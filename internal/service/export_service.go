package service

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
	"github.com/noah-isme/sales-dashboard-api/pkg/export"
	"github.com/noah-isme/sales-dashboard-api/pkg/format"
)

// Export kinds as recorded in metrics.
const (
	ExportSamples   = "samples"
	ExportOrders    = "orders"
	ExportCustomers = "customers"
)

var (
	sampleExportHeaders = []string{
		"Timestamp", "Submission ID", "Employee Email", "Total Books", "Sample Status", "ZM Approval",
		"Dispatched Date", "Tracking ID", "Tracking Link", "Delivered Date", "SKU Info",
	}
	orderExportHeaders = []string{
		"Date", "Order ID", "Customer Name", "Invoice Amount", "Books", "Status", "Invoice Link",
		"Dispatched Date", "Tracking ID", "No. of Boxes", "Logistic Partner", "Tracking Link", "Delivered Date", "SKU Info",
	}
	customerExportHeaders = []string{"Rank", "Customer Name", "Invoice Amount", "Total Books"}

	slugPattern = regexp.MustCompile(`[^a-z0-9]+`)
)

type csvRenderer interface {
	Render(data export.Dataset) ([]byte, error)
}

type pdfRenderer interface {
	Render(data export.Dataset, title, subtitle string) ([]byte, error)
}

type xlsxRenderer interface {
	Render(data export.Dataset, sheet string) ([]byte, error)
}

// ExportFile is a rendered download.
type ExportFile struct {
	Filename    string
	ContentType string
	Data        []byte
}

// ExportServiceParams groups dependencies for the ExportService.
type ExportServiceParams struct {
	Records  recordSource
	Metrics  *MetricsService
	Location *time.Location
	CSV      csvRenderer
	PDF      pdfRenderer
	XLSX     xlsxRenderer
	Logger   *zap.Logger
}

// ExportService renders the sample, order and customer listings as downloadable files.
type ExportService struct {
	records  recordSource
	metrics  *MetricsService
	location *time.Location
	csv      csvRenderer
	pdf      pdfRenderer
	xlsx     xlsxRenderer
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs an ExportService.
func NewExportService(params ExportServiceParams) *ExportService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	location := params.Location
	if location == nil {
		location = time.UTC
	}
	svc := &ExportService{
		records:  params.Records,
		metrics:  params.Metrics,
		location: location,
		csv:      params.CSV,
		pdf:      params.PDF,
		xlsx:     params.XLSX,
		logger:   logger,
		now:      time.Now,
	}
	if svc.csv == nil {
		svc.csv = export.NewCSVExporter()
	}
	if svc.pdf == nil {
		svc.pdf = export.NewPDFExporter()
	}
	if svc.xlsx == nil {
		svc.xlsx = export.NewXLSXExporter()
	}
	return svc
}

// Samples exports the sample request listing under the current filter and search term.
func (s *ExportService) Samples(ctx context.Context, session models.Session, filter models.FilterState, f export.Format) (*ExportFile, error) {
	filter = filter.Normalize()
	requests, err := s.records.SampleRequestsInScope(ctx, session, filter)
	if err != nil {
		return nil, exportError(err)
	}
	requests = SearchSampleRequests(requests, filter.Search)

	data := export.Dataset{
		Headers: sampleExportHeaders,
		Rows:    make([]map[string]string, 0, len(requests)),
		Numeric: map[string]bool{"Total Books": true},
	}
	books := 0
	for _, r := range requests {
		books += r.TotalBooks
		data.Rows = append(data.Rows, map[string]string{
			"Timestamp":       r.Timestamp.In(s.location).Format("2006-01-02 15:04:05"),
			"Submission ID":   r.SubmissionID,
			"Employee Email":  r.EmployeeEmail,
			"Total Books":     strconv.Itoa(r.TotalBooks),
			"Sample Status":   r.SampleStatus,
			"ZM Approval":     r.ZMApproval,
			"Dispatched Date": r.DispatchedDate,
			"Tracking ID":     r.TrackingID,
			"Tracking Link":   r.TrackingLink,
			"Delivered Date":  r.DeliveredDate,
			"SKU Info":        r.SKUInfo,
		})
	}
	subtitle := fmt.Sprintf("%d requests, %d books", len(requests), books)
	return s.render(ExportSamples, data, f, "Sample Requests", "sample_requests_"+s.today(), subtitle)
}

// Orders exports the order listing. The filename carries the selected status.
func (s *ExportService) Orders(ctx context.Context, session models.Session, filter models.FilterState, f export.Format) (*ExportFile, error) {
	filter = filter.Normalize()
	orders, err := s.records.OrdersInScope(ctx, session, filter)
	if err != nil {
		return nil, exportError(err)
	}
	orders = SearchOrders(orders, filter.Search)

	data := export.Dataset{
		Headers: orderExportHeaders,
		Rows:    make([]map[string]string, 0, len(orders)),
		Numeric: map[string]bool{"Invoice Amount": true, "Books": true},
	}
	total := decimal.Zero
	for _, o := range orders {
		if !o.Cancelled() {
			total = total.Add(o.OrderAmount)
		}
		data.Rows = append(data.Rows, map[string]string{
			"Date":             o.Timestamp.In(s.location).Format("2006-01-02"),
			"Order ID":         o.SubmissionID,
			"Customer Name":    o.CompanyTradeName,
			"Invoice Amount":   o.OrderAmount.StringFixed(0),
			"Books":            strconv.Itoa(o.NoOfBooks),
			"Status":           o.Status,
			"Invoice Link":     o.InvoiceLink,
			"Dispatched Date":  o.DispatchedDate,
			"Tracking ID":      o.TrackingID,
			"No. of Boxes":     o.NoOfBoxes,
			"Logistic Partner": o.LogisticPartner,
			"Tracking Link":    o.TrackingLink,
			"Delivered Date":   o.DeliveredDate,
			"SKU Info":         o.SKUInfo,
		})
	}
	base := fmt.Sprintf("order_overview_%s_%s", statusSlug(filter.Status), s.today())
	return s.render(ExportOrders, data, f, "Order Overview", base, "Total "+format.IndianRupees(total))
}

// Customers exports the customer-wise analysis. Like the page, it ignores the status filter.
func (s *ExportService) Customers(ctx context.Context, session models.Session, filter models.FilterState, f export.Format) (*ExportFile, error) {
	filter = filter.Normalize().WithoutStatus()
	orders, err := s.records.OrdersInScope(ctx, session, filter)
	if err != nil {
		return nil, exportError(err)
	}
	analysis := CustomerAnalysis(orders)

	data := export.Dataset{
		Headers: customerExportHeaders,
		Rows:    make([]map[string]string, 0, len(analysis)),
		Numeric: map[string]bool{"Rank": true, "Invoice Amount": true, "Total Books": true},
	}
	for _, c := range analysis {
		data.Rows = append(data.Rows, map[string]string{
			"Rank":           strconv.Itoa(c.Rank),
			"Customer Name":  c.CustomerName,
			"Invoice Amount": c.InvoiceAmount.StringFixed(0),
			"Total Books":    strconv.Itoa(c.TotalBooks),
		})
	}
	subtitle := "Total " + format.IndianRupees(CustomersTotal(analysis))
	return s.render(ExportCustomers, data, f, "Customer Analysis", "customer_analysis_"+s.today(), subtitle)
}

func (s *ExportService) render(kind string, data export.Dataset, f export.Format, title, base, subtitle string) (*ExportFile, error) {
	var (
		content []byte
		err     error
	)
	switch f {
	case export.FormatCSV:
		content, err = s.csv.Render(data)
	case export.FormatPDF:
		content, err = s.pdf.Render(data, title, subtitle)
	default:
		f = export.FormatXLSX
		content, err = s.xlsx.Render(data, title)
	}
	if err != nil {
		s.logger.Error("export render failed", zap.String("kind", kind), zap.String("format", string(f)), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.metrics.RecordExport(kind, string(f))
	return &ExportFile{Filename: f.Filename(base), ContentType: f.ContentType(), Data: content}, nil
}

func (s *ExportService) today() string {
	return s.now().In(s.location).Format("2006-01-02")
}

func statusSlug(status string) string {
	if status == "" || status == models.FilterAll {
		return "all"
	}
	slug := strings.Trim(slugPattern.ReplaceAllString(strings.ToLower(status), "_"), "_")
	if slug == "" {
		return "all"
	}
	return slug
}

func exportError(err error) error {
	if appErr := appErrors.FromError(err); appErr.Code == appErrors.ErrValidation.Code {
		return appErr
	}
	return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export rows")
}
