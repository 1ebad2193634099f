package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sales-dashboard-api/internal/dto"
	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
)

// Cached page names.
const (
	PageDashboard = "dashboard"
	PageSamples   = "samples"
	PageOrders    = "orders"
	PageCustomers = "customers"
)

const (
	defaultPageSize = 25
	maxPageSize     = 200
)

type recordSource interface {
	SampleRequestsInScope(ctx context.Context, session models.Session, filter models.FilterState) ([]models.SampleRequest, error)
	OrdersInScope(ctx context.Context, session models.Session, filter models.FilterState) ([]models.Order, error)
	QuotasInScope(ctx context.Context, session models.Session, filter models.FilterState) ([]models.QuotaRecord, error)
}

// PageRequest is a page view request: the filter plus listing pagination.
type PageRequest struct {
	Filter   models.FilterState
	Page     int
	PageSize int
	Refresh  bool
}

func (r PageRequest) normalized() PageRequest {
	r.Filter = r.Filter.Normalize()
	if r.Page < 1 {
		r.Page = 1
	}
	if r.PageSize <= 0 {
		r.PageSize = defaultPageSize
	}
	if r.PageSize > maxPageSize {
		r.PageSize = maxPageSize
	}
	return r
}

// DashboardServiceConfig holds tunables for page composition.
type DashboardServiceConfig struct {
	TaskTimeout       time.Duration
	CacheTTL          time.Duration
	RankingSize       int
	CustomerChartSize int
}

// DashboardServiceParams groups dependencies for the dashboard service.
type DashboardServiceParams struct {
	Records recordSource
	Cache   *CacheService
	Metrics *MetricsService
	Config  DashboardServiceConfig
	Logger  *zap.Logger
}

// DashboardService composes the dashboard, sample and order pages from isolated sections.
type DashboardService struct {
	records recordSource
	cache   *CacheService
	metrics *MetricsService
	cfg     DashboardServiceConfig
	logger  *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(params DashboardServiceParams) *DashboardService {
	cfg := params.Config
	if cfg.TaskTimeout <= 0 {
		cfg.TaskTimeout = 15 * time.Second
	}
	if cfg.RankingSize <= 0 {
		cfg.RankingSize = 10
	}
	if cfg.CustomerChartSize <= 0 {
		cfg.CustomerChartSize = 10
	}
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		records: params.Records,
		cache:   params.Cache,
		metrics: params.Metrics,
		cfg:     cfg,
		logger:  logger,
	}
}

// Summary composes the landing page: sample KPIs, quota summary and order KPIs.
func (s *DashboardService) Summary(ctx context.Context, session models.Session, req PageRequest) (*dto.DashboardSummary, bool, error) {
	req = req.normalized()
	if err := validateFilter(req.Filter); err != nil {
		return nil, false, err
	}
	filter := req.Filter.WithoutStatus()
	filter.Search = ""
	key := s.cache.Key(session.Email, PageDashboard, fingerprint(session, filter, 0, 0))
	if !req.Refresh {
		var cached dto.DashboardSummary
		if s.cache.Get(ctx, key, &cached) {
			return &cached, true, nil
		}
	}

	tasks := s.tasks(ctx)
	samples := spawn(tasks, "sample_kpis", dto.SampleKPIs{}, func(ctx context.Context) (dto.SampleKPIs, error) {
		requests, err := s.records.SampleRequestsInScope(ctx, session, filter)
		if err != nil {
			return dto.SampleKPIs{}, err
		}
		return SampleKPIs(requests), nil
	})
	quota := spawn(tasks, "quota", dto.QuotaSummary{}, func(ctx context.Context) (dto.QuotaSummary, error) {
		quotas, err := s.records.QuotasInScope(ctx, session, filter)
		if err != nil {
			return dto.QuotaSummary{}, err
		}
		return QuotaSummary(quotas), nil
	})
	orders := spawn(tasks, "order_kpis", OrderKPIs(nil), func(ctx context.Context) (dto.OrderKPIs, error) {
		rows, err := s.records.OrdersInScope(ctx, session, filter)
		if err != nil {
			return dto.OrderKPIs{}, err
		}
		return OrderKPIs(rows), nil
	})
	degraded := tasks.wait()

	result := &dto.DashboardSummary{
		Samples:  samples.Value(),
		Quota:    quota.Value(),
		Orders:   orders.Value(),
		Degraded: degraded,
	}
	if len(degraded) == 0 {
		s.cache.Set(ctx, key, result, s.cfg.CacheTTL)
	}
	return result, false, nil
}

// Samples composes the sample request page. KPIs ignore the status filter; the book ranking covers
// every listed request, not just the current page.
func (s *DashboardService) Samples(ctx context.Context, session models.Session, req PageRequest) (*dto.SamplePage, bool, error) {
	req = req.normalized()
	if err := validateFilter(req.Filter); err != nil {
		return nil, false, err
	}
	filter := req.Filter
	key := s.cache.Key(session.Email, PageSamples, fingerprint(session, filter, req.Page, req.PageSize))
	if !req.Refresh {
		var cached dto.SamplePage
		if s.cache.Get(ctx, key, &cached) {
			return &cached, true, nil
		}
	}

	tasks := s.tasks(ctx)
	listing := spawn(tasks, "requests", []models.SampleRequest{}, func(ctx context.Context) ([]models.SampleRequest, error) {
		requests, err := s.records.SampleRequestsInScope(ctx, session, filter)
		if err != nil {
			return nil, err
		}
		return SearchSampleRequests(requests, filter.Search), nil
	})
	kpis := spawn(tasks, "kpis", dto.SampleKPIs{}, func(ctx context.Context) (dto.SampleKPIs, error) {
		requests, err := s.records.SampleRequestsInScope(ctx, session, filter.WithoutStatus())
		if err != nil {
			return dto.SampleKPIs{}, err
		}
		return SampleKPIs(requests), nil
	})
	quotas := spawn(tasks, "quota", []models.QuotaRecord{}, func(ctx context.Context) ([]models.QuotaRecord, error) {
		return s.records.QuotasInScope(ctx, session, filter)
	})
	degraded := tasks.wait()

	derived := s.tasks(ctx)
	books := spawn(derived, "books", emptyRanking(), func(context.Context) (dto.BookRanking, error) {
		return SampleBookRanking(listing.Value(), s.cfg.RankingSize), nil
	})
	utilisation := spawn(derived, "utilisation", []dto.QuotaUtilisationRow{}, func(context.Context) ([]dto.QuotaUtilisationRow, error) {
		return QuotaUtilisation(quotas.Value()), nil
	})
	summary := spawn(derived, "quota_summary", dto.QuotaSummary{}, func(context.Context) (dto.QuotaSummary, error) {
		return QuotaSummary(quotas.Value()), nil
	})
	degraded = append(degraded, derived.wait()...)

	rows := listing.Value()
	pageRows, pagination := paginate(rows, req.Page, req.PageSize)
	result := &dto.SamplePage{
		Requests:    pageRows,
		KPIs:        kpis.Value(),
		Quota:       summary.Value(),
		Utilisation: utilisation.Value(),
		Books:       books.Value(),
		Pagination:  pagination,
		Degraded:    degraded,
	}
	if len(degraded) == 0 {
		s.cache.Set(ctx, key, result, s.cfg.CacheTTL)
	}
	return result, false, nil
}

// Orders composes the order overview. KPIs and the customer analysis ignore the status filter and
// the customer dropdown lists every customer in scope.
func (s *DashboardService) Orders(ctx context.Context, session models.Session, req PageRequest) (*dto.OrderPage, bool, error) {
	req = req.normalized()
	if err := validateFilter(req.Filter); err != nil {
		return nil, false, err
	}
	filter := req.Filter
	key := s.cache.Key(session.Email, PageOrders, fingerprint(session, filter, req.Page, req.PageSize))
	if !req.Refresh {
		var cached dto.OrderPage
		if s.cache.Get(ctx, key, &cached) {
			return &cached, true, nil
		}
	}

	tasks := s.tasks(ctx)
	listing := spawn(tasks, "orders", []models.Order{}, func(ctx context.Context) ([]models.Order, error) {
		orders, err := s.records.OrdersInScope(ctx, session, filter)
		if err != nil {
			return nil, err
		}
		return SearchOrders(orders, filter.Search), nil
	})
	kpis := spawn(tasks, "kpis", OrderKPIs(nil), func(ctx context.Context) (dto.OrderKPIs, error) {
		orders, err := s.records.OrdersInScope(ctx, session, filter.WithoutStatus())
		if err != nil {
			return dto.OrderKPIs{}, err
		}
		return OrderKPIs(orders), nil
	})
	customers := spawn(tasks, "customers", []dto.CustomerTotal{}, func(ctx context.Context) ([]dto.CustomerTotal, error) {
		orders, err := s.records.OrdersInScope(ctx, session, filter.WithoutStatus())
		if err != nil {
			return nil, err
		}
		return CustomerAnalysis(orders), nil
	})
	unique := spawn(tasks, "unique_customers", []string{}, func(ctx context.Context) ([]string, error) {
		all := filter.WithoutStatus()
		all.SelectedCustomer = models.FilterAll
		orders, err := s.records.OrdersInScope(ctx, session, all)
		if err != nil {
			return nil, err
		}
		return UniqueCustomers(orders), nil
	})
	degraded := tasks.wait()

	derived := s.tasks(ctx)
	books := spawn(derived, "books", emptyRanking(), func(context.Context) (dto.BookRanking, error) {
		return OrderBookRanking(listing.Value(), s.cfg.RankingSize), nil
	})
	degraded = append(degraded, derived.wait()...)

	pageRows, pagination := paginate(listing.Value(), req.Page, req.PageSize)
	analysis := customers.Value()
	result := &dto.OrderPage{
		Orders:          pageRows,
		KPIs:            kpis.Value(),
		Customers:       analysis,
		CustomerChart:   CustomerChart(analysis, s.cfg.CustomerChartSize),
		UniqueCustomers: unique.Value(),
		Books:           books.Value(),
		Pagination:      pagination,
		Degraded:        degraded,
	}
	if len(degraded) == 0 {
		s.cache.Set(ctx, key, result, s.cfg.CacheTTL)
	}
	return result, false, nil
}

// Customers composes the customer-wise analysis, paginated, ignoring the status filter.
func (s *DashboardService) Customers(ctx context.Context, session models.Session, req PageRequest) (*dto.CustomerPage, bool, error) {
	req = req.normalized()
	if err := validateFilter(req.Filter); err != nil {
		return nil, false, err
	}
	filter := req.Filter.WithoutStatus()
	key := s.cache.Key(session.Email, PageCustomers, fingerprint(session, filter, req.Page, req.PageSize))
	if !req.Refresh {
		var cached dto.CustomerPage
		if s.cache.Get(ctx, key, &cached) {
			return &cached, true, nil
		}
	}

	tasks := s.tasks(ctx)
	customers := spawn(tasks, "customers", []dto.CustomerTotal{}, func(ctx context.Context) ([]dto.CustomerTotal, error) {
		orders, err := s.records.OrdersInScope(ctx, session, filter)
		if err != nil {
			return nil, err
		}
		return CustomerAnalysis(orders), nil
	})
	degraded := tasks.wait()

	analysis := customers.Value()
	pageRows, pagination := paginate(analysis, req.Page, req.PageSize)
	result := &dto.CustomerPage{
		Customers:  pageRows,
		Total:      CustomersTotal(analysis),
		Pagination: pagination,
		Degraded:   degraded,
	}
	if len(degraded) == 0 {
		s.cache.Set(ctx, key, result, s.cfg.CacheTTL)
	}
	return result, false, nil
}

func (s *DashboardService) tasks(ctx context.Context) *pageTasks {
	return newPageTasks(ctx, s.cfg.TaskTimeout, s.logger, s.metrics)
}

func validateFilter(filter models.FilterState) error {
	if _, _, err := filter.DateRange(time.UTC); err != nil {
		return appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	return nil
}

func fingerprint(session models.Session, filter models.FilterState, page, size int) string {
	return fmt.Sprintf("%s|%s|%d|%d", session.Role, filter.CacheKey(), page, size)
}

func emptyRanking() dto.BookRanking {
	return dto.BookRanking{Top: []dto.BookCount{}, Low: []dto.BookCount{}}
}

func paginate[T any](rows []T, page, size int) ([]T, *models.Pagination) {
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: len(rows)}
	start := (page - 1) * size
	if start >= len(rows) {
		return []T{}, pagination
	}
	end := start + size
	if end > len(rows) {
		end = len(rows)
	}
	return rows[start:end], pagination
}
