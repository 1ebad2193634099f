package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
)

type scopeResolver interface {
	ResolveEligible(ctx context.Context, session models.Session, filter models.FilterState, forOrders bool) ([]string, error)
}

type sampleRequestStore interface {
	List(ctx context.Context, q models.RecordQuery) ([]models.SampleRequest, error)
}

type orderStore interface {
	List(ctx context.Context, q models.RecordQuery) ([]models.Order, error)
}

type quotaStore interface {
	ListByEmployees(ctx context.Context, emails []string) ([]models.QuotaRecord, error)
}

// RecordServiceParams groups dependencies for the RecordService.
type RecordServiceParams struct {
	Scope    scopeResolver
	Samples  sampleRequestStore
	Orders   orderStore
	Quotas   quotaStore
	Metrics  *MetricsService
	Location *time.Location
	Logger   *zap.Logger
}

// RecordService fetches scoped sample requests, orders and quotas.
type RecordService struct {
	scope    scopeResolver
	samples  sampleRequestStore
	orders   orderStore
	quotas   quotaStore
	metrics  *MetricsService
	location *time.Location
	logger   *zap.Logger
}

// NewRecordService constructs a RecordService. Filter dates are interpreted in Location.
func NewRecordService(params RecordServiceParams) *RecordService {
	logger := params.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := params.Location
	if loc == nil {
		loc = time.UTC
	}
	return &RecordService{
		scope:    params.Scope,
		samples:  params.Samples,
		orders:   params.Orders,
		quotas:   params.Quotas,
		metrics:  params.Metrics,
		location: loc,
		logger:   logger,
	}
}

// SampleRequestsInScope returns the viewer's sample requests matching filter.
func (s *RecordService) SampleRequestsInScope(ctx context.Context, session models.Session, filter models.FilterState) ([]models.SampleRequest, error) {
	query, err := s.query(ctx, session, filter, false)
	if err != nil {
		return nil, err
	}
	if len(query.Emails) == 0 {
		return []models.SampleRequest{}, nil
	}
	start := time.Now()
	requests, err := s.samples.List(ctx, query)
	s.metrics.ObserveDBQuery("sample_requests", time.Since(start))
	return requests, err
}

// OrdersInScope returns the viewer's order rows matching filter, restricted to order lines of business.
func (s *RecordService) OrdersInScope(ctx context.Context, session models.Session, filter models.FilterState) ([]models.Order, error) {
	query, err := s.query(ctx, session, filter, true)
	if err != nil {
		return nil, err
	}
	if len(query.Emails) == 0 {
		return []models.Order{}, nil
	}
	start := time.Now()
	orders, err := s.orders.List(ctx, query)
	s.metrics.ObserveDBQuery("orders", time.Since(start))
	return orders, err
}

// QuotasInScope returns quota rows for the viewer's Sales scope. Dates and status do not apply.
func (s *RecordService) QuotasInScope(ctx context.Context, session models.Session, filter models.FilterState) ([]models.QuotaRecord, error) {
	emails, err := s.scope.ResolveEligible(ctx, session, filter, false)
	if err != nil {
		return nil, err
	}
	if len(emails) == 0 {
		return []models.QuotaRecord{}, nil
	}
	start := time.Now()
	quotas, err := s.quotas.ListByEmployees(ctx, emails)
	s.metrics.ObserveDBQuery("quotas", time.Since(start))
	return quotas, err
}

// FetchSampleRequests is the fail-open variant: errors are logged and yield an empty list.
func (s *RecordService) FetchSampleRequests(ctx context.Context, session models.Session, filter models.FilterState) []models.SampleRequest {
	requests, err := s.SampleRequestsInScope(ctx, session, filter)
	if err != nil {
		s.logger.Warn("fetch sample requests failed", zap.String("viewer", session.Email), zap.Error(err))
		return []models.SampleRequest{}
	}
	return requests
}

// FetchOrders is the fail-open variant: errors are logged and yield an empty list.
func (s *RecordService) FetchOrders(ctx context.Context, session models.Session, filter models.FilterState) []models.Order {
	orders, err := s.OrdersInScope(ctx, session, filter)
	if err != nil {
		s.logger.Warn("fetch orders failed", zap.String("viewer", session.Email), zap.Error(err))
		return []models.Order{}
	}
	return orders
}

func (s *RecordService) query(ctx context.Context, session models.Session, filter models.FilterState, forOrders bool) (models.RecordQuery, error) {
	filter = filter.Normalize()
	startAt, endAt, err := filter.DateRange(s.location)
	if err != nil {
		return models.RecordQuery{}, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	emails, err := s.scope.ResolveEligible(ctx, session, filter, forOrders)
	if err != nil {
		return models.RecordQuery{}, err
	}
	return models.RecordQuery{
		Emails:   emails,
		Start:    startAt,
		End:      endAt,
		Status:   filter.Status,
		Customer: filter.SelectedCustomer,
	}, nil
}

// SearchSampleRequests keeps requests whose submission id contains term, ignoring case.
func SearchSampleRequests(requests []models.SampleRequest, term string) []models.SampleRequest {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return requests
	}
	out := make([]models.SampleRequest, 0, len(requests))
	for _, request := range requests {
		if strings.Contains(strings.ToLower(request.SubmissionID), term) {
			out = append(out, request)
		}
	}
	return out
}

// SearchOrders keeps orders whose submission id contains term, ignoring case.
func SearchOrders(orders []models.Order, term string) []models.Order {
	term = strings.ToLower(strings.TrimSpace(term))
	if term == "" {
		return orders
	}
	out := make([]models.Order, 0, len(orders))
	for _, order := range orders {
		if strings.Contains(strings.ToLower(order.SubmissionID), term) {
			out = append(out, order)
		}
	}
	return out
}
