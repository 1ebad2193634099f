package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/sales-dashboard-api/internal/models"
	appErrors "github.com/noah-isme/sales-dashboard-api/pkg/errors"
)

type fakeSampleStore struct {
	rows  []models.SampleRequest
	err   error
	calls int
	last  models.RecordQuery
}

func (f *fakeSampleStore) List(_ context.Context, q models.RecordQuery) ([]models.SampleRequest, error) {
	f.calls++
	f.last = q
	return f.rows, f.err
}

type fakeOrderStore struct {
	rows  []models.Order
	err   error
	calls int
	last  models.RecordQuery
}

func (f *fakeOrderStore) List(_ context.Context, q models.RecordQuery) ([]models.Order, error) {
	f.calls++
	f.last = q
	return f.rows, f.err
}

type fakeQuotaStore struct {
	rows   []models.QuotaRecord
	err    error
	emails []string
}

func (f *fakeQuotaStore) ListByEmployees(_ context.Context, emails []string) ([]models.QuotaRecord, error) {
	f.emails = emails
	return f.rows, f.err
}

func newRecordService(samples *fakeSampleStore, orders *fakeOrderStore, quotas *fakeQuotaStore) *RecordService {
	ist := time.FixedZone("IST", 5*3600+1800)
	return NewRecordService(RecordServiceParams{
		Scope:    newScope(true),
		Samples:  samples,
		Orders:   orders,
		Quotas:   quotas,
		Location: ist,
	})
}

func TestSampleRequestsInScopeBuildsQuery(t *testing.T) {
	samples := &fakeSampleStore{rows: []models.SampleRequest{{SubmissionID: "SR-1"}}}
	svc := newRecordService(samples, &fakeOrderStore{}, &fakeQuotaStore{})
	filter := models.FilterState{StartDate: "2025-04-01", EndDate: "2025-04-30", Status: models.SampleFilterDispatched}

	rows, err := svc.SampleRequestsInScope(context.Background(), models.Session{Email: rm1Email, Role: models.RoleReportingManager}, filter)
	require.NoError(t, err)
	assert.Len(t, rows, 1)

	q := samples.last
	assert.ElementsMatch(t, []string{e1Email, e2Email, rm1Email}, q.Emails)
	require.NotNil(t, q.Start)
	require.NotNil(t, q.End)
	assert.Equal(t, "2025-04-01T00:00:00+05:30", q.Start.Format(time.RFC3339))
	assert.Equal(t, "2025-05-01T00:00:00+05:30", q.End.Format(time.RFC3339))
	assert.Equal(t, models.SampleFilterDispatched, q.Status)
	assert.Equal(t, models.FilterAll, q.Customer)
}

func TestOrdersInScopeAppliesLinesOfBusiness(t *testing.T) {
	orders := &fakeOrderStore{}
	svc := newRecordService(&fakeSampleStore{}, orders, &fakeQuotaStore{})

	_, err := svc.OrdersInScope(context.Background(), models.Session{Email: rm1Email, Role: models.RoleReportingManager}, models.FilterState{SelectedCustomer: "Alpha"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{e1Email, rm1Email}, orders.last.Emails)
	assert.Equal(t, "Alpha", orders.last.Customer)
	assert.Nil(t, orders.last.Start)
}

func TestRecordFetchSkipsStoreForEmptyScope(t *testing.T) {
	samples := &fakeSampleStore{}
	orders := &fakeOrderStore{}
	svc := newRecordService(samples, orders, &fakeQuotaStore{})
	session := models.Session{Email: rm1Email, Role: models.RoleReportingManager}
	outside := models.FilterState{SelectedEmployee: e4Email}

	rows, err := svc.SampleRequestsInScope(context.Background(), session, outside)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Zero(t, samples.calls)

	orderRows, err := svc.OrdersInScope(context.Background(), session, outside)
	require.NoError(t, err)
	assert.NotNil(t, orderRows)
	assert.Zero(t, orders.calls)
}

func TestRecordFetchRejectsBadDates(t *testing.T) {
	svc := newRecordService(&fakeSampleStore{}, &fakeOrderStore{}, &fakeQuotaStore{})
	session := models.Session{Email: e1Email, Role: models.RoleEmployee}

	_, err := svc.SampleRequestsInScope(context.Background(), session, models.FilterState{StartDate: "2025-05-02", EndDate: "2025-05-01"})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.OrdersInScope(context.Background(), session, models.FilterState{StartDate: "01/05/2025"})
	require.Error(t, err)
}

func TestQuotasInScopeIgnoresLinesOfBusiness(t *testing.T) {
	quotas := &fakeQuotaStore{rows: []models.QuotaRecord{{EmployeeEmail: e2Email, MaxQuota: 10}}}
	svc := newRecordService(&fakeSampleStore{}, &fakeOrderStore{}, quotas)

	rows, err := svc.QuotasInScope(context.Background(), models.Session{Email: rm1Email, Role: models.RoleReportingManager}, models.FilterState{StartDate: "2025-01-01"})
	require.NoError(t, err)
	assert.Len(t, rows, 1)
	assert.ElementsMatch(t, []string{e1Email, e2Email, rm1Email}, quotas.emails)
}

func TestFetchVariantsFailOpen(t *testing.T) {
	samples := &fakeSampleStore{err: errors.New("timeout")}
	orders := &fakeOrderStore{err: errors.New("timeout")}
	svc := newRecordService(samples, orders, &fakeQuotaStore{})
	session := models.Session{Email: e1Email, Role: models.RoleEmployee}

	assert.Empty(t, svc.FetchSampleRequests(context.Background(), session, models.FilterState{}))
	assert.NotNil(t, svc.FetchOrders(context.Background(), session, models.FilterState{}))
	assert.Equal(t, 1, samples.calls)
	assert.Equal(t, 1, orders.calls)
}

func TestSearchBySubmissionID(t *testing.T) {
	requests := []models.SampleRequest{{SubmissionID: "SR-1001"}, {SubmissionID: "sr-2002"}, {SubmissionID: "X-1"}}
	assert.Len(t, SearchSampleRequests(requests, " sr-"), 2)
	assert.Len(t, SearchSampleRequests(requests, ""), 3)

	orders := []models.Order{{SubmissionID: "ORD-77"}, {SubmissionID: "ord-78"}}
	assert.Equal(t, []models.Order{{SubmissionID: "ORD-77"}}, SearchOrders(orders, "-77"))
}
