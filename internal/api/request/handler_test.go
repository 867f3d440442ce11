package request_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"gostockflow/internal/api/request"
	"gostockflow/internal/domain"
	apperror "gostockflow/internal/errors"
	"gostockflow/internal/pkg/logger"
	"gostockflow/internal/pkg/middleware"
)

type MockRequestService struct {
	mock.Mock
}

func (m *MockRequestService) Submit(ctx context.Context, actor domain.ActorContext, in domain.SubmitInput) (domain.StockRequest, error) {
	args := m.Called(ctx, actor, in)
	return args.Get(0).(domain.StockRequest), args.Error(1)
}

func (m *MockRequestService) ListPending(ctx context.Context, actor domain.ActorContext) ([]domain.StockRequest, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.StockRequest), args.Error(1)
}

func (m *MockRequestService) ListMine(ctx context.Context, actor domain.ActorContext) ([]domain.StockRequest, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.StockRequest), args.Error(1)
}

func (m *MockRequestService) Get(ctx context.Context, actor domain.ActorContext, id int64) (domain.StockRequest, error) {
	args := m.Called(ctx, actor, id)
	return args.Get(0).(domain.StockRequest), args.Error(1)
}

func (m *MockRequestService) Approve(ctx context.Context, actor domain.ActorContext, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockRequestService) Reject(ctx context.Context, actor domain.ActorContext, id int64) error {
	return m.Called(ctx, actor, id).Error(0)
}

func (m *MockRequestService) BulkApprove(ctx context.Context, actor domain.ActorContext, in domain.BulkApproveInput) (int, error) {
	args := m.Called(ctx, actor, in)
	return args.Int(0), args.Error(1)
}

type MockConsolidation struct {
	mock.Mock
}

func (m *MockConsolidation) FindOpportunities(ctx context.Context, actor domain.ActorContext) ([]domain.ConsolidationGroup, error) {
	args := m.Called(ctx, actor)
	return args.Get(0).([]domain.ConsolidationGroup), args.Error(1)
}

var (
	staff   = domain.ActorContext{UserID: 7, Role: domain.RoleStaff}
	manager = domain.ActorContext{UserID: 2, Role: domain.RoleManager}
)

func newHandler() (*request.Handler, *MockRequestService, *MockConsolidation) {
	svc := new(MockRequestService)
	cons := new(MockConsolidation)
	return request.NewHandler(svc, cons, logger.NewFromZap(zap.NewNop())), svc, cons
}

// serve monta um mux mínimo para que r.PathValue funcione nos handlers.
func serve(pattern string, h http.HandlerFunc, req *http.Request, actor *domain.ActorContext) *httptest.ResponseRecorder {
	if actor != nil {
		req = req.WithContext(middleware.WithActor(req.Context(), *actor))
	}
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) domain.ErrorResponse {
	t.Helper()
	var body domain.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return body
}

func TestSubmitHandler_Success(t *testing.T) {
	h, svc, _ := newHandler()
	in := domain.SubmitInput{ItemID: 10, Quantity: 5, Urgency: domain.UrgencyHigh}
	created := domain.StockRequest{ID: 1, ItemID: 10, Quantity: 5, PriorityScore: 300, Status: domain.StatusPending}
	svc.On("Submit", mock.Anything, staff, in).Return(created, nil)

	body, _ := json.Marshal(in)
	req := httptest.NewRequest(http.MethodPost, "/v1/requests", bytes.NewReader(body))
	rec := serve("POST /v1/requests", h.SubmitHandler, req, &staff)

	assert.Equal(t, http.StatusCreated, rec.Code)
	var got domain.StockRequest
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, 300, got.PriorityScore)
	svc.AssertExpectations(t)
}

func TestSubmitHandler_Fail_InvalidJSON(t *testing.T) {
	h, svc, _ := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/requests", bytes.NewBufferString("{invalid"))
	rec := serve("POST /v1/requests", h.SubmitHandler, req, &staff)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "VALIDATION_ERROR", decodeError(t, rec).Category)
	svc.AssertNotCalled(t, "Submit", mock.Anything, mock.Anything, mock.Anything)
}

func TestSubmitHandler_Fail_NoActor(t *testing.T) {
	h, _, _ := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/requests", bytes.NewBufferString("{}"))
	rec := serve("POST /v1/requests", h.SubmitHandler, req, nil)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApproveHandler_Success(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("Approve", mock.Anything, manager, int64(5)).Return(nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/requests/5/approve", nil)
	rec := serve("POST /v1/requests/{id}/approve", h.ApproveHandler, req, &manager)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got request.TransitionResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, request.TransitionResponse{RequestID: 5, Status: domain.StatusApproved}, got)
}

func TestApproveHandler_Fail_NotFound(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("Approve", mock.Anything, manager, int64(404)).Return(apperror.NewNotFoundError("requisição 404"))

	req := httptest.NewRequest(http.MethodPost, "/v1/requests/404/approve", nil)
	rec := serve("POST /v1/requests/{id}/approve", h.ApproveHandler, req, &manager)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "NOT_FOUND", decodeError(t, rec).Category)
}

func TestRejectHandler_Fail_InvalidID(t *testing.T) {
	h, svc, _ := newHandler()

	req := httptest.NewRequest(http.MethodPost, "/v1/requests/abc/reject", nil)
	rec := serve("POST /v1/requests/{id}/reject", h.RejectHandler, req, &manager)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Reject", mock.Anything, mock.Anything, mock.Anything)
}

func TestBulkApproveHandler_Conflict(t *testing.T) {
	h, svc, _ := newHandler()
	in := domain.BulkApproveInput{RequestIDs: []int64{1, 2}}
	svc.On("BulkApprove", mock.Anything, manager, in).Return(0, apperror.NewConflictError("lote inválido"))

	body, _ := json.Marshal(in)
	req := httptest.NewRequest(http.MethodPost, "/v1/requests/bulk-approve", bytes.NewReader(body))
	rec := serve("POST /v1/requests/bulk-approve", h.BulkApproveHandler, req, &manager)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "CONFLICT", decodeError(t, rec).Category)
}

func TestBulkApproveHandler_Success(t *testing.T) {
	h, svc, _ := newHandler()
	in := domain.BulkApproveInput{RequestIDs: []int64{1, 2}}
	svc.On("BulkApprove", mock.Anything, manager, in).Return(2, nil)

	body, _ := json.Marshal(in)
	req := httptest.NewRequest(http.MethodPost, "/v1/requests/bulk-approve", bytes.NewReader(body))
	rec := serve("POST /v1/requests/bulk-approve", h.BulkApproveHandler, req, &manager)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"approved":2}`, rec.Body.String())
}

func TestListPendingHandler_PersistenceErrorHidesDetails(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("ListPending", mock.Anything, manager).Return([]domain.StockRequest(nil), apperror.NewPersistenceError("select", assert.AnError))

	req := httptest.NewRequest(http.MethodGet, "/v1/requests/pending", nil)
	rec := serve("GET /v1/requests/pending", h.ListPendingHandler, req, &manager)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, "PERSISTENCE_ERROR", body.Category)
	assert.NotContains(t, body.Message, assert.AnError.Error())
}

func TestConsolidationHandler_Success(t *testing.T) {
	h, _, cons := newHandler()
	groups := []domain.ConsolidationGroup{{SupplierID: 1, RequestCount: 2, TotalQuantity: 8, RequestIDs: []int64{1, 2}, ItemNames: []string{"a", "b"}}}
	cons.On("FindOpportunities", mock.Anything, manager).Return(groups, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/requests/consolidation", nil)
	rec := serve("GET /v1/requests/consolidation", h.ConsolidationHandler, req, &manager)

	assert.Equal(t, http.StatusOK, rec.Code)
	var got []domain.ConsolidationGroup
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, groups, got)
}

func TestGetHandler_Success(t *testing.T) {
	h, svc, _ := newHandler()
	svc.On("Get", mock.Anything, staff, int64(3)).Return(domain.StockRequest{ID: 3, RequestedBy: 7}, nil)

	req := httptest.NewRequest(http.MethodGet, "/v1/requests/3", nil)
	rec := serve("GET /v1/requests/{id}", h.GetHandler, req, &staff)

	assert.Equal(t, http.StatusOK, rec.Code)
}
