package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	harvestapp "github.com/farmerp/backend/internal/application/harvest"
	"github.com/farmerp/backend/internal/domain/bulk"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockHarvestService struct {
	mock.Mock
}

func (m *mockHarvestService) Create(ctx context.Context, req harvestapp.HarvestRequest) (*harvestapp.HarvestResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*harvestapp.HarvestResponse), args.Error(1)
}

func (m *mockHarvestService) Update(ctx context.Context, id uuid.UUID, req harvestapp.HarvestRequest) (*harvestapp.HarvestResponse, error) {
	args := m.Called(ctx, id, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*harvestapp.HarvestResponse), args.Error(1)
}

func (m *mockHarvestService) Remove(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockHarvestService) RemoveBulk(ctx context.Context, ids []uuid.UUID) *bulk.Outcome {
	return m.Called(ctx, ids).Get(0).(*bulk.Outcome)
}

func (m *mockHarvestService) GetByID(ctx context.Context, id uuid.UUID) (*harvestapp.HarvestResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*harvestapp.HarvestResponse), args.Error(1)
}

func (m *mockHarvestService) List(ctx context.Context, filter harvestapp.HarvestListFilter) (*shared.Paginated[harvestapp.HarvestResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[harvestapp.HarvestResponse]), args.Error(1)
}

func harvestRouter(svc *mockHarvestService) *gin.Engine {
	middleware.SetupValidator()
	h := NewAggregateHandler[harvestapp.HarvestRequest, harvestapp.HarvestResponse, harvestapp.HarvestListFilter](svc)

	r := gin.New()
	r.Use(middleware.RequestID())
	g := r.Group("/harvests")
	g.POST("", h.Create)
	g.GET("", h.List)
	g.GET("/:id", h.GetByID)
	g.PATCH("/:id", h.Update)
	g.DELETE("/:id", h.Remove)
	g.DELETE("/remove/bulk", h.RemoveBulk)
	return r
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func validHarvestBody(cropID, employeeID uuid.UUID) map[string]any {
	return map[string]any{
		"crop_id": cropID,
		"date":    "2026-03-14",
		"amount":  "5",
		"unit":    "KILOGRAMOS",
		"details": []map[string]any{
			{"employee_id": employeeID, "amount": "5", "unit": "KILOGRAMOS", "value_pay": "12.50"},
		},
	}
}

func TestAggregateHandler_Create(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)
	cropID, employeeID := uuid.New(), uuid.New()
	created := &harvestapp.HarvestResponse{ID: uuid.New(), CropID: cropID, Amount: decimal.NewFromInt(5)}

	svc.On("Create", mock.Anything, mock.MatchedBy(func(req harvestapp.HarvestRequest) bool {
		return req.CropID == cropID && len(req.Details) == 1 && req.Details[0].EmployeeID == employeeID
	})).Return(created, nil).Once()

	w := doJSON(r, http.MethodPost, "/harvests", validHarvestBody(cropID, employeeID))

	assert.Equal(t, http.StatusCreated, w.Code)
	env := decode(t, w)
	assert.True(t, env.Success)
	var got harvestapp.HarvestResponse
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, created.ID, got.ID)
	svc.AssertExpectations(t)
}

func TestAggregateHandler_Create_BindingViolations(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)

	body := validHarvestBody(uuid.New(), uuid.New())
	delete(body, "crop_id")
	body["details"] = []map[string]any{{"amount": "5", "unit": "KILOGRAMOS"}}

	w := doJSON(r, http.MethodPost, "/harvests", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	env := decode(t, w)
	assert.Equal(t, shared.CodeValidationFailed, env.Error.Code)
	assert.NotEmpty(t, env.Error.Violations)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestAggregateHandler_Create_InsufficientStock(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)
	svc.On("Create", mock.Anything, mock.Anything).Return(nil, shared.ErrInsufficientStock)

	w := doJSON(r, http.MethodPost, "/harvests", validHarvestBody(uuid.New(), uuid.New()))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Equal(t, shared.CodeInsufficientStock, decode(t, w).Error.Code)
}

func TestAggregateHandler_List(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)
	cropID := uuid.New()

	svc.On("List", mock.Anything, harvestapp.HarvestListFilter{
		CropID:   cropID.String(),
		Page:     2,
		PageSize: 10,
	}).Return(&shared.Paginated[harvestapp.HarvestResponse]{
		Items:    []harvestapp.HarvestResponse{{ID: uuid.New()}},
		Total:    11,
		Page:     2,
		PageSize: 10,
	}, nil)

	w := doJSON(r, http.MethodGet, "/harvests?crop_id="+cropID.String()+"&page=2&page_size=10", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	env := decode(t, w)
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(11), env.Meta.Total)
	assert.Equal(t, 2, env.Meta.TotalPages)
}

func TestAggregateHandler_List_InvalidFilter(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)

	w := doJSON(r, http.MethodGet, "/harvests?page_size=1000", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "List", mock.Anything, mock.Anything)
}

func TestAggregateHandler_GetByID(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)
	found, missing := uuid.New(), uuid.New()
	svc.On("GetByID", mock.Anything, found).Return(&harvestapp.HarvestResponse{ID: found}, nil)
	svc.On("GetByID", mock.Anything, missing).Return(nil, shared.NotFoundError("Harvest", missing))

	w := doJSON(r, http.MethodGet, "/harvests/"+found.String(), nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doJSON(r, http.MethodGet, "/harvests/"+missing.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, decode(t, w).Error.Message, missing.String())
}

func TestAggregateHandler_Update(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)
	id := uuid.New()
	svc.On("Update", mock.Anything, id, mock.Anything).Return(&harvestapp.HarvestResponse{ID: id, Version: 2}, nil)

	w := doJSON(r, http.MethodPatch, "/harvests/"+id.String(), validHarvestBody(uuid.New(), uuid.New()))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestAggregateHandler_Update_Concurrency(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)
	svc.On("Update", mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrConcurrencyConflict)

	w := doJSON(r, http.MethodPatch, "/harvests/"+uuid.NewString(), validHarvestBody(uuid.New(), uuid.New()))

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAggregateHandler_Remove(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)
	id, linked := uuid.New(), uuid.New()
	svc.On("Remove", mock.Anything, id).Return(nil)
	svc.On("Remove", mock.Anything, linked).Return(shared.ErrLinkedRecordConflict)

	assert.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, "/harvests/"+id.String(), nil).Code)
	assert.Equal(t, http.StatusConflict, doJSON(r, http.MethodDelete, "/harvests/"+linked.String(), nil).Code)
}

func TestAggregateHandler_RemoveBulk(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)
	ok, failed := uuid.New(), uuid.New()

	outcome := bulk.NewOutcome()
	outcome.Succeed(ok)
	outcome.Fail(failed, shared.ErrInsufficientStock)
	svc.On("RemoveBulk", mock.Anything, []uuid.UUID{ok, failed}).Return(outcome)

	w := doJSON(r, http.MethodDelete, "/harvests/remove/bulk", map[string]any{"record_ids": []uuid.UUID{ok, failed}})

	assert.Equal(t, http.StatusMultiStatus, w.Code)
	var body bulk.Outcome
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &body))
	assert.Equal(t, []uuid.UUID{ok}, body.Success)
	require.Len(t, body.Failed, 1)
	assert.Equal(t, failed, body.Failed[0].ID)
	assert.Equal(t, shared.ErrInsufficientStock.Message, body.Failed[0].Error)
}

func TestAggregateHandler_RemoveBulk_EmptyList(t *testing.T) {
	svc := new(mockHarvestService)
	r := harvestRouter(svc)

	w := doJSON(r, http.MethodDelete, "/harvests/remove/bulk", map[string]any{"record_ids": []uuid.UUID{}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "RemoveBulk", mock.Anything, mock.Anything)
}
