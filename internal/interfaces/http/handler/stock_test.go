package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	appstock "github.com/Mandoobi/jaber-backend/internal/application/stock"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStockService struct {
	mock.Mock
}

func (m *mockStockService) ListRepStocks(ctx context.Context, tenantID, repID uuid.UUID) ([]appstock.RepStockResponse, error) {
	args := m.Called(ctx, tenantID, repID)
	items, _ := args.Get(0).([]appstock.RepStockResponse)
	return items, args.Error(1)
}

func (m *mockStockService) SetRepStock(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req appstock.SetRepStockRequest) (*appstock.RepStockResponse, error) {
	args := m.Called(ctx, tenantID, actor, req)
	resp, _ := args.Get(0).(*appstock.RepStockResponse)
	return resp, args.Error(1)
}

func (m *mockStockService) History(ctx context.Context, tenantID, repID, productID uuid.UUID, filter shared.Filter) ([]appstock.LedgerEntryResponse, int64, error) {
	args := m.Called(ctx, tenantID, repID, productID, filter)
	items, _ := args.Get(0).([]appstock.LedgerEntryResponse)
	return items, args.Get(1).(int64), args.Error(2)
}

func (m *mockStockService) BalanceAt(ctx context.Context, tenantID, repID, productID uuid.UUID, at time.Time) (int64, error) {
	args := m.Called(ctx, tenantID, repID, productID, at)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStockService) Audit(ctx context.Context, tenantID, repID, productID uuid.UUID) (*appstock.AuditResponse, error) {
	args := m.Called(ctx, tenantID, repID, productID)
	resp, _ := args.Get(0).(*appstock.AuditResponse)
	return resp, args.Error(1)
}

func (m *mockStockService) AuditRep(ctx context.Context, tenantID, repID uuid.UUID) ([]appstock.AuditResponse, error) {
	args := m.Called(ctx, tenantID, repID)
	items, _ := args.Get(0).([]appstock.AuditResponse)
	return items, args.Error(1)
}

func (m *mockStockService) ProductAnalysis(ctx context.Context, tenantID, productID uuid.UUID) ([]appstock.ProductAnalysisResponse, error) {
	args := m.Called(ctx, tenantID, productID)
	items, _ := args.Get(0).([]appstock.ProductAnalysisResponse)
	return items, args.Error(1)
}

func stockRouter(actor shared.Actor, svc StockService) *gin.Engine {
	r := newTestRouter(actor)
	h := NewStockHandler(svc)
	r.GET("/stocks/me", h.Mine)
	r.GET("/stocks/reps/:repId", h.ForRep)
	r.PUT("/stocks/reps/:repId/products/:productId", h.Set)
	r.GET("/stocks/reps/:repId/products/:productId/history", h.History)
	r.GET("/stocks/reps/:repId/products/:productId/balance", h.BalanceAt)
	r.GET("/stocks/reps/:repId/products/:productId/audit", h.Audit)
	r.GET("/stocks/reps/:repId/audit", h.AuditRep)
	r.GET("/stocks/products/:productId/analysis", h.Analysis)
	return r
}

func TestStockHandler_Mine(t *testing.T) {
	svc := new(mockStockService)
	svc.On("ListRepStocks", mock.Anything, testTenant, testRep.UserID).
		Return([]appstock.RepStockResponse{{ProductName: "Vitamin D", Quantity: 7}}, nil)

	w, env := do(t, stockRouter(testRep, svc), http.MethodGet, "/stocks/me", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var items []appstock.RepStockResponse
	require.NoError(t, json.Unmarshal(env.Data, &items))
	require.Len(t, items, 1)
	assert.Equal(t, int64(7), items[0].Quantity)
}

func TestStockHandler_ForRep(t *testing.T) {
	other := uuid.New()

	t.Run("rep cannot read another rep", func(t *testing.T) {
		svc := new(mockStockService)
		w, env := do(t, stockRouter(testRep, svc), http.MethodGet, "/stocks/reps/"+other.String(), nil)
		assertErrorCode(t, w, env, http.StatusForbidden, "FORBIDDEN")
		svc.AssertNotCalled(t, "ListRepStocks", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("admin reads any rep", func(t *testing.T) {
		svc := new(mockStockService)
		svc.On("ListRepStocks", mock.Anything, testTenant, other).Return([]appstock.RepStockResponse{}, nil)
		w, _ := do(t, stockRouter(testAdmin, svc), http.MethodGet, "/stocks/reps/"+other.String(), nil)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("bad rep id", func(t *testing.T) {
		w, env := do(t, stockRouter(testAdmin, new(mockStockService)), http.MethodGet, "/stocks/reps/xyz", nil)
		assertErrorCode(t, w, env, http.StatusBadRequest, "INVALID_REP_ID")
	})
}

func TestStockHandler_Set(t *testing.T) {
	repID, productID := uuid.New(), uuid.New()
	path := "/stocks/reps/" + repID.String() + "/products/" + productID.String()

	t.Run("passes quantity and analysis flag", func(t *testing.T) {
		svc := new(mockStockService)
		svc.On("SetRepStock", mock.Anything, testTenant, testAdmin, mock.MatchedBy(func(req appstock.SetRepStockRequest) bool {
			return req.RepID == repID && req.ProductID == productID && req.Quantity == 0 &&
				req.IncludeInAnalysis != nil && !*req.IncludeInAnalysis
		})).Return(&appstock.RepStockResponse{Quantity: 0}, nil)

		w, _ := do(t, stockRouter(testAdmin, svc), http.MethodPut, path, `{"quantity":0,"include_in_analysis":false}`)
		assert.Equal(t, http.StatusOK, w.Code, w.Body.String())
		svc.AssertExpectations(t)
	})

	t.Run("quantity is required and non-negative", func(t *testing.T) {
		svc := new(mockStockService)
		w, env := do(t, stockRouter(testAdmin, svc), http.MethodPut, path, `{}`)
		assertErrorCode(t, w, env, http.StatusBadRequest, "VALIDATION_ERROR")

		w, env = do(t, stockRouter(testAdmin, svc), http.MethodPut, path, `{"quantity":-1}`)
		assertErrorCode(t, w, env, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	t.Run("service rejects non-admins", func(t *testing.T) {
		svc := new(mockStockService)
		svc.On("SetRepStock", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil, shared.ErrForbidden)
		w, env := do(t, stockRouter(testRep, svc), http.MethodPut,
			"/stocks/reps/"+testRep.UserID.String()+"/products/"+productID.String(), `{"quantity":5}`)
		assertErrorCode(t, w, env, http.StatusForbidden, "FORBIDDEN")
	})
}

func TestStockHandler_History(t *testing.T) {
	productID := uuid.New()
	svc := new(mockStockService)
	svc.On("History", mock.Anything, testTenant, testRep.UserID, productID, shared.Filter{Page: 1, PageSize: 50}).
		Return([]appstock.LedgerEntryResponse{{QuantityChange: -2, Reason: "Sample given"}}, int64(1), nil)

	w, env := do(t, stockRouter(testRep, svc), http.MethodGet,
		"/stocks/reps/"+testRep.UserID.String()+"/products/"+productID.String()+"/history?pageSize=50", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NotNil(t, env.Meta)
	assert.Equal(t, int64(1), env.Meta.Total)
}

func TestStockHandler_BalanceAt(t *testing.T) {
	productID := uuid.New()
	base := "/stocks/reps/" + testRep.UserID.String() + "/products/" + productID.String() + "/balance"
	at := time.Date(2026, 10, 1, 9, 0, 0, 0, time.UTC)

	svc := new(mockStockService)
	svc.On("BalanceAt", mock.Anything, testTenant, testRep.UserID, productID, mock.MatchedBy(at.Equal)).Return(int64(12), nil)

	w, env := do(t, stockRouter(testRep, svc), http.MethodGet, base+"?at=2026-10-01T09:00:00Z", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp BalanceAtResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, int64(12), resp.Quantity)

	w, env = do(t, stockRouter(testRep, svc), http.MethodGet, base+"?at=yesterday", nil)
	assertErrorCode(t, w, env, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestStockHandler_Audit(t *testing.T) {
	productID := uuid.New()
	svc := new(mockStockService)
	svc.On("Audit", mock.Anything, testTenant, testRep.UserID, productID).
		Return(&appstock.AuditResponse{Replayed: 4, Cached: 4, Consistent: true}, nil)

	w, env := do(t, stockRouter(testAdmin, svc), http.MethodGet,
		"/stocks/reps/"+testRep.UserID.String()+"/products/"+productID.String()+"/audit", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp appstock.AuditResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.True(t, resp.Consistent)
}

func TestStockHandler_AuditRep(t *testing.T) {
	productID := uuid.New()
	svc := new(mockStockService)
	svc.On("AuditRep", mock.Anything, testTenant, testRep.UserID).
		Return([]appstock.AuditResponse{{ProductID: productID, Replayed: 2, Cached: 5}}, nil)

	w, env := do(t, stockRouter(testAdmin, svc), http.MethodGet, "/stocks/reps/"+testRep.UserID.String()+"/audit", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []appstock.AuditResponse
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.False(t, rows[0].Consistent)
	assert.Equal(t, productID, rows[0].ProductID)
	svc.AssertExpectations(t)
}

func TestStockHandler_Analysis(t *testing.T) {
	productID := uuid.New()
	svc := new(mockStockService)
	svc.On("ProductAnalysis", mock.Anything, testTenant, productID).
		Return([]appstock.ProductAnalysisResponse{{RepName: "Sami", Quantity: 3, TotalTakenFromLedger: 10, TotalSamplesDistributed: 7}}, nil)

	w, env := do(t, stockRouter(testAdmin, svc), http.MethodGet, "/stocks/products/"+productID.String()+"/analysis", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var rows []appstock.ProductAnalysisResponse
	require.NoError(t, json.Unmarshal(env.Data, &rows))
	require.Len(t, rows, 1)
	assert.Equal(t, int64(7), rows[0].TotalSamplesDistributed)
}
