package handler

import (
	"context"
	"time"

	appstock "github.com/Mandoobi/jaber-backend/internal/application/stock"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockService is the part of the stock service the endpoints need
type StockService interface {
	ListRepStocks(ctx context.Context, tenantID, repID uuid.UUID) ([]appstock.RepStockResponse, error)
	SetRepStock(ctx context.Context, tenantID uuid.UUID, actor shared.Actor, req appstock.SetRepStockRequest) (*appstock.RepStockResponse, error)
	History(ctx context.Context, tenantID, repID, productID uuid.UUID, filter shared.Filter) ([]appstock.LedgerEntryResponse, int64, error)
	BalanceAt(ctx context.Context, tenantID, repID, productID uuid.UUID, at time.Time) (int64, error)
	Audit(ctx context.Context, tenantID, repID, productID uuid.UUID) (*appstock.AuditResponse, error)
	AuditRep(ctx context.Context, tenantID, repID uuid.UUID) ([]appstock.AuditResponse, error)
	ProductAnalysis(ctx context.Context, tenantID, productID uuid.UUID) ([]appstock.ProductAnalysisResponse, error)
}

// StockHandler serves rep stock balances and their ledger
type StockHandler struct {
	BaseHandler
	stocks StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(stocks StockService) *StockHandler {
	return &StockHandler{stocks: stocks}
}

// Mine lists the caller's own stock
// @Router /stocks/me [get]
func (h *StockHandler) Mine(c *gin.Context) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	h.list(c, tenantID, actor.UserID)
}

// ForRep lists a rep's stock. Reps may only look at their own.
// @Router /stocks/reps/{repId} [get]
func (h *StockHandler) ForRep(c *gin.Context) {
	tenantID, repID, ok := h.repScope(c)
	if !ok {
		return
	}
	h.list(c, tenantID, repID)
}

func (h *StockHandler) list(c *gin.Context, tenantID, repID uuid.UUID) {
	items, err := h.stocks.ListRepStocks(c.Request.Context(), tenantID, repID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, items)
}

// SetRepStockBody is the body of PUT /stocks/reps/:repId/products/:productId
type SetRepStockBody struct {
	Quantity          *int64 `json:"quantity" binding:"required,gte=0"`
	IncludeInAnalysis *bool  `json:"include_in_analysis"`
}

// Set moves a rep's balance to an absolute quantity
// @Router /stocks/reps/{repId}/products/{productId} [put]
func (h *StockHandler) Set(c *gin.Context) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return
	}
	repID, ok := h.uuidParam(c, "repId")
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "productId")
	if !ok {
		return
	}
	var body SetRepStockBody
	if !h.bind(c, &body) {
		return
	}

	resp, err := h.stocks.SetRepStock(c.Request.Context(), tenantID, actor, appstock.SetRepStockRequest{
		RepID:             repID,
		ProductID:         productID,
		Quantity:          *body.Quantity,
		IncludeInAnalysis: body.IncludeInAnalysis,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// History pages through the ledger of one balance
// @Router /stocks/reps/{repId}/products/{productId}/history [get]
func (h *StockHandler) History(c *gin.Context) {
	tenantID, repID, productID, ok := h.balanceScope(c)
	if !ok {
		return
	}
	var page dto.PageRequest
	if !h.bindQuery(c, &page) {
		return
	}
	filter := pageFilter(page)

	entries, total, err := h.stocks.History(c.Request.Context(), tenantID, repID, productID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, entries, total, filter.Page, filter.PageSize)
}

// BalanceAtRequest is an RFC 3339 instant; empty means now
type BalanceAtRequest struct {
	At string `form:"at" binding:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// BalanceAtResponse is a ledger replay up to an instant
type BalanceAtResponse struct {
	RepID     uuid.UUID `json:"rep_id"`
	ProductID uuid.UUID `json:"product_id"`
	At        time.Time `json:"at"`
	Quantity  int64     `json:"quantity"`
}

// BalanceAt replays the ledger to give the balance at a point in time
// @Router /stocks/reps/{repId}/products/{productId}/balance [get]
func (h *StockHandler) BalanceAt(c *gin.Context) {
	tenantID, repID, productID, ok := h.balanceScope(c)
	if !ok {
		return
	}
	var req BalanceAtRequest
	if !h.bindQuery(c, &req) {
		return
	}
	at := time.Now()
	if req.At != "" {
		at, _ = time.Parse(time.RFC3339, req.At)
	}

	qty, err := h.stocks.BalanceAt(c.Request.Context(), tenantID, repID, productID, at)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, BalanceAtResponse{RepID: repID, ProductID: productID, At: at, Quantity: qty})
}

// Audit compares the cached balance with a full ledger replay
// @Router /stocks/reps/{repId}/products/{productId}/audit [get]
func (h *StockHandler) Audit(c *gin.Context) {
	tenantID, repID, productID, ok := h.balanceScope(c)
	if !ok {
		return
	}
	resp, err := h.stocks.Audit(c.Request.Context(), tenantID, repID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// AuditRep checks every balance the rep holds against the ledger
// @Router /stocks/reps/{repId}/audit [get]
func (h *StockHandler) AuditRep(c *gin.Context) {
	tenantID, repID, ok := h.repScope(c)
	if !ok {
		return
	}
	rows, err := h.stocks.AuditRep(c.Request.Context(), tenantID, repID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// Analysis gives the month-to-date picture of one product across reps
// @Router /stocks/products/{productId}/analysis [get]
func (h *StockHandler) Analysis(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}
	productID, ok := h.uuidParam(c, "productId")
	if !ok {
		return
	}
	rows, err := h.stocks.ProductAnalysis(c.Request.Context(), tenantID, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, rows)
}

// repScope resolves :repId and checks the caller may read it
func (h *StockHandler) repScope(c *gin.Context) (uuid.UUID, uuid.UUID, bool) {
	tenantID, actor, ok := h.caller(c)
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	repID, ok := h.uuidParam(c, "repId")
	if !ok {
		return uuid.Nil, uuid.Nil, false
	}
	if !actor.CanActFor(repID) {
		h.HandleError(c, shared.ErrForbidden)
		return uuid.Nil, uuid.Nil, false
	}
	return tenantID, repID, true
}

func (h *StockHandler) balanceScope(c *gin.Context) (tenantID, repID, productID uuid.UUID, ok bool) {
	tenantID, repID, ok = h.repScope(c)
	if !ok {
		return
	}
	productID, ok = h.uuidParam(c, "productId")
	return
}
