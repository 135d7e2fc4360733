package router

import (
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/handler"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/middleware"
)

// Handlers are the API handlers. Attachments is nil when object storage is
// disabled, and its route is then not mounted.
type Handlers struct {
	Reports     *handler.ReportHandler
	Stocks      *handler.StockHandler
	Customers   *handler.CustomerHandler
	VisitPlans  *handler.VisitPlanHandler
	Attachments *handler.AttachmentHandler
}

// Groups builds the route groups of the API
func Groups(h Handlers) []RouteRegistrar {
	adminOnly := middleware.RequireRole(shared.RoleAdmin)

	reports := NewDomainGroup("reports", "/reports").
		POST("", h.Reports.Submit).
		GET("", h.Reports.List).
		GET("/stats", adminOnly, h.Reports.Stats).
		GET("/date/:date", h.Reports.GetForDate).
		GET("/:id", h.Reports.Get).
		PUT("/:id", h.Reports.Update).
		DELETE("/:id", adminOnly, h.Reports.Delete)

	stocks := NewDomainGroup("stocks", "/stocks").
		GET("/me", h.Stocks.Mine).
		GET("/reps/:repId", h.Stocks.ForRep).
		GET("/reps/:repId/audit", adminOnly, h.Stocks.AuditRep).
		PUT("/reps/:repId/products/:productId", adminOnly, h.Stocks.Set).
		GET("/reps/:repId/products/:productId/history", h.Stocks.History).
		GET("/reps/:repId/products/:productId/balance", h.Stocks.BalanceAt).
		GET("/reps/:repId/products/:productId/audit", adminOnly, h.Stocks.Audit).
		GET("/products/:productId/analysis", adminOnly, h.Stocks.Analysis)

	customers := NewDomainGroup("customers", "/customers").
		Use(adminOnly).
		DELETE("/:id", h.Customers.Delete).
		POST("/:id/purge", h.Customers.Purge)

	plans := NewDomainGroup("visit-plans", "/visit-plans").
		GET("/:repId", h.VisitPlans.Get).
		PUT("/:repId", adminOnly, h.VisitPlans.Save)

	groups := []RouteRegistrar{reports, stocks, customers, plans}
	if h.Attachments != nil {
		groups = append(groups, NewDomainGroup("attachments", "/attachments").
			POST("/upload-url", h.Attachments.UploadURL))
	}
	return groups
}
