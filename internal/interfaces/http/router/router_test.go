package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	appreport "github.com/Mandoobi/jaber-backend/internal/application/report"
	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/auth"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/config"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/handler"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestRouterSetup(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("test", "/test")
	g.GET("/ping", func(c *gin.Context) { c.String(http.StatusOK, "pong") })

	var hits int
	NewRouter(engine, WithAPIVersion("v2"), WithAPIMiddleware(func(c *gin.Context) {
		hits++
		c.Next()
	})).Register(g).Setup()

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v2/test/ping", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "pong", w.Body.String())
	assert.Equal(t, 1, hits)
}

func TestDomainGroup(t *testing.T) {
	engine := gin.New()
	g := NewDomainGroup("catalog", "/catalog").Use(func(c *gin.Context) {
		c.Header("X-Group", "catalog")
		c.Next()
	})
	g.Group("products", "/products").
		GET("", func(c *gin.Context) { c.String(http.StatusOK, "list") }).
		DELETE("/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	g.RegisterRoutes(engine.Group("/api/v1"))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/catalog/products", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "catalog", w.Header().Get("X-Group"))

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/api/v1/catalog/products/1", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)

	assert.Equal(t, "catalog", g.Name())
	assert.Equal(t, "/catalog", g.Prefix())
}

type stubReports struct {
	handler.ReportService
	deleted bool
}

func (s *stubReports) DeleteReport(_ context.Context, cmd appreport.DeleteReportCommand) (*appreport.DeleteReportResult, error) {
	s.deleted = true
	return &appreport.DeleteReportResult{ReportID: cmd.ReportID}, nil
}

func TestGroups_AdminOnlyRoutes(t *testing.T) {
	jwtSvc := auth.NewJWTService(config.JWTConfig{Secret: "router-test-secret-at-least-32-chars"})
	reports := &stubReports{}

	engine := gin.New()
	NewRouter(engine, WithAPIMiddleware(middleware.JWTAuthMiddleware(jwtSvc))).
		Register(Groups(Handlers{
			Reports:    handler.NewReportHandler(reports),
			Stocks:     handler.NewStockHandler(nil),
			Customers:  handler.NewCustomerHandler(nil),
			VisitPlans: handler.NewVisitPlanHandler(nil),
		})...).
		Setup()

	call := func(role shared.Role) int {
		token, err := jwtSvc.GenerateAccessToken(uuid.New(), shared.Actor{UserID: uuid.New(), Role: role}, time.Minute)
		require.NoError(t, err)
		req := httptest.NewRequest(http.MethodDelete, "/api/v1/reports/"+uuid.NewString(), nil)
		req.Header.Set("Authorization", "Bearer "+token)
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusForbidden, call(shared.RoleSalesRep))
	assert.False(t, reports.deleted)

	assert.Equal(t, http.StatusOK, call(shared.RoleAdmin))
	assert.True(t, reports.deleted)

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/attachments/upload-url", nil))
	assert.Equal(t, http.StatusNotFound, w.Code, "attachments are not mounted without storage")
}
