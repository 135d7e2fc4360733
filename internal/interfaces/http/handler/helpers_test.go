package handler

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
	middleware.SetupValidator()
}

var (
	testTenant = uuid.MustParse("00000000-0000-0000-0000-0000000000aa")
	testAdmin  = shared.Actor{UserID: uuid.MustParse("00000000-0000-0000-0000-000000000001"), Role: shared.RoleAdmin}
	testRep    = shared.Actor{UserID: uuid.MustParse("00000000-0000-0000-0000-000000000002"), Role: shared.RoleSalesRep}
)

// newTestRouter authenticates every request as actor, the way the JWT
// middleware would
func newTestRouter(actor shared.Actor) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID(), func(c *gin.Context) {
		c.Set(middleware.JWTTenantKey, testTenant)
		c.Set(middleware.JWTActorKey, actor)
		c.Next()
	})
	return r
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code      string          `json:"code"`
		Message   string          `json:"message"`
		Details   json.RawMessage `json:"details"`
		Retryable bool            `json:"retryable"`
	} `json:"error"`
	Meta *struct {
		Total    int64 `json:"total"`
		Page     int   `json:"page"`
		PageSize int   `json:"page_size"`
	} `json:"meta"`
}

func do(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if s, ok := body.(string); ok {
			buf.WriteString(s)
		} else {
			require.NoError(t, json.NewEncoder(&buf).Encode(body))
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

func assertErrorCode(t *testing.T, w *httptest.ResponseRecorder, env envelope, status int, code string) {
	t.Helper()
	require.Equal(t, status, w.Code, w.Body.String())
	require.NotNil(t, env.Error)
	require.Equal(t, code, env.Error.Code)
}
