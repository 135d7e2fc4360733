package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type validationProbe struct {
	Date     string   `json:"date" binding:"omitempty,reportdate"`
	Quantity int64    `json:"quantity" binding:"gt=0"`
	Type     string   `json:"type" binding:"required,oneof=customer personal"`
	Files    []string `json:"attachments" binding:"max=3"`
}

func newValidationRouter() *gin.Engine {
	SetupValidator()
	router := gin.New()
	router.POST("/test", func(c *gin.Context) {
		var req validationProbe
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleValidationError(c, err)
			return
		}
		c.Status(http.StatusOK)
	})
	return router
}

func postJSON(router *gin.Engine, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/test", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleValidationError(t *testing.T) {
	router := newValidationRouter()

	t.Run("field errors use json names", func(t *testing.T) {
		w := postJSON(router, `{"date":"17/10/2026","quantity":0,"type":"other","attachments":["a","b","c","d"]}`)
		require.Equal(t, http.StatusBadRequest, w.Code)

		var resp struct {
			Error struct {
				Code    string                 `json:"code"`
				Details []dto.ValidationDetail `json:"details"`
			} `json:"error"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)

		fields := map[string]string{}
		for _, d := range resp.Error.Details {
			fields[d.Field] = d.Message
		}
		assert.Equal(t, "Must be a date in YYYY-MM-DD format", fields["date"])
		assert.Equal(t, "Must be greater than 0", fields["quantity"])
		assert.Equal(t, "Must be one of: customer personal", fields["type"])
		assert.Equal(t, "Must contain at most 3 items", fields["attachments"])
	})

	t.Run("malformed json", func(t *testing.T) {
		w := postJSON(router, `{"date":`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "BAD_REQUEST")
	})

	t.Run("valid input", func(t *testing.T) {
		w := postJSON(router, `{"date":"2026-10-17","quantity":2,"type":"personal"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})
}
