package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracingConfig holds configuration for the tracing middleware
type TracingConfig struct {
	ServiceName string
	Enabled     bool
}

// TracingWithConfig wraps otelgin. The span is named "METHOD route".
func TracingWithConfig(cfg TracingConfig) gin.HandlerFunc {
	if !cfg.Enabled {
		return func(c *gin.Context) { c.Next() }
	}
	return otelgin.Middleware(cfg.ServiceName)
}

// SpanAttributes tags the request span with request, tenant and user ids.
// It belongs after the JWT middleware so the claims are available.
func SpanAttributes() gin.HandlerFunc {
	return func(c *gin.Context) {
		span := trace.SpanFromContext(c.Request.Context())
		if span.IsRecording() {
			attrs := make([]attribute.KeyValue, 0, 4)
			if id := GetRequestID(c); id != "" {
				attrs = append(attrs, attribute.String("request_id", id))
			}
			if id := GetJWTTenantID(c); id != "" {
				attrs = append(attrs, attribute.String("tenant_id", id))
			}
			if id := GetJWTUserID(c); id != "" {
				attrs = append(attrs, attribute.String("user_id", id))
			}
			if role := c.GetString(JWTRoleKey); role != "" {
				attrs = append(attrs, attribute.String("user_role", role))
			}
			span.SetAttributes(attrs...)
		}

		c.Next()

		// otelgin only flags 5xx; conflicts are worth seeing too
		if status := c.Writer.Status(); status == http.StatusConflict && span.IsRecording() {
			span.SetStatus(codes.Error, http.StatusText(status))
		}
	}
}
