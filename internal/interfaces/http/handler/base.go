package handler

import (
	"errors"
	"net/http"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/logger"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/dto"
	"github.com/Mandoobi/jaber-backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a success response with pagination meta
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data any, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 created response
func (h *BaseHandler) Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// Error sends an error response with the given status
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, middleware.GetRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// Unauthorized sends a 401 unauthorized response
func (h *BaseHandler) Unauthorized(c *gin.Context) {
	h.Error(c, http.StatusUnauthorized, dto.ErrCodeUnauthorized, "Authentication required")
}

// HandleError maps domain errors to their status. Anything else is logged
// and reported as an internal error without leaking the cause.
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	_ = c.Error(err)

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		if status >= http.StatusInternalServerError {
			logger.GetGinLogger(c).Error("Request failed", zap.String("code", domainErr.Code), zap.Error(err))
		}
		c.JSON(status, dto.NewErrorResponseWithDetails(
			domainErr.Code, domainErr.Message, middleware.GetRequestID(c), domainErr.Details))
		return
	}

	logger.GetGinLogger(c).Error("Unhandled error", zap.Error(err))
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, "An unexpected error occurred")
}

// caller returns the tenant and actor established by the JWT middleware,
// writing a 401 when either is missing
func (h *BaseHandler) caller(c *gin.Context) (uuid.UUID, shared.Actor, bool) {
	tenantID, ok := middleware.GetTenantID(c)
	if !ok {
		h.Unauthorized(c)
		return uuid.Nil, shared.Actor{}, false
	}
	actor, ok := middleware.GetActor(c)
	if !ok {
		h.Unauthorized(c)
		return uuid.Nil, shared.Actor{}, false
	}
	return tenantID, actor, true
}

// uuidParam parses a path parameter, writing a 400 on failure
func (h *BaseHandler) uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		h.Error(c, http.StatusBadRequest, "INVALID_"+paramCode(name), "Invalid "+name+" format")
		return uuid.Nil, false
	}
	return id, true
}

func paramCode(name string) string {
	switch name {
	case "repId":
		return "REP_ID"
	case "productId":
		return "PRODUCT_ID"
	default:
		return "ID"
	}
}

// bind decodes the JSON body, writing the validation envelope on failure
func (h *BaseHandler) bind(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

// bindQuery decodes query parameters
func (h *BaseHandler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		middleware.HandleValidationError(c, err)
		return false
	}
	return true
}

func pageFilter(p dto.PageRequest) shared.Filter {
	return shared.Filter{Page: p.Page, PageSize: p.PageSize}.Normalize()
}
