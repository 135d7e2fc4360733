package handler

import (
	"context"
	"time"

	"github.com/Mandoobi/jaber-backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UploadURLSigner issues presigned upload URLs for report attachments
type UploadURLSigner interface {
	UploadURL(ctx context.Context, tenantID uuid.UUID, fileName, contentType string) (string, string, time.Time, error)
}

// AttachmentHandler hands out upload URLs. Clients upload directly to the
// bucket and put the returned key in the report's attachments.
type AttachmentHandler struct {
	BaseHandler
	signer UploadURLSigner
}

// NewAttachmentHandler creates a new AttachmentHandler
func NewAttachmentHandler(signer UploadURLSigner) *AttachmentHandler {
	return &AttachmentHandler{signer: signer}
}

// UploadURLRequest describes the file about to be uploaded
type UploadURLRequest struct {
	FileName    string `json:"file_name" binding:"required,max=255"`
	ContentType string `json:"content_type" binding:"required,oneof=image/jpeg image/png image/webp application/pdf"`
}

// UploadURLResponse is a presigned PUT
type UploadURLResponse struct {
	UploadURL string    `json:"upload_url"`
	Key       string    `json:"key"`
	ExpiresAt time.Time `json:"expires_at"`
}

// UploadURL presigns a PUT for one attachment
// @Router /attachments/upload-url [post]
func (h *AttachmentHandler) UploadURL(c *gin.Context) {
	tenantID, _, ok := h.caller(c)
	if !ok {
		return
	}
	var req UploadURLRequest
	if !h.bind(c, &req) {
		return
	}
	url, key, expiresAt, err := h.signer.UploadURL(c.Request.Context(), tenantID, req.FileName, req.ContentType)
	if err != nil {
		if _, isDomain := shared.AsDomainError(err); !isDomain {
			err = shared.NewDomainError("UPLOAD_URL_FAILED", "Could not create an upload URL").WithCause(err)
		}
		h.HandleError(c, err)
		return
	}
	h.Success(c, UploadURLResponse{UploadURL: url, Key: key, ExpiresAt: expiresAt})
}
