package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSigner struct {
	err      error
	tenantID uuid.UUID
}

func (s *stubSigner) UploadURL(_ context.Context, tenantID uuid.UUID, fileName, _ string) (string, string, time.Time, error) {
	s.tenantID = tenantID
	if s.err != nil {
		return "", "", time.Time{}, s.err
	}
	key := "reports/" + tenantID.String() + "/" + fileName
	return "https://bucket.example.com/" + key + "?sig=1", key, time.Date(2026, 10, 17, 12, 15, 0, 0, time.UTC), nil
}

func attachmentRouter(signer UploadURLSigner) *gin.Engine {
	r := newTestRouter(testRep)
	r.POST("/attachments/upload-url", NewAttachmentHandler(signer).UploadURL)
	return r
}

func TestAttachmentHandler_UploadURL(t *testing.T) {
	signer := &stubSigner{}
	w, env := do(t, attachmentRouter(signer), http.MethodPost, "/attachments/upload-url",
		map[string]string{"file_name": "receipt.jpg", "content_type": "image/jpeg"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp UploadURLResponse
	require.NoError(t, json.Unmarshal(env.Data, &resp))
	assert.Equal(t, testTenant, signer.tenantID)
	assert.Contains(t, resp.Key, testTenant.String())
	assert.Contains(t, resp.UploadURL, "sig=1")
}

func TestAttachmentHandler_RejectsContentType(t *testing.T) {
	w, env := do(t, attachmentRouter(&stubSigner{}), http.MethodPost, "/attachments/upload-url",
		map[string]string{"file_name": "run.exe", "content_type": "application/octet-stream"})
	assertErrorCode(t, w, env, http.StatusBadRequest, "VALIDATION_ERROR")
}

func TestAttachmentHandler_SignerFailure(t *testing.T) {
	w, env := do(t, attachmentRouter(&stubSigner{err: errors.New("no credentials")}), http.MethodPost, "/attachments/upload-url",
		map[string]string{"file_name": "a.png", "content_type": "image/png"})
	assertErrorCode(t, w, env, http.StatusBadGateway, "UPLOAD_URL_FAILED")
}
