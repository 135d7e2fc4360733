// Package storage keeps report attachments in an S3-compatible bucket
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
	"time"

	appreport "github.com/Mandoobi/jaber-backend/internal/application/report"
	"github.com/Mandoobi/jaber-backend/internal/infrastructure/config"
	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const defaultPresignExpiration = 15 * time.Minute

type objectAPI interface {
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3AttachmentStore deletes and presigns report attachments. Attachments are
// referenced either by object key or by the URL they were uploaded to.
type S3AttachmentStore struct {
	client  objectAPI
	presign *s3.PresignClient
	bucket  string
	logger  *zap.Logger
}

// NewS3AttachmentStore builds a store from configuration. Static
// credentials are used when given, otherwise the default AWS chain.
func NewS3AttachmentStore(ctx context.Context, cfg config.StorageConfig, logger *zap.Logger) (*S3AttachmentStore, error) {
	if cfg.Bucket == "" {
		return nil, errors.New("storage bucket is required")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	if cfg.AccessKeyID != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	endpoint := cfg.Endpoint
	if endpoint != "" {
		if _, err := url.Parse(endpoint); err != nil {
			return nil, fmt.Errorf("invalid storage endpoint: %w", err)
		}
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	return &S3AttachmentStore{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.Bucket,
		logger:  logger.Named("storage"),
	}, nil
}

// Delete implements appreport.AttachmentStore. A missing object is not an
// error.
func (s *S3AttachmentStore) Delete(ctx context.Context, ref string) error {
	key, err := s.ObjectKey(ref)
	if err != nil {
		return err
	}
	if _, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return fmt.Errorf("failed to delete attachment %s: %w", key, err)
	}
	s.logger.Debug("attachment deleted", zap.String("key", key))
	return nil
}

// UploadURL presigns a PUT for a new attachment of a tenant's report and
// returns the URL together with the object key to store on the report
func (s *S3AttachmentStore) UploadURL(ctx context.Context, tenantID uuid.UUID, fileName, contentType string) (string, string, time.Time, error) {
	key := AttachmentKey(tenantID, uuid.New(), fileName)
	req, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(defaultPresignExpiration))
	if err != nil {
		return "", "", time.Time{}, fmt.Errorf("failed to presign upload: %w", err)
	}
	return req.URL, key, time.Now().Add(defaultPresignExpiration), nil
}

// AttachmentKey lays attachments out per tenant
func AttachmentKey(tenantID, id uuid.UUID, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	return fmt.Sprintf("reports/%s/%s%s", tenantID, id, ext)
}

// ObjectKey resolves a stored attachment reference to an object key. Both
// virtual-hosted and path-style URLs are accepted.
func (s *S3AttachmentStore) ObjectKey(ref string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", errors.New("attachment reference is empty")
	}
	if !strings.Contains(ref, "://") {
		return strings.TrimPrefix(ref, "/"), nil
	}
	u, err := url.Parse(ref)
	if err != nil {
		return "", fmt.Errorf("invalid attachment url %q: %w", ref, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	key = strings.TrimPrefix(key, s.bucket+"/")
	if key == "" {
		return "", fmt.Errorf("attachment url %q has no object key", ref)
	}
	return key, nil
}

var _ appreport.AttachmentStore = (*S3AttachmentStore)(nil)
