package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"strings"

	"github.com/gasgenie/gasgenie-service/internal/config"
	mediatypes "github.com/gasgenie/gasgenie-service/internal/types/media"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Service is the object store holding photo bytes.
type Service struct {
	client        *minio.Client
	bucketName    string
	config        *config.Media
	useSSL        bool
	publicBaseURL string
}

// NewService creates a new media service instance
func NewService(ctx context.Context, cfg *config.Config) (*Service, error) {
	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKeyID, cfg.MinIO.SecretAccessKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create MinIO client: %w", err)
	}

	service := &Service{
		client:        client,
		bucketName:    cfg.MinIO.BucketName,
		config:        &cfg.Media,
		useSSL:        cfg.MinIO.UseSSL,
		publicBaseURL: strings.TrimSuffix(cfg.MinIO.PublicBaseURL, "/"),
	}

	if err := service.ensureBucket(ctx); err != nil {
		return nil, fmt.Errorf("failed to ensure bucket exists: %w", err)
	}

	return service, nil
}

// ensureBucket creates the bucket if it doesn't exist
func (s *Service) ensureBucket(ctx context.Context) error {
	exists, err := s.client.BucketExists(ctx, s.bucketName)
	if err != nil {
		return fmt.Errorf("failed to check if bucket exists: %w", err)
	}

	if !exists {
		err = s.client.MakeBucket(ctx, s.bucketName, minio.MakeBucketOptions{})
		if err != nil {
			return fmt.Errorf("failed to create bucket: %w", err)
		}
	}

	return nil
}

// ValidateContentType checks if the content type is allowed
func (s *Service) ValidateContentType(contentType string) bool {
	for _, allowed := range s.config.AllowedMimeTypes {
		if contentType == allowed {
			return true
		}
	}
	return false
}

func (s *Service) MaxFileSize() int64 {
	return s.config.MaxFileSize
}

// List returns the entries directly under prefix. Per-user prefixes come back as
// IsPrefix entries and are not descended into.
func (s *Service) List(ctx context.Context, prefix string) ([]mediatypes.StoredObject, error) {
	var objects []mediatypes.StoredObject
	objectsCh := s.client.ListObjects(ctx, s.bucketName, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: false,
	})

	for object := range objectsCh {
		if object.Err != nil {
			return nil, object.Err
		}
		objects = append(objects, mediatypes.StoredObject{
			Key:      object.Key,
			Size:     object.Size,
			IsPrefix: strings.HasSuffix(object.Key, "/"),
		})
	}

	return objects, nil
}

// Put stores one object and returns its public URL.
func (s *Service) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucketName, key, r, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object %s: %w", key, err)
	}
	return s.PublicURL(key), nil
}

// Delete removes an object. A key that is already gone is not an error.
func (s *Service) Delete(ctx context.Context, key string) error {
	err := s.client.RemoveObject(ctx, s.bucketName, key, minio.RemoveObjectOptions{})
	if err != nil {
		if minio.ToErrorResponse(err).Code == "NoSuchKey" {
			return nil
		}
		return fmt.Errorf("failed to delete object %s: %w", key, err)
	}
	return nil
}

// PublicURL returns the URL for accessing a stored photo (bucket is expected to be public-read
// or fronted by a CDN configured through public_base_url).
func (s *Service) PublicURL(objectKey string) string {
	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.publicBaseURL, objectKey)
	}

	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}

	endpoint := strings.TrimPrefix(s.client.EndpointURL().String(), scheme+"://")
	return fmt.Sprintf("%s://%s/%s/%s", scheme, endpoint, s.bucketName, objectKey)
}

// ExtensionFor maps a MIME type to a file extension including the dot.
func ExtensionFor(contentType string) string {
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/webp":
		return ".webp"
	case "image/heic":
		return ".heic"
	}
	extensions, err := mime.ExtensionsByType(contentType)
	if err == nil && len(extensions) > 0 {
		return extensions[0]
	}
	return ""
}
