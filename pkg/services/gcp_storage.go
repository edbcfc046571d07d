package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/ahmed8601/kahramana-site/pkg/persistence"

	"cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCSStore keeps each snapshot entry as one object in a GCP Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket string
	prefix string
}

// InitGCPStorage initializes the GCP Storage client. A non-empty projectID is
// billed for the requests.
func InitGCPStorage(ctx context.Context, bucketName, credentialsFile, projectID string) (*GCSStore, error) {
	if bucketName == "" {
		return nil, fmt.Errorf("GCP_BUCKET_NAME not set")
	}

	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	if projectID != "" {
		opts = append(opts, option.WithQuotaProject(projectID))
	}

	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP storage client: %v", err)
	}

	return &GCSStore{client: client, bucket: bucketName, prefix: "carts/"}, nil
}

// ObjectName maps a storage key to its object name in the bucket.
func (s *GCSStore) ObjectName(key string) string {
	return s.prefix + strings.ReplaceAll(key, ":", "/")
}

func (s *GCSStore) object(key string) *storage.ObjectHandle {
	return s.client.Bucket(s.bucket).Object(s.ObjectName(key))
}

func (s *GCSStore) Get(ctx context.Context, key string) (string, error) {
	r, err := s.object(key).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) {
		return "", persistence.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("GCS read failed: %v", err)
	}
	defer r.Close()

	b, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("GCS read failed: %v", err)
	}
	return string(b), nil
}

func (s *GCSStore) Set(ctx context.Context, key, value string) error {
	writer := s.object(key).NewWriter(ctx)
	writer.ContentType = "application/json"

	if _, err := writer.Write([]byte(value)); err != nil {
		writer.Close()
		return fmt.Errorf("GCS upload failed: %v", err)
	}

	if err := writer.Close(); err != nil {
		return fmt.Errorf("GCS upload finalization failed: %v", err)
	}
	return nil
}

func (s *GCSStore) Remove(ctx context.Context, key string) error {
	err := s.object(key).Delete(ctx)
	// Don't fail if the object doesn't exist
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("GCS delete failed: %v", err)
	}
	return nil
}

// Close releases the client.
func (s *GCSStore) Close() error {
	return s.client.Close()
}
