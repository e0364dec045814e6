package supabase

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	storage "github.com/supabase-community/storage-go"
)

// StorageClient mirrors derivative files into a Supabase Storage bucket under the
// same relative keys they have below UPLOADS_DIR.
type StorageClient struct {
	client *storage.Client
	bucket string
}

func NewStorageClient(supabaseURL, serviceRoleKey, bucket string) (*StorageClient, error) {
	baseURL := strings.TrimRight(supabaseURL, "/")
	if baseURL == "" {
		return nil, fmt.Errorf("supabase url is required")
	}
	client := storage.NewClient(baseURL+"/storage/v1", serviceRoleKey, nil)

	return &StorageClient{
		client: client,
		bucket: bucket,
	}, nil
}

func (s *StorageClient) Name() string { return "supabase" }

// Upload stores data at key, replacing any existing object.
func (s *StorageClient) Upload(_ context.Context, key string, data []byte, contentType string) error {
	upsert := true
	_, err := s.client.UploadFile(s.bucket, key, bytes.NewReader(data), storage.FileOptions{
		ContentType: &contentType,
		Upsert:      &upsert,
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

// Delete removes the objects in one request.
func (s *StorageClient) Delete(_ context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.client.RemoveFile(s.bucket, keys); err != nil {
		return fmt.Errorf("failed to delete files: %w", err)
	}
	return nil
}
