package mirror

import (
	"bytes"
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
)

// S3 mirrors derivatives into an S3 bucket.
type S3 struct {
	client   s3iface.S3API
	uploader *s3manager.Uploader
	bucket   string
}

func NewS3(region, bucket string) (*S3, error) {
	if bucket == "" {
		return nil, fmt.Errorf("S3 bucket name is required")
	}
	sess, err := session.NewSession(&aws.Config{
		Region: aws.String(region),
	})
	if err != nil {
		return nil, err
	}
	client := s3.New(sess)
	return &S3{
		client:   client,
		uploader: s3manager.NewUploaderWithClient(client),
		bucket:   bucket,
	}, nil
}

func (m *S3) Name() string { return "s3" }

func (m *S3) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := m.uploader.UploadWithContext(ctx, &s3manager.UploadInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return fmt.Errorf("failed to upload %s: %w", key, err)
	}
	return nil
}

func (m *S3) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	objects := make([]*s3.ObjectIdentifier, 0, len(keys))
	for _, key := range keys {
		objects = append(objects, &s3.ObjectIdentifier{Key: aws.String(key)})
	}
	_, err := m.client.DeleteObjectsWithContext(ctx, &s3.DeleteObjectsInput{
		Bucket: aws.String(m.bucket),
		Delete: &s3.Delete{Objects: objects, Quiet: aws.Bool(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to delete objects: %w", err)
	}
	return nil
}
