package mirror

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/request"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3iface"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"portfolio-content-api/internal/config"
	"portfolio-content-api/internal/supabase"
)

type fakeS3 struct {
	s3iface.S3API
	deleted []string
	bucket  string
	err     error
}

func (f *fakeS3) DeleteObjectsWithContext(_ aws.Context, in *s3.DeleteObjectsInput, _ ...request.Option) (*s3.DeleteObjectsOutput, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.bucket = aws.StringValue(in.Bucket)
	for _, obj := range in.Delete.Objects {
		f.deleted = append(f.deleted, aws.StringValue(obj.Key))
	}
	return &s3.DeleteObjectsOutput{}, nil
}

func TestS3_Delete(t *testing.T) {
	fake := &fakeS3{}
	m := &S3{client: fake, bucket: "portfolio"}

	require.NoError(t, m.Delete(context.Background(), "originals/A1B2.webp", "thumbs/A1B2.webp"))

	assert.Equal(t, "portfolio", fake.bucket)
	assert.Equal(t, []string{"originals/A1B2.webp", "thumbs/A1B2.webp"}, fake.deleted)
}

func TestS3_DeleteError(t *testing.T) {
	m := &S3{client: &fakeS3{err: errors.New("access denied")}, bucket: "portfolio"}

	err := m.Delete(context.Background(), "thumbs/A1B2.webp")

	assert.ErrorContains(t, err, "access denied")
}

func TestS3_DeleteNothing(t *testing.T) {
	m := &S3{client: &fakeS3{err: errors.New("must not be called")}, bucket: "portfolio"}

	assert.NoError(t, m.Delete(context.Background()))
}

func TestOpen(t *testing.T) {
	none, err := Open(&config.Config{MirrorBackend: config.MirrorNone})
	require.NoError(t, err)
	assert.Equal(t, "none", none.Name())

	sb, err := Open(&config.Config{
		MirrorBackend:         config.MirrorSupabase,
		SupabaseURL:           "https://example.supabase.co",
		SupabaseServiceKey:    "k",
		SupabaseStorageBucket: "portfolio-uploads",
	})
	require.NoError(t, err)
	assert.IsType(t, &supabase.StorageClient{}, sb)

	_, err = Open(&config.Config{MirrorBackend: "ftp"})
	assert.Error(t, err)
}
