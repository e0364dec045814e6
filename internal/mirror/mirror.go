package mirror

import (
	"context"
	"fmt"

	"portfolio-content-api/internal/config"
	"portfolio-content-api/internal/supabase"
)

// Mirror copies derivative files to object storage. Keys are slash separated paths
// relative to the uploads root, such as "thumbs/A1B2.webp".
type Mirror interface {
	Name() string
	Upload(ctx context.Context, key string, data []byte, contentType string) error
	Delete(ctx context.Context, keys ...string) error
}

// Noop is used when MIRROR_BACKEND is none.
type Noop struct{}

func (Noop) Name() string                                          { return config.MirrorNone }
func (Noop) Upload(context.Context, string, []byte, string) error { return nil }
func (Noop) Delete(context.Context, ...string) error               { return nil }

// Open builds the mirror selected by MIRROR_BACKEND.
func Open(cfg *config.Config) (Mirror, error) {
	switch cfg.MirrorBackend {
	case config.MirrorNone, "":
		return Noop{}, nil
	case config.MirrorSupabase:
		return supabase.NewStorageClient(cfg.SupabaseURL, cfg.SupabaseServiceKey, cfg.SupabaseStorageBucket)
	case config.MirrorS3:
		return NewS3(cfg.S3Region, cfg.S3Bucket)
	default:
		return nil, fmt.Errorf("unknown mirror backend %q", cfg.MirrorBackend)
	}
}
