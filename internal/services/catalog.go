package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"portfolio-content-api/internal/imaging"
	"portfolio-content-api/internal/mirror"
	"portfolio-content-api/internal/models"
	"portfolio-content-api/internal/store"
)

var (
	ErrNotFound = errors.New("record not found")
	ErrSave     = errors.New("failed to persist collection")
)

// Layout selects which derivatives a collection keeps per record.
type Layout int

const (
	// LayoutPair keeps originals/<id>.webp and thumbs/<id>.webp.
	LayoutPair Layout = iota
	// LayoutSingle keeps one compressed <dir>/<id>.webp.
	LayoutSingle
)

// Assets are the public paths of the derivatives created for a new record.
type Assets struct {
	OriginalPath  string
	ThumbnailPath string
	ImagePath     string
}

type CatalogOptions struct {
	Layout            Layout
	Dir               string // LayoutSingle only
	DerivativeFailure string // client message when the single derivative fails
	IDs               store.IDGenerator
	StrictReorder     bool
}

// Catalog runs the content operations of one collection: the JSON document, its
// image derivatives and the optional object storage mirror.
type Catalog[R models.Record] struct {
	collection *store.Collection[R]
	images     *imaging.Generator
	mirror     mirror.Mirror
	opts       CatalogOptions
	logger     *slog.Logger
}

func NewCatalog[R models.Record](
	collection *store.Collection[R],
	images *imaging.Generator,
	mir mirror.Mirror,
	opts CatalogOptions,
	logger *slog.Logger,
) *Catalog[R] {
	if mir == nil {
		mir = mirror.Noop{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Catalog[R]{
		collection: collection,
		images:     images,
		mirror:     mir,
		opts:       opts,
		logger:     logger.With("collection", collection.Key()),
	}
}

// DerivativeKeys lists the files a record with this id owns below the uploads root.
func (c *Catalog[R]) DerivativeKeys(id string) []string {
	if c.opts.Layout == LayoutSingle {
		return []string{imaging.Key(c.opts.Dir, id)}
	}
	return imaging.PairKeys(id)
}

// List returns the records in stored order.
func (c *Catalog[R]) List(ctx context.Context) ([]R, error) {
	doc, err := c.collection.View(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Records, nil
}

// Create allocates an id, renders derivatives from upload (skipped when upload is
// empty) and stores the record built by build at the head of the collection. When
// the document cannot be saved the fresh derivatives are removed again.
func (c *Catalog[R]) Create(ctx context.Context, upload string, build func(id string, assets Assets) R) (R, error) {
	var (
		created R
		keys    []string
	)
	err := c.collection.Mutate(ctx, func(doc *store.Document[R]) error {
		id, err := doc.NewID(c.opts.IDs, func(id string) bool {
			return c.images.Exists(c.DerivativeKeys(id)...)
		})
		if err != nil {
			return err
		}

		var assets Assets
		if upload != "" {
			if assets, err = c.render(upload, id); err != nil {
				return err
			}
			keys = c.DerivativeKeys(id)
		}

		rec, err := doc.InsertAtHead(build(id, assets))
		if err != nil {
			c.cleanup(keys)
			return err
		}
		created = rec
		return nil
	})
	if err != nil {
		var zero R
		var saveErr *store.SaveError
		if errors.As(err, &saveErr) {
			c.cleanup(keys)
			return zero, fmt.Errorf("%w: %v", ErrSave, err)
		}
		return zero, err
	}

	c.logger.Info("record created", "id", created.GetID())
	c.mirrorUpload(ctx, keys)
	return created, nil
}

func (c *Catalog[R]) render(upload, id string) (Assets, error) {
	if c.opts.Layout == LayoutSingle {
		path, err := c.images.Single(upload, c.opts.Dir, id, c.opts.DerivativeFailure)
		if err != nil {
			return Assets{}, err
		}
		return Assets{ImagePath: path}, nil
	}
	pair, err := c.images.Pair(upload, id)
	if err != nil {
		return Assets{}, err
	}
	return Assets{OriginalPath: pair.OriginalPath, ThumbnailPath: pair.ThumbnailPath}, nil
}

// Update applies a patch to the record with id. id and order never change.
func (c *Catalog[R]) Update(ctx context.Context, id string, apply func(R)) (R, error) {
	var updated R
	err := c.collection.Mutate(ctx, func(doc *store.Document[R]) error {
		if !doc.UpdateFields(id, apply) {
			return ErrNotFound
		}
		updated, _ = doc.Find(id)
		return nil
	})
	if err != nil {
		var zero R
		return zero, wrapSave(err)
	}
	return updated, nil
}

// Reorder assigns each listed id its position as order.
func (c *Catalog[R]) Reorder(ctx context.Context, ids []string) error {
	err := c.collection.Mutate(ctx, func(doc *store.Document[R]) error {
		return doc.Reorder(ids, c.opts.StrictReorder)
	})
	return wrapSave(err)
}

// Delete removes the record, saves, and only then unlinks its derivatives.
func (c *Catalog[R]) Delete(ctx context.Context, id string) error {
	err := c.collection.Mutate(ctx, func(doc *store.Document[R]) error {
		if _, ok := doc.DeleteByID(id); !ok {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return wrapSave(err)
	}

	keys := c.DerivativeKeys(id)
	c.cleanup(keys)
	if err := c.mirror.Delete(ctx, keys...); err != nil {
		c.logger.Warn("mirror delete failed", "id", id, "mirror", c.mirror.Name(), "error", err)
	}
	c.logger.Info("record deleted", "id", id)
	return nil
}

// Compact rewrites order as 0..N-1 following the current order.
func (c *Catalog[R]) Compact(ctx context.Context) error {
	err := c.collection.Mutate(ctx, func(doc *store.Document[R]) error {
		doc.Compact()
		return nil
	})
	return wrapSave(err)
}

func (c *Catalog[R]) cleanup(keys []string) {
	if err := c.images.Remove(keys...); err != nil {
		c.logger.Warn("failed to remove derivatives", "keys", keys, "error", err)
	}
}

func (c *Catalog[R]) mirrorUpload(ctx context.Context, keys []string) {
	for _, key := range keys {
		data, err := os.ReadFile(c.images.FilePath(key))
		if err != nil {
			c.logger.Warn("mirror upload skipped", "key", key, "error", err)
			continue
		}
		if err := c.mirror.Upload(ctx, key, data, "image/webp"); err != nil {
			c.logger.Warn("mirror upload failed", "key", key, "mirror", c.mirror.Name(), "error", err)
		}
	}
}

func wrapSave(err error) error {
	var saveErr *store.SaveError
	if errors.As(err, &saveErr) {
		return fmt.Errorf("%w: %v", ErrSave, err)
	}
	return err
}
