package services

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"portfolio-content-api/internal/config"
	"portfolio-content-api/internal/imaging"
	"portfolio-content-api/internal/mirror"
	"portfolio-content-api/internal/models"
	"portfolio-content-api/internal/store"
)

// Content bundles the three collections served by the API.
type Content struct {
	Gallery  *Catalog[*models.GalleryImage]
	Auction  *Catalog[*models.AuctionWork]
	Articles *Catalog[*models.Article]
	Images   *imaging.Generator
}

func NewContent(cfg *config.Config, mir mirror.Mirror, logger *slog.Logger) (*Content, error) {
	images, err := imaging.NewGenerator(cfg.UploadsDir, cfg.PublicUploadsPrefix)
	if err != nil {
		return nil, fmt.Errorf("init derivative generator: %w", err)
	}

	pair := CatalogOptions{Layout: LayoutPair, IDs: store.ShortID("", 4), StrictReorder: cfg.ReorderStrict}
	single := CatalogOptions{
		Layout:            LayoutSingle,
		Dir:               imaging.DirArticles,
		DerivativeFailure: "Failed to create article image",
		IDs:               store.ShortID("ART", 3),
		StrictReorder:     cfg.ReorderStrict,
	}

	return &Content{
		Gallery: NewCatalog(
			store.NewCollection[*models.GalleryImage](filepath.Join(cfg.DataDir, "Gallery.json"), "images", logger),
			images, mir, pair, logger),
		Auction: NewCatalog(
			store.NewCollection[*models.AuctionWork](filepath.Join(cfg.DataDir, "Auction.json"), "works", logger),
			images, mir, pair, logger),
		Articles: NewCatalog(
			store.NewCollection[*models.Article](filepath.Join(cfg.DataDir, "Articles.json"), "articles", logger),
			images, mir, single, logger),
		Images: images,
	}, nil
}
