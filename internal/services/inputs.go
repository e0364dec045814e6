package services

import (
	"strings"
	"time"

	"portfolio-content-api/internal/models"
)

// DefaultMedium is used when a create request carries no medium field at all.
const DefaultMedium = "Oil on Canvas"

// Create inputs. Optional fields are pointers: nil means the field was absent and the
// default applies, an empty string is kept as is.

type GalleryInput struct {
	Title      string  `yaml:"title"`
	Dimensions string  `yaml:"dimensions"`
	Medium     *string `yaml:"medium"`
	Year       *string `yaml:"year"`
}

// Validate returns the client message for the first invalid field, or "".
func (in GalleryInput) Validate() string {
	if strings.TrimSpace(in.Title) == "" {
		return "Title is required"
	}
	return ""
}

func (in GalleryInput) Build(now time.Time) func(string, Assets) *models.GalleryImage {
	return func(id string, assets Assets) *models.GalleryImage {
		return &models.GalleryImage{
			ID:            id,
			Title:         strings.TrimSpace(in.Title),
			Dimensions:    strings.TrimSpace(in.Dimensions),
			Medium:        valueOr(in.Medium, DefaultMedium),
			Year:          valueOr(in.Year, now.Format("2006")),
			ThumbnailPath: assets.ThumbnailPath,
			OriginalPath:  assets.OriginalPath,
		}
	}
}

type AuctionInput struct {
	Title        string  `yaml:"title"`
	Dimensions   string  `yaml:"dimensions"`
	Medium       *string `yaml:"medium"`
	Price        string  `yaml:"price"`
	AuctionHouse string  `yaml:"auctionHouse"`
}

func (in AuctionInput) Validate() string {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return "Title is required"
	case strings.TrimSpace(in.Price) == "":
		return "Price is required"
	case strings.TrimSpace(in.AuctionHouse) == "":
		return "Auction house is required"
	}
	return ""
}

func (in AuctionInput) Build() func(string, Assets) *models.AuctionWork {
	return func(id string, assets Assets) *models.AuctionWork {
		return &models.AuctionWork{
			ID:           id,
			Title:        strings.TrimSpace(in.Title),
			Dimensions:   strings.TrimSpace(in.Dimensions),
			Medium:       valueOr(in.Medium, DefaultMedium),
			Price:        strings.TrimSpace(in.Price),
			AuctionHouse: strings.TrimSpace(in.AuctionHouse),
			Image:        assets.OriginalPath,
		}
	}
}

type ArticleInput struct {
	Title       string  `yaml:"title"`
	Source      string  `yaml:"source"`
	Description string  `yaml:"description"`
	Date        *string `yaml:"date"`
	URL         string  `yaml:"url"`
}

func (in ArticleInput) Validate() string {
	switch {
	case strings.TrimSpace(in.Title) == "":
		return "Title is required"
	case strings.TrimSpace(in.Source) == "":
		return "Source is required"
	case strings.TrimSpace(in.Description) == "":
		return "Description is required"
	}
	return ""
}

func (in ArticleInput) Build(now time.Time) func(string, Assets) *models.Article {
	return func(id string, assets Assets) *models.Article {
		return &models.Article{
			ID:          id,
			Title:       strings.TrimSpace(in.Title),
			Source:      strings.TrimSpace(in.Source),
			Description: strings.TrimSpace(in.Description),
			Date:        valueOr(in.Date, now.Format("2006-01-02")),
			URL:         strings.TrimSpace(in.URL),
			Image:       assets.ImagePath,
		}
	}
}

func valueOr(v *string, def string) string {
	if v == nil {
		return def
	}
	return strings.TrimSpace(*v)
}
