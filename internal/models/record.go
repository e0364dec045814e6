package models

// Record is one entry of an ordered collection. Implementations are pointer types so
// the store can shift orders in place.
type Record interface {
	GetID() string
	GetOrder() int
	SetOrder(order int)
}

// GalleryImage is a painting shown on the gallery page.
type GalleryImage struct {
	ID            string `json:"id" yaml:"id"`
	Title         string `json:"title" yaml:"title"`
	Dimensions    string `json:"dimensions" yaml:"dimensions"`
	Medium        string `json:"medium" yaml:"medium"`
	Year          string `json:"year" yaml:"year"`
	ThumbnailPath string `json:"thumbnailPath" yaml:"thumbnailPath"`
	OriginalPath  string `json:"originalPath" yaml:"originalPath"`
	Order         int    `json:"order" yaml:"order"`
}

func (g *GalleryImage) GetID() string      { return g.ID }
func (g *GalleryImage) GetOrder() int      { return g.Order }
func (g *GalleryImage) SetOrder(order int) { g.Order = order }

// AuctionWork is a work sold through an auction house. Image holds the
// full-quality derivative path.
type AuctionWork struct {
	ID           string `json:"id" yaml:"id"`
	Title        string `json:"title" yaml:"title"`
	Dimensions   string `json:"dimensions" yaml:"dimensions"`
	Medium       string `json:"medium" yaml:"medium"`
	Price        string `json:"price" yaml:"price"`
	AuctionHouse string `json:"auctionHouse" yaml:"auctionHouse"`
	Image        string `json:"image" yaml:"image"`
	Order        int    `json:"order" yaml:"order"`
}

func (a *AuctionWork) GetID() string      { return a.ID }
func (a *AuctionWork) GetOrder() int      { return a.Order }
func (a *AuctionWork) SetOrder(order int) { a.Order = order }

// Article is a press or charity article. Image is empty when none was uploaded.
type Article struct {
	ID          string `json:"id" yaml:"id"`
	Title       string `json:"title" yaml:"title"`
	Source      string `json:"source" yaml:"source"`
	Description string `json:"description" yaml:"description"`
	Date        string `json:"date" yaml:"date"`
	URL         string `json:"url" yaml:"url"`
	Image       string `json:"image" yaml:"image"`
	Order       int    `json:"order" yaml:"order"`
}

func (a *Article) GetID() string      { return a.ID }
func (a *Article) GetOrder() int      { return a.Order }
func (a *Article) SetOrder(order int) { a.Order = order }
