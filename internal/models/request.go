package models

import "encoding/json"

// PUT actions.
const (
	ActionReorder = "reorder"
	ActionUpdate  = "update"
)

// MutateRequest is the PUT body shared by all collections. The reorder list lives
// under a collection-specific key, so the raw body is kept for a second decode.
type MutateRequest struct {
	Action string `json:"action"`
	ID     string `json:"id"`
}

// IDRef is one entry of a reorder list.
type IDRef struct {
	ID string `json:"id"`
}

// DeleteRequest is the DELETE body.
type DeleteRequest struct {
	ID string `json:"id"`
}

// ReorderIDs decodes the list stored under key in a PUT body. ok is false when the key
// is missing or not an array.
func ReorderIDs(body []byte, key string) (ids []string, ok bool) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, false
	}
	list, exists := raw[key]
	if !exists {
		return nil, false
	}
	var refs []IDRef
	if err := json.Unmarshal(list, &refs); err != nil {
		return nil, false
	}
	ids = make([]string, len(refs))
	for i, ref := range refs {
		ids[i] = ref.ID
	}
	return ids, true
}

// GalleryImagePatch lists the gallery fields an update may change.
type GalleryImagePatch struct {
	Title      *string `json:"title"`
	Dimensions *string `json:"dimensions"`
	Medium     *string `json:"medium"`
	Year       *string `json:"year"`
}

func (p GalleryImagePatch) Apply(img *GalleryImage) {
	setIfPresent(&img.Title, p.Title)
	setIfPresent(&img.Dimensions, p.Dimensions)
	setIfPresent(&img.Medium, p.Medium)
	setIfPresent(&img.Year, p.Year)
}

// AuctionWorkPatch lists the auction fields an update may change.
type AuctionWorkPatch struct {
	Title        *string `json:"title"`
	Dimensions   *string `json:"dimensions"`
	Medium       *string `json:"medium"`
	Price        *string `json:"price"`
	AuctionHouse *string `json:"auctionHouse"`
}

func (p AuctionWorkPatch) Apply(work *AuctionWork) {
	setIfPresent(&work.Title, p.Title)
	setIfPresent(&work.Dimensions, p.Dimensions)
	setIfPresent(&work.Medium, p.Medium)
	setIfPresent(&work.Price, p.Price)
	setIfPresent(&work.AuctionHouse, p.AuctionHouse)
}

// ArticlePatch lists the article fields an update may change.
type ArticlePatch struct {
	Title       *string `json:"title"`
	Source      *string `json:"source"`
	Description *string `json:"description"`
	Date        *string `json:"date"`
	URL         *string `json:"url"`
}

func (p ArticlePatch) Apply(article *Article) {
	setIfPresent(&article.Title, p.Title)
	setIfPresent(&article.Source, p.Source)
	setIfPresent(&article.Description, p.Description)
	setIfPresent(&article.Date, p.Date)
	setIfPresent(&article.URL, p.URL)
}

func setIfPresent(dst *string, value *string) {
	if value != nil {
		*dst = *value
	}
}

// LoginRequest is the POST body of the auth endpoint.
type LoginRequest struct {
	Action   string  `json:"action"`
	Password *string `json:"password"`
}
