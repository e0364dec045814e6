package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
	"portfolio-content-api/internal/models"
)

func setupEnv(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	t.Setenv("DATA_DIR", filepath.Join(root, "data"))
	t.Setenv("UPLOADS_DIR", filepath.Join(root, "uploads"))
	t.Setenv("MIRROR_BACKEND", "none")
	return root
}

func writeSeed(t *testing.T, dir string) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 6, 6))
	img.Set(1, 1, color.RGBA{G: 255, A: 255})
	f, err := os.Create(filepath.Join(dir, "study.png"))
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())

	seed := `
gallery:
  - title: Study in Green
    year: "2019"
    image: study.png
  - title: Second Study
    medium: Acrylic
    image: study.png
articles:
  - title: Interview
    source: NRC
    description: A long conversation
    date: "2021-09-01"
`
	path := filepath.Join(dir, "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(seed), 0o644))
	return path
}

func TestImportThenExport(t *testing.T) {
	root := setupEnv(t)
	seed := writeSeed(t, root)

	var out bytes.Buffer
	require.NoError(t, run([]string{"import", "-file", seed}, &out))
	assert.Contains(t, out.String(), "Study in Green")

	out.Reset()
	require.NoError(t, run([]string{"export", "-collection", "gallery", "-format", "yaml"}, &out))
	var images []models.GalleryImage
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &images))
	require.Len(t, images, 2)

	byTitle := map[string]models.GalleryImage{}
	for _, img := range images {
		byTitle[img.Title] = img
	}
	assert.Equal(t, 0, byTitle["Study in Green"].Order, "first seed entry is shown first")
	assert.Equal(t, 1, byTitle["Second Study"].Order)
	assert.Equal(t, "2019", byTitle["Study in Green"].Year)
	assert.Equal(t, "Oil on Canvas", byTitle["Study in Green"].Medium)
	assert.Equal(t, "Acrylic", byTitle["Second Study"].Medium)
	assert.FileExists(t, filepath.Join(root, "uploads", "thumbs", byTitle["Second Study"].ID+".webp"))

	out.Reset()
	require.NoError(t, run([]string{"export", "-collection", "articles", "-format", "json"}, &out))
	var articles []models.Article
	require.NoError(t, json.Unmarshal(out.Bytes(), &articles))
	require.Len(t, articles, 1)
	assert.Equal(t, "2021-09-01", articles[0].Date)
	assert.Equal(t, "", articles[0].Image)
}

func TestCompact(t *testing.T) {
	root := setupEnv(t)
	dataDir := filepath.Join(root, "data")
	require.NoError(t, os.MkdirAll(dataDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, "Auction.json"),
		[]byte(`{"works":[{"id":"AAAA","title":"a","order":4},{"id":"BBBB","title":"b","order":9}]}`), 0o644))

	var out bytes.Buffer
	require.NoError(t, run([]string{"compact", "-collection", "auction"}, &out))
	assert.Equal(t, "compacted auction\n", out.String())

	data, err := os.ReadFile(filepath.Join(dataDir, "Auction.json"))
	require.NoError(t, err)
	var doc struct {
		Works []models.AuctionWork `json:"works"`
	}
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, 0, doc.Works[0].Order)
	assert.Equal(t, 1, doc.Works[1].Order)
}

func TestRun_Errors(t *testing.T) {
	setupEnv(t)

	assert.Error(t, run(nil, &bytes.Buffer{}))
	assert.Error(t, run([]string{"frobnicate"}, &bytes.Buffer{}))
	assert.Error(t, run([]string{"import"}, &bytes.Buffer{}))
	assert.Error(t, run([]string{"export", "-collection", "shop"}, &bytes.Buffer{}))
}
