package store_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"portfolio-content-api/internal/logging"
	"portfolio-content-api/internal/models"
	"portfolio-content-api/internal/store"
)

func newArticles(t *testing.T) *store.Collection[*models.Article] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "data", "Articles.json")
	return store.NewCollection[*models.Article](path, "articles", logging.Discard())
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	col := newArticles(t)

	doc, err := col.Load()

	require.NoError(t, err)
	assert.NotNil(t, doc.Records)
	assert.Empty(t, doc.Records)
}

func TestLoad_CorruptFileIsEmpty(t *testing.T) {
	for name, content := range map[string]string{
		"garbage":      "{not json",
		"empty":        "   \n",
		"wrong shape":  `{"articles": {"id": "x"}}`,
		"missing key":  `{"images": []}`,
		"null records": `{"articles": null}`,
	} {
		t.Run(name, func(t *testing.T) {
			col := newArticles(t)
			require.NoError(t, os.MkdirAll(filepath.Dir(col.Path()), 0o755))
			require.NoError(t, os.WriteFile(col.Path(), []byte(content), 0o644))

			doc, err := col.Load()

			require.NoError(t, err)
			assert.NotNil(t, doc.Records)
			assert.Empty(t, doc.Records)
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	col := newArticles(t)
	doc := &store.Document[*models.Article]{Records: []*models.Article{
		{ID: "ARTABC", Title: "Künstler <im> Gespräch", Source: "NRC", Description: "d", Date: "2024-05-01", Order: 0},
		{ID: "ART123", Title: "Second", Order: 1},
	}}

	require.NoError(t, col.Save(doc))
	first, err := os.ReadFile(col.Path())
	require.NoError(t, err)

	loaded, err := col.Load()
	require.NoError(t, err)
	assert.Equal(t, doc.Records, loaded.Records)

	require.NoError(t, col.Save(loaded))
	second, err := os.ReadFile(col.Path())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	assert.Contains(t, string(first), "Künstler <im> Gespräch", "unicode and html stay unescaped")
	assert.True(t, strings.HasPrefix(string(first), "{\n    \"articles\": ["))
}

func TestSave_EmptyDocumentWritesEmptyArray(t *testing.T) {
	col := newArticles(t)

	require.NoError(t, col.Save(&store.Document[*models.Article]{}))

	data, err := os.ReadFile(col.Path())
	require.NoError(t, err)
	assert.JSONEq(t, `{"articles": []}`, string(data))
}

func TestSave_LeavesNoTempFiles(t *testing.T) {
	col := newArticles(t)

	require.NoError(t, col.Save(&store.Document[*models.Article]{}))
	require.NoError(t, col.Save(&store.Document[*models.Article]{}))

	entries, err := os.ReadDir(filepath.Dir(col.Path()))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Articles.json", entries[0].Name())
}

func TestMutate_ErrorSkipsSave(t *testing.T) {
	col := newArticles(t)
	sentinel := errors.New("boom")

	err := col.Mutate(context.Background(), func(doc *store.Document[*models.Article]) error {
		_, _ = doc.InsertAtHead(&models.Article{ID: "ARTAAA"})
		return sentinel
	})

	assert.ErrorIs(t, err, sentinel)
	_, statErr := os.Stat(col.Path())
	assert.True(t, os.IsNotExist(statErr))
}

func TestMutate_SaveFailureIsSaveError(t *testing.T) {
	col := newArticles(t)

	err := col.Mutate(context.Background(), func(doc *store.Document[*models.Article]) error {
		// a non-empty directory at the target path makes the final rename fail
		if err := os.MkdirAll(filepath.Join(col.Path(), "blocker"), 0o755); err != nil {
			return err
		}
		_, err := doc.InsertAtHead(&models.Article{ID: "ARTAAA"})
		return err
	})

	var saveErr *store.SaveError
	require.ErrorAs(t, err, &saveErr)

	entries, readErr := os.ReadDir(filepath.Dir(col.Path()))
	require.NoError(t, readErr)
	require.Len(t, entries, 1, "temp file must be removed after a failed save")
}

func TestMutate_CanceledContext(t *testing.T) {
	col := newArticles(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := col.Mutate(ctx, func(*store.Document[*models.Article]) error { return nil })

	assert.ErrorIs(t, err, context.Canceled)
}

func TestMutate_SerialisesConcurrentWriters(t *testing.T) {
	col := newArticles(t)
	gen := store.ShortID("ART", 3)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := col.Mutate(context.Background(), func(doc *store.Document[*models.Article]) error {
				id, err := doc.NewID(gen, nil)
				if err != nil {
					return err
				}
				_, err = doc.InsertAtHead(&models.Article{ID: id})
				return err
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	doc, err := col.View(context.Background())
	require.NoError(t, err)
	assert.Len(t, doc.Records, 20, "no update may be lost")
}

func TestShortID_Format(t *testing.T) {
	gallery := regexp.MustCompile(`^[0-9A-F]{4}$`)
	articles := regexp.MustCompile(`^ART[0-9A-F]{3}$`)

	for i := 0; i < 50; i++ {
		assert.Regexp(t, gallery, store.ShortID("", 4)())
		assert.Regexp(t, articles, store.ShortID("ART", 3)())
	}
}

func newGallery(t *testing.T, content string) *store.Collection[*models.GalleryImage] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Gallery.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return store.NewCollection[*models.GalleryImage](path, "images", logging.Discard())
}

func TestLoad_SkipsNullEntries(t *testing.T) {
	col := newGallery(t, `{"images":[{"id":"A","title":"a","order":0},null]}`)

	err := col.Mutate(context.Background(), func(doc *store.Document[*models.GalleryImage]) error {
		_, err := doc.InsertAtHead(&models.GalleryImage{ID: "NEW1", Title: "new"})
		return err
	})
	require.NoError(t, err)

	doc, err := col.Load()
	require.NoError(t, err)
	require.Len(t, doc.Records, 2)
	assert.Equal(t, map[string]int{"NEW1": 0, "A": 1}, map[string]int{
		doc.Records[0].ID: doc.Records[0].Order,
		doc.Records[1].ID: doc.Records[1].Order,
	})
}

func TestLoad_CoercesMistypedScalars(t *testing.T) {
	col := newGallery(t, `{"images":[{"id":"A","title":"a","year":2019,"order":0},{"id":"B","title":"b","year":"2020","order":"1"}]}`)

	err := col.Mutate(context.Background(), func(doc *store.Document[*models.GalleryImage]) error {
		_, err := doc.InsertAtHead(&models.GalleryImage{ID: "NEW1", Title: "new"})
		return err
	})
	require.NoError(t, err)

	doc, err := col.Load()
	require.NoError(t, err)
	byID := map[string]*models.GalleryImage{}
	for _, rec := range doc.Records {
		byID[rec.ID] = rec
	}
	require.Len(t, byID, 3, "existing records survive a create")
	assert.Equal(t, "2019", byID["A"].Year)
	assert.Equal(t, 1, byID["A"].Order)
	assert.Equal(t, "2020", byID["B"].Year)
	assert.Equal(t, 2, byID["B"].Order)
	assert.Equal(t, 0, byID["NEW1"].Order)
}

func TestMutate_RefusesToOverwriteUndecodableRecords(t *testing.T) {
	original := `{"images":[{"id":"A","title":{"nested":true},"order":0}]}`
	col := newGallery(t, original)
	called := false

	err := col.Mutate(context.Background(), func(doc *store.Document[*models.GalleryImage]) error {
		called = true
		return nil
	})

	assert.ErrorIs(t, err, store.ErrMalformedRecord)
	assert.False(t, called)
	data, readErr := os.ReadFile(col.Path())
	require.NoError(t, readErr)
	assert.Equal(t, original, string(data))
}
