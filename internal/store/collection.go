package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"portfolio-content-api/internal/models"
)

// Collection persists one Document as {"<key>": [...]} in a single JSON file.
type Collection[R models.Record] struct {
	path   string
	key    string
	logger *slog.Logger

	mu sync.Mutex
}

func NewCollection[R models.Record](path, key string, logger *slog.Logger) *Collection[R] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collection[R]{
		path:   path,
		key:    key,
		logger: logger.With("collection", key),
	}
}

func (c *Collection[R]) Key() string  { return c.key }
func (c *Collection[R]) Path() string { return c.path }

// Load reads the backing file. A missing, empty or unparseable file yields an empty
// document so the endpoints heal themselves. Null entries are dropped. An entry that
// cannot be decoded even after scalar coercion fails the load with ErrMalformedRecord,
// so Mutate never saves over records it could not read.
func (c *Collection[R]) Load() (*Document[R], error) {
	data, err := os.ReadFile(c.path)
	if errors.Is(err, os.ErrNotExist) {
		return &Document[R]{Records: []R{}}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", c.path, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return &Document[R]{Records: []R{}}, nil
	}

	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		c.logger.Warn("collection file is not valid JSON, starting empty", "path", c.path, "error", err)
		return &Document[R]{Records: []R{}}, nil
	}
	records := []R{}
	if list, ok := raw[c.key]; ok {
		var items []json.RawMessage
		if err := json.Unmarshal(list, &items); err != nil {
			c.logger.Warn("collection records are not a list, starting empty", "path", c.path, "error", err)
			return &Document[R]{Records: []R{}}, nil
		}
		for i, item := range items {
			rec, ok, err := decodeRecord[R](item)
			if err != nil {
				return nil, fmt.Errorf("%w: %s entry %d: %v", ErrMalformedRecord, c.path, i, err)
			}
			if !ok {
				c.logger.Warn("skipping null collection entry", "path", c.path, "index", i)
				continue
			}
			records = append(records, rec)
		}
	}
	return &Document[R]{Records: records}, nil
}

// decodeRecord decodes one list entry. ok is false for a null entry. Scalars stored
// with the wrong JSON type (a numeric year, a quoted order) are coerced before the
// entry is rejected.
func decodeRecord[R models.Record](item json.RawMessage) (rec R, ok bool, err error) {
	trimmed := bytes.TrimSpace(item)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return rec, false, nil
	}
	if err = json.Unmarshal(trimmed, &rec); err == nil {
		return rec, true, nil
	}

	coerced, cerr := coerceScalars(trimmed)
	if cerr != nil {
		return rec, false, err
	}
	var retry R
	if rerr := json.Unmarshal(coerced, &retry); rerr != nil {
		return rec, false, err
	}
	return retry, true, nil
}

// coerceScalars rewrites a record object so that "order" is numeric and every other
// scalar field is a string.
func coerceScalars(item []byte) ([]byte, error) {
	decoder := json.NewDecoder(bytes.NewReader(item))
	decoder.UseNumber()
	var fields map[string]any
	if err := decoder.Decode(&fields); err != nil {
		return nil, err
	}
	for key, value := range fields {
		if key == "order" {
			if s, isString := value.(string); isString {
				fields[key] = json.Number(strings.TrimSpace(s))
			}
			continue
		}
		switch v := value.(type) {
		case json.Number:
			fields[key] = v.String()
		case bool:
			fields[key] = strconv.FormatBool(v)
		}
	}
	return json.Marshal(fields)
}

// Save writes the document atomically: encode to a temp file in the same directory,
// fsync, then rename over the old file.
func (c *Collection[R]) Save(doc *Document[R]) error {
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create data dir: %w", err)
	}

	records := doc.Records
	if records == nil {
		records = []R{}
	}

	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(c.path)+"-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp collection file: %w", err)
	}
	tmpPath := tmpFile.Name()
	success := false
	defer func() {
		if !success {
			_ = tmpFile.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	encoder := json.NewEncoder(tmpFile)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "    ")
	if err := encoder.Encode(map[string][]R{c.key: records}); err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := tmpFile.Sync(); err != nil {
		return fmt.Errorf("flush collection file: %w", err)
	}
	if err := tmpFile.Close(); err != nil {
		return fmt.Errorf("close temp collection file: %w", err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("chmod collection file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		return fmt.Errorf("replace collection file: %w", err)
	}
	success = true
	return nil
}

// View loads the document under the collection lock without saving it.
func (c *Collection[R]) View(ctx context.Context) (*Document[R], error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Load()
}

// Mutate serialises load, fn and save for this collection. When fn fails the document
// is not saved and fn's error is returned unchanged.
func (c *Collection[R]) Mutate(ctx context.Context, fn func(doc *Document[R]) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	doc, err := c.Load()
	if err != nil {
		return err
	}
	if err := fn(doc); err != nil {
		return err
	}
	if err := c.Save(doc); err != nil {
		return &SaveError{Err: err}
	}
	return nil
}

// SaveError marks a failure to persist a mutated document.
type SaveError struct {
	Err error
}

func (e *SaveError) Error() string { return "save collection: " + e.Err.Error() }
func (e *SaveError) Unwrap() error { return e.Err }
