package imaging

import (
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Derivative directories below the uploads root.
const (
	DirOriginals = "originals"
	DirThumbs    = "thumbs"
	DirArticles  = "articles"
)

// DerivativeError names the rendition that could not be produced. Message is meant
// for the client as is.
type DerivativeError struct {
	Message string
	Err     error
}

func (e *DerivativeError) Error() string { return e.Message + ": " + e.Err.Error() }
func (e *DerivativeError) Unwrap() error { return e.Err }

// Pair holds the public paths of an original/thumbnail derivative pair.
type Pair struct {
	OriginalPath  string
	ThumbnailPath string
}

// Generator writes WebP derivatives below an uploads root and maps them to public
// web paths.
type Generator struct {
	root         string
	publicPrefix string
	convert      func(src, dst string, quality int) error
}

func NewGenerator(root, publicPrefix string) (*Generator, error) {
	for _, dir := range []string{DirOriginals, DirThumbs, DirArticles} {
		if err := os.MkdirAll(filepath.Join(root, dir), 0o755); err != nil {
			return nil, fmt.Errorf("create uploads dir %s: %w", dir, err)
		}
	}
	return &Generator{
		root:         root,
		publicPrefix: "/" + strings.Trim(publicPrefix, "/"),
		convert:      ConvertToWebP,
	}, nil
}

// Key is the slash separated path of a derivative relative to the uploads root.
func Key(dir, id string) string {
	return path.Join(dir, id+".webp")
}

// PairKeys lists the derivative keys of an original/thumbnail pair.
func PairKeys(id string) []string {
	return []string{Key(DirOriginals, id), Key(DirThumbs, id)}
}

// FilePath maps a key to its location on disk.
func (g *Generator) FilePath(key string) string {
	return filepath.Join(g.root, filepath.FromSlash(key))
}

// PublicPath maps a key to the web path returned to clients.
func (g *Generator) PublicPath(key string) string {
	return g.publicPrefix + "/" + key
}

// Pair creates the full quality original and then the compressed thumbnail. If the
// thumbnail fails the original is removed again.
func (g *Generator) Pair(src, id string) (Pair, error) {
	originalKey := Key(DirOriginals, id)
	thumbKey := Key(DirThumbs, id)

	if err := g.convert(src, g.FilePath(originalKey), QualityOriginal); err != nil {
		return Pair{}, &DerivativeError{Message: "Failed to create original WebP image", Err: err}
	}
	if err := g.convert(src, g.FilePath(thumbKey), QualityCompressed); err != nil {
		_ = g.Remove(originalKey)
		return Pair{}, &DerivativeError{Message: "Failed to create thumbnail WebP image", Err: err}
	}

	return Pair{
		OriginalPath:  g.PublicPath(originalKey),
		ThumbnailPath: g.PublicPath(thumbKey),
	}, nil
}

// Single creates one compressed derivative in dir and returns its public path.
func (g *Generator) Single(src, dir, id, failure string) (string, error) {
	key := Key(dir, id)
	if err := g.convert(src, g.FilePath(key), QualityCompressed); err != nil {
		return "", &DerivativeError{Message: failure, Err: err}
	}
	return g.PublicPath(key), nil
}

// Remove unlinks derivatives by key. Missing files are not an error.
func (g *Generator) Remove(keys ...string) error {
	var errs []error
	for _, key := range keys {
		if err := os.Remove(g.FilePath(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Exists reports whether any of the keys is present on disk.
func (g *Generator) Exists(keys ...string) bool {
	for _, key := range keys {
		if _, err := os.Stat(g.FilePath(key)); err == nil {
			return true
		}
	}
	return false
}
