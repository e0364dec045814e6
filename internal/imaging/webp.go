package imaging

import (
	"errors"
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/chai2010/webp"
	"github.com/gabriel-vasile/mimetype"
)

var (
	ErrUnreadableSource = errors.New("unreadable or undecodable source image")
	ErrUnsupportedType  = errors.New("unsupported image type")
	ErrEncode           = errors.New("webp encode failed")
)

// Quality levels used for derivatives.
const (
	QualityOriginal   = 100
	QualityCompressed = 80
)

type decodeFunc func(io.Reader) (image.Image, error)

var decoders = map[string]decodeFunc{
	"image/jpeg": jpeg.Decode,
	"image/png":  png.Decode,
	"image/gif":  gif.Decode,
	"image/webp": webp.Decode,
}

// SupportedTypes lists the MIME types ConvertToWebP accepts.
func SupportedTypes() []string {
	return []string{"image/jpeg", "image/png", "image/gif", "image/webp"}
}

// DetectType sniffs the MIME type of the file at path from its content.
func DetectType(path string) (string, error) {
	mtype, err := mimetype.DetectFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadableSource, err)
	}
	for _, supported := range SupportedTypes() {
		if mtype.Is(supported) {
			return supported, nil
		}
	}
	return mtype.String(), fmt.Errorf("%w: %s", ErrUnsupportedType, mtype.String())
}

// ConvertToWebP decodes src and writes it to dst as lossy WebP at the given quality
// (clamped to 0..100). dst is written through a temp file, so a failed conversion
// never leaves a partial file behind.
func ConvertToWebP(src, dst string, quality int) error {
	mimeType, err := DetectType(src)
	if err != nil {
		return err
	}

	file, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnreadableSource, err)
	}
	img, err := decoders[mimeType](file)
	file.Close()
	if err != nil {
		return fmt.Errorf("%w: decode %s: %v", ErrUnreadableSource, mimeType, err)
	}

	if quality < 0 {
		quality = 0
	}
	if quality > 100 {
		quality = 100
	}

	dir := filepath.Dir(dst)
	tmp, err := os.CreateTemp(dir, ".webp-*")
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	tmpPath := tmp.Name()
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpPath)
		}
	}()

	if err := webp.Encode(tmp, img, &webp.Options{Quality: float32(quality)}); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	if err := os.Rename(tmpPath, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrEncode, err)
	}
	success = true
	return nil
}
