// Package imagedoc extracts text from scanned images via OCR.
//
// PNG, JPEG and TIFF inputs are decoded and re-encoded as PNG so the
// OCR engine always receives one well-supported format.
package imagedoc

import (
	"bytes"
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"os"
	"strings"

	_ "image/jpeg"

	_ "golang.org/x/image/tiff"

	"github.com/gavelworks/docprep/ocr"
)

// Config controls image extraction.
type Config struct {
	// OCRLanguage is passed to the OCR engine when set.
	OCRLanguage string
}

// Extract runs OCR over an image file and returns the recognized text,
// whitespace-trimmed. It fails when the binary lacks OCR support, when
// the image cannot be decoded, or when recognition itself fails.
func Extract(path string, cfg Config) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}

	normalized, err := NormalizePNG(data)
	if err != nil {
		return "", fmt.Errorf("decoding %s: %w", path, err)
	}

	client, err := ocr.New()
	if err != nil {
		return "", err
	}
	defer client.Close()
	if cfg.OCRLanguage != "" {
		if err := client.SetLanguage(cfg.OCRLanguage); err != nil {
			return "", fmt.Errorf("setting ocr language %q: %w", cfg.OCRLanguage, err)
		}
	}

	text, err := client.Recognize(normalized)
	if err != nil {
		return "", fmt.Errorf("recognizing %s: %w", path, err)
	}
	return strings.TrimSpace(text), nil
}

// NormalizePNG decodes any supported image format and re-encodes it as
// RGBA PNG.
func NormalizePNG(data []byte) ([]byte, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	// Flatten exotic color models (paletted PNG, YCbCr JPEG, CMYK TIFF)
	// into plain RGBA.
	bounds := src.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, src, bounds.Min, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, rgba); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
