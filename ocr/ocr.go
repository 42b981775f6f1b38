//go:build ocr

// Package ocr recovers text from raster images and image-only PDF pages
// via the Tesseract engine (through gosseract). It requires Tesseract to
// be installed on the system. On macOS:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Recognition is a single synchronous attempt with no retry; callers
// treat a failure as "no OCR text produced". A Client wraps one Tesseract
// handle and is not safe for concurrent use — create one per goroutine.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Available reports that the OCR engine was compiled in.
const Available = true

// Client wraps a Tesseract handle for OCR operations.
// Close must be called to release the underlying resources.
type Client struct {
	client *gosseract.Client
}

// New creates an OCR client tuned for document-style layout: a single
// uniform block of text rather than sparse scene text.
func New() (*Client, error) {
	client := gosseract.NewClient()
	if err := client.SetPageSegMode(gosseract.PSM_SINGLE_BLOCK); err != nil {
		client.Close()
		return nil, fmt.Errorf("setting page segmentation mode: %w", err)
	}
	return &Client{client: client}, nil
}

// Close releases OCR resources. Safe to call on a nil client.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// Recognize performs a single OCR pass over image data (PNG, JPEG,
// TIFF). It returns the recognized text with surrounding whitespace
// trimmed.
func (c *Client) Recognize(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("setting image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("recognition failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// SetLanguage sets the recognition language(s). Multiple languages are
// "+"-separated (e.g. "eng+fra"). Default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}
