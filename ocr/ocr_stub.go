//go:build !ocr

// Package ocr recovers text from raster images and image-only PDF pages.
//
// This is the stub implementation used when the "ocr" build tag is not
// set. All operations return ErrNotEnabled. To enable OCR, install
// Tesseract and rebuild with:
//
//	go build -tags ocr
package ocr

import "errors"

// Available reports that the OCR engine was compiled in.
const Available = false

// ErrNotEnabled is returned when OCR is invoked but support was not
// compiled in. Rebuild with -tags ocr to enable it.
var ErrNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// Client is a stub OCR client; every operation reports ErrNotEnabled.
type Client struct{}

// New returns ErrNotEnabled.
func New() (*Client, error) {
	return nil, ErrNotEnabled
}

// Close is a no-op for the stub client. Safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// Recognize returns ErrNotEnabled.
func (c *Client) Recognize(imageData []byte) (string, error) {
	return "", ErrNotEnabled
}

// SetLanguage returns ErrNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrNotEnabled
}
