//go:build !ocr

// Package ocr finds text blocks on rendered slide images.
//
// This is the stub implementation used when the "ocr" build tag is not set.
// All functions return ErrOCRNotEnabled. To enable OCR, rebuild with:
//
//	go build -tags ocr
//
// This requires Tesseract to be installed.
package ocr

import "github.com/tsawler/deckreader/model"

// Client is a stub OCR client that returns errors for all operations.
type Client struct{}

// New returns an error indicating OCR support is not enabled.
func New() (*Client, error) {
	return nil, ErrOCRNotEnabled
}

// Close is a no-op for the stub client.
// It is safe to call on a nil client.
func (c *Client) Close() error {
	return nil
}

// SetLanguage returns ErrOCRNotEnabled.
func (c *Client) SetLanguage(lang string) error {
	return ErrOCRNotEnabled
}

// RecognizeImage returns ErrOCRNotEnabled.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	return "", ErrOCRNotEnabled
}

// TextRegions returns ErrOCRNotEnabled.
func (c *Client) TextRegions(imageData []byte) ([]model.ContentRegion, error) {
	return nil, ErrOCRNotEnabled
}
