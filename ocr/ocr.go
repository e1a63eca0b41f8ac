//go:build ocr

// Package ocr finds text blocks on rendered slide images using the Tesseract
// engine via gosseract. It requires Tesseract to be installed on the system.
// On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/tsawler/deckreader/model"
)

// Client wraps Tesseract for OCR operations. A Client is not safe for
// concurrent use.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	client := gosseract.NewClient()
	return &Client{client: client}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// SetLanguage sets the language(s) for recognition, "+" separated
// (e.g., "eng+fra"). Default is "eng".
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// RecognizeImage returns the text found in an encoded image with
// leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}

	return strings.TrimSpace(text), nil
}

// TextRegions returns the bounding box of every text block Tesseract finds
// in an encoded image, in image pixels. Confidence is normalised to 0..1.
// Blocks with no recognised characters are skipped.
func (c *Client) TextRegions(imageData []byte) ([]model.ContentRegion, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_BLOCK)
	if err != nil {
		return nil, fmt.Errorf("OCR layout failed: %w", err)
	}

	regions := make([]model.ContentRegion, 0, len(boxes))
	for _, b := range boxes {
		if strings.TrimSpace(b.Word) == "" {
			continue
		}
		r := b.Box
		regions = append(regions, model.ContentRegion{
			BBox:       model.NewBBox(float64(r.Min.X), float64(r.Min.Y), float64(r.Dx()), float64(r.Dy())),
			Kind:       model.RegionText,
			Confidence: b.Confidence / 100,
		})
	}

	return regions, nil
}
