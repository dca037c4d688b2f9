// Package extractor is the client for the hosted document-text-extraction
// service: one multipart upload in, plain text plus metadata out.
package extractor

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// Options tunes an extraction request.
type Options struct {
	MaxChars  int  `json:"max_chars,omitempty"`
	StripURLs bool `json:"strip_urls,omitempty"`
}

// Meta describes the extracted document.
type Meta struct {
	Filetype  string `json:"filetype"`
	Chars     int    `json:"chars"`
	Truncated bool   `json:"truncated"`
	Filename  string `json:"filename"`
}

// Extraction is the service's success payload.
type Extraction struct {
	Text string `json:"text"`
	Meta Meta   `json:"meta"`
}

// ExtractionError is a non-2xx response from the extraction service.
type ExtractionError struct {
	Status  int
	Message string
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extractor error %d: %s", e.Status, e.Message)
}

// Client calls the extraction service.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New constructs a Client for the given extraction service base URL.
func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Extract uploads the file and returns the extracted text with metadata.
func (c *Client) Extract(ctx context.Context, fileName string, file io.Reader, opts Options) (Extraction, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return Extraction{}, err
	}
	if _, err := io.Copy(part, file); err != nil {
		return Extraction{}, fmt.Errorf("extractor request body: %w", err)
	}
	if opts != (Options{}) {
		data, err := json.Marshal(opts)
		if err != nil {
			return Extraction{}, err
		}
		if err := writer.WriteField("options", string(data)); err != nil {
			return Extraction{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return Extraction{}, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/extract", &body)
	if err != nil {
		return Extraction{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Extraction{}, fmt.Errorf("extractor request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return Extraction{}, fmt.Errorf("extractor response read: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Extraction{}, &ExtractionError{
			Status:  resp.StatusCode,
			Message: strings.TrimSpace(string(raw)),
		}
	}

	var out Extraction
	if err := json.Unmarshal(raw, &out); err != nil {
		return Extraction{}, fmt.Errorf("extractor response decode: %w", err)
	}
	return out, nil
}
