// Package client talks to the remote PII detection service.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/yildizm/sensescan/internal/report"
	"github.com/yildizm/sensescan/internal/selector"
)

const (
	// ScanFilePath is the endpoint a file is posted to
	ScanFilePath = "/scan/file"

	// FileField is the multipart field name carrying the file
	FileField = "file"

	// RequestIDHeader carries the scan ID to the service
	RequestIDHeader = "X-Request-ID"

	healthPath   = "/"
	patternsPath = "/patterns"

	maxResponseSize = 64 << 20
)

// Config configures a Client
type Config struct {
	BaseURL   string
	Timeout   time.Duration // 0 means no client-side timeout
	UserAgent string
}

// Validate checks the configuration
func (c *Config) Validate() error {
	if strings.TrimSpace(c.BaseURL) == "" {
		return newServiceError(ErrTypeConfiguration, "", "base URL is required", nil)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return newServiceError(ErrTypeConfiguration, "", "invalid base URL", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return newServiceError(ErrTypeConfiguration, "", fmt.Sprintf("unsupported scheme %q (must be http or https)", u.Scheme), nil)
	}
	if u.Host == "" {
		return newServiceError(ErrTypeConfiguration, "", "base URL has no host", nil)
	}
	if c.Timeout < 0 {
		return newServiceError(ErrTypeConfiguration, "", "timeout must be non-negative", nil)
	}
	return nil
}

// Client posts files to the detection service and decodes its reports
type Client struct {
	config  Config
	http    *http.Client
	baseURL *url.URL
}

// New creates a client for the given service
func New(config Config) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	baseURL, err := url.Parse(strings.TrimRight(config.BaseURL, "/"))
	if err != nil {
		return nil, newServiceError(ErrTypeConfiguration, "", "invalid base URL", err)
	}

	return &Client{
		config:  config,
		http:    &http.Client{Timeout: config.Timeout},
		baseURL: baseURL,
	}, nil
}

// BaseURL returns the service base URL
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ScanFile uploads the file as a single multipart part and returns the
// decoded report. requestID may be empty.
func (c *Client) ScanFile(ctx context.Context, file *selector.PendingFile, requestID string) (*report.Report, error) {
	endpoint := c.endpoint(ScanFilePath)

	body, contentType, err := encodeFile(file)
	if err != nil {
		return nil, newServiceError(ErrTypeInput, endpoint, "failed to read pending file", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, newServiceError(ErrTypeNetwork, endpoint, "failed to build request", err)
	}
	req.Header.Set("Content-Type", contentType)
	req.Header.Set("Accept", "application/json")
	if requestID != "" {
		req.Header.Set(RequestIDHeader, requestID)
	}
	c.setUserAgent(req)

	data, err := c.do(req, endpoint)
	if err != nil {
		return nil, err
	}

	r, err := report.Decode(data)
	if err != nil {
		return nil, newServiceError(ErrTypeDecode, endpoint, "response is not a report", err)
	}
	return r, nil
}

// Health checks that the service answers on its root path and returns the
// message it reports.
func (c *Client) Health(ctx context.Context) (string, error) {
	endpoint := c.endpoint(healthPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return "", newServiceError(ErrTypeNetwork, endpoint, "failed to build request", err)
	}
	c.setUserAgent(req)

	data, err := c.do(req, endpoint)
	if err != nil {
		return "", err
	}

	var status struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(data, &status); err != nil {
		return "", newServiceError(ErrTypeDecode, endpoint, "unexpected health response", err)
	}
	return status.Message, nil
}

// Patterns returns the regex patterns the service detects, keyed by label
func (c *Client) Patterns(ctx context.Context) (map[string]string, error) {
	endpoint := c.endpoint(patternsPath)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, newServiceError(ErrTypeNetwork, endpoint, "failed to build request", err)
	}
	c.setUserAgent(req)

	data, err := c.do(req, endpoint)
	if err != nil {
		return nil, err
	}

	patterns := make(map[string]string)
	if err := json.Unmarshal(data, &patterns); err != nil {
		return nil, newServiceError(ErrTypeDecode, endpoint, "unexpected patterns response", err)
	}
	return patterns, nil
}

// do sends the request and returns the body of a 2xx response
func (c *Client) do(req *http.Request, endpoint string) ([]byte, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, newServiceError(ErrTypeNetwork, endpoint, "request failed", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return nil, newServiceError(ErrTypeNetwork, endpoint, "failed to read response", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		se := newServiceError(ErrTypeStatus, endpoint, "service returned "+resp.Status, nil)
		se.StatusCode = resp.StatusCode
		return nil, se
	}

	return data, nil
}

func (c *Client) endpoint(path string) string {
	u := *c.baseURL
	u.Path = strings.TrimRight(u.Path, "/") + path
	return u.String()
}

func (c *Client) setUserAgent(req *http.Request) {
	if c.config.UserAgent != "" {
		req.Header.Set("User-Agent", c.config.UserAgent)
	}
}

// encodeFile builds a multipart body with the file under FileField
func encodeFile(file *selector.PendingFile) (*bytes.Buffer, string, error) {
	if file == nil {
		return nil, "", fmt.Errorf("no file selected")
	}

	rc, err := file.Open()
	if err != nil {
		return nil, "", err
	}
	defer func() {
		_ = rc.Close()
	}()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile(FileField, file.Name())
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form part: %w", err)
	}
	if _, err := io.Copy(part, rc); err != nil {
		return nil, "", fmt.Errorf("failed to copy file content: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to finish multipart body: %w", err)
	}

	return &body, writer.FormDataContentType(), nil
}
