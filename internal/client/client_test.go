package client

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yildizm/sensescan/internal/selector"
)

const reportBody = `{"counts":[{"PII Type":"Email","Count":10},{"PII Type":"Phone","Count":5}],
"inspection":[{"Model":"M1","Accuracy":0.92,"Missed PII":"x"},{"Model":"M2","Accuracy":0.5,"Missed PII":"y"}]}`

func newTestClient(t *testing.T, url string) *Client {
	t.Helper()
	c, err := New(Config{BaseURL: url, UserAgent: "sensescan-test"})
	if err != nil {
		t.Fatalf("Failed to create client: %v", err)
	}
	return c
}

func TestConfigValidate(t *testing.T) {
	invalid := []Config{
		{},
		{BaseURL: "   "},
		{BaseURL: "ftp://example.com"},
		{BaseURL: "http://"},
		{BaseURL: "http://example.com", Timeout: -1},
	}
	for _, cfg := range invalid {
		if err := cfg.Validate(); err == nil {
			t.Errorf("Expected validation error for %+v", cfg)
		} else if ErrorTypeOf(err) != ErrTypeConfiguration {
			t.Errorf("Expected configuration error, got %v", err)
		}
	}

	valid := Config{BaseURL: "https://scanner.example.com/api/"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Unexpected validation error: %v", err)
	}
}

func TestScanFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/scan/file" {
			t.Errorf("Expected path '/scan/file', got '%s'", r.URL.Path)
		}
		if r.Method != http.MethodPost {
			t.Errorf("Expected POST method, got '%s'", r.Method)
		}
		if r.Header.Get(RequestIDHeader) != "scan-1" {
			t.Errorf("Expected request ID header, got %q", r.Header.Get(RequestIDHeader))
		}
		if r.Header.Get("User-Agent") != "sensescan-test" {
			t.Errorf("Unexpected user agent %q", r.Header.Get("User-Agent"))
		}

		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Errorf("Failed to parse multipart form: %v", err)
			return
		}
		if len(r.MultipartForm.File) != 1 {
			t.Errorf("Expected exactly one file part, got %d", len(r.MultipartForm.File))
		}
		headers := r.MultipartForm.File[FileField]
		if len(headers) != 1 {
			t.Errorf("Expected one %q part, got %d", FileField, len(headers))
			return
		}
		if headers[0].Filename != "people.csv" {
			t.Errorf("Expected filename people.csv, got %s", headers[0].Filename)
		}
		f, _ := headers[0].Open()
		content, _ := io.ReadAll(f)
		if string(content) != "name,email\n" {
			t.Errorf("Unexpected uploaded content %q", content)
		}

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(reportBody))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	r, err := c.ScanFile(context.Background(), selector.FromBytes("people.csv", []byte("name,email\n")), "scan-1")
	if err != nil {
		t.Fatalf("ScanFile failed: %v", err)
	}
	if len(r.Counts) != 2 || len(r.Inspection) != 2 {
		t.Errorf("Unexpected report: %+v", r)
	}
}

func TestScanFileKeepsBasePath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/scan/file" {
			t.Errorf("Expected path '/api/scan/file', got '%s'", r.URL.Path)
		}
		_, _ = w.Write([]byte(`{}`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL+"/api/")
	if _, err := c.ScanFile(context.Background(), selector.FromBytes("a.txt", nil), ""); err != nil {
		t.Fatalf("ScanFile failed: %v", err)
	}
}

func TestScanFileStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"detail":"Unsupported file type"}`, http.StatusBadRequest)
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.ScanFile(context.Background(), selector.FromBytes("a.exe", []byte("MZ")), "")
	if err == nil {
		t.Fatal("Expected error for 400 response")
	}

	var se *ServiceError
	if !errors.As(err, &se) {
		t.Fatalf("Expected *ServiceError, got %T", err)
	}
	if se.Type != ErrTypeStatus || se.StatusCode != http.StatusBadRequest {
		t.Errorf("Unexpected error: %v", se)
	}
	if !errors.Is(err, &ServiceError{Type: ErrTypeStatus}) {
		t.Error("Expected errors.Is to match by type")
	}
}

func TestScanFileDecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>oops</html>`))
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)
	_, err := c.ScanFile(context.Background(), selector.FromBytes("a.csv", nil), "")
	if ErrorTypeOf(err) != ErrTypeDecode {
		t.Errorf("Expected decode error, got %v", err)
	}
}

func TestScanFileNetworkError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	c := newTestClient(t, url)
	_, err := c.ScanFile(context.Background(), selector.FromBytes("a.csv", nil), "")
	if ErrorTypeOf(err) != ErrTypeNetwork {
		t.Errorf("Expected network error, got %v", err)
	}
}

func TestScanFileNilFile(t *testing.T) {
	c := newTestClient(t, "http://127.0.0.1:1")
	_, err := c.ScanFile(context.Background(), nil, "")
	if ErrorTypeOf(err) != ErrTypeInput {
		t.Errorf("Expected input error, got %v", err)
	}
}

func TestHealthAndPatterns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/":
			_, _ = w.Write([]byte(`{"message":"Segmento Sense API is running"}`))
		case "/patterns":
			_, _ = w.Write([]byte(`{"EMAIL":"\\S+@\\S+","SSN":"\\d{3}-\\d{2}-\\d{4}"}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	c := newTestClient(t, server.URL)

	msg, err := c.Health(context.Background())
	if err != nil {
		t.Fatalf("Health failed: %v", err)
	}
	if msg != "Segmento Sense API is running" {
		t.Errorf("Unexpected health message %q", msg)
	}

	patterns, err := c.Patterns(context.Background())
	if err != nil {
		t.Fatalf("Patterns failed: %v", err)
	}
	if len(patterns) != 2 || patterns["SSN"] == "" {
		t.Errorf("Unexpected patterns %v", patterns)
	}
}
