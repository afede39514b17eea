package api

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/dgallion1/marknum/internal/config"
)

func testServer(apiKey string) *Server {
	cfg := config.Default()
	cfg.APIKey = apiKey
	cfg.MaxBodyBytes = 1 << 20
	log := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewServer(cfg, log)
}

func TestHandleHealth(t *testing.T) {
	srv := testServer("")
	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("unexpected body %q", rec.Body.String())
	}
}

func TestHandleNumber_RawBody(t *testing.T) {
	srv := testServer("")
	body := strings.NewReader("# Chapter\n\n## Section\n\n![d](x.png)\n")
	req := httptest.NewRequest(http.MethodPost, "/api/number", body)
	req.Header.Set("Content-Type", "text/markdown")

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	out := rec.Body.String()
	for _, want := range []string{"# 1. Chapter", "## 1.1. Section", "![Figure 1.1.1: d](x.png)"} {
		if !strings.Contains(out, want) {
			t.Errorf("response missing %q:\n%s", want, out)
		}
	}
}

func TestHandleNumber_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "doc.md")
	if err != nil {
		t.Fatal(err)
	}
	io.WriteString(fw, "# Title\n")
	mw.Close()

	srv := testServer("")
	req := httptest.NewRequest(http.MethodPost, "/api/number", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "# 1. Title") {
		t.Errorf("unexpected body:\n%s", rec.Body.String())
	}
}

func TestHandleNumber_MultipartRejectsNonMarkdown(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, _ := mw.CreateFormFile("file", "doc.pdf")
	io.WriteString(fw, "%PDF")
	mw.Close()

	srv := testServer("")
	req := httptest.NewRequest(http.MethodPost, "/api/number", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleNumber_EmptyBody(t *testing.T) {
	srv := testServer("")
	req := httptest.NewRequest(http.MethodPost, "/api/number", strings.NewReader(""))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestHandleNumber_AnchorLevelOverride(t *testing.T) {
	srv := testServer("")
	body := strings.NewReader("# C\n\n## S\n\n### Sub\n\n![d](x.png)\n")
	req := httptest.NewRequest(http.MethodPost, "/api/number?anchor_level=3", body)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "![Figure 1.1.1.1: d](x.png)") {
		t.Errorf("expected level-3 scope in output:\n%s", rec.Body.String())
	}
}

func TestHandleNumber_InvalidAnchorLevel(t *testing.T) {
	srv := testServer("")
	req := httptest.NewRequest(http.MethodPost, "/api/number?anchor_level=9", strings.NewReader("# x\n"))

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestAuth(t *testing.T) {
	srv := testServer("secret")

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"wrong", "Bearer nope", http.StatusUnauthorized},
		{"right", "Bearer secret", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/number", strings.NewReader("# x\n"))
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			srv.ServeHTTP(rec, req)
			if rec.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, rec.Code)
			}
		})
	}
}

func TestHandleOutline(t *testing.T) {
	srv := testServer("")
	body := strings.NewReader("# Introduction\n\n# Chapter\n\n## Section\n\n![d](x.png)\n\n<!-- TABLE: t -->\n")
	req := httptest.NewRequest(http.MethodPost, "/api/outline", body)

	rec := httptest.NewRecorder()
	srv.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Headings []struct {
			Level    int    `json:"level"`
			Text     string `json:"text"`
			Number   string `json:"number"`
			Excluded bool   `json:"excluded"`
		} `json:"headings"`
		Figures []struct {
			Kind  string `json:"kind"`
			Scope string `json:"scope"`
			Seq   int    `json:"seq"`
		} `json:"figures"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}

	if len(resp.Headings) != 3 {
		t.Fatalf("expected 3 headings, got %d", len(resp.Headings))
	}
	if !resp.Headings[0].Excluded || resp.Headings[0].Number != "" {
		t.Errorf("first heading should be excluded and unnumbered: %+v", resp.Headings[0])
	}
	if resp.Headings[1].Number != "1" || resp.Headings[2].Number != "1.1" {
		t.Errorf("unexpected numbers: %+v", resp.Headings)
	}

	if len(resp.Figures) != 2 {
		t.Fatalf("expected 2 figures, got %d", len(resp.Figures))
	}
	if resp.Figures[0].Kind != "figure" || resp.Figures[0].Scope != "1.1" || resp.Figures[0].Seq != 1 {
		t.Errorf("unexpected figure record: %+v", resp.Figures[0])
	}
	if resp.Figures[1].Kind != "table" || resp.Figures[1].Seq != 1 {
		t.Errorf("unexpected table record: %+v", resp.Figures[1])
	}
}
