package api

import (
	"encoding/json"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/dgallion1/marknum/internal/parser"
	"github.com/dgallion1/marknum/internal/pipeline"
)

// handleNumber numbers a single Markdown document and returns the rewritten
// text. The document arrives either as the raw request body or as a
// multipart "file" field; "anchor_level" may be overridden per request via
// query or form value.
func (s *Server) handleNumber(w http.ResponseWriter, r *http.Request) {
	src, runner, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	doc, err := runner.Number(src)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	io.WriteString(w, doc.Text)
}

// outlineHeading is one heading in the outline response.
type outlineHeading struct {
	Level    int    `json:"level"`
	Text     string `json:"text"`
	Line     int    `json:"line"`
	Number   string `json:"number,omitempty"`
	Excluded bool   `json:"excluded,omitempty"`
}

// outlineFigure is one figure or table in the outline response.
type outlineFigure struct {
	Kind    string `json:"kind"`
	Caption string `json:"caption"`
	Line    int    `json:"line"`
	Scope   string `json:"scope"`
	Seq     int    `json:"seq"`
}

// handleOutline numbers a document and returns the heading/figure records
// as JSON without rewriting the text.
func (s *Server) handleOutline(w http.ResponseWriter, r *http.Request) {
	src, runner, ok := s.readDocument(w, r)
	if !ok {
		return
	}

	doc, err := runner.Number(src)
	if err != nil {
		jsonError(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	resp := struct {
		Headings []outlineHeading `json:"headings"`
		Figures  []outlineFigure  `json:"figures"`
	}{
		Headings: make([]outlineHeading, 0, len(doc.Headings)),
		Figures:  make([]outlineFigure, 0, len(doc.Figures)),
	}
	for _, h := range doc.Headings {
		resp.Headings = append(resp.Headings, outlineHeading{
			Level:    h.Level,
			Text:     h.Text,
			Line:     h.Line,
			Number:   h.Number,
			Excluded: h.Excluded,
		})
	}
	for _, f := range doc.Figures {
		resp.Figures = append(resp.Figures, outlineFigure{
			Kind:    f.Kind.String(),
			Caption: f.Caption,
			Line:    f.Line,
			Scope:   f.Scope,
			Seq:     f.Seq,
		})
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// readDocument extracts the Markdown source and a per-request runner from
// the request. On failure it writes the error response and returns ok=false.
func (s *Server) readDocument(w http.ResponseWriter, r *http.Request) ([]byte, *pipeline.Runner, bool) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes)

	var src []byte
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(ct, "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			jsonError(w, "invalid multipart form: "+err.Error(), http.StatusBadRequest)
			return nil, nil, false
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			jsonError(w, "file is required: "+err.Error(), http.StatusBadRequest)
			return nil, nil, false
		}
		defer file.Close()

		if !parser.IsSupportedExtension(header.Filename) {
			jsonError(w, fmt.Sprintf("unsupported file type: %s", header.Filename), http.StatusBadRequest)
			return nil, nil, false
		}
		src, err = io.ReadAll(file)
		if err != nil {
			jsonError(w, "failed to read file", http.StatusInternalServerError)
			return nil, nil, false
		}
	} else {
		var err error
		src, err = io.ReadAll(r.Body)
		if err != nil {
			jsonError(w, "failed to read body: "+err.Error(), http.StatusBadRequest)
			return nil, nil, false
		}
	}

	if len(src) == 0 {
		jsonError(w, "empty document", http.StatusBadRequest)
		return nil, nil, false
	}

	cfg := s.cfg
	if v := r.FormValue("anchor_level"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 6 {
			jsonError(w, "anchor_level must be 1-6", http.StatusBadRequest)
			return nil, nil, false
		}
		cfg.AnchorLevel = n
	}

	return src, pipeline.NewRunner(cfg, s.log), true
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
