package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/docparse/internal/doctree"
	"github.com/dgallion1/docparse/internal/engine"
	"github.com/dgallion1/docparse/internal/parser"
)

// handleParse accepts a document either as a multipart form ("file"
// field) or as the raw request body, with optional "filename" and
// "format" parameters, and returns the parsed Document.
func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	data, filename, err := readUpload(r, s.cfg.MaxUploadBytes)
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if int64(len(data)) > s.cfg.MaxUploadBytes {
		jsonError(w, fmt.Sprintf("upload exceeds max size (%d bytes)", s.cfg.MaxUploadBytes), http.StatusRequestEntityTooLarge)
		return
	}

	override := doctree.Unknown
	if v := r.FormValue("format"); v != "" {
		f, ok := doctree.ParseFormat(v)
		if !ok {
			jsonError(w, fmt.Sprintf("unknown format %q", v), http.StatusBadRequest)
			return
		}
		override = f
	}

	start := time.Now()
	doc, err := s.engine.Parse(engine.RawInput{
		Data:     data,
		Filename: filename,
		Format:   override,
	})
	if s.stats != nil {
		s.stats.Record(time.Since(start).Milliseconds())
	}
	if err != nil {
		writeParseError(w, err)
		return
	}

	if r.URL.Query().Get("raw_text") != "true" {
		doc.RawText = ""
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(doc)
}

func (s *Server) handleFormats(w http.ResponseWriter, r *http.Request) {
	formats := s.engine.SupportedFormats()
	names := make([]string, 0, len(formats))
	for _, f := range formats {
		names = append(names, f.String())
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{"formats": names})
}

// readUpload pulls document bytes out of the request: the "file" field
// of a multipart form, or the body itself for raw uploads.
func readUpload(r *http.Request, maxBytes int64) ([]byte, string, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if strings.HasPrefix(ct, "multipart/") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			return nil, "", fmt.Errorf("invalid multipart form: %w", err)
		}
		defer r.MultipartForm.RemoveAll()

		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, "", fmt.Errorf("file is required: %w", err)
		}
		defer file.Close()

		data, err := io.ReadAll(io.LimitReader(file, maxBytes+1))
		if err != nil {
			return nil, "", fmt.Errorf("read file: %w", err)
		}
		filename := r.FormValue("filename")
		if filename == "" {
			filename = sanitizeFilename(header.Filename)
		}
		return data, filename, nil
	}

	data, err := io.ReadAll(r.Body)
	if err != nil {
		return nil, "", fmt.Errorf("read body: %w", err)
	}
	return data, r.URL.Query().Get("filename"), nil
}

// sanitizeFilename strips any path components from a client-supplied
// filename.
func sanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" {
		return ""
	}
	return name
}

// writeParseError maps the engine's typed failure onto an HTTP status:
// unsupported formats are 415, malformed or undecodable content is 422.
func writeParseError(w http.ResponseWriter, err error) {
	var perr *parser.ParseError
	if !errors.As(err, &perr) {
		jsonError(w, err.Error(), http.StatusInternalServerError)
		return
	}

	status := http.StatusUnprocessableEntity
	if perr.Code == parser.ErrUnsupportedFormat {
		status = http.StatusUnsupportedMediaType
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"error":  perr.Message,
		"code":   string(perr.Code),
		"line":   perr.Line,
		"offset": perr.Offset,
	})
}
