// Package loader reads raw state-machine documents from local files or
// HTTP(S) URLs.
//
// Documents are JSON or YAML; the format is chosen by file extension (or
// HTTP Content-Type) and falls back to sniffing when neither is conclusive.
// The loader decodes into the map[string]any shape that
// [statemachine.Process] consumes and performs no validation beyond
// well-formedness - tolerating partially-malformed documents is the
// pipeline's job, not the loader's.
package loader

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/flowlens/flowlens/pkg/errors"
)

// DefaultTimeout bounds HTTP document fetches.
const DefaultTimeout = 30 * time.Second

// maxDocumentSize caps how much we read from a remote source (16 MiB).
// Policy documents are a few hundred KiB at most; anything larger is a
// misdirected URL.
const maxDocumentSize = 16 << 20

// Load reads a raw document from a file path or an http(s) URL.
func Load(ctx context.Context, source string) (map[string]any, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return LoadURL(ctx, source)
	}
	return LoadFile(source)
}

// LoadFile reads and decodes a raw document from disk.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "document %s not found", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read %s", path)
	}
	return decode(data, formatHint(filepath.Ext(path), ""))
}

// LoadURL fetches and decodes a raw document over HTTP(S).
func LoadURL(ctx context.Context, url string) (map[string]any, error) {
	ctx, cancel := context.WithTimeout(ctx, DefaultTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "build request for %s", url)
	}
	req.Header.Set("Accept", "application/json, application/yaml")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch %s", url)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, errors.New(errors.ErrCodeNotFound, "document %s not found (404)", url)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New(errors.ErrCodeNetwork, "fetch %s: unexpected status %d", url, resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "read response from %s", url)
	}
	return decode(data, formatHint(filepath.Ext(url), resp.Header.Get("Content-Type")))
}

// LoadReader decodes a raw document from r, sniffing the format.
func LoadReader(r io.Reader) (map[string]any, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxDocumentSize))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "read document")
	}
	return decode(data, "")
}

// formatHint picks a decoder hint from a file extension and an optional
// content type. Returns "json", "yaml" or "" (sniff).
func formatHint(ext, contentType string) string {
	switch strings.ToLower(ext) {
	case ".json":
		return "json"
	case ".yaml", ".yml":
		return "yaml"
	}
	ct := strings.ToLower(contentType)
	switch {
	case strings.Contains(ct, "json"):
		return "json"
	case strings.Contains(ct, "yaml"):
		return "yaml"
	}
	return ""
}

func decode(data []byte, hint string) (map[string]any, error) {
	switch hint {
	case "json":
		return decodeJSON(data)
	case "yaml":
		return decodeYAML(data)
	}
	// Sniff: a JSON document starts with an object or array delimiter.
	trimmedData := strings.TrimLeftFunc(string(data), func(r rune) bool {
		return r == ' ' || r == '\t' || r == '\n' || r == '\r'
	})
	if strings.HasPrefix(trimmedData, "{") || strings.HasPrefix(trimmedData, "[") {
		return decodeJSON(data)
	}
	return decodeYAML(data)
}

func decodeJSON(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode JSON document")
	}
	return doc, nil
}

func decodeYAML(data []byte) (map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode YAML document")
	}
	return normalizeYAML(doc).(map[string]any), nil
}

// normalizeYAML rewrites yaml.v3's map[string]any values recursively so the
// rest of the pipeline sees the same shapes a JSON decode produces
// (map[string]any and []any all the way down, numbers as float64 where the
// YAML scalar was a float; ints are kept and handled by the pipeline).
func normalizeYAML(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[k] = normalizeYAML(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[fmt.Sprint(k)] = normalizeYAML(val)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, val := range t {
			out[i] = normalizeYAML(val)
		}
		return out
	}
	return v
}
