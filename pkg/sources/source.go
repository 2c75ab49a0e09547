/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: source.go
Description: Data sources for profiling. A Source loads the string values to analyze from a
local file, an HTTP(S) URL, an HTML document or a browser-rendered page. Shared helpers open
locations, walk dotted field paths and deduplicate values.
*/

package sources

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrUnsupportedFormat is returned for formats no source can parse
var ErrUnsupportedFormat = errors.New("unsupported source format")

// DefaultTimeout bounds remote fetches when a config leaves Timeout unset
const DefaultTimeout = 30 * time.Second

// Source produces the values to profile
type Source interface {
	Name() string
	Load(ctx context.Context) ([]string, error)
}

// Config selects and configures a Source
type Config struct {
	Kind      string            `json:"kind" mapstructure:"kind"`         // "file" (default), "html" or "browser"
	Location  string            `json:"location" mapstructure:"location"` // path, "-" for stdin, or http(s) URL
	Format    string            `json:"format" mapstructure:"format"`     // txt, csv, json, jsonl; inferred from the extension when empty
	Column    string            `json:"column" mapstructure:"column"`     // CSV column name or zero-based index
	Field     string            `json:"field" mapstructure:"field"`       // dotted path into JSON records
	Selector  string            `json:"selector" mapstructure:"selector"` // CSS selector for HTML sources
	Attribute string            `json:"attribute" mapstructure:"attribute"`
	WaitFor   string            `json:"wait_for" mapstructure:"wait_for"`
	Headers   map[string]string `json:"headers" mapstructure:"headers"`
	Timeout   time.Duration     `json:"timeout" mapstructure:"timeout"`
	Unique    bool              `json:"unique" mapstructure:"unique"`
}

// NewSource builds the Source described by config
func NewSource(config *Config) (Source, error) {
	if config == nil || config.Location == "" {
		return nil, fmt.Errorf("source location is required")
	}

	switch strings.ToLower(config.Kind) {
	case "", "file":
		return NewFileSource(config), nil
	case "html":
		return NewHTMLSource(config), nil
	case "browser":
		return NewBrowserSource(config), nil
	default:
		return nil, fmt.Errorf("unsupported source kind: %s", config.Kind)
	}
}

func isRemote(location string) bool {
	return strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://")
}

// open returns a reader for a local path, stdin or an HTTP(S) URL
func open(ctx context.Context, location string, headers map[string]string, timeout time.Duration) (io.ReadCloser, error) {
	if location == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	if !isRemote(location) {
		file, err := os.Open(location)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", location, err)
		}
		return file, nil
	}

	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	client := &http.Client{Timeout: timeout}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", location, err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("%s returned status %d", location, resp.StatusCode)
	}
	return resp.Body, nil
}

// lookupField walks a dotted path through decoded JSON objects
func lookupField(v interface{}, path string) (interface{}, bool) {
	if path == "" {
		return v, true
	}
	for _, key := range strings.Split(path, ".") {
		obj, ok := v.(map[string]interface{})
		if !ok {
			return nil, false
		}
		if v, ok = obj[key]; !ok {
			return nil, false
		}
	}
	return v, true
}

// scalarString renders a decoded JSON scalar; objects, arrays and null yield false
func scalarString(v interface{}) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, true
	case bool:
		return strconv.FormatBool(val), true
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64), true
	case interface{ String() string }:
		return val.String(), true
	default:
		return "", false
	}
}

// dedupe drops repeated values keeping first occurrences
func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := values[:0]
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
