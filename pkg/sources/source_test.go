/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: source_test.go
Description: Tests for the data sources. Covers text, CSV, JSON and JSON Lines parsing from
temp files and HTTP servers, HTML extraction by selector and source construction.
*/

package sources_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/kleascm/akaylee-profiler/pkg/sources"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func load(t *testing.T, config *sources.Config) []string {
	t.Helper()
	src, err := sources.NewSource(config)
	require.NoError(t, err)
	values, err := src.Load(context.Background())
	require.NoError(t, err)
	return values
}

// TestTextFile tests line splitting and blank-line removal
func TestTextFile(t *testing.T) {
	path := writeFile(t, "ids.txt", "INV-0001\r\nINV-0002\n\nINV-0001\n")

	values := load(t, &sources.Config{Location: path})
	assert.Equal(t, []string{"INV-0001", "INV-0002", "INV-0001"}, values)

	values = load(t, &sources.Config{Location: path, Unique: true})
	assert.Equal(t, []string{"INV-0001", "INV-0002"}, values)
}

// TestCSVFile tests column selection by name and index
func TestCSVFile(t *testing.T) {
	path := writeFile(t, "orders.csv", "id,date\nINV-0001,2024-01-05\nINV-0002,\nPO-0099,1999-07-04\n")

	assert.Equal(t, []string{"2024-01-05", "1999-07-04"}, load(t, &sources.Config{Location: path, Column: "date"}))
	assert.Equal(t, []string{"id", "INV-0001", "INV-0002", "PO-0099"}, load(t, &sources.Config{Location: path}))
	assert.Equal(t, []string{"date", "2024-01-05", "1999-07-04"}, load(t, &sources.Config{Location: path, Column: "1"}))

	src, err := sources.NewSource(&sources.Config{Location: path, Column: "missing"})
	require.NoError(t, err)
	_, err = src.Load(context.Background())
	assert.Error(t, err)
}

// TestJSONFile tests field extraction from a JSON array
func TestJSONFile(t *testing.T) {
	path := writeFile(t, "records.json", `[
		{"order": {"id": "INV-0001", "total": 12.50}},
		{"order": {"id": "INV-0002", "total": 3}},
		{"order": {"total": 7}},
		{"order": null}
	]`)

	assert.Equal(t, []string{"INV-0001", "INV-0002"}, load(t, &sources.Config{Location: path, Field: "order.id"}))
	assert.Equal(t, []string{"12.50", "3", "7"}, load(t, &sources.Config{Location: path, Field: "order.total"}))

	scalars := writeFile(t, "scalars.json", `["a", 1, true, null, {"x": 1}]`)
	assert.Equal(t, []string{"a", "1", "true"}, load(t, &sources.Config{Location: scalars}))
}

// TestJSONLinesFile tests one record per line
func TestJSONLinesFile(t *testing.T) {
	path := writeFile(t, "events.ndjson", "{\"ip\": \"10.0.0.1\"}\n\n{\"ip\": \"192.168.1.20\"}\n")

	src, err := sources.NewSource(&sources.Config{Location: path, Field: "ip"})
	require.NoError(t, err)
	assert.Equal(t, sources.FormatJSONL, src.(*sources.FileSource).Format())

	values, err := src.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"10.0.0.1", "192.168.1.20"}, values)

	bad := writeFile(t, "bad.jsonl", "{\"ip\": 1}\n{oops\n")
	src, err = sources.NewSource(&sources.Config{Location: bad})
	require.NoError(t, err)
	_, err = src.Load(context.Background())
	assert.ErrorContains(t, err, "line 2")
}

// TestUnsupportedFormat tests the format sentinel error
func TestUnsupportedFormat(t *testing.T) {
	path := writeFile(t, "data.txt", "x\n")
	src, err := sources.NewSource(&sources.Config{Location: path, Format: "parquet"})
	require.NoError(t, err)
	_, err = src.Load(context.Background())
	assert.ErrorIs(t, err, sources.ErrUnsupportedFormat)
}

// TestNewSource tests source construction and validation
func TestNewSource(t *testing.T) {
	_, err := sources.NewSource(nil)
	assert.Error(t, err)
	_, err = sources.NewSource(&sources.Config{})
	assert.Error(t, err)
	_, err = sources.NewSource(&sources.Config{Location: "x", Kind: "ftp"})
	assert.Error(t, err)

	src, err := sources.NewSource(&sources.Config{Location: "page.html", Kind: "html"})
	require.NoError(t, err)
	assert.Equal(t, "page.html [td]", src.Name())

	src, err = sources.NewSource(&sources.Config{Location: "https://example.com", Kind: "Browser", Selector: "li"})
	require.NoError(t, err)
	assert.IsType(t, &sources.BrowserSource{}, src)
	assert.Equal(t, "https://example.com [li] (browser)", src.Name())
}

// TestBrowserSourceRejectsLocalPath tests URL validation before any browser is launched
func TestBrowserSourceRejectsLocalPath(t *testing.T) {
	src := sources.NewBrowserSource(&sources.Config{Location: "/tmp/page.html"})
	_, err := src.Load(context.Background())
	assert.ErrorContains(t, err, "http(s) or file URL")
}

// TestHTTPFile tests fetching a CSV over HTTP with headers
func TestHTTPFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer token" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Write([]byte("code\nAB-01\nCD-02\n"))
	}))
	defer server.Close()

	config := &sources.Config{
		Location: server.URL + "/codes.csv?version=2",
		Column:   "code",
		Headers:  map[string]string{"Authorization": "Bearer token"},
	}
	assert.Equal(t, []string{"AB-01", "CD-02"}, load(t, config))

	config.Headers = nil
	src, err := sources.NewSource(config)
	require.NoError(t, err)
	_, err = src.Load(context.Background())
	assert.ErrorContains(t, err, "status 401")
}

// TestHTMLSource tests selector and attribute extraction from a served page
func TestHTMLSource(t *testing.T) {
	page := `<html><body>
		<table id="orders">
			<tr><th>Order</th></tr>
			<tr><td class="id"> INV-0001 </td><td><a href="/o/1">view</a></td></tr>
			<tr><td class="id">INV-0002</td><td><a href="/o/2">view</a></td></tr>
			<tr><td class="id"></td><td><a>none</a></td></tr>
		</table></body></html>`
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(page))
	}))
	defer server.Close()

	values := load(t, &sources.Config{Kind: "html", Location: server.URL, Selector: "#orders td.id"})
	assert.Equal(t, []string{"INV-0001", "INV-0002"}, values)

	links := load(t, &sources.Config{Kind: "html", Location: server.URL, Selector: "td a", Attribute: "href"})
	assert.Equal(t, []string{"/o/1", "/o/2"}, links)

	path := writeFile(t, "page.html", page)
	values = load(t, &sources.Config{Kind: "html", Location: path, Selector: "th"})
	assert.Equal(t, []string{"Order"}, values)
}
