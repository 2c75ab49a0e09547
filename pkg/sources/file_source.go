/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: file_source.go
Description: Source for delimited and structured data files. Reads plain text (one value per
line), CSV (one column), JSON arrays and JSON Lines (one field per record) from local files,
stdin or HTTP(S) URLs.
*/

package sources

import (
	"bufio"
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"strconv"
	"strings"
)

// File formats understood by FileSource
const (
	FormatText  = "txt"
	FormatCSV   = "csv"
	FormatJSON  = "json"
	FormatJSONL = "jsonl"
)

// FileSource loads values from a text, CSV, JSON or JSON Lines document
type FileSource struct {
	config Config
}

// NewFileSource creates a new FileSource
func NewFileSource(config *Config) *FileSource {
	return &FileSource{config: *config}
}

// Name returns the location the source reads from
func (s *FileSource) Name() string { return s.config.Location }

// Format returns the configured format, or the one implied by the file extension
func (s *FileSource) Format() string {
	if s.config.Format != "" {
		return strings.ToLower(s.config.Format)
	}
	location := s.config.Location
	if i := strings.IndexAny(location, "?#"); i >= 0 && isRemote(location) {
		location = location[:i]
	}
	switch ext := strings.ToLower(strings.TrimPrefix(path.Ext(location), ".")); ext {
	case "csv", "json", "jsonl":
		return ext
	case "ndjson":
		return FormatJSONL
	default:
		return FormatText
	}
}

// Load reads and parses the document
func (s *FileSource) Load(ctx context.Context) ([]string, error) {
	format := s.Format()
	switch format {
	case FormatText, FormatCSV, FormatJSON, FormatJSONL:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}

	reader, err := open(ctx, s.config.Location, s.config.Headers, s.config.Timeout)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	var values []string
	switch format {
	case FormatCSV:
		values, err = readCSV(reader, s.config.Column)
	case FormatJSON:
		values, err = readJSON(reader, s.config.Field)
	case FormatJSONL:
		values, err = readJSONLines(reader, s.config.Field)
	default:
		values, err = readLines(reader)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s as %s: %w", s.config.Location, format, err)
	}

	if s.config.Unique {
		values = dedupe(values)
	}
	return values, nil
}

// readLines returns every non-empty line with the line terminator removed
func readLines(r io.Reader) ([]string, error) {
	var values []string
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line != "" {
			values = append(values, line)
		}
	}
	return values, scanner.Err()
}

// readCSV returns one column. A numeric column is an index and the first row is data;
// otherwise the first row is a header naming the column. Empty column means index 0.
func readCSV(r io.Reader, column string) ([]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	index, err := strconv.Atoi(column)
	byName := column != "" && err != nil
	if column == "" {
		index = 0
	}
	if index < 0 {
		return nil, fmt.Errorf("negative column index %d", index)
	}

	if byName {
		header, err := reader.Read()
		if err != nil {
			return nil, fmt.Errorf("failed to read header: %w", err)
		}
		index = -1
		for i, name := range header {
			if strings.TrimSpace(name) == column {
				index = i
				break
			}
		}
		if index < 0 {
			return nil, fmt.Errorf("column %q not found in header", column)
		}
	}

	var values []string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return values, nil
		}
		if err != nil {
			return nil, err
		}
		if index < len(record) && record[index] != "" {
			values = append(values, record[index])
		}
	}
}

// readJSON reads a single array (or one value) and extracts field from each element
func readJSON(r io.Reader, field string) ([]string, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	items, ok := doc.([]interface{})
	if !ok {
		items = []interface{}{doc}
	}
	return extract(items, field), nil
}

// readJSONLines decodes one value per non-blank line
func readJSONLines(r io.Reader, field string) ([]string, error) {
	lines, err := readLines(r)
	if err != nil {
		return nil, err
	}

	items := make([]interface{}, 0, len(lines))
	for n, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		dec := json.NewDecoder(bytes.NewReader([]byte(line)))
		dec.UseNumber()
		var v interface{}
		if err := dec.Decode(&v); err != nil {
			return nil, fmt.Errorf("line %d: %w", n+1, err)
		}
		items = append(items, v)
	}
	return extract(items, field), nil
}

func extract(items []interface{}, field string) []string {
	var values []string
	for _, item := range items {
		v, ok := lookupField(item, field)
		if !ok {
			continue
		}
		if s, ok := scalarString(v); ok {
			values = append(values, s)
		}
	}
	return values
}
