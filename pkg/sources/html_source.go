/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: html_source.go
Description: Source for HTML documents. Parses a local or fetched page with goquery and
collects the text (or an attribute) of every element matching a CSS selector, so table
columns and list items can be profiled directly.
*/

package sources

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// HTMLSource extracts values from static HTML
type HTMLSource struct {
	config Config
}

// NewHTMLSource creates a new HTMLSource. An empty selector selects table cells.
func NewHTMLSource(config *Config) *HTMLSource {
	c := *config
	if c.Selector == "" {
		c.Selector = "td"
	}
	return &HTMLSource{config: c}
}

// Name returns the page location and selector
func (s *HTMLSource) Name() string {
	return fmt.Sprintf("%s [%s]", s.config.Location, s.config.Selector)
}

// Load fetches the page and extracts the selected values
func (s *HTMLSource) Load(ctx context.Context) ([]string, error) {
	reader, err := open(ctx, s.config.Location, s.config.Headers, s.config.Timeout)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	values, err := extractHTML(reader, s.config.Selector, s.config.Attribute)
	if err != nil {
		return nil, err
	}
	if s.config.Unique {
		values = dedupe(values)
	}
	return values, nil
}

// extractHTML returns the trimmed text, or the attribute value when attribute is set,
// of every element matching selector. Empty values are skipped.
func extractHTML(r io.Reader, selector, attribute string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var values []string
	doc.Find(selector).Each(func(_ int, sel *goquery.Selection) {
		var value string
		if attribute != "" {
			v, ok := sel.Attr(attribute)
			if !ok {
				return
			}
			value = v
		} else {
			value = sel.Text()
		}
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	})
	return values, nil
}
