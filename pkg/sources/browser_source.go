/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: browser_source.go
Description: Source for JavaScript-rendered pages. Drives headless Chrome through chromedp,
applies extra request headers, waits for the content to appear and hands the rendered DOM
to the HTML extractor.
*/

package sources

import (
	"context"
	"fmt"
	"strings"

	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// BrowserSource renders a page in headless Chrome before extracting values
type BrowserSource struct {
	config Config
}

// NewBrowserSource creates a new BrowserSource. An empty selector selects table cells.
func NewBrowserSource(config *Config) *BrowserSource {
	c := *config
	if c.Selector == "" {
		c.Selector = "td"
	}
	return &BrowserSource{config: c}
}

// Name returns the page URL and selector
func (s *BrowserSource) Name() string {
	return fmt.Sprintf("%s [%s] (browser)", s.config.Location, s.config.Selector)
}

// Load renders the page and extracts the selected values
func (s *BrowserSource) Load(ctx context.Context) ([]string, error) {
	if !isRemote(s.config.Location) && !strings.HasPrefix(s.config.Location, "file://") {
		return nil, fmt.Errorf("browser source needs an http(s) or file URL, got %q", s.config.Location)
	}

	html, err := s.render(ctx)
	if err != nil {
		return nil, err
	}

	values, err := extractHTML(strings.NewReader(html), s.config.Selector, s.config.Attribute)
	if err != nil {
		return nil, err
	}
	if s.config.Unique {
		values = dedupe(values)
	}
	return values, nil
}

// render returns the outer HTML of the document once it is ready
func (s *BrowserSource) render(ctx context.Context) (string, error) {
	timeout := s.config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, chromedp.DefaultExecAllocatorOptions[:]...)
	defer allocCancel()
	browserCtx, browserCancel := chromedp.NewContext(allocCtx)
	defer browserCancel()

	actions := []chromedp.Action{network.Enable()}
	if len(s.config.Headers) > 0 {
		headers := make(network.Headers, len(s.config.Headers))
		for k, v := range s.config.Headers {
			headers[k] = v
		}
		actions = append(actions, network.SetExtraHTTPHeaders(headers))
	}

	waitFor := s.config.WaitFor
	if waitFor == "" {
		waitFor = "body"
	}
	var html string
	actions = append(actions,
		chromedp.Navigate(s.config.Location),
		chromedp.WaitReady(waitFor, chromedp.ByQuery),
		chromedp.OuterHTML("html", &html, chromedp.ByQuery),
	)

	if err := chromedp.Run(browserCtx, actions...); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", s.config.Location, err)
	}
	return html, nil
}
