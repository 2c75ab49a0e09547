/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report.go
Description: Profiling reports for the Akaylee Profiler. Builds a session-stamped report from
an analyzed ExpressionSet and exports it as JSON, YAML or a standalone HTML page, writing
files under timestamped names in an output directory.
*/

package reporting

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-profiler/pkg/patterns"
	"gopkg.in/yaml.v3"
)

// Version is stamped into every report
const Version = "1.0.0"

// Report formats
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatHTML = "html"
)

// Report is the exported result of one profiling run
type Report struct {
	Title        string                       `json:"title" yaml:"title"`
	SessionID    string                       `json:"session_id" yaml:"session_id"`
	GeneratedAt  time.Time                    `json:"generated_at" yaml:"generated_at"`
	Version      string                       `json:"version" yaml:"version"`
	Source       string                       `json:"source" yaml:"source"`
	Values       int                          `json:"values" yaml:"values"`
	Config       *patterns.Config             `json:"config" yaml:"config"`
	Iterations   int                          `json:"iterations" yaml:"iterations"`
	TotalSampled int                          `json:"total_sampled" yaml:"total_sampled"`
	Candidates   int                          `json:"candidates" yaml:"candidates"`
	Best         *patterns.ExpressionSummary  `json:"best,omitempty" yaml:"best,omitempty"`
	Patterns     []patterns.ExpressionSummary `json:"patterns" yaml:"patterns"`
}

// NewReport builds a report from an analyzed set. values is the population size.
func NewReport(source string, values int, config *patterns.Config, set *patterns.ExpressionSet, includeHistograms bool) *Report {
	if config == nil {
		config = patterns.DefaultConfig()
	}
	iterations, sampled := set.ExperimentStatistics()

	r := &Report{
		Title:        fmt.Sprintf("Pattern profile of %s", source),
		SessionID:    uuid.New().String(),
		GeneratedAt:  time.Now(),
		Version:      Version,
		Source:       source,
		Values:       values,
		Config:       config,
		Iterations:   iterations,
		TotalSampled: sampled,
		Candidates:   set.Len(),
		Patterns:     set.Summaries(includeHistograms),
	}
	if len(r.Patterns) > 0 {
		best := r.Patterns[0]
		r.Best = &best
	}
	return r
}

// WriteJSON writes the report as indented JSON
func (r *Report) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}

// WriteYAML writes the report as YAML
func (r *Report) WriteYAML(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode YAML report: %w", err)
	}
	return enc.Close()
}

// WriteHTML renders the report as a standalone HTML page
func (r *Report) WriteHTML(w io.Writer) error {
	if err := reportTemplate.Execute(w, r); err != nil {
		return fmt.Errorf("failed to execute template: %w", err)
	}
	return nil
}

// Write encodes the report in the given format
func (r *Report) Write(w io.Writer, format string) error {
	switch strings.ToLower(format) {
	case FormatJSON:
		return r.WriteJSON(w)
	case FormatYAML, "yml":
		return r.WriteYAML(w)
	case FormatHTML:
		return r.WriteHTML(w)
	default:
		return fmt.Errorf("unsupported report format: %s", format)
	}
}

// Save writes the report into dir as 2006-01-02_15-04-05_profile_<session>.<format>
// and returns the file path
func (r *Report) Save(dir, format string) (string, error) {
	format = strings.ToLower(format)
	if format == "yml" {
		format = FormatYAML
	}
	switch format {
	case FormatJSON, FormatYAML, FormatHTML:
	default:
		return "", fmt.Errorf("unsupported report format: %s", format)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	session := r.SessionID
	if len(session) > 8 {
		session = session[:8]
	}
	filename := fmt.Sprintf("%s_profile_%s.%s", r.GeneratedAt.Format("2006-01-02_15-04-05"), session, format)
	path := filepath.Join(dir, filename)

	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := r.Write(file, format); err != nil {
		return "", err
	}
	return path, nil
}

// SaveJSON writes any result into dir as 2006-01-02_15-04-05_<kind>.json and returns the path
func SaveJSON(dir, kind string, result interface{}) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filename := fmt.Sprintf("%s_%s.json", time.Now().Format("2006-01-02_15-04-05"), kind)
	path := filepath.Join(dir, filename)

	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write result file: %w", err)
	}
	return path, nil
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"percent": func(f float64) string { return fmt.Sprintf("%.1f%%", f*100) },
	"fixed":   func(f float64) string { return fmt.Sprintf("%.2f", f) },
}).Parse(reportHTML))
