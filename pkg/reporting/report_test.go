/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: report_test.go
Description: Tests for report construction and JSON, YAML and HTML export.
*/

package reporting_test

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/kleascm/akaylee-profiler/pkg/patterns"
	"github.com/kleascm/akaylee-profiler/pkg/reporting"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func invoiceReport(t *testing.T) *reporting.Report {
	t.Helper()
	strs := []string{"INV-0001", "INV-0002", "INV-0003", "PO-0099", "<b>"}
	config := patterns.DefaultConfig()
	config.MinCoverage = 0.5
	config.SamplingIterations = 1
	config.MinExamples = 1

	set, err := patterns.AnalyzeTextPatterns(strs, config)
	require.NoError(t, err)
	return reporting.NewReport("invoices.txt", len(strs), config, set, true)
}

// TestNewReport tests report construction from an analyzed set
func TestNewReport(t *testing.T) {
	report := invoiceReport(t)

	_, err := uuid.Parse(report.SessionID)
	require.NoError(t, err)
	assert.Equal(t, "invoices.txt", report.Source)
	assert.Equal(t, 5, report.Values)
	assert.Equal(t, 1, report.Iterations)
	assert.Equal(t, 5, report.TotalSampled)
	assert.Equal(t, reporting.Version, report.Version)

	require.NotNil(t, report.Best)
	assert.Equal(t, "{upper}-{digits}", report.Best.Pattern)
	assert.InDelta(t, 0.8, report.Best.Coverage, 1e-12)
	assert.Equal(t, report.Patterns[0], *report.Best)
	assert.NotEmpty(t, report.Best.Histograms)
}

// TestNewReportEmpty tests a report with no qualifying pattern
func TestNewReportEmpty(t *testing.T) {
	report := reporting.NewReport("empty", 0, nil, patterns.NewExpressionSet(0.8), false)
	assert.Nil(t, report.Best)
	assert.Empty(t, report.Patterns)
	assert.Equal(t, 0.8, report.Config.MinCoverage)

	var buf bytes.Buffer
	require.NoError(t, report.WriteHTML(&buf))
	assert.Contains(t, buf.String(), "No pattern reached coverage 80.0%")
}

// TestWriteJSON tests the JSON encoding
func TestWriteJSON(t *testing.T) {
	report := invoiceReport(t)

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, "json"))

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report.SessionID, decoded["session_id"])
	assert.Equal(t, 0.5, decoded["config"].(map[string]interface{})["min_coverage"])

	best := decoded["best"].(map[string]interface{})
	assert.Equal(t, "[A-Z]{2,3}-[0-9]{4}", best["regex"])
}

// TestWriteYAML tests the YAML encoding
func TestWriteYAML(t *testing.T) {
	report := invoiceReport(t)

	var buf bytes.Buffer
	require.NoError(t, report.Write(&buf, "yml"))

	var decoded struct {
		SessionID string                       `yaml:"session_id"`
		Patterns  []patterns.ExpressionSummary `yaml:"patterns"`
	}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, report.SessionID, decoded.SessionID)
	require.NotEmpty(t, decoded.Patterns)
	assert.Equal(t, "{upper}2-3-{digits}4", decoded.Patterns[0].Annotated)
	assert.Equal(t, report.Patterns[0].Histograms, decoded.Patterns[0].Histograms)
}

// TestWriteHTML tests the HTML page and escaping of values
func TestWriteHTML(t *testing.T) {
	report := invoiceReport(t)

	var buf bytes.Buffer
	require.NoError(t, report.WriteHTML(&buf))
	page := buf.String()

	assert.Contains(t, page, report.SessionID)
	assert.Contains(t, page, `id="patterns"`)
	assert.Contains(t, page, "{upper}2-3-{digits}4")
	assert.Contains(t, page, "80.0%")
	assert.NotContains(t, page, "<b>")
}

// TestSave tests timestamped file output in every format
func TestSave(t *testing.T) {
	report := invoiceReport(t)
	dir := filepath.Join(t.TempDir(), "reports")

	for _, format := range []string{"json", "YAML", "html"} {
		path, err := report.Save(dir, format)
		require.NoError(t, err)

		name := filepath.Base(path)
		assert.True(t, strings.HasPrefix(name, report.GeneratedAt.Format("2006-01-02_15-04-05")+"_profile_"+report.SessionID[:8]))
		assert.Equal(t, "."+strings.ToLower(format), filepath.Ext(name))

		info, err := os.Stat(path)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	_, err := report.Save(dir, "pdf")
	assert.Error(t, err)
	assert.Error(t, report.Write(&bytes.Buffer{}, "pdf"))
}

// TestSaveJSON tests the generic JSON result writer
func TestSaveJSON(t *testing.T) {
	dir := t.TempDir()
	path, err := reporting.SaveJSON(dir, "grammar", map[string]int{"fields": 3})
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(path, "_grammar.json"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"fields": 3}`, string(data))
}
