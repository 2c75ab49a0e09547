/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: commands_test.go
Description: Tests for the profiler commands. Runs the command tree end to end against temp
files and checks configuration translation from viper settings.
*/

package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/kleascm/akaylee-profiler/pkg/inference"
	"github.com/kleascm/akaylee-profiler/pkg/patterns"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// execute runs the command tree with fresh viper state and returns stdout
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	t.Cleanup(viper.Reset)

	root := NewRootCommand()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

// TestAnalyzeCommand tests discovery, summary output and report files
func TestAnalyzeCommand(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "invoices.txt")
	require.NoError(t, os.WriteFile(input, []byte("INV-0001\nINV-0002\nINV-0003\nPO-0099\nXX\n"), 0644))
	reportDir := filepath.Join(dir, "reports")

	out, err := execute(t, "analyze", input,
		"--iterations", "1", "--min-examples", "1", "--min-coverage", "0.5",
		"--report", "json,html", "--report-dir", reportDir, "--log-level", "error")
	require.NoError(t, err)

	assert.Contains(t, out, "(5 values)")
	assert.Contains(t, out, "{upper}2-3-{digits}4")
	assert.Contains(t, out, "coverage=0.800")
	assert.Equal(t, 2, strings.Count(out, "Report written: "))

	files, err := filepath.Glob(filepath.Join(reportDir, "*_profile_*"))
	require.NoError(t, err)
	assert.Len(t, files, 2)
}

// TestAnalyzeCommandNoPattern tests the no-result path
func TestAnalyzeCommandNoPattern(t *testing.T) {
	input := filepath.Join(t.TempDir(), "mixed.txt")
	require.NoError(t, os.WriteFile(input, []byte("a\n12\nB-3\n"), 0644))

	out, err := execute(t, "analyze", "--source", input, "--min-coverage", "0.9", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "No pattern reached coverage 0.90")
}

// TestAnalyzeCommandErrors tests missing sources and invalid settings
func TestAnalyzeCommandErrors(t *testing.T) {
	_, err := execute(t, "analyze", "--log-level", "error")
	assert.ErrorContains(t, err, "no source given")

	_, err = execute(t, "analyze", "missing.txt", "--sample-size", "0", "--log-level", "error")
	assert.ErrorIs(t, err, patterns.ErrInvalidConfig)

	_, err = execute(t, "analyze", filepath.Join(t.TempDir(), "missing.txt"), "--log-level", "error")
	assert.Error(t, err)
}

// TestTokenizeCommand tests the fragment listing
func TestTokenizeCommand(t *testing.T) {
	out, err := execute(t, "tokenize", "INV-0001", "Main St")
	require.NoError(t, err)

	assert.Contains(t, out, "template: {upper}-{digits}")
	assert.Contains(t, out, "regex:    [A-Z]+-[0-9]+")
	assert.Contains(t, out, `fragments: "INV"={upper} "-"=- "0001"={digits}`)
	assert.Contains(t, out, "template: {title} {title}")
}

// TestListTokensCommand tests the alphabet listing
func TestListTokensCommand(t *testing.T) {
	out, err := execute(t, "list-tokens")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Len(t, lines, 1+len(patterns.Catalog().Tokens()))
	assert.Contains(t, out, `"\n"`)
	assert.Contains(t, out, "{digits}")
	assert.Contains(t, out, "[0-9]+")
}

// TestInferGrammarCommand tests JSON and text corpora
func TestInferGrammarCommand(t *testing.T) {
	corpus := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(corpus, "a.jsonl"), []byte(
		"{\"id\": \"INV-0001\", \"status\": \"paid\"}\n{\"id\": \"INV-0002\", \"status\": \"open\"}\n"), 0644))
	outputDir := filepath.Join(t.TempDir(), "grammars")

	out, err := execute(t, "infer-grammar", "--corpus-dir", corpus, "--output-dir", outputDir,
		"--iterations", "1", "--min-examples", "1", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Format: json")
	assert.Contains(t, out, "status: string enum=[open, paid]")
	assert.Contains(t, out, "Grammar saved to: ")

	files, err := filepath.Glob(filepath.Join(outputDir, "*_grammar_json.json"))
	require.NoError(t, err)
	assert.Len(t, files, 1)

	text := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(text, "dates.txt"), []byte("2024-01-05\n2023-12-31\n1999-07-04\n"), 0644))
	out, err = execute(t, "infer-grammar", "--corpus-dir", text, "--output-dir", outputDir,
		"--iterations", "1", "--min-examples", "1", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "Format: text")
	assert.Contains(t, out, "Best template: {digits}-{digits}-{digits}")

	_, err = execute(t, "infer-grammar", "--corpus-dir", t.TempDir(), "--log-level", "error")
	assert.ErrorIs(t, err, inference.ErrNoSamples)
}

// TestAnalysisConfig tests translation of analysis.* settings
func TestAnalysisConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	config, err := analysisConfig()
	require.NoError(t, err)
	assert.Equal(t, patterns.DefaultConfig(), config)

	viper.Set("analysis.min_coverage", 0.6)
	viper.Set("analysis.iterations", 3)
	viper.Set("analysis.seed", 7)
	config, err = analysisConfig()
	require.NoError(t, err)
	assert.Equal(t, 0.6, config.MinCoverage)
	assert.Equal(t, 3, config.SamplingIterations)
	assert.Equal(t, int64(7), config.RandomState)

	viper.Set("analysis.min_coverage", 1.5)
	_, err = analysisConfig()
	assert.ErrorIs(t, err, patterns.ErrInvalidConfig)
}

// TestSourceConfig tests source settings and header parsing
func TestSourceConfig(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set("source.location", "data.csv")
	viper.Set("source.column", "id")
	viper.Set("source.headers", []string{"Authorization: Bearer x", "X-Trace:1"})

	config, err := sourceConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, "data.csv", config.Location)
	assert.Equal(t, "id", config.Column)
	assert.Equal(t, map[string]string{"Authorization": "Bearer x", "X-Trace": "1"}, config.Headers)

	config, err = sourceConfig([]string{"other.txt"})
	require.NoError(t, err)
	assert.Equal(t, "other.txt", config.Location)

	viper.Set("source.headers", []string{"no-colon"})
	_, err = sourceConfig(nil)
	assert.Error(t, err)
}

// TestDetectFormat tests corpus format detection
func TestDetectFormat(t *testing.T) {
	assert.Equal(t, "json", detectFormat([][]byte{[]byte(`{"a": 1}`), []byte("[1, 2]\n"), []byte("  ")}))
	assert.Equal(t, "json", detectFormat([][]byte{[]byte("{\"a\": 1}\n{\"a\": 2}\n")}))
	assert.Equal(t, "text", detectFormat([][]byte{[]byte(`{"a": 1}`), []byte("plain words")}))
	assert.Equal(t, "text", detectFormat([][]byte{[]byte("42\n17\n")}))
	assert.Equal(t, "text", detectFormat([][]byte{[]byte("")}))
}
