/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Grammar inference command implementation for the Akaylee Profiler. Loads a
directory of sample files, detects whether it holds JSON records or plain text, runs the
matching inference engine and saves the grammar as JSON.
*/

package commands

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/kleascm/akaylee-profiler/pkg/inference"
	"github.com/kleascm/akaylee-profiler/pkg/reporting"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// PerformGrammarInference analyzes a corpus and infers its structure
func PerformGrammarInference(cmd *cobra.Command, args []string) error {
	if err := LoadConfig(); err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	logger, err := SetupLogging(cmd)
	if err != nil {
		return err
	}
	defer logger.Close()

	config, err := analysisConfig()
	if err != nil {
		return err
	}
	config.Logger = logger.GetLogger()

	corpusDir := viper.GetString("inference.corpus_dir")
	samples, err := loadCorpus(corpusDir)
	if err != nil {
		return err
	}
	logger.Info("Source corpus loaded", map[string]interface{}{
		"corpus_dir": corpusDir,
		"samples":    len(samples),
	})

	format := viper.GetString("inference.format")
	if format == "" || format == "auto" {
		format = detectFormat(samples)
		logger.Info("Source format detected", map[string]interface{}{"format": format})
	}

	engine, err := inference.NewEngine(format, config)
	if err != nil {
		return err
	}

	start := time.Now()
	grammar, err := engine.InferStructure(samples)
	if err != nil {
		return fmt.Errorf("inference failed: %w", err)
	}
	logger.Info("Pattern inference completed", map[string]interface{}{
		"format":   grammar.Format,
		"rules":    len(grammar.Rules),
		"duration": time.Since(start),
	})

	out := cmd.OutOrStdout()
	printGrammar(out, grammar)

	path, err := reporting.SaveJSON(viper.GetString("inference.output_dir"), "grammar_"+grammar.Format, grammar)
	if err != nil {
		return fmt.Errorf("failed to save grammar: %w", err)
	}
	logger.LogReport(path, "json")
	fmt.Fprintf(out, "Grammar saved to: %s\n", path)
	return nil
}

// loadCorpus reads every regular file directly inside dir
func loadCorpus(dir string) ([][]byte, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read corpus directory: %w", err)
	}

	var samples [][]byte
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		data, err := os.ReadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("failed to read sample %s: %w", entry.Name(), err)
		}
		samples = append(samples, data)
	}
	if len(samples) == 0 {
		return nil, fmt.Errorf("%w in %s", inference.ErrNoSamples, dir)
	}
	return samples, nil
}

// detectFormat picks json when every non-blank sample is a stream of JSON values
func detectFormat(samples [][]byte) string {
	seen := false
	for _, sample := range samples {
		if len(bytes.TrimSpace(sample)) == 0 {
			continue
		}
		if !isJSONStream(sample) {
			return "text"
		}
		seen = true
	}
	if seen {
		return "json"
	}
	return "text"
}

func isJSONStream(sample []byte) bool {
	dec := json.NewDecoder(bytes.NewReader(sample))
	values := 0
	for {
		var v json.RawMessage
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return values > 0
		}
		if err != nil {
			return false
		}
		// bare scalars are more likely text lines that happen to parse
		if t := bytes.TrimSpace(v); len(t) == 0 || (t[0] != '{' && t[0] != '[') {
			return false
		}
		values++
	}
}

// printGrammar shows each rule on one line, root first
func printGrammar(w io.Writer, grammar *inference.Grammar) {
	fmt.Fprintf(w, "Format: %s\n", grammar.Format)
	for _, key := range sortedMetadataKeys(grammar.Metadata) {
		fmt.Fprintf(w, "  %s: %v\n", key, grammar.Metadata[key])
	}

	names := make([]string, 0, len(grammar.Rules))
	for name := range grammar.Rules {
		if name != grammar.RootRule {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	if root, ok := grammar.Rules[grammar.RootRule].(map[string]interface{}); ok {
		if best, ok := root["best"]; ok {
			fmt.Fprintf(w, "Best template: %v\n", best)
			fmt.Fprintf(w, "Regex: %v\n", root["regex"])
		}
	}

	for _, name := range names {
		rule, ok := grammar.Rules[name].(map[string]interface{})
		if !ok {
			continue
		}
		fmt.Fprintf(w, "%s: %s", name, strings.Join(toStrings(rule["types"]), "|"))
		if required, ok := rule["required"].(bool); ok && !required {
			fmt.Fprint(w, " (optional)")
		}
		if enum, ok := rule["enum"].([]string); ok {
			fmt.Fprintf(w, " enum=[%s]", strings.Join(enum, ", "))
		}
		if lo, ok := rule["min"].(float64); ok {
			fmt.Fprintf(w, " range=[%v, %v]", lo, rule["max"])
		}
		if pattern, ok := rule["pattern"].(string); ok {
			fmt.Fprintf(w, " pattern=%s", pattern)
		}
		fmt.Fprintln(w)
	}
}

func sortedMetadataKeys(m map[string]interface{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func toStrings(v interface{}) []string {
	s, _ := v.([]string)
	return s
}
