/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: json_inference.go
Description: JSON structure inference engine. Decodes records from JSON documents or JSON
Lines, flattens them into dotted field paths and profiles every path: types seen, presence,
numeric ranges, small enums, and a discovered format template for free-form strings.
*/

package inference

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"

	"github.com/kleascm/akaylee-profiler/pkg/patterns"
)

// JSON value types
const (
	TypeNull   = "null"
	TypeBool   = "bool"
	TypeNumber = "number"
	TypeString = "string"
	TypeArray  = "array"
	TypeObject = "object"
)

const (
	// maxEnumValues is the largest distinct-value count reported as an enum
	maxEnumValues = 10
	// maxPatternValues bounds the strings kept per field for pattern discovery
	maxPatternValues = 10000
)

// FieldProfile holds what was observed at one field path across records
type FieldProfile struct {
	Path     string
	Types    map[string]int
	Present  int // records containing the path
	Min, Max *float64

	values     map[string]int // distinct scalar values until the enum limit is exceeded
	overflow   bool
	strs       []string
	lastRecord int
}

func newFieldProfile(path string) *FieldProfile {
	return &FieldProfile{
		Path:       path,
		Types:      make(map[string]int),
		values:     make(map[string]int),
		lastRecord: -1,
	}
}

// observe records one value seen at this path in record n
func (p *FieldProfile) observe(record int, kind string) {
	p.Types[kind]++
	if p.lastRecord != record {
		p.Present++
		p.lastRecord = record
	}
}

func (p *FieldProfile) observeScalar(value string) {
	if p.overflow {
		return
	}
	if _, ok := p.values[value]; !ok && len(p.values) == maxEnumValues {
		p.overflow = true
		p.values = nil
		return
	}
	p.values[value]++
}

func (p *FieldProfile) observeNumber(v float64) {
	if p.Min == nil || v < *p.Min {
		lo := v
		p.Min = &lo
	}
	if p.Max == nil || v > *p.Max {
		hi := v
		p.Max = &hi
	}
}

// Enum returns the sorted distinct values when there are few enough of them
func (p *FieldProfile) Enum() ([]string, bool) {
	if p.overflow || len(p.values) == 0 {
		return nil, false
	}
	enum := make([]string, 0, len(p.values))
	for v := range p.values {
		enum = append(enum, v)
	}
	sort.Strings(enum)
	return enum, true
}

// JSONInferenceEngine profiles fields of JSON records
type JSONInferenceEngine struct {
	config *patterns.Config
}

// NewJSONInferenceEngine creates a new JSON inference engine
func NewJSONInferenceEngine(config *patterns.Config) *JSONInferenceEngine {
	if config == nil {
		config = patterns.DefaultConfig()
	}
	return &JSONInferenceEngine{config: config}
}

// InferStructure decodes every record in the samples and builds per-field rules
func (e *JSONInferenceEngine) InferStructure(samples [][]byte) (*Grammar, error) {
	if len(samples) == 0 {
		return nil, ErrNoSamples
	}

	var records []interface{}
	for i, sample := range samples {
		decoded, err := decodeRecords(sample)
		if err != nil {
			return nil, fmt.Errorf("failed to parse sample %d: %w", i, err)
		}
		records = append(records, decoded...)
	}
	if len(records) == 0 {
		return nil, ErrNoSamples
	}

	grammar := newGrammar(e.Format())
	var paths []string
	for _, profile := range Profile(records) {
		rule, err := e.synthesizeRule(profile, len(records))
		if err != nil {
			return nil, err
		}
		grammar.Rules[profile.Path] = rule
		if profile.Path != "" {
			paths = append(paths, profile.Path)
		}
	}

	root := map[string]interface{}{"fields": paths}
	if rule, ok := grammar.Rules[""]; ok {
		root["value"] = rule
		delete(grammar.Rules, "")
	}
	grammar.Rules[grammar.RootRule] = root
	grammar.Metadata["samples"] = len(samples)
	grammar.Metadata["records"] = len(records)
	return grammar, nil
}

// Format returns the format handled by this engine
func (e *JSONInferenceEngine) Format() string {
	return "json"
}

// Profile flattens records and returns the profile of every field path, sorted by path
func Profile(records []interface{}) []*FieldProfile {
	profiles := make(map[string]*FieldProfile)
	for n, record := range records {
		flatten(record, "", n, profiles)
	}
	out := make([]*FieldProfile, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// decodeRecords reads consecutive JSON values; a top-level array contributes its elements
func decodeRecords(sample []byte) ([]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(sample))
	dec.UseNumber()

	var records []interface{}
	for {
		var v interface{}
		err := dec.Decode(&v)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, err
		}
		if arr, ok := v.([]interface{}); ok {
			records = append(records, arr...)
			continue
		}
		records = append(records, v)
	}
}

// flatten walks a value, profiling it at path. Object keys join with ".", array elements add "[]".
func flatten(v interface{}, path string, record int, profiles map[string]*FieldProfile) {
	profile, ok := profiles[path]
	if !ok {
		profile = newFieldProfile(path)
		profiles[path] = profile
	}

	switch val := v.(type) {
	case nil:
		profile.observe(record, TypeNull)
	case bool:
		profile.observe(record, TypeBool)
		profile.observeScalar(strconv.FormatBool(val))
	case json.Number:
		profile.observe(record, TypeNumber)
		if f, err := val.Float64(); err == nil {
			profile.observeNumber(f)
		}
	case float64:
		profile.observe(record, TypeNumber)
		profile.observeNumber(val)
	case string:
		profile.observe(record, TypeString)
		profile.observeScalar(val)
		if len(profile.strs) < maxPatternValues {
			profile.strs = append(profile.strs, val)
		}
	case []interface{}:
		profile.observe(record, TypeArray)
		for _, elem := range val {
			flatten(elem, path+"[]", record, profiles)
		}
	case map[string]interface{}:
		profile.observe(record, TypeObject)
		for key, child := range val {
			childPath := key
			if path != "" {
				childPath = path + "." + key
			}
			flatten(child, childPath, record, profiles)
		}
	}
}

// synthesizeRule builds a rule from a field profile
func (e *JSONInferenceEngine) synthesizeRule(p *FieldProfile, records int) (map[string]interface{}, error) {
	types := make([]string, 0, len(p.Types))
	for t := range p.Types {
		types = append(types, t)
	}
	sort.Strings(types)

	rule := map[string]interface{}{
		"types":    types,
		"present":  p.Present,
		"required": p.Present == records,
	}
	if p.Min != nil {
		rule["min"] = *p.Min
		rule["max"] = *p.Max
	}

	scalarOnly := len(types) == 1 && (types[0] == TypeString || types[0] == TypeBool)
	if enum, ok := p.Enum(); ok && scalarOnly {
		rule["enum"] = enum
		return rule, nil
	}

	if len(p.strs) > 0 {
		set, err := patterns.AnalyzeTextPatterns(p.strs, e.config)
		if err != nil {
			return nil, fmt.Errorf("failed to analyze field %q: %w", p.Path, err)
		}
		if best, ok := set.BestExpression(); ok {
			rule["pattern"] = best.CanonicalForm()
			rule["regex"] = best.Regex(true)
			rule["coverage"] = best.Coverage()
		}
	}
	return rule, nil
}
