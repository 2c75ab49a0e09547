/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: inference.go
Description: Main entry point for corpus structure inference. Provides the InferenceEngine
interface, the Grammar result shared by all engines and the engine factory. Text corpora are
profiled as newline-separated values, JSON corpora as records with per-field profiles.
*/

package inference

import (
	"errors"
	"fmt"

	"github.com/kleascm/akaylee-profiler/pkg/patterns"
)

// ErrNoSamples is returned when an engine is given an empty corpus
var ErrNoSamples = errors.New("no samples provided")

// InferenceEngine defines the interface for structure inference engines
type InferenceEngine interface {
	InferStructure(samples [][]byte) (*Grammar, error)
	Format() string
}

// Grammar represents an inferred structure
type Grammar struct {
	Format   string                 `json:"format"`    // "text" or "json"
	RootRule string                 `json:"root_rule"` // Name of the root rule
	Rules    map[string]interface{} `json:"rules"`
	Metadata map[string]interface{} `json:"metadata"`
}

func newGrammar(format string) *Grammar {
	return &Grammar{
		Format:   format,
		RootRule: "root",
		Rules:    make(map[string]interface{}),
		Metadata: make(map[string]interface{}),
	}
}

// NewEngine returns an inference engine for the given format.
// A nil config uses patterns.DefaultConfig.
func NewEngine(format string, config *patterns.Config) (InferenceEngine, error) {
	switch format {
	case "text":
		return NewTextInferenceEngine(config), nil
	case "json":
		return NewJSONInferenceEngine(config), nil
	default:
		return nil, fmt.Errorf("unsupported inference format: %q", format)
	}
}

// Formats lists the formats NewEngine accepts
func Formats() []string {
	return []string{"text", "json"}
}
