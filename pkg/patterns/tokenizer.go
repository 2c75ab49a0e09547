/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: tokenizer.go
Description: Tokenizer for format template discovery. Splits a raw string on the delimiter
alphabet, keeps the delimiters as their own fragments, and classifies every fragment
against the token catalog.
*/

package patterns

import "unicode/utf8"

// Fragment is one piece of a tokenized string together with its classification
type Fragment struct {
	Text  string
	Token Token
}

// Split breaks s into maximal non-delimiter runs and single delimiters.
// Empty runs between adjacent delimiters are dropped.
func Split(s string) []string {
	if s == "" {
		return nil
	}

	catalog := Catalog()
	parts := make([]string, 0, 8)
	start := 0
	// Every delimiter is a single ASCII byte, which never occurs inside a multi-byte rune.
	for i := 0; i < len(s); i++ {
		if s[i] >= utf8.RuneSelf || !catalog.IsDelimiter(s[i:i+1]) {
			continue
		}
		if i > start {
			parts = append(parts, s[start:i])
		}
		parts = append(parts, s[i:i+1])
		start = i + 1
	}
	if start < len(s) {
		parts = append(parts, s[start:])
	}
	return parts
}

// Tokenize splits s and classifies each fragment
func Tokenize(s string) []Fragment {
	parts := Split(s)
	catalog := Catalog()
	fragments := make([]Fragment, len(parts))
	for i, part := range parts {
		fragments[i] = Fragment{Text: part, Token: catalog.Classify(part)}
	}
	return fragments
}

// Parse returns the ordered token sequence for s. The empty string yields an empty sequence.
func Parse(s string) []Token {
	parts := Split(s)
	catalog := Catalog()
	tokens := make([]Token, len(parts))
	for i, part := range parts {
		tokens[i] = catalog.Classify(part)
	}
	return tokens
}
