/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: token.go
Description: Token catalog for format template discovery. Defines the fixed alphabet of
delimiter literals and semantic character classes, their specificity ranks, and the rules
used to render each token as a regular expression fragment with optional length bounds.
*/

package patterns

import (
	"fmt"
	"regexp"
)

// Specificity ranks. Literals are the most specific, the wildcard the least.
const (
	SpecificityLiteral  = 10
	SpecificityWildcard = 0
)

// maxRepeat is the largest bound RE2 accepts in a {n,m} quantifier.
const maxRepeat = 1000

// Class symbols
const (
	SymbolDigits = "{digits}"
	SymbolTitle  = "{title}"
	SymbolUpper  = "{upper}"
	SymbolLower  = "{lower}"
	SymbolAlpha  = "{alpha}"
	SymbolAlnum  = "{alnum}"
	SymbolAny    = "{any}"
)

// Token is one element of the classification alphabet.
// Tokens are immutable values handed out by the catalog.
type Token struct {
	symbol      string
	head        string // fixed leading fragment, e.g. the uppercase letter of {title}
	body        string // repeating character class, or the quoted literal for delimiters
	quantifier  string // open repetition used when no length range applies
	specificity int
	headLength  int
	delimiter   bool
	literal     string
	matcher     *regexp.Regexp
}

// Symbol returns the display symbol used in canonical forms
func (t Token) Symbol() string { return t.symbol }

// Specificity returns the 0-10 specificity rank
func (t Token) Specificity() int { return t.specificity }

// HeadLength returns the number of characters consumed before the repeating portion
func (t Token) HeadLength() int { return t.headLength }

// IsDelimiter reports whether the token is a single-character literal
func (t Token) IsDelimiter() bool { return t.delimiter }

// IsWildcard reports whether the token is the catch-all class
func (t Token) IsWildcard() bool { return t.symbol == SymbolAny }

// Literal returns the delimiter character, or "" for semantic classes
func (t Token) Literal() string { return t.literal }

// String implements fmt.Stringer
func (t Token) String() string { return t.symbol }

// Render returns the regex fragment for the token.
// A nil range yields the open quantifier. Otherwise the head length is taken off
// both bounds and an explicit {n} or {lo,hi} bound is emitted, unless the upper
// bound drops to 1 or below. Delimiters always render as their literal.
func (t Token) Render(r *LengthRange) string {
	if t.delimiter {
		return t.body
	}
	open := t.head + t.body + t.quantifier
	if r == nil {
		return open
	}

	lo := r.Min - t.headLength
	hi := r.Max - t.headLength
	if lo < 0 {
		lo = 0
	}
	if hi <= 1 || hi > maxRepeat {
		return open
	}
	if lo == hi {
		return fmt.Sprintf("%s%s{%d}", t.head, t.body, lo)
	}
	return fmt.Sprintf("%s%s{%d,%d}", t.head, t.body, lo, hi)
}

// Accepts reports whether a single tokenizer fragment can be consumed by this token
func (t Token) Accepts(fragment string) bool {
	if t.delimiter {
		return fragment == t.literal
	}
	return t.matcher.MatchString(fragment)
}

// TokenCatalog is the ordered, read-only alphabet.
// Delimiters come first, followed by semantic classes from most to least specific.
type TokenCatalog struct {
	tokens     []Token
	delimiters map[string]Token
	bySymbol   map[string]Token
	classes    []Token
	wildcard   Token
}

var defaultCatalog = newTokenCatalog()

// Catalog returns the process-wide token catalog
func Catalog() *TokenCatalog {
	return defaultCatalog
}

func newDelimiter(char string) Token {
	return Token{
		symbol:      char,
		body:        regexp.QuoteMeta(char),
		specificity: SpecificityLiteral,
		delimiter:   true,
		literal:     char,
	}
}

func newClass(symbol, head, body, quantifier string, specificity int) Token {
	t := Token{
		symbol:      symbol,
		head:        head,
		body:        body,
		quantifier:  quantifier,
		specificity: specificity,
	}
	if head != "" {
		t.headLength = 1
	}
	t.matcher = regexp.MustCompile("^(?:" + head + body + quantifier + ")$")
	return t
}

func newTokenCatalog() *TokenCatalog {
	delimiters := []string{",", "-", `"`, "'", "\n", "[", "(", `\`, ".", "]", ")", ":", ";", " ", "\t", "/"}
	classes := []Token{
		newClass(SymbolDigits, "", "[0-9]", "+", 8),
		newClass(SymbolTitle, "[A-Z]", "[a-z]", "+", 7),
		// upper and lower accept disjoint fragments and share a rank
		newClass(SymbolUpper, "", "[A-Z]", "+", 6),
		newClass(SymbolLower, "", "[a-z]", "+", 6),
		newClass(SymbolAlpha, "", "[A-Za-z]", "+", 4),
		newClass(SymbolAlnum, "", "[A-Za-z0-9]", "+", 2),
		newClass(SymbolAny, "", `[\s\S]`, "*", SpecificityWildcard),
	}

	c := &TokenCatalog{
		delimiters: make(map[string]Token, len(delimiters)),
		bySymbol:   make(map[string]Token, len(delimiters)+len(classes)),
		classes:    classes,
		wildcard:   classes[len(classes)-1],
	}
	for _, d := range delimiters {
		tok := newDelimiter(d)
		c.tokens = append(c.tokens, tok)
		c.delimiters[d] = tok
		c.bySymbol[d] = tok
	}
	for _, tok := range classes {
		c.tokens = append(c.tokens, tok)
		c.bySymbol[tok.symbol] = tok
	}
	return c
}

// Tokens returns every token in precedence order
func (c *TokenCatalog) Tokens() []Token {
	out := make([]Token, len(c.tokens))
	copy(out, c.tokens)
	return out
}

// Classes returns the semantic classes, most specific first
func (c *TokenCatalog) Classes() []Token {
	out := make([]Token, len(c.classes))
	copy(out, c.classes)
	return out
}

// Delimiters returns the delimiter tokens in catalog order
func (c *TokenCatalog) Delimiters() []Token {
	out := make([]Token, 0, len(c.delimiters))
	for _, tok := range c.tokens {
		if tok.delimiter {
			out = append(out, tok)
		}
	}
	return out
}

// Wildcard returns the catch-all class
func (c *TokenCatalog) Wildcard() Token {
	return c.wildcard
}

// Lookup finds a token by its display symbol
func (c *TokenCatalog) Lookup(symbol string) (Token, bool) {
	tok, ok := c.bySymbol[symbol]
	return tok, ok
}

// IsDelimiter reports whether the character splits fragments
func (c *TokenCatalog) IsDelimiter(char string) bool {
	_, ok := c.delimiters[char]
	return ok
}

// Classify returns the first token, in precedence order, matching the fragment.
// The wildcard guarantees a result for any input.
func (c *TokenCatalog) Classify(fragment string) Token {
	if tok, ok := c.delimiters[fragment]; ok {
		return tok
	}
	for _, tok := range c.classes {
		if tok.matcher.MatchString(fragment) {
			return tok
		}
	}
	return c.wildcard
}
