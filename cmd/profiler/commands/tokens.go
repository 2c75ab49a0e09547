/*
Author: KleaSCM
Email: KleaSCM@gmail.com
File: tokens.go
Description: Token inspection commands for the Akaylee Profiler. tokenize shows how values
break into fragments and tokens; list-tokens prints the token alphabet.
*/

package commands

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/kleascm/akaylee-profiler/pkg/patterns"
	"github.com/spf13/cobra"
)

// RunTokenize prints the fragments, template and regex of each argument
func RunTokenize(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	for i, value := range args {
		if i > 0 {
			fmt.Fprintln(out)
		}
		e := patterns.NewExpressionFromString(value)
		fmt.Fprintf(out, "%s\n", strconv.Quote(value))
		fmt.Fprintf(out, "  template: %s\n", e.CanonicalForm())
		fmt.Fprintf(out, "  regex:    %s\n", e.Regex(false))
		fmt.Fprintf(out, "  specificity: %.2f\n", e.Specificity())

		fragments := patterns.Tokenize(value)
		parts := make([]string, len(fragments))
		for j, f := range fragments {
			parts[j] = fmt.Sprintf("%s=%s", strconv.Quote(f.Text), f.Token.Symbol())
		}
		fmt.Fprintf(out, "  fragments: %s\n", strings.Join(parts, " "))
	}
	return nil
}

// ListTokens prints every token in precedence order
func ListTokens(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "TOKEN\tKIND\tSPECIFICITY\tREGEX")
	for _, tok := range patterns.Catalog().Tokens() {
		kind := "class"
		symbol := tok.Symbol()
		re := tok.Render(nil)
		if tok.IsDelimiter() {
			kind = "delimiter"
			symbol = strconv.Quote(symbol)
		}
		// raw tabs and newlines would break the table
		if strings.ContainsAny(re, "\t\n") {
			re = strconv.Quote(re)
		}
		fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", symbol, kind, tok.Specificity(), re)
	}
	return w.Flush()
}
