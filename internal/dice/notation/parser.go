// Package notation parses dice notation such as "3d6", "4dF" or
// "7(d20+1)-L-2H" with a hand-written tokenizer and an LL(1) table-driven
// parser.
//
// Parsing yields the raw tokens captured for each value symbol; turning
// them into numbers and checking them is left to the dice package.
package notation

import (
	"fmt"
	"io"

	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
)

// maxExpansions bounds consecutive expansions on a single token. A well-formed
// table never comes close; hitting it means the table itself is broken.
const maxExpansions = 4 * int(symbolCount)

// ErrGrammar is matched by every grammar error.
var ErrGrammar = apperrors.New(apperrors.CodeNotationGrammar, "grammar error")

// Captures maps each value symbol to the tokens matched for it, in input
// order. A symbol that derived the empty string has no entry.
type Captures map[Symbol][]string

// Last returns the most recent token captured for sym.
func (c Captures) Last(sym Symbol) (string, bool) {
	tokens := c[sym]
	if len(tokens) == 0 {
		return "", false
	}
	return tokens[len(tokens)-1], true
}

// Parser drives the LL(1) table over a token stream. Each Parser owns its
// stack and captures, so parses never share mutable state.
type Parser struct {
	table      *Table
	stack      *Stack
	captures   Captures
	expansions int
}

// NewParser returns a parser whose stack holds only the start symbol.
func NewParser(table *Table) *Parser {
	if table == nil {
		table = DefaultTable()
	}
	return &Parser{
		table:    table,
		stack:    NewStack(SymbolStart),
		captures: Captures{},
	}
}

// Stack returns a copy of the pending symbols, bottom first.
func (p *Parser) Stack() []Symbol {
	return p.stack.Symbols()
}

// Step pops the top symbol and compares it with token. On a match the token
// is consumed (and captured for value symbols); otherwise the symbol is
// expanded and the same token must be offered again.
func (p *Parser) Step(token string) (consumed bool, err error) {
	sym, ok := p.stack.Pop()
	if !ok {
		return false, p.grammarError(token, "end of input")
	}

	if p.table.Match(sym, token) {
		if sym.IsValue() && token != "" {
			p.captures[sym] = append(p.captures[sym], token)
		}
		p.expansions = 0
		return true, nil
	}

	if !p.table.Expand(sym, token, p.stack) {
		return false, p.grammarError(token, sym.Describe())
	}
	p.expansions++
	if p.expansions > maxExpansions {
		return false, apperrors.WithMetadata(
			apperrors.CodeNotationGrammar,
			fmt.Sprintf("grammar table did not converge on %q (stack %s)", token, p.stack),
			map[string]string{"Token": token, "Expected": sym.Describe(), "Stack": p.stack.String()},
		)
	}
	return false, nil
}

// Feed steps until token is consumed.
func (p *Parser) Feed(token string) error {
	for {
		consumed, err := p.Step(token)
		if err != nil {
			return err
		}
		if consumed {
			return nil
		}
	}
}

// Finish ends the parse and returns the captures. The pending stack is
// accepted when every symbol on it can derive the empty string; otherwise
// it is drained against the end of input to report the first symbol that
// still needed a token.
func (p *Parser) Finish() (Captures, error) {
	if p.table.Accepts(p.stack.Symbols()) {
		p.stack = NewStack()
		return p.captures, nil
	}
	for p.stack.Len() > 0 {
		if _, err := p.Step(""); err != nil {
			return nil, err
		}
	}
	return nil, p.grammarError("", "a complete dice notation")
}

func (p *Parser) grammarError(token, expected string) error {
	near := fmt.Sprintf("token %q", token)
	if token == "" {
		near = "end of notation"
	}
	return apperrors.WithMetadata(
		apperrors.CodeNotationGrammar,
		fmt.Sprintf("unexpected %s: expected %s (stack %s)", near, expected, p.stack),
		map[string]string{
			"Token":    token,
			"Expected": expected,
			"Stack":    p.stack.String(),
		},
	)
}

// Parse tokenizes and parses input with the default table.
func Parse(input string) (Captures, error) {
	return ParseWith(DefaultTable(), input)
}

// ParseWith tokenizes and parses input with table.
func ParseWith(table *Table, input string) (Captures, error) {
	tokenizer := NewTokenizer(input)
	parser := NewParser(table)
	for {
		token, err := tokenizer.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if err := parser.Feed(token); err != nil {
			return nil, err
		}
	}
	return parser.Finish()
}
