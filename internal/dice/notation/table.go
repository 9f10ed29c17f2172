package notation

import (
	"fmt"
	"strings"
)

const fateMarker = 'F'

// tokenClass is the lexical category of a token, used for FIRST and FOLLOW
// sets. Matching itself goes through the per-symbol predicates.
type tokenClass int

const (
	classNone tokenClass = iota
	classEnd
	classInt
	classDieSize
	classSignedInt
	classDropHigh
	classDropLow
	classOpenParen
	classCloseParen
	classOther
)

type classSet uint16

func (s classSet) has(c tokenClass) bool { return s&(1<<c) != 0 }
func (s classSet) with(c tokenClass) classSet {
	return s | 1<<c
}

// rule describes one symbol of the grammar. A symbol with a match class is
// matched directly against a token; alternatives are its expansions, where
// an empty alternative derives the empty string.
type rule struct {
	match        tokenClass
	alternatives [][]Symbol
}

// rules is the dice notation grammar:
//
//	start      ::= die-num die-type global-mod drop-mod
//	die-type   ::= die-size | "(" die-size local-mod ")"
//	die-size   ::= "d" <int> | "dF"
//	local-mod  ::= ("+"|"-") <int> | ""
//	global-mod ::= ("+"|"-") <int> | ""
//	drop-mod   ::= drop-high drop-mod | drop-low drop-mod | ""
//	drop-high  ::= "-" [<int>] ("H"|"h")
//	drop-low   ::= "-" [<int>] ("L"|"l")
//	die-num    ::= <int>
var rules = [symbolCount]rule{
	SymbolStart: {alternatives: [][]Symbol{
		{SymbolDieNum, SymbolDieType, SymbolGlobalMod, SymbolDropMod},
	}},
	SymbolDieType: {alternatives: [][]Symbol{
		{SymbolDieSize},
		{SymbolOpenParen, SymbolDieSize, SymbolLocalMod, SymbolCloseParen},
	}},
	SymbolDieNum:    {match: classInt},
	SymbolDieSize:   {match: classDieSize},
	SymbolLocalMod:  {match: classSignedInt, alternatives: [][]Symbol{{}}},
	SymbolGlobalMod: {match: classSignedInt, alternatives: [][]Symbol{{}}},
	SymbolDropMod: {alternatives: [][]Symbol{
		{SymbolDropHigh, SymbolDropMod},
		{SymbolDropLow, SymbolDropMod},
		{},
	}},
	SymbolDropHigh:   {match: classDropHigh},
	SymbolDropLow:    {match: classDropLow},
	SymbolOpenParen:  {match: classOpenParen},
	SymbolCloseParen: {match: classCloseParen},
}

// Table is the LL(1) table for dice notation: a direct-match predicate and an
// expansion action per symbol, plus the NULLABLE/FIRST/FOLLOW sets derived
// from the grammar. A Table is immutable and safe for concurrent use; parse
// state lives in Parser.
type Table struct {
	nullable [symbolCount]bool
	first    [symbolCount]classSet
	follow   [symbolCount]classSet
}

var defaultTable = NewTable()

// DefaultTable returns the shared dice notation table.
func DefaultTable() *Table {
	return defaultTable
}

// NewTable builds the table and computes its grammar sets.
func NewTable() *Table {
	t := &Table{}
	t.computeNullable()
	t.computeFirst()
	t.computeFollow()
	return t
}

func (t *Table) computeNullable() {
	for changed := true; changed; {
		changed = false
		for sym := Symbol(0); sym < symbolCount; sym++ {
			if t.nullable[sym] {
				continue
			}
			for _, alt := range rules[sym].alternatives {
				if t.sequenceNullable(alt) {
					t.nullable[sym] = true
					changed = true
					break
				}
			}
		}
	}
}

func (t *Table) computeFirst() {
	for sym := Symbol(0); sym < symbolCount; sym++ {
		if match := rules[sym].match; match != classNone {
			t.first[sym] = t.first[sym].with(match)
		}
	}
	for changed := true; changed; {
		changed = false
		for sym := Symbol(0); sym < symbolCount; sym++ {
			for _, alt := range rules[sym].alternatives {
				next := t.first[sym] | t.sequenceFirst(alt)
				if next != t.first[sym] {
					t.first[sym] = next
					changed = true
				}
			}
		}
	}
}

func (t *Table) computeFollow() {
	t.follow[SymbolStart] = t.follow[SymbolStart].with(classEnd)
	for changed := true; changed; {
		changed = false
		for sym := Symbol(0); sym < symbolCount; sym++ {
			for _, alt := range rules[sym].alternatives {
				for i, member := range alt {
					rest := alt[i+1:]
					next := t.follow[member] | t.sequenceFirst(rest)
					if t.sequenceNullable(rest) {
						next |= t.follow[sym]
					}
					if next != t.follow[member] {
						t.follow[member] = next
						changed = true
					}
				}
			}
		}
	}
}

func (t *Table) sequenceNullable(seq []Symbol) bool {
	for _, sym := range seq {
		if !t.nullable[sym] {
			return false
		}
	}
	return true
}

func (t *Table) sequenceFirst(seq []Symbol) classSet {
	var set classSet
	for _, sym := range seq {
		set |= t.first[sym]
		if !t.nullable[sym] {
			break
		}
	}
	return set
}

// Nullable reports whether sym can derive the empty string.
func (t *Table) Nullable(sym Symbol) bool {
	return t.nullable[sym]
}

// CanStart reports whether token can begin a derivation of sym.
func (t *Table) CanStart(sym Symbol, token string) bool {
	return t.first[sym].has(classify(token))
}

// CanFollow reports whether token may appear right after sym; the empty
// token stands for the end of input.
func (t *Table) CanFollow(sym Symbol, token string) bool {
	return t.follow[sym].has(classify(token))
}

// Accepts reports whether a leftover stack may be discarded at the end of
// input, which holds when every pending symbol can derive the empty string.
func (t *Table) Accepts(stack []Symbol) bool {
	return t.sequenceNullable(stack)
}

// Match reports whether token matches sym directly. Structural symbols never
// match, which forces an expansion.
func (t *Table) Match(sym Symbol, token string) bool {
	switch sym {
	case SymbolDieNum:
		return isDigits(token)
	case SymbolDieSize:
		return isDieSize(token)
	case SymbolLocalMod, SymbolGlobalMod:
		return token == "" || isSignedInt(token)
	case SymbolDropHigh:
		return isDrop(token, 'H', 'h')
	case SymbolDropLow:
		return isDrop(token, 'L', 'l')
	case SymbolOpenParen:
		return token == "("
	case SymbolCloseParen:
		return token == ")"
	default:
		return false
	}
}

// Expand pushes the expansion of sym selected by token onto stack and
// reports whether one applied. A nullable symbol followed by a token from
// its FOLLOW set derives the empty string and pushes nothing.
func (t *Table) Expand(sym Symbol, token string, stack *Stack) bool {
	switch sym {
	case SymbolStart:
		stack.PushSequence(rules[SymbolStart].alternatives[0])
		return true
	case SymbolDieType:
		if token == "(" {
			stack.PushSequence(rules[SymbolDieType].alternatives[1])
			return true
		}
		if strings.HasPrefix(token, "d") {
			stack.PushSequence(rules[SymbolDieType].alternatives[0])
			return true
		}
		return false
	case SymbolDropMod:
		if strings.HasPrefix(token, "-") {
			switch token[len(token)-1] {
			case 'L', 'l':
				stack.PushSequence(rules[SymbolDropMod].alternatives[1])
				return true
			case 'H', 'h':
				stack.PushSequence(rules[SymbolDropMod].alternatives[0])
				return true
			}
		}
	}
	return t.nullable[sym] && t.CanFollow(sym, token)
}

func classify(token string) tokenClass {
	switch {
	case token == "":
		return classEnd
	case token == "(":
		return classOpenParen
	case token == ")":
		return classCloseParen
	case isDigits(token):
		return classInt
	case isDieSize(token):
		return classDieSize
	case isSignedInt(token):
		return classSignedInt
	case isDrop(token, 'H', 'h'):
		return classDropHigh
	case isDrop(token, 'L', 'l'):
		return classDropLow
	default:
		return classOther
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if !isDigit(s[i]) {
			return false
		}
	}
	return true
}

func isDieSize(token string) bool {
	if len(token) < 2 || token[0] != 'd' {
		return false
	}
	rest := token[1:]
	return rest == string(fateMarker) || isDigits(rest)
}

func isSignedInt(token string) bool {
	if len(token) < 2 || (token[0] != '+' && token[0] != '-') {
		return false
	}
	return isDigits(token[1:])
}

func isDrop(token string, upper, lower byte) bool {
	if len(token) < 2 || token[0] != '-' {
		return false
	}
	last := token[len(token)-1]
	if last != upper && last != lower {
		return false
	}
	middle := token[1 : len(token)-1]
	return middle == "" || isDigits(middle)
}

// Stack is the parser's pending-symbol stack; the top is the last element.
type Stack struct {
	items []Symbol
}

// NewStack returns a stack holding items, bottom first.
func NewStack(items ...Symbol) *Stack {
	return &Stack{items: append([]Symbol(nil), items...)}
}

// Push adds sym on top of the stack.
func (s *Stack) Push(sym Symbol) {
	s.items = append(s.items, sym)
}

// PushSequence pushes seq in reverse so its first symbol ends up on top.
func (s *Stack) PushSequence(seq []Symbol) {
	for i := len(seq) - 1; i >= 0; i-- {
		s.items = append(s.items, seq[i])
	}
}

// Pop removes and returns the top symbol.
func (s *Stack) Pop() (Symbol, bool) {
	if len(s.items) == 0 {
		return 0, false
	}
	top := s.items[len(s.items)-1]
	s.items = s.items[:len(s.items)-1]
	return top, true
}

// Len returns the number of pending symbols.
func (s *Stack) Len() int {
	return len(s.items)
}

// Symbols returns a copy of the stack, bottom first.
func (s *Stack) Symbols() []Symbol {
	return append([]Symbol(nil), s.items...)
}

func (s *Stack) String() string {
	parts := make([]string, len(s.items))
	for i, sym := range s.items {
		parts[i] = sym.String()
	}
	return fmt.Sprintf("[%s]", strings.Join(parts, " "))
}
