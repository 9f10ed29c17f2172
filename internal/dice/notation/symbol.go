package notation

// Symbol is an entry on the parse stack: a grammar non-terminal or one of the
// literal parenthesis terminals.
type Symbol int

const (
	SymbolStart Symbol = iota
	SymbolDieType
	SymbolDieNum
	SymbolDieSize
	SymbolLocalMod
	SymbolGlobalMod
	SymbolDropMod
	SymbolDropHigh
	SymbolDropLow
	SymbolOpenParen
	SymbolCloseParen

	symbolCount
)

func (s Symbol) String() string {
	switch s {
	case SymbolStart:
		return "<start>"
	case SymbolDieType:
		return "<die-type>"
	case SymbolDieNum:
		return "<die-num>"
	case SymbolDieSize:
		return "<die-size>"
	case SymbolLocalMod:
		return "<local-mod>"
	case SymbolGlobalMod:
		return "<global-mod>"
	case SymbolDropMod:
		return "<drop-mod>"
	case SymbolDropHigh:
		return "<drop-high>"
	case SymbolDropLow:
		return "<drop-low>"
	case SymbolOpenParen:
		return `"("`
	case SymbolCloseParen:
		return `")"`
	default:
		return "<unknown>"
	}
}

// Describe returns a human-readable name used in grammar error messages.
func (s Symbol) Describe() string {
	switch s {
	case SymbolStart:
		return "a dice notation"
	case SymbolDieType:
		return `a die size such as "d6" or "(d6+1)"`
	case SymbolDieNum:
		return "a number of dice"
	case SymbolDieSize:
		return `a die size such as "d6" or "dF"`
	case SymbolLocalMod:
		return `a per-die modifier such as "+1"`
	case SymbolGlobalMod:
		return `a modifier such as "+3"`
	case SymbolDropMod:
		return `a drop modifier such as "-L" or "-2H"`
	case SymbolDropHigh:
		return `a drop-high modifier such as "-H"`
	case SymbolDropLow:
		return `a drop-low modifier such as "-L"`
	case SymbolOpenParen:
		return `"("`
	case SymbolCloseParen:
		return `")"`
	default:
		return s.String()
	}
}

// IsTerminal reports whether the symbol is a literal parenthesis.
func (s Symbol) IsTerminal() bool {
	return s == SymbolOpenParen || s == SymbolCloseParen
}

// IsValue reports whether tokens matched for the symbol are captured.
func (s Symbol) IsValue() bool {
	switch s {
	case SymbolDieNum, SymbolDieSize, SymbolLocalMod, SymbolGlobalMod, SymbolDropHigh, SymbolDropLow:
		return true
	default:
		return false
	}
}
