package dice

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/dicenotation/internal/dice/notation"
	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
)

// Kind distinguishes numeric dice from fate dice.
type Kind int

const (
	// KindNumeric is a die with faces 1 through Size.
	KindNumeric Kind = iota
	// KindFate is a die with faces -1, 0 and +1.
	KindFate
)

func (k Kind) String() string {
	if k == KindFate {
		return "fate"
	}
	return "numeric"
}

// Spec is a validated roll specification. It is never modified after Parse
// returns it, so a single Spec may be rolled concurrently as long as each
// caller brings its own random source.
type Spec struct {
	Notation  string
	Number    int
	Kind      Kind
	Size      int // zero for fate dice
	LocalMod  int
	GlobalMod int
	DropLow   int
	DropHigh  int
	// Sum is set whenever a global modifier is present; the result is then
	// always a single total.
	Sum bool
}

// Parse turns notation into a validated Spec.
//
// # Errors
//
// Lexical and grammar failures come from the notation package and match
// notation.ErrIllegalCharacter or notation.ErrGrammar. A well-formed
// notation whose values break a dice rule fails with one of ErrCountTooLow,
// ErrSizeTooSmall, ErrTooManyDropped or ErrLocalModCancelsDie, checked in
// that order; the error metadata carries the offending values.
func Parse(input string) (Spec, error) {
	captures, err := notation.Parse(input)
	if err != nil {
		return Spec{}, err
	}
	spec, err := fromCaptures(input, captures)
	if err != nil {
		return Spec{}, err
	}
	if err := spec.validate(); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// MustParse is like Parse but panics on error. Intended for tests and
// hard-coded notations.
func MustParse(input string) Spec {
	spec, err := Parse(input)
	if err != nil {
		panic(err)
	}
	return spec
}

func fromCaptures(input string, captures notation.Captures) (Spec, error) {
	spec := Spec{Notation: input}

	numToken, ok := captures.Last(notation.SymbolDieNum)
	if !ok {
		// die-num is mandatory in the grammar.
		panic("dice: parse succeeded without a die count")
	}
	number, err := atoi(numToken)
	if err != nil {
		return Spec{}, err
	}
	spec.Number = number

	sizeToken, ok := captures.Last(notation.SymbolDieSize)
	if !ok {
		panic("dice: parse succeeded without a die size")
	}
	if sizeValue := strings.TrimPrefix(sizeToken, "d"); sizeValue == "F" {
		spec.Kind = KindFate
	} else {
		size, err := atoi(sizeValue)
		if err != nil {
			return Spec{}, err
		}
		spec.Kind = KindNumeric
		spec.Size = size
	}

	if token, ok := captures.Last(notation.SymbolLocalMod); ok {
		if spec.LocalMod, err = atoi(token); err != nil {
			return Spec{}, err
		}
	}
	if token, ok := captures.Last(notation.SymbolGlobalMod); ok {
		if spec.GlobalMod, err = atoi(token); err != nil {
			return Spec{}, err
		}
	}
	spec.Sum = spec.GlobalMod != 0

	if spec.DropLow, err = dropCount(captures[notation.SymbolDropLow]); err != nil {
		return Spec{}, err
	}
	if spec.DropHigh, err = dropCount(captures[notation.SymbolDropHigh]); err != nil {
		return Spec{}, err
	}
	return spec, nil
}

// dropCount adds up drop tokens such as "-L" (one die) and "-3H" (three).
func dropCount(tokens []string) (int, error) {
	total := 0
	for _, token := range tokens {
		middle := token[1 : len(token)-1]
		count := 1
		if middle != "" {
			n, err := atoi(middle)
			if err != nil {
				return 0, err
			}
			count = n
		}
		if total > maxInt-count {
			return 0, outOfRange(token)
		}
		total += count
	}
	return total, nil
}

const maxInt = int(^uint(0) >> 1)

func atoi(value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, outOfRange(value)
	}
	return n, nil
}

func outOfRange(value string) error {
	return apperrors.WithMetadata(
		apperrors.CodeDiceValueOutOfRange,
		fmt.Sprintf("value %s is out of range", value),
		map[string]string{"Value": value},
	)
}

func (s Spec) validate() error {
	if s.Number < 1 {
		return apperrors.WithMetadata(
			apperrors.CodeDiceCountTooLow,
			fmt.Sprintf("number of dice less than 1: %d", s.Number),
			map[string]string{"Number": strconv.Itoa(s.Number)},
		)
	}
	if s.Kind == KindNumeric && s.Size < 2 {
		return apperrors.WithMetadata(
			apperrors.CodeDiceSizeTooSmall,
			fmt.Sprintf("die size less than 2: %d", s.Size),
			map[string]string{"Size": strconv.Itoa(s.Size)},
		)
	}
	if s.DropLow >= s.Number || s.DropHigh >= s.Number-s.DropLow {
		return apperrors.WithMetadata(
			apperrors.CodeDiceTooManyDropped,
			fmt.Sprintf("too many dice dropped: %d low and %d high out of %d", s.DropLow, s.DropHigh, s.Number),
			map[string]string{
				"Number":   strconv.Itoa(s.Number),
				"DropLow":  strconv.Itoa(s.DropLow),
				"DropHigh": strconv.Itoa(s.DropHigh),
			},
		)
	}
	// Compared as LocalMod > -Size so a huge size cannot overflow. Fate
	// dice may go negative.
	if s.Kind == KindNumeric && s.LocalMod <= -s.Size {
		return apperrors.WithMetadata(
			apperrors.CodeDiceLocalModCancelsDie,
			fmt.Sprintf("local mod larger than die size, all rolls would be 0: d%d%+d", s.Size, s.LocalMod),
			map[string]string{
				"Size":     strconv.Itoa(s.Size),
				"LocalMod": fmt.Sprintf("%+d", s.LocalMod),
			},
		)
	}
	return nil
}

// Kept returns how many dice survive the drop rules.
func (s Spec) Kept() int {
	return s.Number - s.DropLow - s.DropHigh
}

// String renders the spec in canonical notation, for example "7(d20+1)-L-2H".
func (s Spec) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(s.Number))

	die := "d" + strconv.Itoa(s.Size)
	if s.Kind == KindFate {
		die = "dF"
	}
	if s.LocalMod != 0 {
		fmt.Fprintf(&b, "(%s%+d)", die, s.LocalMod)
	} else {
		b.WriteString(die)
	}
	if s.GlobalMod != 0 {
		fmt.Fprintf(&b, "%+d", s.GlobalMod)
	}
	writeDrop(&b, s.DropLow, 'L')
	writeDrop(&b, s.DropHigh, 'H')
	return b.String()
}

func writeDrop(b *strings.Builder, count int, flag byte) {
	switch {
	case count == 0:
	case count == 1:
		b.WriteByte('-')
		b.WriteByte(flag)
	default:
		fmt.Fprintf(b, "-%d%c", count, flag)
	}
}

// Min returns the smallest total a summed roll of s can produce.
func (s Spec) Min() int {
	low, _ := s.faceRange()
	return s.Kept()*low + s.GlobalMod
}

// Max returns the largest total a summed roll of s can produce.
func (s Spec) Max() int {
	_, high := s.faceRange()
	return s.Kept()*high + s.GlobalMod
}

// faceRange returns the lowest and highest value one die can contribute
// after its local modifier.
func (s Spec) faceRange() (int, int) {
	if s.Kind == KindFate {
		return -1 + s.LocalMod, 1 + s.LocalMod
	}
	return clamp(1 + s.LocalMod), clamp(s.Size + s.LocalMod)
}
