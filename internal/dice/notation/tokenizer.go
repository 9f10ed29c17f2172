package notation

import (
	"io"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
)

// ErrIllegalCharacter is matched by every lexical error.
var ErrIllegalCharacter = apperrors.New(apperrors.CodeNotationIllegalCharacter, "illegal character")

// Tokenizer splits a notation string into tokens in a single forward pass.
// It is not restartable: once Next reports io.EOF or an error, every later
// call reports the same.
type Tokenizer struct {
	input   string
	pos     int
	buffer  strings.Builder
	pending string
	err     error
}

// NewTokenizer returns a tokenizer over input.
func NewTokenizer(input string) *Tokenizer {
	return &Tokenizer{input: input}
}

// Next returns the next token, io.EOF once the input is exhausted, or a
// lexical error naming the first character outside the notation alphabet.
func (t *Tokenizer) Next() (string, error) {
	if t.err != nil {
		return "", t.err
	}
	if t.pending != "" {
		token := t.pending
		t.pending = ""
		return token, nil
	}

	for t.pos < len(t.input) {
		i := t.pos
		char := t.input[i]
		t.pos++

		switch {
		case isBufferChar(char):
			t.buffer.WriteByte(char)
			if t.pos == len(t.input) {
				return t.flush(), nil
			}
		case isSymbolChar(char):
			// A symbol always starts a new token so "-3-2H" splits into
			// "-3" and "-2H".
			if t.buffer.Len() == 0 {
				t.buffer.WriteByte(char)
				continue
			}
			token := t.flush()
			t.buffer.WriteByte(char)
			return token, nil
		case isParen(char):
			if t.buffer.Len() == 0 {
				return string(char), nil
			}
			t.pending = string(char)
			return t.flush(), nil
		default:
			t.err = illegalCharacter(t.input, i)
			return "", t.err
		}
	}

	// Only a trailing symbol can still be buffered here; emitting it keeps
	// the token stream lossless and leaves the rejection to the grammar.
	if t.buffer.Len() > 0 {
		return t.flush(), nil
	}
	t.err = io.EOF
	return "", io.EOF
}

func (t *Tokenizer) flush() string {
	token := t.buffer.String()
	t.buffer.Reset()
	return token
}

// Tokenize runs a Tokenizer to completion.
func Tokenize(input string) ([]string, error) {
	tokenizer := NewTokenizer(input)
	var tokens []string
	for {
		token, err := tokenizer.Next()
		if err == io.EOF {
			return tokens, nil
		}
		if err != nil {
			return nil, err
		}
		tokens = append(tokens, token)
	}
}

func illegalCharacter(input string, index int) error {
	// Report the whole rune so multi-byte input reads naturally.
	char := []rune(input[index:])[0]
	return apperrors.WithMetadata(
		apperrors.CodeNotationIllegalCharacter,
		"illegal character "+strconv.QuoteRune(char)+" at position "+strconv.Itoa(index),
		map[string]string{
			"Char": string(char),
			"Pos":  strconv.Itoa(index),
		},
	)
}

func isDigit(char byte) bool {
	return char >= '0' && char <= '9'
}

func isDropFlag(char byte) bool {
	switch char {
	case 'L', 'l', 'H', 'h':
		return true
	default:
		return false
	}
}

func isBufferChar(char byte) bool {
	return isDigit(char) || isDropFlag(char) || char == fateMarker
}

func isSymbolChar(char byte) bool {
	return char == '+' || char == '-' || char == 'd'
}

func isParen(char byte) bool {
	return char == '(' || char == ')'
}
