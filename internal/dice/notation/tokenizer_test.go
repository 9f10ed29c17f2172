package notation

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"
)

func TestTokenizeSegmentsNotation(t *testing.T) {
	tcs := []struct {
		input string
		want  []string
	}{
		{input: "0d0", want: []string{"0", "d0"}},
		{input: "3d6", want: []string{"3", "d6"}},
		{input: "4dF", want: []string{"4", "dF"}},
		{input: "10d7+4", want: []string{"10", "d7", "+4"}},
		{input: "8d12-3", want: []string{"8", "d12", "-3"}},
		{input: "4d2-2L", want: []string{"4", "d2", "-2L"}},
		{input: "23d24-5H", want: []string{"23", "d24", "-5H"}},
		{input: "7(d20+1)-L-2H", want: []string{"7", "(", "d20", "+1", ")", "-L", "-2H"}},
		{input: "5(d10-1)+15-3L-H", want: []string{"5", "(", "d10", "-1", ")", "+15", "-3L", "-H"}},
		{input: "4d2-2l", want: []string{"4", "d2", "-2l"}},
		{input: "23d24-5h", want: []string{"23", "d24", "-5h"}},
		{input: "7(d20+1)-l-2h", want: []string{"7", "(", "d20", "+1", ")", "-l", "-2h"}},
		{input: "5(d10-1)+15-3l-h", want: []string{"5", "(", "d10", "-1", ")", "+15", "-3l", "-h"}},
		{input: "1(dF+3)", want: []string{"1", "(", "dF", "+3", ")"}},
		{input: "3d6-3L-2H", want: []string{"3", "d6", "-3L", "-2H"}},
		{input: "3d", want: []string{"3", "d"}},
		{input: "", want: nil},
	}

	for _, tc := range tcs {
		got, err := Tokenize(tc.input)
		if err != nil {
			t.Fatalf("Tokenize(%q) returned error: %v", tc.input, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("Tokenize(%q) = %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestTokenizeRoundTrip(t *testing.T) {
	inputs := []string{
		"3d6", "7(d20+1)-L-2H", "((", "-+-", "dddd", "12LHlhF", "d-3)(", "+1+2+3",
		"F", "-", "5(d10-1)+15-3L-H", "0", "))d((", "9-9H-L",
	}
	for _, input := range inputs {
		tokens, err := Tokenize(input)
		if err != nil {
			t.Fatalf("Tokenize(%q) returned error: %v", input, err)
		}
		for _, token := range tokens {
			if token == "" {
				t.Fatalf("Tokenize(%q) produced an empty token: %q", input, tokens)
			}
		}
		if joined := strings.Join(tokens, ""); joined != input {
			t.Fatalf("Tokenize(%q) joined = %q", input, joined)
		}
	}
}

func TestTokenizeRejectsIllegalCharacter(t *testing.T) {
	_, err := Tokenize("3$5")
	if !errors.Is(err, ErrIllegalCharacter) {
		t.Fatalf("Tokenize error = %v, want %v", err, ErrIllegalCharacter)
	}
	meta := apperrors.GetMetadata(err)
	if meta["Char"] != "$" {
		t.Fatalf("illegal char = %q, want $", meta["Char"])
	}
	if meta["Pos"] != "1" {
		t.Fatalf("illegal char position = %q, want 1", meta["Pos"])
	}
	if !strings.Contains(err.Error(), "'$'") {
		t.Fatalf("error message should cite the character, got %q", err.Error())
	}
}

func TestTokenizerStopsAtIllegalCharacter(t *testing.T) {
	tokenizer := NewTokenizer("3d6+x")

	for _, want := range []string{"3", "d6"} {
		got, err := tokenizer.Next()
		if err != nil {
			t.Fatalf("Next returned error before illegal char: %v", err)
		}
		if got != want {
			t.Fatalf("Next = %q, want %q", got, want)
		}
	}
	if _, err := tokenizer.Next(); !errors.Is(err, ErrIllegalCharacter) {
		t.Fatalf("Next error = %v, want illegal character", err)
	}
	if _, err := tokenizer.Next(); !errors.Is(err, ErrIllegalCharacter) {
		t.Fatalf("Next after failure = %v, want sticky illegal character", err)
	}
}

func TestTokenizerIsNotRestartable(t *testing.T) {
	tokenizer := NewTokenizer("2d4")
	for i := 0; i < 2; i++ {
		if _, err := tokenizer.Next(); err != nil {
			t.Fatalf("Next returned error: %v", err)
		}
	}
	for i := 0; i < 2; i++ {
		if _, err := tokenizer.Next(); err != io.EOF {
			t.Fatalf("Next after exhaustion = %v, want io.EOF", err)
		}
	}
}

func TestTokenizeRejectsUppercaseDie(t *testing.T) {
	_, err := Tokenize("3D6")
	if !errors.Is(err, ErrIllegalCharacter) {
		t.Fatalf("Tokenize(3D6) error = %v, want illegal character", err)
	}
	if got := apperrors.GetMetadata(err)["Char"]; got != "D" {
		t.Fatalf("illegal char = %q, want D", got)
	}
}

func TestTokenizeReportsMultiByteRune(t *testing.T) {
	_, err := Tokenize("2d6→")
	if got := apperrors.GetMetadata(err)["Char"]; got != "→" {
		t.Fatalf("illegal char = %q, want →", got)
	}
}
