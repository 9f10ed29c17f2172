package errors

import (
	stderrors "errors"
	"fmt"
	"testing"
)

func TestErrorIsMatchesByCode(t *testing.T) {
	err := WithMetadata(CodeDiceCountTooLow, "number of dice less than 1: 0", map[string]string{"Number": "0"})
	if !stderrors.Is(err, New(CodeDiceCountTooLow, "")) {
		t.Fatal("expected errors.Is to match on code")
	}
	if stderrors.Is(err, New(CodeDiceSizeTooSmall, "")) {
		t.Fatal("expected errors.Is to reject different code")
	}
}

func TestWrapUnwrapsCause(t *testing.T) {
	cause := fmt.Errorf("strconv: out of range")
	err := Wrap(CodeDiceValueOutOfRange, "value out of range", cause)
	if !stderrors.Is(err, cause) {
		t.Fatal("expected cause in chain")
	}
	if err.Error() != "value out of range" {
		t.Fatalf("Error() = %q", err.Error())
	}
}

func TestGetCodeAndMetadata(t *testing.T) {
	inner := WrapWithMetadata(CodeNotationGrammar, "bad token", map[string]string{"Token": "x"}, nil)
	wrapped := fmt.Errorf("parse: %w", inner)

	if got := GetCode(wrapped); got != CodeNotationGrammar {
		t.Fatalf("GetCode = %q, want %q", got, CodeNotationGrammar)
	}
	if got := GetMetadata(wrapped)["Token"]; got != "x" {
		t.Fatalf("metadata token = %q, want x", got)
	}
	if got := GetCode(fmt.Errorf("plain")); got != CodeUnknown {
		t.Fatalf("GetCode(plain) = %q, want %q", got, CodeUnknown)
	}
	if GetMetadata(fmt.Errorf("plain")) != nil {
		t.Fatal("expected nil metadata for plain error")
	}
}

func TestCodeClassification(t *testing.T) {
	if !CodeNotationGrammar.IsNotation() || !CodeNotationIllegalCharacter.IsNotation() {
		t.Fatal("expected notation codes to classify as notation")
	}
	if CodeDiceCountTooLow.IsNotation() {
		t.Fatal("validation code classified as notation")
	}
	for _, code := range []Code{CodeDiceCountTooLow, CodeDiceSizeTooSmall, CodeDiceTooManyDropped, CodeDiceLocalModCancelsDie} {
		if !code.IsValidation() {
			t.Fatalf("expected %s to classify as validation", code)
		}
	}
	if CodeNotFound.IsValidation() {
		t.Fatal("not found classified as validation")
	}
}

func TestLocalizedMessage(t *testing.T) {
	err := fmt.Errorf("parse: %w", WithMetadata(
		CodeDiceSizeTooSmall,
		"die size less than 2: 1",
		map[string]string{"Size": "1"},
	))

	if got := LocalizedMessage(err, "en-US"); got != "Die size less than 2 (got 1)" {
		t.Fatalf("en-US message = %q", got)
	}
	if got := LocalizedMessage(err, "pt-BR"); got == "Die size less than 2 (got 1)" || got == "" {
		t.Fatalf("pt-BR message = %q, want a translation", got)
	}
	if got := LocalizedMessage(stderrors.New("plain"), "pt-BR"); got != "plain" {
		t.Fatalf("plain message = %q", got)
	}
	if got := LocalizedMessage(nil, "en-US"); got != "" {
		t.Fatalf("nil message = %q", got)
	}
}

func TestLocalizeFallsBackToMessage(t *testing.T) {
	err := New(Code("CUSTOM"), "custom failure")
	if got := err.Localize("en-US"); got != "custom failure" {
		t.Fatalf("Localize = %q, want internal message", got)
	}
}
