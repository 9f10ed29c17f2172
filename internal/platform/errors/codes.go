// Package errors provides structured error handling with i18n support.
package errors

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Notation errors
	CodeNotationIllegalCharacter Code = "NOTATION_ILLEGAL_CHARACTER"
	CodeNotationGrammar          Code = "NOTATION_GRAMMAR"

	// Dice specification errors
	CodeDiceCountTooLow        Code = "DICE_COUNT_TOO_LOW"
	CodeDiceSizeTooSmall       Code = "DICE_SIZE_TOO_SMALL"
	CodeDiceTooManyDropped     Code = "DICE_TOO_MANY_DROPPED"
	CodeDiceLocalModCancelsDie Code = "DICE_LOCAL_MOD_CANCELS_DIE"
	CodeDiceValueOutOfRange    Code = "DICE_VALUE_OUT_OF_RANGE"
	CodeDiceLimitExceeded      Code = "DICE_LIMIT_EXCEEDED"

	// RNG errors
	CodeSeedOutOfRange Code = "SEED_OUT_OF_RANGE"

	// Storage errors
	CodeNotFound Code = "NOT_FOUND"
)

// IsNotation reports whether the code describes a malformed notation string,
// as opposed to a well-formed one whose values are rejected.
func (c Code) IsNotation() bool {
	return c == CodeNotationIllegalCharacter || c == CodeNotationGrammar
}

// IsValidation reports whether the code describes a semantic dice rule violation.
func (c Code) IsValidation() bool {
	switch c {
	case CodeDiceCountTooLow,
		CodeDiceSizeTooSmall,
		CodeDiceTooManyDropped,
		CodeDiceLocalModCancelsDie,
		CodeDiceValueOutOfRange,
		CodeDiceLimitExceeded:
		return true
	default:
		return false
	}
}
