package dice

import apperrors "github.com/louisbranch/dicenotation/internal/platform/errors"

var (
	// ErrCountTooLow is returned when a notation asks for fewer than one die.
	ErrCountTooLow = apperrors.New(apperrors.CodeDiceCountTooLow, "number of dice less than 1")
	// ErrSizeTooSmall is returned when a numeric die has fewer than two sides.
	ErrSizeTooSmall = apperrors.New(apperrors.CodeDiceSizeTooSmall, "die size less than 2")
	// ErrTooManyDropped is returned when the drop counts leave no die to keep.
	ErrTooManyDropped = apperrors.New(apperrors.CodeDiceTooManyDropped, "too many dice dropped")
	// ErrLocalModCancelsDie is returned when every roll would clamp to zero.
	ErrLocalModCancelsDie = apperrors.New(apperrors.CodeDiceLocalModCancelsDie, "local mod larger than die size, all rolls would be 0")
	// ErrValueOutOfRange is returned when a number in the notation does not fit an int.
	ErrValueOutOfRange = apperrors.New(apperrors.CodeDiceValueOutOfRange, "value out of range")
)
