package i18n

// Error codes must match the codes defined in internal/platform/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeUnknown                  = "UNKNOWN"
	CodeNotationIllegalCharacter = "NOTATION_ILLEGAL_CHARACTER"
	CodeNotationGrammar          = "NOTATION_GRAMMAR"
	CodeDiceCountTooLow          = "DICE_COUNT_TOO_LOW"
	CodeDiceSizeTooSmall         = "DICE_SIZE_TOO_SMALL"
	CodeDiceTooManyDropped       = "DICE_TOO_MANY_DROPPED"
	CodeDiceLocalModCancelsDie   = "DICE_LOCAL_MOD_CANCELS_DIE"
	CodeDiceValueOutOfRange      = "DICE_VALUE_OUT_OF_RANGE"
	CodeDiceLimitExceeded        = "DICE_LIMIT_EXCEEDED"
	CodeSeedOutOfRange           = "SEED_OUT_OF_RANGE"
	CodeNotFound                 = "NOT_FOUND"
)

var enUSCatalog = &Catalog{
	locale: BaseLocale,
	messages: map[Code]string{
		CodeUnknown:                  "An unexpected error occurred",
		CodeNotationIllegalCharacter: "Illegal character {{.Char}} at position {{.Pos}}",
		CodeNotationGrammar:          "Cannot read dice notation near {{if .Token}}{{.Token}}{{else}}the end of input{{end}}: expected {{.Expected}}",
		CodeDiceCountTooLow:          "Number of dice less than 1 (got {{.Number}})",
		CodeDiceSizeTooSmall:         "Die size less than 2 (got {{.Size}})",
		CodeDiceTooManyDropped:       "Too many dice dropped: {{.DropLow}} low and {{.DropHigh}} high out of {{.Number}}",
		CodeDiceLocalModCancelsDie:   "Local mod larger than die size, all rolls would be 0 (d{{.Size}}{{.LocalMod}})",
		CodeDiceValueOutOfRange:      "Value {{.Value}} is out of range",
		CodeDiceLimitExceeded:        "Cannot roll {{.Number}} dice, the limit is {{.Limit}}",
		CodeSeedOutOfRange:           "Seed is out of range",
		CodeNotFound:                 "Roll {{.ID}} not found",
	},
}
