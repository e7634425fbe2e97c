package errors

type Code string

const (
	// CodeValidation marks malformed or missing input rejected before any derivation runs.
	CodeValidation Code = "VALIDATION_ERROR"
	// CodeDerivation marks bad key encodings, malformed paths and hardened-from-public attempts.
	CodeDerivation Code = "DERIVATION_ERROR"
	CodeInternal   Code = "INTERNAL_ERROR"
)
