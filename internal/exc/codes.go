package exc

// General failures.
const (
	CodeUnknownFatal     = "N0000"
	CodeFileNotFound     = "N0001"
	CodePermissionDenied = "N0003"
)

// Tokenizer failures.
const (
	CodeUnterminatedString = "N0101"
	CodeMultilineString    = "N0102"
	CodeUnknownOperator    = "N0103"
	// CodeAllocationFailure is kept so that diagnostics stay numbered the
	// same across releases. Go reports allocation failure as a runtime
	// panic so nothing emits it.
	CodeAllocationFailure = "N0104"
	CodeInvalidNumber     = "N0105"
)

// Parser failures.
const (
	CodeUnexpectedToken       = "N0201"
	CodeMissingExpectedToken  = "N0202"
	CodeEmptyOperandWindow    = "N0203"
	CodeMalformedDeclaration  = "N0204"
	CodeIncompleteConsumption = "N0205"
)

// Driver failures.
const (
	CodeInvalidConfig = "N0301"
)

const (
	CodeEOF = "_EOF_"
)

var (
	defaultNonFatal = map[string]bool{}
)
