package server

// queryParamError represents a query parameter parsing error with its HTTP
// status.
type queryParamError struct {
	Message    string
	StatusCode int
}

// Error implements the error interface.
func (e queryParamError) Error() string {
	return e.Message
}

// Error codes carried in the "error" field of 400 responses.
const (
	codeInvalidArgument    = "invalid_argument"
	codeInvalidCombination = "invalid_combination"
	codeOutOfRange         = "out_of_range"
	codeLimitExceeded      = "limit_exceeded"
	codeBadRequest         = "bad_request"
)
