package llm

import "fmt"

// TransportError reports a network or provider failure. The conversation
// turn cannot continue, but history accumulated so far remains valid.
type TransportError struct {
	Message    string
	StatusCode int // 0 when the failure happened before a response
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("llm transport error (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("llm transport error: %s", e.Message)
}

// SchemaError reports that structured output did not parse or validate
// after the corrective retry.
type SchemaError struct {
	Raw string // the model's final raw output
	Err error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("llm structured output invalid: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }
