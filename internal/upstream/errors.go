package upstream

import "fmt"

// NetworkError reports a non-2xx response from the learning-platform API.
type NetworkError struct {
	StatusCode int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("upstream returned status %d", e.StatusCode)
}

// SchemaError reports a body that could not be decoded or whose envelope did
// not match the expected shape for the resource.
type SchemaError struct {
	Reason string
}

func (e *SchemaError) Error() string {
	return e.Reason
}

// invalidFormat is the canonical reason used when the `data` envelope is
// missing or of the wrong shape.
const invalidFormat = "Invalid response format"

func errInvalidFormat() error {
	return &SchemaError{Reason: invalidFormat}
}
