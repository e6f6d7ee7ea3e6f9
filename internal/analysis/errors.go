package analysis

import "fmt"

// InvalidInputError rejects an unusable topic before any network call is made
type InvalidInputError struct {
	Reason string
}

func (e *InvalidInputError) Error() string {
	return e.Reason
}

// MalformedResponseError reports model output that is not parseable JSON at
// all. Output that parses but has missing or mistyped fields is repaired by
// the validator instead.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("parsing model response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}
