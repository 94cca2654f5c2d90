package report

import "fmt"

// DataSourceError wraps a connection or execution failure from the backing
// store. It is never retried here and is the only error kind expected to
// surface to the user as a visible failure; everything else in the system is
// absorbed with a safe fallback.
type DataSourceError struct {
	Proc string
	Err  error
}

func (e *DataSourceError) Error() string {
	return fmt.Sprintf("data source failure executing %s: %v", e.Proc, e.Err)
}

func (e *DataSourceError) Unwrap() error {
	return e.Err
}

// ValidationError reports raw input that cannot be normalized into a valid
// procedure argument. The default normalization policy is lenient coercion,
// so nothing constructs this today; it exists for a future strict mode.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid value for %s: %s", e.Field, e.Reason)
}
