package provider

import "fmt"

// DataError indicates the data source returned an explicit error, or a
// technically successful but unusable result (zero records). It always
// carries the originating ticker and the date or year span of the request.
type DataError struct {
	Ticker string
	Span   string
	Op     string
	Cause  error
}

func (e *DataError) Error() string {
	msg := fmt.Sprintf("%s for ('%s', %s)", e.Op, e.Ticker, e.Span)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *DataError) Unwrap() error {
	return e.Cause
}

// ValidationError indicates an unexpected failure while invoking the data
// source or processing its response that is not a recognized data-source
// error.
type ValidationError struct {
	Ticker string
	Span   string
	Op     string
	Cause  error
}

func (e *ValidationError) Error() string {
	msg := fmt.Sprintf("%s for ('%s', %s)", e.Op, e.Ticker, e.Span)
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Cause
}
