package processor

import "errors"

// Failure kinds for a rejected record. Each maps to the processing step
// that rejected it; all are absorbed into a ProcessingFailed output and
// never escape the processor.
var (
	ErrDecode      = errors.New("record decode failed")
	ErrPersistence = errors.New("record persistence failed")
)
