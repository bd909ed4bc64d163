package model

import "errors"

// Error taxonomy for loading, processing and shaping GDP data.
// Callers wrap these with context and match them with errors.Is.
var (
	// ErrNotFound is returned when a configuration or data file does not exist.
	ErrNotFound = errors.New("not found")

	// ErrParse is returned when a file is not valid JSON/CSV, or when a year
	// cell that is present cannot be read as a number.
	ErrParse = errors.New("parse error")

	// ErrInvalidOperation is returned for an operation other than sum or average.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrSchema is returned when the data lacks a column the caller needs,
	// such as the country name column.
	ErrSchema = errors.New("schema error")
)
