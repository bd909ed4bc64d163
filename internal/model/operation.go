package model

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Operation is the statistic computed over the selected year values.
type Operation string

const (
	// OperationSum adds every present value.
	OperationSum Operation = "sum"

	// OperationAverage divides the sum by the number of present values.
	OperationAverage Operation = "average"
)

// Operations returns every supported operation.
func Operations() []Operation {
	return []Operation{OperationSum, OperationAverage}
}

// ParseOperation converts a configuration string into an Operation.
// Matching is exact; "Sum" is rejected like any other unknown name.
func ParseOperation(s string) (Operation, error) {
	op := Operation(s)
	if !op.Valid() {
		return "", fmt.Errorf("%w: %q (want sum or average)", ErrInvalidOperation, s)
	}
	return op, nil
}

// Valid reports whether o is a supported operation.
func (o Operation) Valid() bool {
	return o == OperationSum || o == OperationAverage
}

// String returns the configuration spelling of o.
func (o Operation) String() string {
	return string(o)
}

// Label returns o in title case for headings, e.g. "Average".
func (o Operation) Label() string {
	return cases.Title(language.English).String(string(o))
}
