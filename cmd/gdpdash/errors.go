package main

import (
	"errors"
	"io"

	"github.com/fatih/color"
	"github.com/nao1215/gdpdash/internal/config"
	"github.com/nao1215/gdpdash/internal/model"
)

// configError marks errors caused by flags, settings or the run
// configuration rather than by the data.
type configError struct {
	err error
}

func (e *configError) Error() string { return e.err.Error() }
func (e *configError) Unwrap() error { return e.err }

// reportedError is an error the command already printed. Execute only sets
// the exit status for it.
type reportedError struct {
	err error
}

func (e *reportedError) Error() string { return e.err.Error() }
func (e *reportedError) Unwrap() error { return e.err }

// Error classes printed in front of error messages.
const (
	classNotFound   = "File not found"
	classConfig     = "Configuration error"
	classData       = "Data error"
	classSchema     = "Schema error"
	classUnexpected = "Unexpected error"
)

// classifyError returns the class an error is reported under.
func classifyError(err error) string {
	var cfgErr *configError
	switch {
	case errors.As(err, &cfgErr),
		errors.Is(err, config.ErrInvalidRunConfig),
		errors.Is(err, model.ErrInvalidOperation):
		return classConfig
	case errors.Is(err, model.ErrNotFound):
		return classNotFound
	case errors.Is(err, model.ErrParse):
		return classData
	case errors.Is(err, model.ErrSchema):
		return classSchema
	default:
		return classUnexpected
	}
}

// printError writes "<class>: <message>" with the class in red.
func printError(w io.Writer, err error) {
	label := color.New(color.FgRed, color.Bold)
	_, _ = label.Fprint(w, classifyError(err)+":")
	_, _ = io.WriteString(w, " "+err.Error()+"\n")
}
