package main

import (
	"errors"
	"os"

	verr "github.com/paladinking/desclang/error"
)

func main() {
	err := Execute()
	if err != nil {
		os.Exit(exitCode(err))
	}
}

// usageError marks a problem with the command line itself.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// exitCode returns 1 for usage errors and errors in the grammar text, and 2
// for every other failure.
func exitCode(err error) int {
	var specErrs verr.SpecErrors
	var specErr *verr.SpecError
	var usageErr *usageError
	switch {
	case errors.As(err, &specErrs), errors.As(err, &specErr), errors.As(err, &usageErr):
		return 1
	}
	return 2
}
