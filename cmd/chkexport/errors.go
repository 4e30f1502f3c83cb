package main

import "fmt"

// usageError marks bad command-line input so main can print a usage
// reminder and exit 1.
type usageError struct {
	err error
}

func (e *usageError) Error() string {
	return e.err.Error()
}

func (e *usageError) Unwrap() error {
	return e.err
}

// failuresError marks a completed run in which some invocations failed, so
// main can exit 2.
type failuresError struct {
	failed int
}

func (e *failuresError) Error() string {
	if e.failed == 1 {
		return "1 invocation failed; rerun to retry it"
	}
	return fmt.Sprintf("%d invocations failed; rerun to retry them", e.failed)
}
