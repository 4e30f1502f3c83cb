package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

// Exit codes: 0 nominal, 1 usage/precondition/unexpected errors, 2 when one
// or more invocations failed in an otherwise completed run.
const (
	exitOK       = 0
	exitError    = 1
	exitFailures = 2
)

func main() {
	cmd := newRootCommand()
	err := cmd.Execute()
	if err == nil {
		os.Exit(exitOK)
	}

	var usageErr *usageError
	if errors.As(err, &usageErr) {
		fmt.Fprintln(os.Stderr, usageErr)
		fmt.Fprint(os.Stderr, cmd.UsageString())
		os.Exit(exitError)
	}

	var failures *failuresError
	if errors.As(err, &failures) {
		fmt.Fprintln(os.Stderr, failures)
		os.Exit(exitFailures)
	}

	if !errors.Is(err, context.Canceled) {
		fmt.Fprintln(os.Stderr, err)
	}
	os.Exit(exitError)
}
