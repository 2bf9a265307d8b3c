package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

func main() {
	exitCode := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	os.Exit(exitCode)
}

// run is the main entry point for the CLI, separated for testing
func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	cmd := newRootCmd(&app{stdin: stdin, stdout: stdout, stderr: stderr})
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.Execute()
	if err == nil {
		return ExitCodeSuccess
	}

	var exitErr *exitError
	if errors.As(err, &exitErr) {
		return exitErr.code
	}

	// Anything cobra reports itself is a usage problem
	color.New(color.FgRed).Fprintf(stderr, FmtErrorWithCause, CLIName, err)
	return ExitCodeUsageError
}

// exitError carries an exit code for a failure already reported to stderr
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

// fail reports err on stderr in red and returns it with an exit code
func (a *app) fail(code int, msg string, err error) error {
	color.New(color.FgRed).Fprintf(a.stderr, FmtErrorWithCause, msg, err)
	return &exitError{code: code, err: fmt.Errorf("%s: %w", msg, err)}
}
