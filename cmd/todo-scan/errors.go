package main

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/todoscan/todo-scan/internal/config"
	"github.com/todoscan/todo-scan/internal/git"
	"github.com/todoscan/todo-scan/internal/output"
	"github.com/todoscan/todo-scan/internal/scanner"
)

// Exit codes.
const (
	exitOK     = 0
	exitFailed = 1
	exitError  = 2
)

// errGateFailed is returned after a failing result was printed. It is not
// reported as an error.
var errGateFailed = errors.New("check failed")

// usageError is a bad flag or argument combination.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usageErrorf(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// exitCode maps a command error to the process exit code.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errGateFailed):
		return exitFailed
	default:
		return exitError
	}
}

// errorCode classifies err for JSON error output.
func errorCode(err error) string {
	var (
		cfgErr  *config.Error
		provErr *git.ProviderError
		readErr *scanner.FileReadError
	)
	switch {
	case errors.As(err, &cfgErr):
		return "config"
	case errors.As(err, &provErr):
		return "provider"
	case errors.As(err, &readErr):
		return "read"
	default:
		return "usage"
	}
}

// exit reports err on stderr and returns the exit code.
func (a *app) exit(err error) int {
	code := exitCode(err)
	if code != exitError {
		return code
	}
	if a.format == output.FormatJSON || a.jsonOutput {
		encoder := json.NewEncoder(a.stderr)
		encoder.SetIndent("", "  ")
		// Best effort: stderr is all we have left.
		_ = encoder.Encode(struct {
			Error string `json:"error"`
			Code  string `json:"code"`
		}{err.Error(), errorCode(err)})
		return code
	}
	fmt.Fprintf(a.stderr, "Error: %v\n", err)
	return code
}
