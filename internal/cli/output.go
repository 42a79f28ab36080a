package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Exit codes
const (
	ExitSuccess      = 0
	ExitFailure      = 1
	ExitCommandError = 2
)

// ExitError wraps an error with an exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError with the given code and message.
func NewExitError(code int, format string, args ...interface{}) *ExitError {
	return &ExitError{
		Code: code,
		Err:  fmt.Errorf(format, args...),
	}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, err error) *ExitError {
	return &ExitError{Code: code, Err: err}
}

// GetExitCode extracts the exit code from an error.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	if exitErr, ok := err.(*ExitError); ok {
		return exitErr.Code
	}
	return ExitFailure
}

// CLIResponse is the standard JSON output envelope.
type CLIResponse struct {
	Status string      `json:"status"` // "ok" | "error"
	Data   interface{} `json:"data,omitempty"`
	Error  *CLIError   `json:"error,omitempty"`
}

// CLIError carries structured error details in JSON output.
type CLIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// OutputFormatter handles writing results in text or JSON format.
type OutputFormatter struct {
	format  string
	verbose bool
	out     io.Writer
	errOut  io.Writer
}

// NewOutputFormatter creates a formatter for the given format and writers.
func NewOutputFormatter(format string, verbose bool, out, errOut io.Writer) *OutputFormatter {
	return &OutputFormatter{
		format:  format,
		verbose: verbose,
		out:     out,
		errOut:  errOut,
	}
}

// Success writes a successful result. In text mode, textFn renders the
// human-readable form; in JSON mode, data is wrapped in a CLIResponse.
func (f *OutputFormatter) Success(data interface{}, textFn func(io.Writer)) error {
	if f.format == "json" {
		resp := CLIResponse{Status: "ok", Data: data}
		enc := json.NewEncoder(f.out)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	if textFn != nil {
		textFn(f.out)
	}
	return nil
}

// Error writes an error result and returns an ExitError with the given code.
func (f *OutputFormatter) Error(exitCode int, errCode, format string, args ...interface{}) error {
	msg := fmt.Sprintf(format, args...)
	if f.format == "json" {
		resp := CLIResponse{
			Status: "error",
			Error:  &CLIError{Code: errCode, Message: msg},
		}
		enc := json.NewEncoder(f.out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(resp); err != nil {
			return WrapExitError(exitCode, err)
		}
	} else {
		fmt.Fprintf(f.errOut, "error: %s\n", msg)
	}
	return NewExitError(exitCode, "%s", msg)
}

// VerboseLog writes a message to stderr when verbose mode is on.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if f.verbose {
		fmt.Fprintf(f.errOut, format+"\n", args...)
	}
}
