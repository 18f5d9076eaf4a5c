package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Analysis failure (scenario failed, log does not fit, etc.)
	ExitCommandError = 2 // Command error (unreadable input, bad flags, missing log)
)

// Error codes reported in CLIError.Code.
const (
	ErrCodeFailure = "E001" // ExitFailure
	ErrCodeCommand = "E002" // ExitCommandError
	ErrCodeUnknown = "E099" // plain error returned by a command
)

// ExitError carries the process exit code of a failed command.
// Use this to return errors with meaningful exit codes from CLI commands;
// Execute reports Message in the selected format and exits with Code.
type ExitError struct {
	Code    int    // Exit code (use ExitFailure or ExitCommandError)
	Message string // Error message
	Err     error  // Underlying error (optional)
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// NewExitError creates an ExitError without a cause.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError attaches an exit code to err.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// errorCode maps an error to the code shown in error responses.
func errorCode(err error) string {
	var exitErr *ExitError
	if !errors.As(err, &exitErr) {
		return ErrCodeUnknown
	}
	if exitErr.Code == ExitCommandError {
		return ErrCodeCommand
	}
	return ErrCodeFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
// Results go to Writer. Errors and verbose diagnostics go to ErrWriter in
// text mode; in JSON mode errors are encoded on Writer as a CLIResponse.
type OutputFormatter struct {
	Format    string    // "text" or "json"
	Writer    io.Writer // stdout
	ErrWriter io.Writer // stderr for diagnostics; falls back to Writer
	Verbose   bool      // show error details and VerboseLog lines
}

// CLIResponse is the JSON envelope of every command result.
type CLIResponse struct {
	Status string      `json:"status"`          // "ok" or "error"
	Data   interface{} `json:"data,omitempty"`  // success payload
	Error  *CLIError   `json:"error,omitempty"` // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string      `json:"code"`              // "E001", "E002", etc.
	Message string      `json:"message"`           // human-readable message
	Details interface{} `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
func (f *OutputFormatter) Success(data interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}
	// Human-readable text output
	_, err := fmt.Fprintln(f.Writer, data)
	return err
}

// Emit writes data as a JSON response, or calls text to render it for
// humans.
func (f *OutputFormatter) Emit(data interface{}, text func(w io.Writer) error) error {
	if f.Format == "json" {
		return f.Success(data)
	}
	return text(f.Writer)
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details interface{}) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error: &CLIError{
				Code:    code,
				Message: message,
				Details: details,
			},
		})
	}

	// Text errors go to stderr so piped results stay parseable
	fmt.Fprintf(f.GetErrWriter(), "Error [%s]: %s\n", code, message)
	if f.Verbose && details != nil {
		fmt.Fprintf(f.GetErrWriter(), "Details: %v\n", details)
	}
	return nil
}

// VerboseLog writes a diagnostic line when verbose mode is enabled.
// Unlike slog output it is unformatted, for notes meant for the person at
// the terminal. It never goes to Writer when ErrWriter is set, so JSON
// output stays clean. A trailing newline is added.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
