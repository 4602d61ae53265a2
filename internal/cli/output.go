package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/roach88/homelist/internal/schema"
	"github.com/roach88/homelist/internal/service"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // Operation refused (not found, conflict, bad credentials, failed scenario, etc.)
	ExitCommandError = 2 // Command error (bad flags, unreadable config, storage failure, etc.)
)

// Error codes reported in CLI responses. E2xx codes come from the schema package.
const (
	ErrCodeInternal           = "E100"
	ErrCodeNotFound           = "E101"
	ErrCodeUnauthorized       = "E102"
	ErrCodeConflict           = "E103"
	ErrCodeValidation         = "E104"
	ErrCodeExpired            = "E105"
	ErrCodeInvalidCredentials = "E106"
	ErrCodeCanceled           = "E107"
	ErrCodeScenario           = "E301"
)

var kindCodes = map[service.Kind]string{
	service.KindNotFound:           ErrCodeNotFound,
	service.KindUnauthorized:       ErrCodeUnauthorized,
	service.KindConflict:           ErrCodeConflict,
	service.KindValidation:         ErrCodeValidation,
	service.KindExpired:            ErrCodeExpired,
	service.KindInvalidCredentials: ErrCodeInvalidCredentials,
	service.KindCanceled:           ErrCodeCanceled,
	service.KindInternal:           ErrCodeInternal,
}

// ExitError represents an error with a specific exit code.
// Use this to return errors with meaningful exit codes from CLI commands.
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

// NewExitError creates a new ExitError with the given code and message.
func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

// WrapExitError wraps an existing error with an exit code.
func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitSuccess for nil and ExitFailure if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Separate writer for verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CLIResponse is the standard JSON response format for CLI output.
type CLIResponse struct {
	Status  string    `json:"status"`            // "ok" or "error"
	Data    any       `json:"data,omitempty"`    // success payload
	Message string    `json:"message,omitempty"` // success message
	Error   *CLIError `json:"error,omitempty"`   // error details
}

// CLIError is the error structure for CLI responses.
type CLIError struct {
	Code    string `json:"code"`              // "E101", "E202", etc.
	Kind    string `json:"kind,omitempty"`    // service error kind
	Message string `json:"message"`           // human-readable message
	Details any    `json:"details,omitempty"` // additional context
}

// Success outputs a successful result in the configured format.
// In text mode data is printed with fmt.Println.
func (f *OutputFormatter) Success(data any) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "ok",
			Data:   data,
		})
	}

	fmt.Fprintln(f.Writer, data)
	return nil
}

// Emit outputs data as JSON, or calls text to render it for humans.
func (f *OutputFormatter) Emit(data any, text func(w io.Writer)) error {
	if f.Format == "json" {
		return f.Success(data)
	}
	text(f.Writer)
	return nil
}

// Done reports a successful operation that returns no data.
func (f *OutputFormatter) Done(message string) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status:  "ok",
			Message: message,
		})
	}
	fmt.Fprintf(f.Writer, "✓ %s\n", message)
	return nil
}

// Error outputs an error in the configured format.
func (f *OutputFormatter) Error(code, message string, details any) error {
	return f.writeError(&CLIError{Code: code, Message: message, Details: details})
}

func (f *OutputFormatter) writeError(e *CLIError) error {
	if f.Format == "json" {
		return json.NewEncoder(f.Writer).Encode(CLIResponse{
			Status: "error",
			Error:  e,
		})
	}

	fmt.Fprintf(f.Writer, "Error [%s]: %s\n", e.Code, e.Message)
	if f.Verbose && e.Details != nil {
		fmt.Fprintf(f.Writer, "Details: %v\n", e.Details)
	}
	return nil
}

// Fail reports err and returns the ExitError the command should return.
//
// Service refusals (not found, conflict, ...) exit with ExitFailure;
// storage failures and cancellations exit with ExitCommandError.
// Schema errors are listed field by field in the details.
func (f *OutputFormatter) Fail(err error) error {
	var schemaErrs schema.Errors
	if errors.As(err, &schemaErrs) && len(schemaErrs) > 0 {
		_ = f.writeError(&CLIError{
			Code:    schemaErrs[0].Code,
			Message: fmt.Sprintf("listing file has %d problem(s)", len(schemaErrs)),
			Details: []schema.ValidationError(schemaErrs),
		})
		return WrapExitError(ExitFailure, "invalid listing file", err)
	}

	kind := service.KindOf(err)
	_ = f.writeError(&CLIError{
		Code:    kindCodes[kind],
		Kind:    string(kind),
		Message: service.MessageOf(err),
	})

	code := ExitFailure
	if kind == service.KindInternal || kind == service.KindCanceled {
		code = ExitCommandError
	}
	return WrapExitError(code, string(kind), err)
}

// VerboseLog outputs a message only if verbose mode is enabled.
// Uses ErrWriter if set, otherwise falls back to Writer.
// When format is JSON, verbose logs go to ErrWriter to avoid corrupting JSON output.
func (f *OutputFormatter) VerboseLog(format string, args ...any) {
	if !f.Verbose {
		return
	}
	fmt.Fprintf(f.GetErrWriter(), format+"\n", args...)
}

// GetErrWriter returns the appropriate writer for diagnostic output.
// Returns ErrWriter if set, otherwise Writer.
func (f *OutputFormatter) GetErrWriter() io.Writer {
	if f.ErrWriter != nil {
		return f.ErrWriter
	}
	return f.Writer
}
