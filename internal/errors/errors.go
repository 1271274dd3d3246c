package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents stable error codes for the failures that reach callers.
// Abstentions and malformed manifests never produce one.
type ErrorCode string

const (
	// PathNotFound indicates the project root does not exist
	PathNotFound ErrorCode = "PATH_NOT_FOUND"
	// NotADirectory indicates the project root is a regular file
	NotADirectory ErrorCode = "NOT_A_DIRECTORY"
	// InvalidConfig indicates the tool configuration could not be loaded
	InvalidConfig ErrorCode = "INVALID_CONFIG"
	// CacheUnavailable indicates the cache directory or lock could not be used
	CacheUnavailable ErrorCode = "CACHE_UNAVAILABLE"
	// TemplatesNotFound indicates the agent template directory is missing
	TemplatesNotFound ErrorCode = "TEMPLATES_NOT_FOUND"
	// AgentsExist indicates generate mode found existing agent files
	AgentsExist ErrorCode = "AGENTS_EXIST"
	// NoAgents indicates update-only mode found nothing to update
	NoAgents ErrorCode = "NO_AGENTS"
	// StackUndetected indicates no detector produced a confident result
	StackUndetected ErrorCode = "STACK_UNDETECTED"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// FixActionType represents the type of fix action
type FixActionType string

const (
	// RunCommand suggests running a command
	RunCommand FixActionType = "run-command"
	// EditFile suggests editing a file by hand
	EditFile FixActionType = "edit-file"
)

// FixAction represents a suggested fix for an error
type FixAction struct {
	Type        FixActionType `json:"type"`
	Command     string        `json:"command,omitempty"`
	Path        string        `json:"path,omitempty"`
	Safe        bool          `json:"safe,omitempty"`
	Description string        `json:"description,omitempty"`
}

// AdaptiveError represents an error with code, message, and suggestions
type AdaptiveError struct {
	Code           ErrorCode   `json:"code"`
	Message        string      `json:"message"`
	Details        interface{} `json:"details,omitempty"`
	SuggestedFixes []FixAction `json:"suggestedFixes,omitempty"`
	cause          error
}

// New creates a new AdaptiveError. When fixes is nil the registered
// fixes for code are attached.
func New(code ErrorCode, message string, cause error, fixes []FixAction) *AdaptiveError {
	if fixes == nil {
		fixes = GetSuggestedFixes(code)
	}
	return &AdaptiveError{
		Code:           code,
		Message:        message,
		cause:          cause,
		SuggestedFixes: fixes,
	}
}

// Error implements the error interface
func (e *AdaptiveError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AdaptiveError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *AdaptiveError) WithDetails(details interface{}) *AdaptiveError {
	e.Details = details
	return e
}

// CodeOf returns the code of the first AdaptiveError in err's chain,
// or InternalError when there is none.
func CodeOf(err error) ErrorCode {
	var ae *AdaptiveError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return InternalError
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	var ae *AdaptiveError
	return errors.As(err, &ae) && ae.Code == code
}

// ErrorActions maps error codes to suggested fix actions
var ErrorActions = map[ErrorCode][]FixAction{
	AgentsExist: {
		{
			Type:        RunCommand,
			Command:     "adaptive analyze --mode merge",
			Safe:        true,
			Description: "Back up existing agents and add missing ones",
		},
		{
			Type:        RunCommand,
			Command:     "adaptive analyze --mode force",
			Safe:        false,
			Description: "Back up existing agents and overwrite them",
		},
	},
	NoAgents: {
		{
			Type:        RunCommand,
			Command:     "adaptive analyze",
			Safe:        true,
			Description: "Generate the initial agent set",
		},
	},
	CacheUnavailable: {
		{
			Type:        RunCommand,
			Command:     "adaptive cache clear",
			Safe:        true,
			Description: "Reset the detection cache",
		},
	},
	InvalidConfig: {
		{
			Type:        EditFile,
			Path:        "~/.config/adaptive/config.json",
			Description: "Fix or remove the configuration file",
		},
	},
	TemplatesNotFound: {
		{
			Type:        EditFile,
			Path:        "~/.config/adaptive/config.json",
			Description: "Point templates.dir at the agent template directory",
		},
	},
}

// GetSuggestedFixes returns suggested fixes for an error code
func GetSuggestedFixes(code ErrorCode) []FixAction {
	if fixes, ok := ErrorActions[code]; ok {
		return fixes
	}
	return nil
}
