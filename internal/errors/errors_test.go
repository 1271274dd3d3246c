package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	cause := errors.New("stat failed")
	fixes := []FixAction{{Type: RunCommand, Command: "ls"}}

	err := New(PathNotFound, "project root does not exist", cause, fixes)

	if err.Code != PathNotFound {
		t.Errorf("Code = %v, want %v", err.Code, PathNotFound)
	}
	if err.Message != "project root does not exist" {
		t.Errorf("Message = %q, want %q", err.Message, "project root does not exist")
	}
	if len(err.SuggestedFixes) != 1 {
		t.Errorf("len(SuggestedFixes) = %d, want 1", len(err.SuggestedFixes))
	}
}

func TestNew_RegisteredFixes(t *testing.T) {
	err := New(AgentsExist, "agents already present", nil, nil)
	if len(err.SuggestedFixes) != len(ErrorActions[AgentsExist]) {
		t.Errorf("len(SuggestedFixes) = %d, want %d", len(err.SuggestedFixes), len(ErrorActions[AgentsExist]))
	}

	err = New(InternalError, "boom", nil, nil)
	if err.SuggestedFixes != nil {
		t.Errorf("SuggestedFixes = %v, want nil", err.SuggestedFixes)
	}
}

func TestAdaptiveError_Error(t *testing.T) {
	tests := []struct {
		name      string
		code      ErrorCode
		message   string
		cause     error
		wantParts []string
	}{
		{
			name:      "with cause",
			code:      CacheUnavailable,
			message:   "cannot lock cache",
			cause:     errors.New("permission denied"),
			wantParts: []string{"CACHE_UNAVAILABLE", "cannot lock cache", "permission denied"},
		},
		{
			name:      "without cause",
			code:      NotADirectory,
			message:   "README.md is not a directory",
			wantParts: []string{"NOT_A_DIRECTORY", "README.md is not a directory"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := New(tt.code, tt.message, tt.cause, nil).Error()
			for _, part := range tt.wantParts {
				if !strings.Contains(got, part) {
					t.Errorf("Error() = %q, want to contain %q", got, part)
				}
			}
		})
	}
}

func TestAdaptiveError_Unwrap(t *testing.T) {
	cause := errors.New("root cause")
	err := New(InternalError, "something went wrong", cause, nil)

	if err.Unwrap() != cause {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), cause)
	}
	if !errors.Is(err, cause) {
		t.Error("errors.Is should find the cause")
	}
	if New(PathNotFound, "missing", nil, nil).Unwrap() != nil {
		t.Error("Unwrap() on error without cause should return nil")
	}
}

func TestCodeOf(t *testing.T) {
	wrapped := fmt.Errorf("analyze: %w", New(PathNotFound, "missing", nil, nil))

	if got := CodeOf(wrapped); got != PathNotFound {
		t.Errorf("CodeOf() = %v, want %v", got, PathNotFound)
	}
	if got := CodeOf(errors.New("plain")); got != InternalError {
		t.Errorf("CodeOf(plain) = %v, want %v", got, InternalError)
	}
	if !Is(wrapped, PathNotFound) {
		t.Error("Is(wrapped, PathNotFound) = false")
	}
	if Is(wrapped, NotADirectory) {
		t.Error("Is(wrapped, NotADirectory) = true")
	}
}

func TestWithDetails(t *testing.T) {
	err := New(NotADirectory, "not a directory", nil, nil).WithDetails(map[string]string{"path": "/tmp/x"})
	details, ok := err.Details.(map[string]string)
	if !ok || details["path"] != "/tmp/x" {
		t.Errorf("Details = %v", err.Details)
	}
}
