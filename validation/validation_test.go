package validation

import (
	"strings"
	"testing"

	"github.com/skillsenselab/speakertime/errors"
)

type anchorRequest struct {
	Name     string   `json:"name" validate:"required"`
	Timecode *float64 `json:"timecode" validate:"required,gte=0"`
}

func floatPtr(f float64) *float64 { return &f }

func TestValidate_OK(t *testing.T) {
	req := anchorRequest{Name: "Alice", Timecode: floatPtr(2.0)}
	if err := Validate(req); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_MissingFields(t *testing.T) {
	tests := []struct {
		name  string
		req   anchorRequest
		field string
	}{
		{"missing name", anchorRequest{Timecode: floatPtr(1)}, "name"},
		{"missing timecode", anchorRequest{Name: "Bob"}, "timecode"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.req)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			appErr, ok := errors.AsAppError(err)
			if !ok {
				t.Fatalf("expected AppError, got %T", err)
			}
			if appErr.Code != errors.ErrCodeInvalidInput {
				t.Errorf("expected INVALID_INPUT, got %s", appErr.Code)
			}
			if !strings.Contains(appErr.Message, tc.field) {
				t.Errorf("expected message to mention %q, got %q", tc.field, appErr.Message)
			}
		})
	}
}

func TestValidate_ZeroTimecodeAllowed(t *testing.T) {
	// A pointer distinguishes "absent" from "0.0"; zero is a valid timecode.
	req := anchorRequest{Name: "Alice", Timecode: floatPtr(0)}
	if err := Validate(req); err != nil {
		t.Fatalf("timecode 0 must be valid: %v", err)
	}
}
