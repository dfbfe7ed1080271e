package apierrors_test

import (
	"testing"

	"github.com/goliatone/go-marketplace/internal/apierrors"
)

func TestMessageMappedCodes(t *testing.T) {
	cases := []struct {
		code string
		want string
	}{
		{"NO_UPLOAD", "Upload a dataset file before submitting."},
		{"UPLOAD_NOT_READY", "Your file upload has not finished yet."},
		{"ABOUT_INFO_REQUIRED", "Fill in the About Dataset information before submitting."},
		{"DATA_FORMAT_REQUIRED", "Fill in the Data Format information before submitting."},
		{"FEATURES_REQUIRED", "Add at least one feature/column before submitting."},
		{"INVALID_STATE", "This action is not available in the current status."},
		{"NOT_FOUND", "The requested record could not be found."},
		{"FORBIDDEN", "You do not have permission to perform this action."},
		{"NETWORK_ERROR", "A network error occurred. Check your connection and try again."},
		{"TIMEOUT", "The request timed out. Please try again."},
		{"OFFLINE", "You appear to be offline. Reconnect and try again."},
	}

	for _, tc := range cases {
		if got := apierrors.Message(tc.code, "raw detail"); got != tc.want {
			t.Fatalf("%s: expected %q, got %q", tc.code, tc.want, got)
		}
		if !apierrors.Known(tc.code) {
			t.Fatalf("%s should be a known code", tc.code)
		}
	}
}

func TestMessageFallbacks(t *testing.T) {
	if got := apierrors.Message("QUOTA_EXCEEDED", "monthly quota exceeded"); got != "monthly quota exceeded" {
		t.Fatalf("unmapped code must fall back to the raw message, got %q", got)
	}
	if got := apierrors.Message("QUOTA_EXCEEDED", "  "); got != apierrors.GenericMessage {
		t.Fatalf("expected generic message, got %q", got)
	}
	if apierrors.Known("QUOTA_EXCEEDED") {
		t.Fatal("unexpected known code")
	}
}

func TestMessageNormalizesCode(t *testing.T) {
	if got := apierrors.Message(" not_found ", ""); got != "The requested record could not be found." {
		t.Fatalf("expected case-insensitive lookup, got %q", got)
	}
}
