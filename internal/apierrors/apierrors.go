// Package apierrors maps backend error codes to user-facing messages.
package apierrors

import "strings"

// Code identifies a backend error condition.
type Code string

const (
	CodeNoUpload           Code = "NO_UPLOAD"
	CodeUploadNotReady     Code = "UPLOAD_NOT_READY"
	CodeAboutInfoRequired  Code = "ABOUT_INFO_REQUIRED"
	CodeDataFormatRequired Code = "DATA_FORMAT_REQUIRED"
	CodeFeaturesRequired   Code = "FEATURES_REQUIRED"
	CodeInvalidState       Code = "INVALID_STATE"
	CodeNotFound           Code = "NOT_FOUND"
	CodeForbidden          Code = "FORBIDDEN"
	CodeNetworkError       Code = "NETWORK_ERROR"
	CodeTimeout            Code = "TIMEOUT"
	CodeOffline            Code = "OFFLINE"
)

// GenericMessage is the last-resort fallback when neither the code nor the
// raw message is usable.
const GenericMessage = "Something went wrong. Please try again."

var messages = map[Code]string{
	CodeNoUpload:           "Upload a dataset file before submitting.",
	CodeUploadNotReady:     "Your file upload has not finished yet.",
	CodeAboutInfoRequired:  "Fill in the About Dataset information before submitting.",
	CodeDataFormatRequired: "Fill in the Data Format information before submitting.",
	CodeFeaturesRequired:   "Add at least one feature/column before submitting.",
	CodeInvalidState:       "This action is not available in the current status.",
	CodeNotFound:           "The requested record could not be found.",
	CodeForbidden:          "You do not have permission to perform this action.",
	CodeNetworkError:       "A network error occurred. Check your connection and try again.",
	CodeTimeout:            "The request timed out. Please try again.",
	CodeOffline:            "You appear to be offline. Reconnect and try again.",
}

// Message resolves a backend error code to its user-facing string. Unmapped
// codes fall back to the raw message, then to the generic string.
func Message(code string, raw string) string {
	normalized := Code(strings.ToUpper(strings.TrimSpace(code)))
	if msg, ok := messages[normalized]; ok {
		return msg
	}
	if trimmed := strings.TrimSpace(raw); trimmed != "" {
		return trimmed
	}
	return GenericMessage
}

// Known reports whether the code has a dedicated message.
func Known(code string) bool {
	_, ok := messages[Code(strings.ToUpper(strings.TrimSpace(code)))]
	return ok
}
