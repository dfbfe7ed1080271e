package uploads

import (
	"errors"
	"fmt"
)

var (
	ErrProposalIDRequired  = errors.New("uploads: proposal id required")
	ErrFileNameRequired    = errors.New("uploads: original file name required")
	ErrContentTypeRequired = errors.New("uploads: content type required")
	ErrContentTypeBlocked  = errors.New("uploads: content type not allowed")
	ErrNotUploading        = errors.New("uploads: no upload in progress for proposal")
	ErrProposalLocked      = errors.New("uploads: proposal is not editable")
	ErrSizeRequired        = errors.New("uploads: size must be positive")
	ErrTooLarge            = errors.New("uploads: file exceeds the maximum allowed size")
)

// NotFoundError represents a proposal with no upload record.
type NotFoundError struct {
	Key string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("upload for proposal %q not found", e.Key)
}
