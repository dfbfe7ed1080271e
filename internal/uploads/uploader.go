package uploads

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// ProgressFunc receives the number of bytes sent so far and the total size.
type ProgressFunc func(sent, total int64)

// Uploader runs the full 3-step protocol for a caller holding the file bytes:
// presign, PUT to storage, complete. A failed PUT marks the upload FAILED
// before returning the error.
type Uploader struct {
	service Service
	client  *resty.Client
}

// NewUploader builds an uploader over the given service. timeout bounds the
// storage PUT; zero means the client default.
func NewUploader(service Service, timeout time.Duration) *Uploader {
	client := resty.New()
	if timeout > 0 {
		client.SetTimeout(timeout)
	}
	return &Uploader{service: service, client: client}
}

// Run uploads body for the proposal and returns the completed record. The
// three steps are strictly sequential; each depends on the prior's output.
func (u *Uploader) Run(ctx context.Context, proposalID uuid.UUID, fileName, contentType string, body io.Reader, size int64, progress ProgressFunc) (*Upload, error) {
	presigned, err := u.service.Presign(ctx, PresignRequest{
		ProposalID:       proposalID,
		OriginalFileName: fileName,
		ContentType:      contentType,
	})
	if err != nil {
		return nil, err
	}

	reader := io.Reader(body)
	if progress != nil {
		reader = &progressReader{inner: body, total: size, report: progress}
	}

	resp, err := u.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", contentType).
		SetContentLength(true).
		SetBody(reader).
		Put(presigned.URL)
	if err != nil {
		u.fail(ctx, proposalID, err.Error())
		return nil, fmt.Errorf("uploads: put file: %w", err)
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusCreated && resp.StatusCode() != http.StatusNoContent {
		reason := fmt.Sprintf("storage responded %d", resp.StatusCode())
		u.fail(ctx, proposalID, reason)
		return nil, fmt.Errorf("uploads: put file: %s", reason)
	}

	return u.service.Complete(ctx, CompleteRequest{ProposalID: proposalID, SizeBytes: size})
}

func (u *Uploader) fail(ctx context.Context, proposalID uuid.UUID, reason string) {
	// Best effort: the PUT error is the one worth returning.
	_, _ = u.service.Fail(ctx, FailRequest{ProposalID: proposalID, Reason: reason})
}

type progressReader struct {
	inner  io.Reader
	total  int64
	sent   int64
	report ProgressFunc
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.inner.Read(p)
	if n > 0 {
		r.sent += int64(n)
		r.report(r.sent, r.total)
	}
	return n, err
}
