package uploads_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/uploads"
	"github.com/google/uuid"
)

func newTestService(t *testing.T, opts ...uploads.ServiceOption) uploads.Service {
	t.Helper()
	base := []uploads.ServiceOption{
		uploads.WithClock(func() time.Time {
			return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
		}),
	}
	return uploads.NewService(
		uploads.NewMemoryRepository(),
		uploads.NewMemoryPresigner("https://storage.test"),
		append(base, opts...)...,
	)
}

func TestPresignStartsUpload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	proposalID := uuid.New()

	presigned, err := svc.Presign(ctx, uploads.PresignRequest{
		ProposalID:       proposalID,
		OriginalFileName: "transactions.csv",
		ContentType:      "text/csv",
	})
	if err != nil {
		t.Fatalf("presign: %v", err)
	}
	if presigned.URL == "" || presigned.ObjectKey == "" {
		t.Fatalf("incomplete presign result %+v", presigned)
	}

	current, err := svc.Current(ctx, proposalID)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.Status != domain.UploadUploading {
		t.Fatalf("expected UPLOADING, got %s", current.Status)
	}
	if current.OriginalFileName != "transactions.csv" {
		t.Fatalf("unexpected file name %q", current.OriginalFileName)
	}
}

func TestPresignRejectsBlockedContentType(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Presign(context.Background(), uploads.PresignRequest{
		ProposalID:       uuid.New(),
		OriginalFileName: "malware.exe",
		ContentType:      "application/x-msdownload",
	})
	if !errors.Is(err, uploads.ErrContentTypeBlocked) {
		t.Fatalf("expected ErrContentTypeBlocked, got %v", err)
	}
}

func TestCompleteFinishesUpload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	proposalID := uuid.New()

	if _, err := svc.Presign(ctx, uploads.PresignRequest{
		ProposalID:       proposalID,
		OriginalFileName: "data.json",
		ContentType:      "application/json",
	}); err != nil {
		t.Fatalf("presign: %v", err)
	}

	record, err := svc.Complete(ctx, uploads.CompleteRequest{ProposalID: proposalID, SizeBytes: 2048})
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if record.Status != domain.UploadUploaded {
		t.Fatalf("expected UPLOADED, got %s", record.Status)
	}
	if record.SizeBytes != 2048 {
		t.Fatalf("expected size 2048, got %d", record.SizeBytes)
	}
}

func TestCompleteRequiresInFlightUpload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	proposalID := uuid.New()

	if _, err := svc.Presign(ctx, uploads.PresignRequest{
		ProposalID:       proposalID,
		OriginalFileName: "data.csv",
		ContentType:      "text/csv",
	}); err != nil {
		t.Fatalf("presign: %v", err)
	}
	if _, err := svc.Complete(ctx, uploads.CompleteRequest{ProposalID: proposalID, SizeBytes: 10}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := svc.Complete(ctx, uploads.CompleteRequest{ProposalID: proposalID, SizeBytes: 10}); !errors.Is(err, uploads.ErrNotUploading) {
		t.Fatalf("second complete: expected ErrNotUploading, got %v", err)
	}
}

func TestCompleteEnforcesSizeCap(t *testing.T) {
	svc := newTestService(t, uploads.WithMaxSizeBytes(100))
	ctx := context.Background()
	proposalID := uuid.New()

	if _, err := svc.Presign(ctx, uploads.PresignRequest{
		ProposalID:       proposalID,
		OriginalFileName: "data.csv",
		ContentType:      "text/csv",
	}); err != nil {
		t.Fatalf("presign: %v", err)
	}

	if _, err := svc.Complete(ctx, uploads.CompleteRequest{ProposalID: proposalID, SizeBytes: 101}); !errors.Is(err, uploads.ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
	if _, err := svc.Complete(ctx, uploads.CompleteRequest{ProposalID: proposalID, SizeBytes: 0}); !errors.Is(err, uploads.ErrSizeRequired) {
		t.Fatalf("expected ErrSizeRequired, got %v", err)
	}
}

func TestFailMarksUpload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	proposalID := uuid.New()

	if _, err := svc.Presign(ctx, uploads.PresignRequest{
		ProposalID:       proposalID,
		OriginalFileName: "data.csv",
		ContentType:      "text/csv",
	}); err != nil {
		t.Fatalf("presign: %v", err)
	}

	record, err := svc.Fail(ctx, uploads.FailRequest{ProposalID: proposalID, Reason: "connection reset"})
	if err != nil {
		t.Fatalf("fail: %v", err)
	}
	if record.Status != domain.UploadFailed {
		t.Fatalf("expected FAILED, got %s", record.Status)
	}
	if record.FailureReason == nil || *record.FailureReason != "connection reset" {
		t.Fatalf("unexpected failure reason %v", record.FailureReason)
	}
}

func TestPresignReplacesPreviousUpload(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	proposalID := uuid.New()

	if _, err := svc.Presign(ctx, uploads.PresignRequest{
		ProposalID:       proposalID,
		OriginalFileName: "v1.csv",
		ContentType:      "text/csv",
	}); err != nil {
		t.Fatalf("first presign: %v", err)
	}
	if _, err := svc.Complete(ctx, uploads.CompleteRequest{ProposalID: proposalID, SizeBytes: 10}); err != nil {
		t.Fatalf("complete: %v", err)
	}

	if _, err := svc.Presign(ctx, uploads.PresignRequest{
		ProposalID:       proposalID,
		OriginalFileName: "v2.csv",
		ContentType:      "text/csv",
	}); err != nil {
		t.Fatalf("second presign: %v", err)
	}

	current, err := svc.Current(ctx, proposalID)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.Status != domain.UploadUploading || current.OriginalFileName != "v2.csv" {
		t.Fatalf("expected replacement upload, got %+v", current)
	}
}

type stubProposalReader struct {
	status domain.VerificationStatus
}

func (r *stubProposalReader) VerificationStatus(context.Context, uuid.UUID) (domain.VerificationStatus, error) {
	return r.status, nil
}

func TestPresignRejectedWhenProposalLocked(t *testing.T) {
	reader := &stubProposalReader{status: domain.VerificationSubmitted}
	svc := newTestService(t, uploads.WithProposalReader(reader))
	ctx := context.Background()
	proposalID := uuid.New()

	_, err := svc.Presign(ctx, uploads.PresignRequest{
		ProposalID:       proposalID,
		OriginalFileName: "late.csv",
		ContentType:      "text/csv",
	})
	if !errors.Is(err, uploads.ErrProposalLocked) {
		t.Fatalf("expected ErrProposalLocked, got %v", err)
	}

	var nf *uploads.NotFoundError
	if _, err := svc.Current(ctx, proposalID); !errors.As(err, &nf) {
		t.Fatalf("expected no upload record, got %v", err)
	}
}

func TestCompleteRejectedWhenProposalLocked(t *testing.T) {
	reader := &stubProposalReader{status: domain.VerificationPending}
	svc := newTestService(t, uploads.WithProposalReader(reader))
	ctx := context.Background()
	proposalID := uuid.New()

	if _, err := svc.Presign(ctx, uploads.PresignRequest{
		ProposalID:       proposalID,
		OriginalFileName: "data.csv",
		ContentType:      "text/csv",
	}); err != nil {
		t.Fatalf("presign: %v", err)
	}

	reader.status = domain.VerificationSubmitted
	if _, err := svc.Complete(ctx, uploads.CompleteRequest{ProposalID: proposalID, SizeBytes: 10}); !errors.Is(err, uploads.ErrProposalLocked) {
		t.Fatalf("expected ErrProposalLocked, got %v", err)
	}

	current, err := svc.Current(ctx, proposalID)
	if err != nil {
		t.Fatalf("current: %v", err)
	}
	if current.Status != domain.UploadUploading {
		t.Fatalf("expected record untouched in UPLOADING, got %s", current.Status)
	}
}

type failingUploadRepository struct {
	err     error
	upserts int
}

func (r *failingUploadRepository) Upsert(_ context.Context, record *uploads.Upload) (*uploads.Upload, error) {
	r.upserts++
	return record, nil
}

func (r *failingUploadRepository) GetByProposal(context.Context, uuid.UUID) (*uploads.Upload, error) {
	return nil, r.err
}

func TestPresignPropagatesRepositoryError(t *testing.T) {
	storageDown := errors.New("storage offline")
	repo := &failingUploadRepository{err: storageDown}
	svc := uploads.NewService(repo, uploads.NewMemoryPresigner("https://storage.test"))

	_, err := svc.Presign(context.Background(), uploads.PresignRequest{
		ProposalID:       uuid.New(),
		OriginalFileName: "data.csv",
		ContentType:      "text/csv",
	})
	if !errors.Is(err, storageDown) {
		t.Fatalf("expected the storage error back, got %v", err)
	}
	if repo.upserts != 0 {
		t.Fatalf("expected no upsert after lookup failure, got %d", repo.upserts)
	}
}

func TestCurrentMissing(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Current(context.Background(), uuid.New())
	var nf *uploads.NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}
