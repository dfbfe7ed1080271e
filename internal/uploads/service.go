package uploads

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/logging"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
)

// DefaultMaxSizeBytes caps uploads at 5 GiB, matching the single-part PUT limit.
const DefaultMaxSizeBytes = int64(5) << 30

// DefaultAllowedContentTypes lists the dataset file types accepted at presign time.
var DefaultAllowedContentTypes = []string{
	"text/csv",
	"application/json",
	"application/x-ndjson",
	"application/parquet",
	"application/zip",
	"application/gzip",
}

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithClock overrides the clock used to stamp records.
func WithClock(clock func() time.Time) ServiceOption {
	return func(s *service) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithIDGenerator overrides the identifier generator.
func WithIDGenerator(generator func() uuid.UUID) ServiceOption {
	return func(s *service) {
		if generator != nil {
			s.id = generator
		}
	}
}

// WithLogger injects the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMaxSizeBytes overrides the upload size cap.
func WithMaxSizeBytes(max int64) ServiceOption {
	return func(s *service) {
		if max > 0 {
			s.maxSize = max
		}
	}
}

// WithProposalReader wires the proposal status lookup. When set, Presign and
// Complete refuse to touch the upload of a proposal that is no longer editable.
func WithProposalReader(reader ProposalReader) ServiceOption {
	return func(s *service) {
		if reader != nil {
			s.proposals = reader
		}
	}
}

// WithAllowedContentTypes overrides the accepted content type list.
func WithAllowedContentTypes(types []string) ServiceOption {
	return func(s *service) {
		if len(types) > 0 {
			s.allowed = normalizeContentTypes(types)
		}
	}
}

type service struct {
	repo      Repository
	presigner Presigner
	proposals ProposalReader
	allowed   map[string]struct{}
	maxSize   int64
	now       func() time.Time
	id        func() uuid.UUID
	logger    interfaces.Logger
}

// NewService constructs the upload service.
func NewService(repo Repository, presigner Presigner, opts ...ServiceOption) Service {
	s := &service{
		repo:      repo,
		presigner: presigner,
		allowed:   normalizeContentTypes(DefaultAllowedContentTypes),
		maxSize:   DefaultMaxSizeBytes,
		now:       time.Now,
		id:        uuid.New,
		logger:    logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) Presign(ctx context.Context, req PresignRequest) (*PresignedPut, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	fileName := strings.TrimSpace(req.OriginalFileName)
	if fileName == "" {
		return nil, ErrFileNameRequired
	}
	contentType := strings.ToLower(strings.TrimSpace(req.ContentType))
	if contentType == "" {
		return nil, ErrContentTypeRequired
	}
	if _, ok := s.allowed[contentType]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrContentTypeBlocked, contentType)
	}
	if err := s.ensureEditable(ctx, req.ProposalID); err != nil {
		return nil, err
	}

	objectKey := path.Join("proposals", req.ProposalID.String(), path.Base(fileName))
	presigned, err := s.presigner.PresignPut(ctx, objectKey, contentType)
	if err != nil {
		return nil, fmt.Errorf("uploads: presign: %w", err)
	}
	presigned.ObjectKey = objectKey

	now := s.now()
	record := &Upload{
		ID:               s.id(),
		ProposalID:       req.ProposalID,
		Status:           domain.UploadUploading,
		OriginalFileName: fileName,
		ContentType:      contentType,
		ObjectKey:        objectKey,
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	if existing, err := s.repo.GetByProposal(ctx, req.ProposalID); err == nil {
		record.ID = existing.ID
		record.CreatedAt = existing.CreatedAt
	} else {
		var notFound *NotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	if _, err := s.repo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	s.logger.Info("uploads.presign", "proposal_id", req.ProposalID.String(), "object_key", objectKey)
	return presigned, nil
}

func (s *service) Complete(ctx context.Context, req CompleteRequest) (*Upload, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	if req.SizeBytes <= 0 {
		return nil, ErrSizeRequired
	}
	if req.SizeBytes > s.maxSize {
		return nil, ErrTooLarge
	}
	if err := s.ensureEditable(ctx, req.ProposalID); err != nil {
		return nil, err
	}

	record, err := s.repo.GetByProposal(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}
	if record.Status != domain.UploadUploading {
		return nil, ErrNotUploading
	}

	record.Status = domain.UploadUploaded
	record.SizeBytes = req.SizeBytes
	record.FailureReason = nil
	record.UpdatedAt = s.now()
	updated, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Info("uploads.complete", "proposal_id", req.ProposalID.String(), "size_bytes", req.SizeBytes)
	return updated, nil
}

func (s *service) Fail(ctx context.Context, req FailRequest) (*Upload, error) {
	if req.ProposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	record, err := s.repo.GetByProposal(ctx, req.ProposalID)
	if err != nil {
		return nil, err
	}

	record.Status = domain.UploadFailed
	if reason := strings.TrimSpace(req.Reason); reason != "" {
		record.FailureReason = &reason
	}
	record.UpdatedAt = s.now()
	updated, err := s.repo.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}
	s.logger.Warn("uploads.failed", "proposal_id", req.ProposalID.String(), "reason", req.Reason)
	return updated, nil
}

func (s *service) Current(ctx context.Context, proposalID uuid.UUID) (*Upload, error) {
	if proposalID == uuid.Nil {
		return nil, ErrProposalIDRequired
	}
	return s.repo.GetByProposal(ctx, proposalID)
}

// ensureEditable enforces the proposal-level editability rule. Uploads share
// the same lock as the about/format/feature sections once review starts.
func (s *service) ensureEditable(ctx context.Context, proposalID uuid.UUID) error {
	if s.proposals == nil {
		return nil
	}
	status, err := s.proposals.VerificationStatus(ctx, proposalID)
	if err != nil {
		return err
	}
	if !domain.IsEditable(status) {
		return fmt.Errorf("%w: %s", ErrProposalLocked, status)
	}
	return nil
}

func normalizeContentTypes(types []string) map[string]struct{} {
	out := make(map[string]struct{}, len(types))
	for _, t := range types {
		normalized := strings.ToLower(strings.TrimSpace(t))
		if normalized != "" {
			out[normalized] = struct{}{}
		}
	}
	return out
}
