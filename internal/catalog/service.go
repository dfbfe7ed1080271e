package catalog

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/logging"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/goliatone/go-marketplace/pkg/interfaces"
	"github.com/google/uuid"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// ServiceOption configures the service at construction time.
type ServiceOption func(*service)

// WithLogger injects the module logger.
func WithLogger(logger interfaces.Logger) ServiceOption {
	return func(s *service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

type service struct {
	proposals proposal.Service
	renderer  goldmark.Markdown
	logger    interfaces.Logger
}

// NewService constructs the catalog service over the proposal service. The
// markdown renderer stays in safe mode: raw HTML in descriptions is escaped.
func NewService(proposals proposal.Service, opts ...ServiceOption) Service {
	s := &service{
		proposals: proposals,
		renderer: goldmark.New(
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
			goldmark.WithExtensions(extension.GFM, extension.Linkify),
		),
		logger: logging.NoOp(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *service) ListUnified(ctx context.Context, supplierID uuid.UUID) ([]UnifiedItem, error) {
	records, err := s.proposals.ListMine(ctx, supplierID)
	if err != nil {
		return nil, err
	}

	items := make([]UnifiedItem, 0, len(records))
	for _, record := range records {
		item, err := unify(record)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, nil
}

func (s *service) RenderAbout(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := s.renderer.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("catalog: render about: %w", err)
	}
	return buf.String(), nil
}

// unify maps a proposal record to its tagged row. Every kind is handled
// explicitly; an unexpected tag is an error, never a silent default.
func unify(record *proposal.Proposal) (UnifiedItem, error) {
	kind := KindProposal
	if record.PublishStatus != "" {
		kind = KindDataset
	}

	item := UnifiedItem{
		Kind:               kind,
		ID:                 record.ID,
		Title:              record.Title,
		VerificationStatus: record.VerificationStatus,
		Visibility:         record.Visibility,
		UpdatedAt:          record.UpdatedAt,
	}

	switch kind {
	case KindProposal:
		meta, err := domain.VerificationDisplayMeta(record.VerificationStatus)
		if err != nil {
			return UnifiedItem{}, err
		}
		item.StatusLabel = meta.Label
	case KindDataset:
		item.PublishStatus = record.PublishStatus
		if record.DatasetUniqueID != nil {
			item.DatasetUniqueID = *record.DatasetUniqueID
		}
		meta, err := domain.PublishDisplayMeta(record.PublishStatus)
		if err != nil {
			return UnifiedItem{}, err
		}
		item.StatusLabel = meta.Label
	default:
		return UnifiedItem{}, fmt.Errorf("catalog: unhandled item kind %q", kind)
	}
	return item, nil
}
