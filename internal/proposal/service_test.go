package proposal_test

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/goliatone/go-marketplace/internal/workflow"
	"github.com/google/uuid"
)

// spyPricingGateway records every call so tests can assert the cascade order.
type spyPricingGateway struct {
	info     *proposal.PricingInfo
	calls    []string
	latestFn func() (*proposal.PricingInfo, error)
}

func (s *spyPricingGateway) Latest(context.Context, uuid.UUID) (*proposal.PricingInfo, error) {
	s.calls = append(s.calls, "pricing.latest")
	if s.latestFn != nil {
		return s.latestFn()
	}
	return s.info, nil
}

func (s *spyPricingGateway) Submit(context.Context, uuid.UUID, uuid.UUID) error {
	s.calls = append(s.calls, "pricing.submit")
	if s.info != nil {
		s.info.Status = domain.PricingSubmitted
	}
	return nil
}

func (s *spyPricingGateway) OpenChangeRequest(context.Context, uuid.UUID, uuid.UUID) error {
	s.calls = append(s.calls, "pricing.change_request")
	return nil
}

type stubUploadReader struct {
	info *proposal.UploadInfo
}

func (s *stubUploadReader) Current(context.Context, uuid.UUID) (*proposal.UploadInfo, error) {
	return s.info, nil
}

type fixture struct {
	svc     proposal.Service
	repo    *proposal.MemoryRepository
	pricing *spyPricingGateway
	uploads *stubUploadReader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() time.Time { return time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC) }
	repo := proposal.NewMemoryRepository()
	pricing := &spyPricingGateway{}
	uploads := &stubUploadReader{}
	svc := proposal.NewService(repo, workflow.NewEngine(workflow.WithClock(clock)),
		proposal.WithClock(clock),
		proposal.WithPricingGateway(pricing),
		proposal.WithUploadReader(uploads),
	)
	return &fixture{svc: svc, repo: repo, pricing: pricing, uploads: uploads}
}

func (f *fixture) createProposal(t *testing.T) *proposal.Proposal {
	t.Helper()
	record, err := f.svc.Create(context.Background(), proposal.CreateRequest{
		SupplierID: uuid.New(),
		Title:      "Retail Transactions 2024",
		SuperType:  "tabular",
		Category:   "retail",
		License:    "CC-BY-4.0",
	})
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}
	return record
}

func (f *fixture) fillSections(t *testing.T, proposalID uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.UpsertAboutInfo(ctx, proposal.UpsertAboutRequest{
		ProposalID: proposalID,
		Summary:    "Point of sale transactions across 40 stores",
	}); err != nil {
		t.Fatalf("upsert about: %v", err)
	}
	if _, err := f.svc.UpsertDataFormatInfo(ctx, proposal.UpsertDataFormatRequest{
		ProposalID: proposalID,
		FileFormat: "csv",
		Encoding:   "utf-8",
		Delimiter:  ",",
		HasHeader:  true,
	}); err != nil {
		t.Fatalf("upsert format: %v", err)
	}
	if _, err := f.svc.ReplaceFeatures(ctx, proposal.ReplaceFeaturesRequest{
		ProposalID: proposalID,
		Features: []proposal.FeatureInput{
			{Name: "order_id", DataType: "string"},
			{Name: "amount", DataType: "decimal", IsNullable: true},
		},
	}); err != nil {
		t.Fatalf("replace features: %v", err)
	}
	f.uploads.info = &proposal.UploadInfo{
		Status:           domain.UploadUploaded,
		OriginalFileName: "transactions.csv",
		ContentType:      "text/csv",
		SizeBytes:        1024,
	}
}

func TestCreateStartsPending(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)

	if record.VerificationStatus != domain.VerificationPending {
		t.Fatalf("expected PENDING, got %s", record.VerificationStatus)
	}
	if record.Slug != "retail-transactions-2024" {
		t.Fatalf("unexpected slug %q", record.Slug)
	}
	if record.PublishStatus != "" {
		t.Fatalf("new proposal must not have a publish status, got %s", record.PublishStatus)
	}
}

func TestCheckPrerequisitesEmptyProposal(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)

	missing, err := f.svc.CheckPrerequisites(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("check prerequisites: %v", err)
	}
	want := []string{
		"File upload",
		"About Dataset information",
		"Data Format information",
		"At least one feature/column",
	}
	if !reflect.DeepEqual(missing, want) {
		t.Fatalf("expected %v, got %v", want, missing)
	}
}

func TestSubmitBlockedByPrerequisites(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)

	_, err := f.svc.Submit(context.Background(), proposal.SubmitRequest{ProposalID: record.ID})
	var notMet *proposal.PrerequisitesNotMetError
	if !errors.As(err, &notMet) {
		t.Fatalf("expected PrerequisitesNotMetError, got %v", err)
	}
	if len(notMet.Missing) != 4 {
		t.Fatalf("expected 4 missing items, got %v", notMet.Missing)
	}
	for _, call := range f.pricing.calls {
		if call == "pricing.submit" {
			t.Fatal("pricing must not be submitted when prerequisites fail")
		}
	}
}

func TestSubmitCascadesDraftPricingFirst(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	f.fillSections(t, record.ID)
	f.pricing.info = &proposal.PricingInfo{Version: 1, IsPaid: true, Price: 2500, Currency: "USD", Status: domain.PricingDraft}
	f.pricing.calls = nil

	updated, err := f.svc.Submit(context.Background(), proposal.SubmitRequest{ProposalID: record.ID, ActorID: uuid.New()})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if updated.VerificationStatus != domain.VerificationSubmitted {
		t.Fatalf("expected SUBMITTED, got %s", updated.VerificationStatus)
	}
	want := []string{"pricing.latest", "pricing.submit"}
	if !reflect.DeepEqual(f.pricing.calls, want) {
		t.Fatalf("expected pricing calls %v, got %v", want, f.pricing.calls)
	}
}

func TestSubmitSkipsNonDraftPricing(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	f.fillSections(t, record.ID)
	f.pricing.info = &proposal.PricingInfo{Version: 1, Status: domain.PricingActive}
	f.pricing.calls = nil

	if _, err := f.svc.Submit(context.Background(), proposal.SubmitRequest{ProposalID: record.ID}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	for _, call := range f.pricing.calls {
		if call == "pricing.submit" {
			t.Fatal("pricing must not be submitted when its status is not DRAFT")
		}
	}
}

func TestResubmitAfterChangesRequested(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	f.fillSections(t, record.ID)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, proposal.SubmitRequest{ProposalID: record.ID}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.Review(ctx, proposal.ReviewRequest{ProposalID: record.ID, Action: proposal.ReviewStartReview}); err != nil {
		t.Fatalf("start review: %v", err)
	}
	notes := "clarify the license terms"
	changed, err := f.svc.Review(ctx, proposal.ReviewRequest{ProposalID: record.ID, Action: proposal.ReviewRequestChanges, Notes: &notes})
	if err != nil {
		t.Fatalf("request changes: %v", err)
	}
	if changed.VerificationStatus != domain.VerificationChangesRequested {
		t.Fatalf("expected CHANGES_REQUESTED, got %s", changed.VerificationStatus)
	}

	resubmitted, err := f.svc.Submit(ctx, proposal.SubmitRequest{ProposalID: record.ID})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if resubmitted.VerificationStatus != domain.VerificationResubmitted {
		t.Fatalf("expected RESUBMITTED, got %s", resubmitted.VerificationStatus)
	}
}

func TestRejectedProposalIsLocked(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	f.fillSections(t, record.ID)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, proposal.SubmitRequest{ProposalID: record.ID}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.Review(ctx, proposal.ReviewRequest{ProposalID: record.ID, Action: proposal.ReviewStartReview}); err != nil {
		t.Fatalf("start review: %v", err)
	}
	reason := "source attribution missing"
	if _, err := f.svc.Review(ctx, proposal.ReviewRequest{ProposalID: record.ID, Action: proposal.ReviewReject, Reason: &reason}); err != nil {
		t.Fatalf("reject: %v", err)
	}

	if _, err := f.svc.Submit(ctx, proposal.SubmitRequest{ProposalID: record.ID}); !errors.Is(err, proposal.ErrProposalLocked) {
		t.Fatalf("submit after reject: expected ErrProposalLocked, got %v", err)
	}
	if _, err := f.svc.UpsertAboutInfo(ctx, proposal.UpsertAboutRequest{ProposalID: record.ID, Summary: "new"}); !errors.Is(err, proposal.ErrProposalLocked) {
		t.Fatalf("edit after reject: expected ErrProposalLocked, got %v", err)
	}
}

func TestEditLockedWhileInReview(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	f.fillSections(t, record.ID)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, proposal.SubmitRequest{ProposalID: record.ID}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.ReplaceFeatures(ctx, proposal.ReplaceFeaturesRequest{
		ProposalID: record.ID,
		Features:   []proposal.FeatureInput{{Name: "x", DataType: "string"}},
	}); !errors.Is(err, proposal.ErrProposalLocked) {
		t.Fatalf("expected ErrProposalLocked, got %v", err)
	}
}

func verifyProposal(t *testing.T, f *fixture, id uuid.UUID) {
	t.Helper()
	ctx := context.Background()
	if _, err := f.svc.Submit(ctx, proposal.SubmitRequest{ProposalID: id}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.Review(ctx, proposal.ReviewRequest{ProposalID: id, Action: proposal.ReviewStartReview}); err != nil {
		t.Fatalf("start review: %v", err)
	}
	if _, err := f.svc.Review(ctx, proposal.ReviewRequest{ProposalID: id, Action: proposal.ReviewVerify}); err != nil {
		t.Fatalf("verify: %v", err)
	}
}

func TestPublishLifecycle(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	f.fillSections(t, record.ID)
	ctx := context.Background()

	if _, err := f.svc.Publish(ctx, proposal.PublishRequest{ProposalID: record.ID}); !errors.Is(err, proposal.ErrNotVerified) {
		t.Fatalf("publish before verification: expected ErrNotVerified, got %v", err)
	}

	verifyProposal(t, f, record.ID)

	published, err := f.svc.Publish(ctx, proposal.PublishRequest{ProposalID: record.ID})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.PublishStatus != domain.PublishPublished {
		t.Fatalf("expected PUBLISHED, got %s", published.PublishStatus)
	}
	if published.DatasetUniqueID == nil || *published.DatasetUniqueID == "" {
		t.Fatal("publish must assign a dataset unique id")
	}

	if _, err := f.svc.Publish(ctx, proposal.PublishRequest{ProposalID: record.ID}); !errors.Is(err, proposal.ErrAlreadyPublished) {
		t.Fatalf("second publish: expected ErrAlreadyPublished, got %v", err)
	}
}

func TestPublishedActionsAvailable(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	f.fillSections(t, record.ID)
	ctx := context.Background()

	verifyProposal(t, f, record.ID)
	if _, err := f.svc.Publish(ctx, proposal.PublishRequest{ProposalID: record.ID}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	flipped, err := f.svc.ChangeVisibility(ctx, proposal.ChangeVisibilityRequest{ProposalID: record.ID, Visibility: proposal.VisibilityPrivate})
	if err != nil {
		t.Fatalf("change visibility: %v", err)
	}
	if flipped.Visibility != proposal.VisibilityPrivate {
		t.Fatalf("expected PRIVATE, got %s", flipped.Visibility)
	}
	if flipped.VerificationStatus != domain.VerificationVerified {
		t.Fatalf("visibility change must not touch verification status, got %s", flipped.VerificationStatus)
	}

	f.pricing.calls = nil
	if _, err := f.svc.RequestPricingChange(ctx, proposal.RequestPricingChangeRequest{ProposalID: record.ID}); err != nil {
		t.Fatalf("request pricing change: %v", err)
	}
	if !reflect.DeepEqual(f.pricing.calls, []string{"pricing.change_request"}) {
		t.Fatalf("expected change request call, got %v", f.pricing.calls)
	}

	archived, err := f.svc.Archive(ctx, proposal.ArchiveRequest{ProposalID: record.ID})
	if err != nil {
		t.Fatalf("archive: %v", err)
	}
	if archived.PublishStatus != domain.PublishArchived {
		t.Fatalf("expected ARCHIVED, got %s", archived.PublishStatus)
	}

	if _, err := f.svc.Archive(ctx, proposal.ArchiveRequest{ProposalID: record.ID}); !errors.Is(err, proposal.ErrNotPublished) {
		t.Fatalf("archive twice: expected ErrNotPublished, got %v", err)
	}
	if _, err := f.svc.ChangeVisibility(ctx, proposal.ChangeVisibilityRequest{ProposalID: record.ID, Visibility: proposal.VisibilityPublic}); !errors.Is(err, proposal.ErrNotPublished) {
		t.Fatalf("visibility after archive: expected ErrNotPublished, got %v", err)
	}
}

func TestPublishedActionsUnavailableBeforePublish(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	ctx := context.Background()

	if _, err := f.svc.Archive(ctx, proposal.ArchiveRequest{ProposalID: record.ID}); !errors.Is(err, proposal.ErrNotPublished) {
		t.Fatalf("expected ErrNotPublished, got %v", err)
	}
	if _, err := f.svc.RequestPricingChange(ctx, proposal.RequestPricingChangeRequest{ProposalID: record.ID}); !errors.Is(err, proposal.ErrNotPublished) {
		t.Fatalf("expected ErrNotPublished, got %v", err)
	}
}

func TestListMyDatasetsFiltersUnpublished(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	supplierID := uuid.New()

	draft, err := f.svc.Create(ctx, proposal.CreateRequest{SupplierID: supplierID, Title: "Draft Only"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	published, err := f.svc.Create(ctx, proposal.CreateRequest{SupplierID: supplierID, Title: "Goes Live"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	f.fillSections(t, published.ID)
	verifyProposal(t, f, published.ID)
	if _, err := f.svc.Publish(ctx, proposal.PublishRequest{ProposalID: published.ID}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	mine, err := f.svc.ListMine(ctx, supplierID)
	if err != nil {
		t.Fatalf("list mine: %v", err)
	}
	if len(mine) != 2 {
		t.Fatalf("expected 2 proposals, got %d", len(mine))
	}

	datasets, err := f.svc.ListMyDatasets(ctx, supplierID)
	if err != nil {
		t.Fatalf("list datasets: %v", err)
	}
	if len(datasets) != 1 || datasets[0].ID != published.ID {
		t.Fatalf("expected only the published proposal, got %d records", len(datasets))
	}
	_ = draft
}

func TestHistoryRecordsTransitions(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	f.fillSections(t, record.ID)
	ctx := context.Background()

	if _, err := f.svc.Submit(ctx, proposal.SubmitRequest{ProposalID: record.ID}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := f.svc.Review(ctx, proposal.ReviewRequest{ProposalID: record.ID, Action: proposal.ReviewStartReview}); err != nil {
		t.Fatalf("start review: %v", err)
	}

	events, err := f.svc.History(ctx, record.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].Transition != "submit" || events[0].ToStatus != domain.VerificationSubmitted {
		t.Fatalf("unexpected first event %+v", events[0])
	}
	if events[1].Transition != "start_review" || events[1].FromStatus != domain.VerificationSubmitted {
		t.Fatalf("unexpected second event %+v", events[1])
	}
}

func TestGetComposesDetail(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	f.fillSections(t, record.ID)
	f.pricing.info = &proposal.PricingInfo{Version: 1, IsPaid: true, Price: 2500, Currency: "USD", Status: domain.PricingDraft}

	detail, err := f.svc.Get(context.Background(), record.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if detail.About == nil || detail.Format == nil {
		t.Fatal("expected about and format sub-sections")
	}
	if len(detail.Features) != 2 {
		t.Fatalf("expected 2 features, got %d", len(detail.Features))
	}
	if detail.Upload == nil || detail.Upload.Status != domain.UploadUploaded {
		t.Fatalf("unexpected upload view %+v", detail.Upload)
	}
	if detail.Pricing == nil || detail.Pricing.Price != 2500 {
		t.Fatalf("unexpected pricing view %+v", detail.Pricing)
	}
}

func TestReplaceFeaturesRejectsBadSchema(t *testing.T) {
	f := newFixture(t)
	record := f.createProposal(t)
	ctx := context.Background()

	var invalid *proposal.InvalidFeaturesError
	_, err := f.svc.ReplaceFeatures(ctx, proposal.ReplaceFeaturesRequest{
		ProposalID: record.ID,
		Features: []proposal.FeatureInput{
			{Name: "order_id", DataType: "string"},
			{Name: "order_id", DataType: "integer"},
		},
	})
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFeaturesError for duplicate names, got %v", err)
	}

	_, err = f.svc.ReplaceFeatures(ctx, proposal.ReplaceFeaturesRequest{
		ProposalID: record.ID,
		Features:   []proposal.FeatureInput{{Name: "shape", DataType: "geometry"}},
	})
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidFeaturesError for unknown type, got %v", err)
	}
}
