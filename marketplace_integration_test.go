package marketplace_test

import (
	"context"
	"testing"

	marketplace "github.com/goliatone/go-marketplace"
	"github.com/goliatone/go-marketplace/internal/catalog"
	"github.com/goliatone/go-marketplace/internal/domain"
	"github.com/goliatone/go-marketplace/internal/pricing"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/goliatone/go-marketplace/internal/uploads"
	"github.com/google/uuid"
)

func newModule(t *testing.T) *marketplace.Module {
	t.Helper()
	module, err := marketplace.New(marketplace.DefaultConfig())
	if err != nil {
		t.Fatalf("new module: %v", err)
	}
	return module
}

func prepareSubmittableProposal(t *testing.T, module *marketplace.Module, supplierID uuid.UUID) *proposal.Proposal {
	t.Helper()
	ctx := context.Background()

	record, err := module.Proposals().Create(ctx, proposal.CreateRequest{
		SupplierID: supplierID,
		Title:      "Air Quality Sensor Readings",
		Category:   "environment",
		License:    "CC-BY-4.0",
	})
	if err != nil {
		t.Fatalf("create proposal: %v", err)
	}

	if _, err := module.Proposals().UpsertAboutInfo(ctx, proposal.UpsertAboutRequest{
		ProposalID:  record.ID,
		Summary:     "Hourly PM2.5 and PM10 readings",
		Description: "# Coverage\n\nReadings from **40** stations.",
		Tags:        []string{"air-quality", "sensors"},
	}); err != nil {
		t.Fatalf("about info: %v", err)
	}
	if _, err := module.Proposals().UpsertDataFormatInfo(ctx, proposal.UpsertDataFormatRequest{
		ProposalID: record.ID,
		FileFormat: "csv",
		Encoding:   "utf-8",
		Delimiter:  ",",
		HasHeader:  true,
	}); err != nil {
		t.Fatalf("format info: %v", err)
	}
	if _, err := module.Proposals().ReplaceFeatures(ctx, proposal.ReplaceFeaturesRequest{
		ProposalID: record.ID,
		Features: []proposal.FeatureInput{
			{Name: "station_id", DataType: "string"},
			{Name: "pm25", DataType: "float"},
			{Name: "recorded_at", DataType: "timestamp"},
		},
	}); err != nil {
		t.Fatalf("features: %v", err)
	}

	if _, err := module.Uploads().Presign(ctx, uploads.PresignRequest{
		ProposalID:       record.ID,
		OriginalFileName: "readings.csv",
		ContentType:      "text/csv",
	}); err != nil {
		t.Fatalf("presign: %v", err)
	}
	if _, err := module.Uploads().Complete(ctx, uploads.CompleteRequest{
		ProposalID: record.ID,
		SizeBytes:  4096,
	}); err != nil {
		t.Fatalf("complete upload: %v", err)
	}

	if _, err := module.Pricing().Upsert(ctx, pricing.UpsertRequest{
		ProposalID: record.ID,
		IsPaid:     false,
		Currency:   "USD",
		ActorID:    supplierID,
	}); err != nil {
		t.Fatalf("pricing upsert: %v", err)
	}
	return record
}

func TestModuleLifecycleToPublishedDataset(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	supplierID := uuid.New()
	admin := uuid.New()

	record := prepareSubmittableProposal(t, module, supplierID)

	submitted, err := module.Proposals().Submit(ctx, proposal.SubmitRequest{ProposalID: record.ID, ActorID: supplierID})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if submitted.VerificationStatus != domain.VerificationSubmitted {
		t.Fatalf("expected SUBMITTED, got %s", submitted.VerificationStatus)
	}

	if _, err := module.Proposals().Review(ctx, proposal.ReviewRequest{
		ProposalID: record.ID, Action: proposal.ReviewStartReview, ActorID: admin,
	}); err != nil {
		t.Fatalf("start review: %v", err)
	}
	if _, err := module.Proposals().Review(ctx, proposal.ReviewRequest{
		ProposalID: record.ID, Action: proposal.ReviewVerify, ActorID: admin,
	}); err != nil {
		t.Fatalf("verify: %v", err)
	}

	published, err := module.Proposals().Publish(ctx, proposal.PublishRequest{ProposalID: record.ID, ActorID: supplierID})
	if err != nil {
		t.Fatalf("publish: %v", err)
	}
	if published.PublishStatus != domain.PublishPublished {
		t.Fatalf("expected PUBLISHED, got %s", published.PublishStatus)
	}
	if published.DatasetUniqueID == nil || *published.DatasetUniqueID == "" {
		t.Fatal("expected a dataset unique id after publish")
	}

	items, err := module.Catalog().ListUnified(ctx, supplierID)
	if err != nil {
		t.Fatalf("catalog list: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected one catalog row, got %d", len(items))
	}
	if items[0].Kind != catalog.KindDataset {
		t.Fatalf("expected dataset kind after publish, got %s", items[0].Kind)
	}
	if items[0].DatasetUniqueID != *published.DatasetUniqueID {
		t.Fatalf("catalog row unique id mismatch: %s vs %s", items[0].DatasetUniqueID, *published.DatasetUniqueID)
	}

	history, err := module.Proposals().History(ctx, record.ID)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 verification events, got %d", len(history))
	}
}

func TestModuleChangesRequestedRoundTrip(t *testing.T) {
	module := newModule(t)
	ctx := context.Background()
	supplierID := uuid.New()
	admin := uuid.New()

	record := prepareSubmittableProposal(t, module, supplierID)

	if _, err := module.Proposals().Submit(ctx, proposal.SubmitRequest{ProposalID: record.ID, ActorID: supplierID}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if _, err := module.Proposals().Review(ctx, proposal.ReviewRequest{
		ProposalID: record.ID, Action: proposal.ReviewStartReview, ActorID: admin,
	}); err != nil {
		t.Fatalf("start review: %v", err)
	}
	notes := "Add station coordinates"
	changed, err := module.Proposals().Review(ctx, proposal.ReviewRequest{
		ProposalID: record.ID, Action: proposal.ReviewRequestChanges, Notes: &notes, ActorID: admin,
	})
	if err != nil {
		t.Fatalf("request changes: %v", err)
	}
	if changed.VerificationStatus != domain.VerificationChangesRequested {
		t.Fatalf("expected CHANGES_REQUESTED, got %s", changed.VerificationStatus)
	}

	// The proposal is editable again while changes are requested.
	if _, err := module.Proposals().UpsertAboutInfo(ctx, proposal.UpsertAboutRequest{
		ProposalID: record.ID,
		Summary:    "Hourly readings with coordinates",
	}); err != nil {
		t.Fatalf("edit after changes requested: %v", err)
	}

	resubmitted, err := module.Proposals().Submit(ctx, proposal.SubmitRequest{ProposalID: record.ID, ActorID: supplierID})
	if err != nil {
		t.Fatalf("resubmit: %v", err)
	}
	if resubmitted.VerificationStatus != domain.VerificationResubmitted {
		t.Fatalf("expected RESUBMITTED, got %s", resubmitted.VerificationStatus)
	}
}
