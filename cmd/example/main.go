package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	marketplace "github.com/goliatone/go-marketplace"
	"github.com/goliatone/go-marketplace/internal/onboarding"
	"github.com/goliatone/go-marketplace/internal/pricing"
	"github.com/goliatone/go-marketplace/internal/proposal"
	"github.com/goliatone/go-marketplace/internal/uploads"
	"github.com/google/uuid"
)

// Walks a supplier through the full flow against in-memory storage:
// onboarding, proposal drafting, upload, pricing, submit, review, publish.
func main() {
	ctx := context.Background()

	cfg := marketplace.DefaultConfig()
	cfg.Logging.Level = "debug"

	module, err := marketplace.New(cfg)
	if err != nil {
		log.Fatalf("marketplace: %v", err)
	}

	supplier, err := module.Onboarding().Register(ctx, "supplier@example.com")
	if err != nil {
		log.Fatalf("register: %v", err)
	}
	if _, err := module.Onboarding().SelectSupplierType(ctx, supplier.ID, onboarding.SupplierOrganization); err != nil {
		log.Fatalf("select type: %v", err)
	}
	token, err := module.Onboarding().RequestEmailVerification(ctx, supplier.ID)
	if err != nil {
		log.Fatalf("request verification: %v", err)
	}
	if _, err := module.Onboarding().ConfirmEmail(ctx, supplier.ID, token); err != nil {
		log.Fatalf("confirm email: %v", err)
	}
	if _, err := module.Onboarding().MarkIdentityVerified(ctx, supplier.ID); err != nil {
		log.Fatalf("identity: %v", err)
	}
	if _, err := module.Onboarding().CompleteProfile(ctx, onboarding.CompleteProfileRequest{
		SupplierID:  supplier.ID,
		DisplayName: "Acme Data Co",
	}); err != nil {
		log.Fatalf("profile: %v", err)
	}

	record, err := module.Proposals().Create(ctx, proposal.CreateRequest{
		SupplierID: supplier.ID,
		Title:      "Retail Transactions 2025",
		Category:   "commerce",
		License:    "CC-BY-4.0",
	})
	if err != nil {
		log.Fatalf("create proposal: %v", err)
	}

	if _, err := module.Proposals().UpsertAboutInfo(ctx, proposal.UpsertAboutRequest{
		ProposalID:  record.ID,
		Summary:     "Anonymized point-of-sale transactions",
		Description: "Daily batches covering 1200 stores.",
		Tags:        []string{"retail", "transactions"},
	}); err != nil {
		log.Fatalf("about: %v", err)
	}
	if _, err := module.Proposals().UpsertDataFormatInfo(ctx, proposal.UpsertDataFormatRequest{
		ProposalID: record.ID,
		FileFormat: "csv",
		Encoding:   "utf-8",
		Delimiter:  ",",
		HasHeader:  true,
	}); err != nil {
		log.Fatalf("format: %v", err)
	}
	if _, err := module.Proposals().ReplaceFeatures(ctx, proposal.ReplaceFeaturesRequest{
		ProposalID: record.ID,
		Features: []proposal.FeatureInput{
			{Name: "order_id", DataType: "string"},
			{Name: "amount", DataType: "decimal"},
			{Name: "placed_at", DataType: "timestamp"},
		},
	}); err != nil {
		log.Fatalf("features: %v", err)
	}

	presigned, err := module.Uploads().Presign(ctx, uploads.PresignRequest{
		ProposalID:       record.ID,
		OriginalFileName: "transactions.csv",
		ContentType:      "text/csv",
	})
	if err != nil {
		log.Fatalf("presign: %v", err)
	}
	fmt.Printf("upload URL: %s\n", presigned.URL)
	if _, err := module.Uploads().Complete(ctx, uploads.CompleteRequest{
		ProposalID: record.ID,
		SizeBytes:  1 << 20,
	}); err != nil {
		log.Fatalf("complete upload: %v", err)
	}

	if _, err := module.Pricing().Upsert(ctx, pricing.UpsertRequest{
		ProposalID: record.ID,
		IsPaid:     true,
		Price:      9900,
		Currency:   "USD",
		ActorID:    supplier.ID,
	}); err != nil {
		log.Fatalf("pricing: %v", err)
	}

	if _, err := module.Proposals().Submit(ctx, proposal.SubmitRequest{ProposalID: record.ID, ActorID: supplier.ID}); err != nil {
		log.Fatalf("submit: %v", err)
	}

	admin := uuid.New()
	for _, action := range []proposal.ReviewAction{proposal.ReviewStartReview, proposal.ReviewVerify} {
		if _, err := module.Proposals().Review(ctx, proposal.ReviewRequest{
			ProposalID: record.ID,
			Action:     action,
			ActorID:    admin,
		}); err != nil {
			log.Fatalf("review %s: %v", action, err)
		}
	}

	published, err := module.Proposals().Publish(ctx, proposal.PublishRequest{ProposalID: record.ID, ActorID: supplier.ID})
	if err != nil {
		log.Fatalf("publish: %v", err)
	}
	fmt.Printf("published dataset %s\n", *published.DatasetUniqueID)

	items, err := module.Catalog().ListUnified(ctx, supplier.ID)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}
	out, _ := json.MarshalIndent(items, "", "  ")
	fmt.Println(string(out))
}
