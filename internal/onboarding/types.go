package onboarding

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// SupplierType distinguishes individual suppliers from organizations.
type SupplierType string

const (
	SupplierIndividual   SupplierType = "INDIVIDUAL"
	SupplierOrganization SupplierType = "ORGANIZATION"
)

// SupplierStatus is the account-level state.
type SupplierStatus string

const (
	SupplierOnboarding SupplierStatus = "ONBOARDING"
	SupplierActive     SupplierStatus = "ACTIVE"
)

// NextStep names the onboarding step the supplier should do next.
type NextStep string

const (
	StepSelectType      NextStep = "SELECT_TYPE"
	StepVerifyEmail     NextStep = "VERIFY_EMAIL"
	StepVerifyIdentity  NextStep = "VERIFY_IDENTITY"
	StepCompleteProfile NextStep = "COMPLETE_PROFILE"
	StepDone            NextStep = "DONE"
)

// Supplier is the onboarding account record.
type Supplier struct {
	bun.BaseModel `bun:"table:suppliers,alias:sp"`

	ID               uuid.UUID      `bun:",pk,type:uuid" json:"id"`
	Email            string         `bun:"email,notnull,unique" json:"email"`
	EmailVerified    bool           `bun:"email_verified,notnull,default:false" json:"email_verified"`
	EmailToken       *string        `bun:"email_token" json:"-"`
	Status           SupplierStatus `bun:"status,notnull,default:'ONBOARDING'" json:"status"`
	UserType         string         `bun:"user_type,notnull,default:'SUPPLIER'" json:"user_type"`
	SupplierType     SupplierType   `bun:"supplier_type" json:"supplier_type,omitempty"`
	IdentityVerified bool           `bun:"identity_verified,notnull,default:false" json:"identity_verified"`
	ProfileCompleted bool           `bun:"profile_completed,notnull,default:false" json:"profile_completed"`
	DisplayName      string         `bun:"display_name" json:"display_name"`
	CreatedAt        time.Time      `bun:"created_at,nullzero,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time      `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at"`
}

// Steps reports which onboarding stages are done.
type Steps struct {
	TypeSelected     bool `json:"type_selected"`
	EmailVerified    bool `json:"email_verified"`
	IdentityVerified bool `json:"identity_verified"`
	ProfileCompleted bool `json:"profile_completed"`
}

// OnboardingState is the step summary for a supplier.
type OnboardingState struct {
	SupplierType SupplierType `json:"supplier_type,omitempty"`
	NextStep     NextStep     `json:"next_step"`
	Steps        Steps        `json:"steps"`
}

// StatusView is the composed onboarding status response.
type StatusView struct {
	Onboarding OnboardingState `json:"onboarding"`
	Supplier   *Supplier       `json:"supplier"`
}

// Service drives supplier onboarding.
type Service interface {
	Register(ctx context.Context, email string) (*Supplier, error)
	Status(ctx context.Context, supplierID uuid.UUID) (*StatusView, error)
	SelectSupplierType(ctx context.Context, supplierID uuid.UUID, supplierType SupplierType) (*Supplier, error)
	// RequestEmailVerification issues a fresh verification token.
	RequestEmailVerification(ctx context.Context, supplierID uuid.UUID) (string, error)
	ConfirmEmail(ctx context.Context, supplierID uuid.UUID, token string) (*Supplier, error)
	// MarkIdentityVerified records a passed PAN verification.
	MarkIdentityVerified(ctx context.Context, supplierID uuid.UUID) (*Supplier, error)
	CompleteProfile(ctx context.Context, req CompleteProfileRequest) (*Supplier, error)
}

// CompleteProfileRequest finishes onboarding.
type CompleteProfileRequest struct {
	SupplierID  uuid.UUID
	DisplayName string
}

// Repository abstracts storage for suppliers.
type Repository interface {
	Create(ctx context.Context, record *Supplier) (*Supplier, error)
	Update(ctx context.Context, record *Supplier) (*Supplier, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Supplier, error)
	GetByEmail(ctx context.Context, email string) (*Supplier, error)
}
