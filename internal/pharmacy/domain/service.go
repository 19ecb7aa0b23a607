package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	CreatePharmacy(ctx context.Context, req CreatePharmacyRequest) (*PharmacyResponse, error)
	ListPharmacies(ctx context.Context) ([]PharmacyResponse, error)
	ListShippingRules(ctx context.Context, pharmacyID string) ([]ShippingRule, error)
	UpsertShippingRule(ctx context.Context, req UpsertRuleRequest) (*ShippingRule, error)
	Eligibility(ctx context.Context, stateCode string) ([]StateEligibility, error)
	EligiblePharmacyIDs(ctx context.Context, stateCode string) (map[snowflake.ID]bool, error)
}

type CreatePharmacyRequest struct {
	Name     string         `json:"name"`
	Slug     string         `json:"slug"`
	Active   *bool          `json:"active"`
	Metadata map[string]any `json:"metadata"`
}

type PharmacyResponse struct {
	ID        snowflake.ID `json:"id"`
	Name      string       `json:"name"`
	Slug      string       `json:"slug"`
	Active    bool         `json:"active"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type UpsertRuleRequest struct {
	PharmacyID string  `json:"pharmacy_id"`
	StateCode  string  `json:"state_code"`
	CanShip    bool    `json:"can_ship"`
	Notes      *string `json:"notes"`
}

// StateEligibility is one pharmacy's verdict for a queried state.
type StateEligibility struct {
	PharmacyID   snowflake.ID `json:"pharmacy_id"`
	PharmacyName string       `json:"pharmacy_name"`
	StateCode    string       `json:"state_code"`
	CanShip      bool         `json:"can_ship"`
	Notes        *string      `json:"notes,omitempty"`
}

var (
	ErrInvalidName     = errors.New("invalid_name")
	ErrInvalidSlug     = errors.New("invalid_slug")
	ErrInvalidPharmacy = errors.New("invalid_pharmacy")
	ErrInvalidState    = errors.New("invalid_state")
	ErrInvalidID       = errors.New("invalid_id")
	ErrDuplicateSlug   = errors.New("duplicate_slug")
	ErrNotFound        = errors.New("not_found")
)
