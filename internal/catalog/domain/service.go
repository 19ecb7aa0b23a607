package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	// List returns all active SKUs for a medication regardless of destination.
	List(ctx context.Context, medicationCode string) ([]Item, error)
	// ListForState returns active SKUs for a medication whose pharmacy can
	// ship to the destination state.
	ListForState(ctx context.Context, medicationCode, stateCode string) ([]Item, error)
}

type CreateRequest struct {
	PharmacyID      string         `json:"pharmacy_id"`
	MedicationCode  string         `json:"medication_code"`
	Name            string         `json:"name"`
	Concentration   float64        `json:"concentration"`
	FillVolume      float64        `json:"fill_volume"`
	UnitCost        float64        `json:"unit_cost"`
	UnitRetailPrice float64        `json:"unit_retail_price"`
	Active          *bool          `json:"active"`
	Metadata        map[string]any `json:"metadata"`
}

var (
	ErrInvalidPharmacy      = errors.New("invalid_pharmacy")
	ErrInvalidMedication    = errors.New("invalid_medication")
	ErrInvalidName          = errors.New("invalid_name")
	ErrInvalidConcentration = errors.New("invalid_concentration")
	ErrInvalidFillVolume    = errors.New("invalid_fill_volume")
	ErrInvalidUnitCost      = errors.New("invalid_unit_cost")
	ErrInvalidRetailPrice   = errors.New("invalid_unit_retail_price")
	ErrInvalidID            = errors.New("invalid_id")
	ErrNotFound             = errors.New("not_found")
)

// FilterByPharmacy keeps items whose pharmacy is in the eligible set.
func FilterByPharmacy(items []Item, eligible map[snowflake.ID]bool) []Item {
	filtered := make([]Item, 0, len(items))
	for _, item := range items {
		if eligible[item.PharmacyID] {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
