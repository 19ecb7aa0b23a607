package domain

import (
	"context"
	"errors"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Medication, error)
	List(ctx context.Context) ([]Medication, error)
	GetByCode(ctx context.Context, code string) (*Medication, error)
}

type CreateRequest struct {
	Code            string     `json:"code"`
	Name            string     `json:"name"`
	Form            Form       `json:"form"`
	PeriodUnit      PeriodUnit `json:"period_unit"`
	TitrationPreset string     `json:"titration_preset"`
	Active          *bool      `json:"active"`
}

var (
	ErrInvalidCode   = errors.New("invalid_code")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidForm   = errors.New("invalid_form")
	ErrInvalidUnit   = errors.New("invalid_period_unit")
	ErrInvalidPreset = errors.New("invalid_titration_preset")
	ErrDuplicateCode = errors.New("duplicate_code")
	ErrNotFound      = errors.New("not_found")
)
