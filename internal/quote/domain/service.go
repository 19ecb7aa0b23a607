package domain

import (
	"context"
	"errors"
	"time"

	"github.com/smallbiznis/doseplan/internal/fulfillment"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
)

type Service interface {
	Compute(ctx context.Context, req Request) (*Response, error)
}

// Mode selects how per-period doses are produced.
type Mode string

var (
	StandardMonthly Mode = "standard-monthly"
	StandardWeekly  Mode = "standard-weekly"
	Custom          Mode = "custom"
)

type Request struct {
	MedicationCode  string    `json:"medication_code"`
	DurationPeriods int       `json:"duration_periods"`
	Mode            Mode      `json:"mode"`
	CustomDoses     []float64 `json:"custom_doses,omitempty"`
	StateCode       string    `json:"state_code"`
	// SelectedConcentration pins the display schedule to a specific plan
	// instead of the top-ranked one.
	SelectedConcentration *float64 `json:"selected_concentration,omitempty"`
}

// ScheduleEntry is one period of the display schedule for the selected plan.
type ScheduleEntry struct {
	Period       int     `json:"period"`
	Dose         float64 `json:"dose"`
	Volume       float64 `json:"volume"`
	SyringeUnits float64 `json:"syringe_units"`
}

type Response struct {
	MedicationCode        string                      `json:"medication_code"`
	MedicationName        string                      `json:"medication_name"`
	PeriodUnit            medicationdomain.PeriodUnit `json:"period_unit"`
	StateCode             string                      `json:"state_code"`
	DurationPeriods       int                         `json:"duration_periods"`
	TotalDose             float64                     `json:"total_dose"`
	Plans                 []fulfillment.Plan          `json:"plans"`
	SelectedConcentration float64                     `json:"selected_concentration,omitempty"`
	Schedule              []ScheduleEntry             `json:"schedule,omitempty"`
	Summary               string                      `json:"summary,omitempty"`
	Message               string                      `json:"message,omitempty"`
	GeneratedAt           time.Time                   `json:"generated_at"`
}

var (
	ErrInvalidMedication    = errors.New("invalid_medication")
	ErrInvalidDuration      = errors.New("invalid_duration")
	ErrInvalidMode          = errors.New("invalid_mode")
	ErrInvalidState         = errors.New("invalid_state")
	ErrInvalidConcentration = errors.New("invalid_concentration")
)
