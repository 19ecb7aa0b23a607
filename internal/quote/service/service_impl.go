package service

import (
	"context"
	"errors"
	"strings"

	catalogdomain "github.com/smallbiznis/doseplan/internal/catalog/domain"
	"github.com/smallbiznis/doseplan/internal/clock"
	"github.com/smallbiznis/doseplan/internal/dosage"
	"github.com/smallbiznis/doseplan/internal/fulfillment"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	"github.com/smallbiznis/doseplan/internal/observability/metrics"
	pharmacydomain "github.com/smallbiznis/doseplan/internal/pharmacy/domain"
	quotedomain "github.com/smallbiznis/doseplan/internal/quote/domain"
	"github.com/smallbiznis/doseplan/internal/titration"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log           *zap.Logger
	Clock         clock.Clock
	Metrics       *metrics.Metrics
	MedicationSvc medicationdomain.Service
	CatalogSvc    catalogdomain.Service
}

type Service struct {
	log           *zap.Logger
	clock         clock.Clock
	metrics       *metrics.Metrics
	medicationSvc medicationdomain.Service
	catalogSvc    catalogdomain.Service
}

func New(p Params) quotedomain.Service {
	return &Service{
		log:           p.Log.Named("quote.service"),
		clock:         p.Clock,
		metrics:       p.Metrics,
		medicationSvc: p.MedicationSvc,
		catalogSvc:    p.CatalogSvc,
	}
}

func (s *Service) Compute(ctx context.Context, req quotedomain.Request) (*quotedomain.Response, error) {
	if req.DurationPeriods < 1 {
		return nil, quotedomain.ErrInvalidDuration
	}

	medication, err := s.medicationSvc.GetByCode(ctx, req.MedicationCode)
	if err != nil {
		return nil, quotedomain.ErrInvalidMedication
	}

	schedule, err := buildSchedule(medication, req)
	if err != nil {
		return nil, err
	}
	totalDose := titration.TotalDose(schedule)

	resp := &quotedomain.Response{
		MedicationCode:  medication.Code,
		MedicationName:  medication.Name,
		PeriodUnit:      medication.PeriodUnit,
		StateCode:       strings.ToUpper(strings.TrimSpace(req.StateCode)),
		DurationPeriods: req.DurationPeriods,
		TotalDose:       totalDose,
		GeneratedAt:     s.clock.Now(),
	}

	if totalDose <= 0 {
		resp.Message = "schedule has no dose; nothing to fulfill"
		s.metrics.RecordQuote(medication.Code, true)
		return resp, nil
	}

	items, err := s.catalogSvc.ListForState(ctx, medication.Code, req.StateCode)
	if err != nil {
		if errors.Is(err, pharmacydomain.ErrInvalidState) {
			return nil, quotedomain.ErrInvalidState
		}
		return nil, err
	}

	resp.Plans = fulfillment.Optimize(totalDose, toSKUs(items), fulfillment.Options{})
	if len(resp.Plans) == 0 {
		resp.Message = "no products available for this medication and destination"
		s.metrics.RecordQuote(medication.Code, true)
		return resp, nil
	}

	selected, err := selectPlan(resp.Plans, req.SelectedConcentration)
	if err != nil {
		return nil, err
	}
	resp.SelectedConcentration = selected.Concentration
	resp.Schedule = buildEntries(schedule, selected.Concentration)
	resp.Summary = renderSummary(resp, selected)

	s.metrics.RecordQuote(medication.Code, false)
	s.log.Info("quote computed",
		zap.String("medication_code", medication.Code),
		zap.String("state_code", resp.StateCode),
		zap.Int("duration_periods", req.DurationPeriods),
		zap.Float64("total_dose", totalDose),
		zap.Int("plans", len(resp.Plans)),
	)
	return resp, nil
}

// buildSchedule materializes the per-period doses. Custom requests backfill
// unspecified periods from the medication's preset ladder.
func buildSchedule(m *medicationdomain.Medication, req quotedomain.Request) ([]titration.Period, error) {
	preset, ok := titration.LadderByName(m.TitrationPreset)
	if !ok {
		return nil, quotedomain.ErrInvalidMedication
	}

	switch req.Mode {
	case quotedomain.StandardMonthly, quotedomain.StandardWeekly:
		ladder, _ := titration.LadderByName(string(req.Mode))
		return titration.Standard(ladder, req.DurationPeriods), nil
	case quotedomain.Custom:
		return titration.Custom(preset, req.DurationPeriods, req.CustomDoses), nil
	case "":
		return titration.Standard(preset, req.DurationPeriods), nil
	default:
		return nil, quotedomain.ErrInvalidMode
	}
}

// toSKUs hands the shipping-filtered catalog to the optimizer.
func toSKUs(items []catalogdomain.Item) []fulfillment.SKU {
	skus := make([]fulfillment.SKU, len(items))
	for i, item := range items {
		skus[i] = fulfillment.SKU{
			ID:              int64(item.ID),
			PharmacyID:      int64(item.PharmacyID),
			PharmacyName:    item.PharmacyName,
			Name:            item.Name,
			Concentration:   item.Concentration,
			FillVolume:      item.FillVolume,
			UnitCost:        item.UnitCost,
			UnitRetailPrice: item.UnitRetailPrice,
		}
	}
	return skus
}

func selectPlan(plans []fulfillment.Plan, concentration *float64) (fulfillment.Plan, error) {
	if concentration == nil {
		return plans[0], nil
	}
	for _, plan := range plans {
		if plan.Concentration == *concentration {
			return plan, nil
		}
	}
	return fulfillment.Plan{}, quotedomain.ErrInvalidConcentration
}

func buildEntries(schedule []titration.Period, concentration float64) []quotedomain.ScheduleEntry {
	entries := make([]quotedomain.ScheduleEntry, len(schedule))
	for i, p := range schedule {
		volume := dosage.Volume(p.Dose, concentration)
		entries[i] = quotedomain.ScheduleEntry{
			Period:       p.Index,
			Dose:         p.Dose,
			Volume:       volume,
			SyringeUnits: dosage.SyringeUnits(volume),
		}
	}
	return entries
}
