// Package fulfillment computes vial/dispenser combinations that cover a total
// prescribed dose, ranked by leftover volume with gross margin as tie-break.
package fulfillment

import (
	"math"
	"sort"
)

// DefaultOverageEpsilon is the volume difference (ml) below which two plans'
// overage is considered a tie and profit margin decides the order.
const DefaultOverageEpsilon = 0.01

// SKU is one purchasable pharmacy unit. Callers hand in an already
// shipping-filtered, active-only catalog with positive concentration and
// fill volume; those invariants are enforced at the catalog boundary.
type SKU struct {
	ID              int64   `json:"id"`
	PharmacyID      int64   `json:"pharmacy_id"`
	PharmacyName    string  `json:"pharmacy_name"`
	Name            string  `json:"name"`
	Concentration   float64 `json:"concentration"`
	FillVolume      float64 `json:"fill_volume"`
	UnitCost        float64 `json:"unit_cost"`
	UnitRetailPrice float64 `json:"unit_retail_price"`
}

// PlanItem is a consumed SKU with its unit count.
type PlanItem struct {
	SKU      SKU `json:"sku"`
	Quantity int `json:"quantity"`
}

// Plan is a covering combination for one concentration group.
type Plan struct {
	Concentration  float64    `json:"concentration"`
	VolumeNeeded   float64    `json:"volume_needed"`
	VolumeProvided float64    `json:"volume_provided"`
	Overage        float64    `json:"overage"`
	Items          []PlanItem `json:"items"`
	TotalCost      float64    `json:"total_cost"`
	TotalRetail    float64    `json:"total_retail"`
	Profit         float64    `json:"profit"`
	ProfitMargin   float64    `json:"profit_margin"`
}

// Options tunes the optimizer.
type Options struct {
	// OverageEpsilon overrides DefaultOverageEpsilon when positive.
	OverageEpsilon float64
}

func (o Options) epsilon() float64 {
	if o.OverageEpsilon > 0 {
		return o.OverageEpsilon
	}
	return DefaultOverageEpsilon
}

// Optimize builds one plan per distinct concentration in the catalog and
// returns them ranked: ascending overage, ties broken by descending margin.
//
// Within a group the walk is greedy largest-fill-first, consuming whole units
// while the remaining volume covers a full unit; the smallest SKU consumes one
// extra unit to overshoot into full coverage. This is the product's specified
// behavior; it favors fewer distinct SKU types and is not a bin-covering
// optimum.
func Optimize(totalDose float64, catalog []SKU, opts Options) []Plan {
	if totalDose <= 0 || len(catalog) == 0 {
		return nil
	}

	groups := groupByConcentration(catalog)

	plans := make([]Plan, 0, len(groups))
	for _, group := range groups {
		if plan, ok := coverGroup(totalDose, group); ok {
			plans = append(plans, plan)
		}
	}

	rank(plans, opts.epsilon())
	return plans
}

func groupByConcentration(catalog []SKU) [][]SKU {
	byConc := make(map[float64][]SKU)
	for _, sku := range catalog {
		byConc[sku.Concentration] = append(byConc[sku.Concentration], sku)
	}

	concentrations := make([]float64, 0, len(byConc))
	for c := range byConc {
		concentrations = append(concentrations, c)
	}
	sort.Float64s(concentrations)

	groups := make([][]SKU, 0, len(byConc))
	for _, c := range concentrations {
		group := byConc[c]
		sort.SliceStable(group, func(i, j int) bool {
			if group[i].FillVolume != group[j].FillVolume {
				return group[i].FillVolume > group[j].FillVolume
			}
			if group[i].UnitCost != group[j].UnitCost {
				return group[i].UnitCost < group[j].UnitCost
			}
			return group[i].ID < group[j].ID
		})
		groups = append(groups, group)
	}
	return groups
}

func coverGroup(totalDose float64, group []SKU) (Plan, bool) {
	concentration := group[0].Concentration
	volumeNeeded := totalDose / concentration

	plan := Plan{
		Concentration: concentration,
		VolumeNeeded:  volumeNeeded,
	}

	remaining := volumeNeeded
	for i, sku := range group {
		last := i == len(group)-1
		quantity := 0
		for remaining > 0 && (remaining >= sku.FillVolume || last) {
			quantity++
			remaining -= sku.FillVolume
		}
		if quantity == 0 {
			continue
		}

		plan.Items = append(plan.Items, PlanItem{SKU: sku, Quantity: quantity})
		plan.VolumeProvided += float64(quantity) * sku.FillVolume
		plan.TotalCost += float64(quantity) * sku.UnitCost
		plan.TotalRetail += float64(quantity) * sku.UnitRetailPrice

		if remaining <= 0 {
			break
		}
	}

	if len(plan.Items) == 0 {
		return Plan{}, false
	}

	plan.Overage = plan.VolumeProvided - plan.VolumeNeeded
	plan.Profit = plan.TotalRetail - plan.TotalCost
	if plan.TotalRetail > 0 {
		plan.ProfitMargin = 100 * plan.Profit / plan.TotalRetail
	}
	return plan, true
}

func rank(plans []Plan, epsilon float64) {
	sort.SliceStable(plans, func(i, j int) bool {
		if math.Abs(plans[i].Overage-plans[j].Overage) < epsilon {
			return plans[i].ProfitMargin > plans[j].ProfitMargin
		}
		return plans[i].Overage < plans[j].Overage
	})
}
