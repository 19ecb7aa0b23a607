package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/doseplan/internal/fulfillment"
	medicationdomain "github.com/smallbiznis/doseplan/internal/medication/domain"
	quotedomain "github.com/smallbiznis/doseplan/internal/quote/domain"
)

// renderSummary formats a plain-text order summary for the selected plan.
func renderSummary(resp *quotedomain.Response, plan fulfillment.Plan) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Order Summary\n")
	fmt.Fprintf(&b, "Generated: %s\n", resp.GeneratedAt.UTC().Format(time.RFC3339))
	fmt.Fprintf(&b, "Medication: %s (%s)\n", resp.MedicationName, resp.MedicationCode)
	fmt.Fprintf(&b, "Destination: %s\n", resp.StateCode)
	fmt.Fprintf(&b, "Duration: %d %s\n", resp.DurationPeriods, periodNoun(resp.PeriodUnit, resp.DurationPeriods))
	fmt.Fprintf(&b, "Total dose: %.2f mg\n", resp.TotalDose)
	fmt.Fprintf(&b, "Concentration: %g mg/ml\n", plan.Concentration)
	fmt.Fprintf(&b, "Volume needed: %.2f ml (provided %.2f ml, overage %.2f ml)\n",
		plan.VolumeNeeded, plan.VolumeProvided, plan.Overage)

	b.WriteString("\n")
	for _, item := range plan.Items {
		fmt.Fprintf(&b, "%d x %s (%s) @ $%.2f cost / $%.2f retail\n",
			item.Quantity, item.SKU.Name, item.SKU.PharmacyName,
			item.SKU.UnitCost, item.SKU.UnitRetailPrice)
	}

	b.WriteString("\n")
	fmt.Fprintf(&b, "Total cost: $%.2f\n", plan.TotalCost)
	fmt.Fprintf(&b, "Total retail: $%.2f\n", plan.TotalRetail)
	fmt.Fprintf(&b, "Gross margin: %.1f%%\n", plan.ProfitMargin)

	return b.String()
}

func periodNoun(unit medicationdomain.PeriodUnit, n int) string {
	noun := "week"
	if unit == medicationdomain.Day {
		noun = "day"
	}
	if n != 1 {
		noun += "s"
	}
	return noun
}
