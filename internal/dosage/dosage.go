// Package dosage converts between dose mass, liquid volume and insulin-syringe
// units for display.
package dosage

// UnitsPerMilliliter is the standard insulin-syringe graduation. Domain-fixed.
const UnitsPerMilliliter = 100

// Volume returns the injection volume in ml for a dose (mg) at a vial
// concentration (mg/ml). Concentration must be positive by catalog invariant.
func Volume(dose, concentration float64) float64 {
	return dose / concentration
}

// SyringeUnits converts a volume in ml to insulin-syringe units.
func SyringeUnits(volume float64) float64 {
	return volume * UnitsPerMilliliter
}
