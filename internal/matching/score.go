package matching

import "math"

// ToPercent maps a matching score of ambiguous scale into a percentage
// integer. Backends emit scores either as fractions in [0,1] or already as
// percentages in [0,100]; a raw value of at most 1 is treated as a fraction.
// Absent values map to 0. ToPercent itself does not clamp; displaying
// consumers must pass the result through ClampPercent.
func ToPercent(value *float64) int {
	if value == nil {
		return 0
	}

	raw := *value
	if math.IsNaN(raw) {
		return 0
	}

	if raw <= 1 {
		return int(math.Round(raw * 100))
	}

	return int(math.Round(raw))
}

// ClampPercent bounds a percentage to [0,100]. Mandatory for anything that
// renders a percentage bar or percentage text, as a guard against malformed
// upstream data.
func ClampPercent(value int) int {
	if value < 0 {
		return 0
	}
	if value > 100 {
		return 100
	}
	return value
}
