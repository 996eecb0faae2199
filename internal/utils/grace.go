package utils

import "math"

// MinGrace is the floor for any grace window, in seconds.
const MinGrace = 60

// ComputeGrace returns the allowed overrun beyond the expected period before
// a monitor is considered overdue. A positive customGrace wins over the
// computed default of half the period; either way the result never drops
// below MinGrace.
func ComputeGrace(period int, customGrace int) int {
	if customGrace > 0 {
		if customGrace < MinGrace {
			return MinGrace
		}
		return customGrace
	}

	grace := int(math.Round(float64(period) * 0.5))

	if grace < MinGrace {
		return MinGrace
	}

	return grace
}
