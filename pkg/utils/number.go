package utils

import "math"

func RoundWithTwoDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*100) / 100
}

// RoundWithFourDecimalPlace is the rounding applied to attributed revenue
// before persisting. Weights are stored unrounded.
func RoundWithFourDecimalPlace(f float64) float64 {
	if f == 0 {
		return 0
	}

	return math.Round(f*10000) / 10000
}
