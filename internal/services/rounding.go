package services

import "math"

// centSnapTolerance bounds how far a value may sit from a half-cent
// step and still be treated as float drift rather than a genuine
// partial-cent amount.
const centSnapTolerance = 0.03

// RoundToNearestCent snaps x to the nearest 0.5 step when it lies
// within the tolerance, absorbing the drift that repeated division
// leaves behind (e.g. splitting a total into N quotas). Values outside
// the tolerance are returned unchanged.
func RoundToNearestCent(x float64) float64 {
	rounded := math.Round(x*2) / 2
	if math.Abs(x-rounded) <= centSnapTolerance {
		return rounded
	}
	return x
}
