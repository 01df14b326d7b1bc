package utils

import "math"

// -----------------------------------------------------------------------------

// Constants and helper functions for data retention and memory management.
// Dealers quote Mon-Sat 08:00-17:30 ICT and the poller runs about once a
// minute, so a day is ~570 points. Rounded up to 600 for safety.
const (
	DefaultRetentionDays = 7
)

// -----------------------------------------------------------------------------

// CalculateMaxDataPoints calculates max data points based on retention days.
func CalculateMaxDataPoints(days int) int {
	return int(math.Ceil(float64(days) * 600))
}
