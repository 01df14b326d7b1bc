package helpers

import "gold-observer/src/logger"

// GetRecommendedMemoryLimit sizes the quote buffer budget from physical RAM.
// Policy: 75% of total, floor of 512MB on machines that have it.
func GetRecommendedMemoryLimit() int {
	totalMB := GetTotalSystemMemoryMB()
	if totalMB == 0 {
		logger.NewLogger(nil, "SystemResources").Warning("Could not determine system memory. Defaulting to 512MB.")
		return 512
	}

	limit := int(float64(totalMB) * 0.75)

	if limit < 512 {
		if totalMB < 512 {
			return totalMB // Very low memory system
		}
		return 512
	}

	return limit
}
