package server

import (
	"encoding/json"

	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------

func safeProcessingMetrics(data map[string]interface{}, key string) models.MProcessingMetrics {
	if val, ok := data[key]; ok {
		if m, ok := val.(models.MProcessingMetrics); ok {
			return m
		}
		// Try map conversion if it comes as generic map (e.g. from JSON)
		if m, ok := val.(map[string]interface{}); ok {
			return models.MProcessingMetrics{
				AnalyticsTimeSeconds: safeFloat64(m, "analytics_time_seconds"),
				ValidPoints:          int(safeInt64(m, "valid_points")),
				SeriesComputed:       int(safeInt64(m, "series_computed")),
			}
		}
	}
	return models.MProcessingMetrics{}
}

// -----------------------------------------------------------------------------

func safeGoldPriceMap(data map[string]interface{}, key string) map[string]models.MGoldPrice {
	result := make(map[string]models.MGoldPrice)
	if val, ok := data[key]; ok {
		// If it's already the right type
		if m, ok := val.(map[string]models.MGoldPrice); ok {
			return m
		}

		// If it needs conversion (e.g. from JSON interface{})
		if m, ok := val.(map[string]interface{}); ok {
			for k, v := range m {
				if gp, ok := v.(models.MGoldPrice); ok {
					result[k] = gp
				} else if gpMap, ok := v.(map[string]interface{}); ok {
					// Bruteforce manual mapping or json roundtrip
					jsonBytes, _ := json.Marshal(gpMap)
					var gp models.MGoldPrice
					if err := json.Unmarshal(jsonBytes, &gp); err == nil {
						result[k] = gp
					}
				}
			}
		}
	}
	return result
}

// -----------------------------------------------------------------------------

func safeTrendViewMap(data map[string]interface{}, key string) map[string]models.MTrendView {
	result := make(map[string]models.MTrendView)
	if val, ok := data[key]; ok {
		if m, ok := val.(map[string]models.MTrendView); ok {
			return m
		}

		// Fallback for generic structure
		if m, ok := val.(map[string]interface{}); ok {
			for goldType, view := range m {
				if tv, ok := view.(models.MTrendView); ok {
					result[goldType] = tv
				} else if tvMap, ok := view.(map[string]interface{}); ok {
					jsonBytes, _ := json.Marshal(tvMap)
					var tv models.MTrendView
					if err := json.Unmarshal(jsonBytes, &tv); err == nil {
						result[goldType] = tv
					}
				}
			}
		}
	}
	return result
}

// -----------------------------------------------------------------------------

func safeFloat64(data map[string]interface{}, key string) float64 {
	if val, ok := data[key]; ok {
		switch v := val.(type) {
		case float64:
			return v
		case int:
			return float64(v)
		case int64:
			return float64(v)
		}
	}
	return 0.0
}

// -----------------------------------------------------------------------------

func safeInt64(data map[string]interface{}, key string) int64 {
	if val, ok := data[key]; ok {
		switch v := val.(type) {
		case int64:
			return v
		case int:
			return int64(v)
		case float64:
			return int64(v)
		}
	}
	return 0
}

// -----------------------------------------------------------------------------

func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
