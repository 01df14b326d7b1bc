package core

import (
	"time"

	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------

// DefaultPresetDays are the quick-range buttons the dashboard offers.
var DefaultPresetDays = []int{7, 30, 90, 365}

// -----------------------------------------------------------------------------

// ResolvePreset maps a "last N calendar days" preset onto concrete entry and
// exit dates of the available series. Exit is always the last available date;
// entry is the latest date at or before exit minus N calendar days. A preset
// reaching past the start of history is clamped to the series' first date
// rather than failing.
func ResolvePreset(days int, points []models.MPricePoint) (models.MDateRange, error) {
	if len(points) == 0 {
		return models.MDateRange{}, ErrInsufficientData
	}
	if days < 1 {
		return models.MDateRange{}, ErrInvalidWindow
	}

	exit := points[len(points)-1]
	exitDay, err := time.Parse(dateLayout, exit.Date)
	if err != nil {
		return models.MDateRange{}, ErrInsufficientData
	}
	target := exitDay.AddDate(0, 0, -days)

	entry := points[0].Date
	for i := len(points) - 1; i >= 0; i-- {
		day, err := time.Parse(dateLayout, points[i].Date)
		if err != nil {
			continue
		}
		if !day.After(target) {
			entry = points[i].Date
			break
		}
	}

	return models.MDateRange{EntryDate: entry, ExitDate: exit.Date}, nil
}

// -----------------------------------------------------------------------------

// MatchPreset reports which preset a resolved range corresponds to, used to
// highlight the active quick-range button. The entry date may drift from the
// ideal preset boundary by a tolerance that grows with the preset size; the
// exit date must be the series' last date.
func MatchPreset(r models.MDateRange, points []models.MPricePoint, presets []int) (int, bool) {
	if len(points) == 0 || r.ExitDate != points[len(points)-1].Date {
		return 0, false
	}

	entryDay, err := time.Parse(dateLayout, r.EntryDate)
	if err != nil {
		return 0, false
	}

	for _, days := range presets {
		resolved, err := ResolvePreset(days, points)
		if err != nil {
			continue
		}
		resolvedDay, err := time.Parse(dateLayout, resolved.EntryDate)
		if err != nil {
			continue
		}

		drift := entryDay.Sub(resolvedDay).Hours() / 24
		if drift < 0 {
			drift = -drift
		}
		if int(drift) <= presetTolerance(days) {
			return days, true
		}
	}

	return 0, false
}

// -----------------------------------------------------------------------------

// presetTolerance is the matching slack in days for each quick-range preset.
// The values are part of the UI parity contract and must not change.
func presetTolerance(days int) int {
	switch {
	case days <= 7:
		return 2
	case days <= 30:
		return 5
	case days <= 90:
		return 10
	default:
		return 15
	}
}
