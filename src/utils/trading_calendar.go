package utils

import (
	"log"
	"time"

	"github.com/scmhub/calendar"
)

// TradingCalendar decides when Vietnamese gold dealers publish fresh quotes.
// It tries the Ho Chi Minh exchange calendar from scmhub/calendar for the
// public-holiday schedule; when unavailable it falls back to the dealer
// counters' own hours (Mon-Sat, 08:00-17:30 ICT).
type TradingCalendar struct {
	Calendar *calendar.Calendar
	Fallback bool
	Timezone *time.Location
}

// -----------------------------------------------------------------------------

func GetVietnamCalendar() *TradingCalendar {
	// XSTC is the ISO 10383 MIC for the Ho Chi Minh City exchange.
	cal := calendar.GetCalendar("xstc")

	if cal == nil {
		log.Printf("WARNING: Failed to load calendar for MIC 'xstc'. Using dealer-hours fallback (Mon-Sat 08:00-17:30 ICT).")
		loc, _ := time.LoadLocation("Asia/Ho_Chi_Minh")
		if loc == nil {
			loc = time.FixedZone("ICT", 7*3600)
		}
		return &TradingCalendar{Fallback: true, Timezone: loc}
	}

	return &TradingCalendar{Calendar: cal, Fallback: false, Timezone: cal.Loc}
}

// -----------------------------------------------------------------------------

func (tc *TradingCalendar) IsTradingDay(date time.Time) bool {
	if tc.Timezone != nil {
		date = date.In(tc.Timezone)
	}

	if tc.Fallback {
		// Gold shops open Monday through Saturday
		return date.Weekday() != time.Sunday
	}
	return tc.Calendar.IsBusinessDay(date)
}

// -----------------------------------------------------------------------------

// IsOpenOnMinute checks if dealers are publishing quotes at a specific minute.
func (tc *TradingCalendar) IsOpenOnMinute(t time.Time) bool {
	if tc.Timezone != nil {
		t = t.In(tc.Timezone)
	}

	if tc.Fallback {
		if !tc.IsTradingDay(t) {
			return false
		}

		hour := t.Hour()
		minute := t.Minute()

		// 08:00 - 17:30 ICT
		if hour >= 8 && (hour < 17 || (hour == 17 && minute <= 30)) {
			return true
		}
		return false
	}

	return tc.Calendar.IsOpen(t)
}
