package analysis

import (
	"sort"
	"time"

	"gold-observer/src/models"
)

// -----------------------------------------------------------------------------
// Daily collapse: dealer quotes arrive several times a day, but every chart
// and engine works on one point per calendar date. The latest quote of each
// date wins.
// -----------------------------------------------------------------------------

const dayLayout = "2006-01-02"

// CollapseDaily reduces raw quotes to one price point per calendar date and
// returns them as the parallel-array trends payload the analytics core
// consumes. Output dates are ascending.
func CollapseDaily(quotes []models.MGoldPrice) models.MTrendPayload {
	type dayQuote struct {
		ts   int64
		buy  float64
		sell float64
	}

	byDay := make(map[string]dayQuote)
	for _, q := range quotes {
		day := time.Unix(q.Timestamp, 0).UTC().Format(dayLayout)
		if prev, ok := byDay[day]; ok && prev.ts >= q.Timestamp {
			continue
		}
		byDay[day] = dayQuote{ts: q.Timestamp, buy: q.Buy, sell: q.Sell}
	}

	days := make([]string, 0, len(byDay))
	for day := range byDay {
		days = append(days, day)
	}
	sort.Strings(days)

	payload := models.MTrendPayload{
		Dates:      days,
		BuyPrices:  make([]*float64, len(days)),
		SellPrices: make([]*float64, len(days)),
	}
	for i, day := range days {
		q := byDay[day]
		buy, sell := q.buy, q.sell
		payload.BuyPrices[i] = &buy
		payload.SellPrices[i] = &sell
	}

	return payload
}

// -----------------------------------------------------------------------------

// LatestPerType returns the most recent quote for every gold type.
func LatestPerType(quotes []models.MGoldPrice) map[string]models.MGoldPrice {
	latest := make(map[string]models.MGoldPrice)
	for _, q := range quotes {
		if prev, ok := latest[q.GoldType]; !ok || q.Timestamp > prev.Timestamp {
			latest[q.GoldType] = q
		}
	}
	return latest
}
