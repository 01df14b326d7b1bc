package models

import "time"

// MGoldPrice represents one stored dealer quote for a gold type.
// Buy is what the dealer pays the public, Sell is what the public pays the dealer.
type MGoldPrice struct {
	Company   string    `json:"company"`
	GoldType  string    `json:"gold_type"`
	Buy       float64   `json:"buy_price"`
	Sell      float64   `json:"sell_price"`
	Timestamp int64     `json:"timestamp"`
	FetchedAt int64     `json:"fetched_at"`
	CreatedAt time.Time `json:"created_at"`
}

// -----------------------------------------------------------------------------

// MPricePoint is one normalized daily point of a price series.
// Date is day-granular ISO (YYYY-MM-DD). Sell >= Buy is expected but never
// enforced; an inverted market yields a negative spread downstream.
type MPricePoint struct {
	Date string  `json:"date"`
	Buy  float64 `json:"buy"`
	Sell float64 `json:"sell"`
}

// -----------------------------------------------------------------------------

// MTrendPayload is the raw trends shape consumed by the analytics core:
// three index-aligned parallel arrays. Prices are pointers so that JSON
// nulls survive decoding and can be filtered out during normalization.
type MTrendPayload struct {
	Dates      []string   `json:"dates"`
	BuyPrices  []*float64 `json:"buy_prices"`
	SellPrices []*float64 `json:"sell_prices"`
}

// MTrendsResponse is the upstream envelope around MTrendPayload.
type MTrendsResponse struct {
	Trends MTrendPayload `json:"trends"`
}
