package core

import (
	"errors"
	"testing"

	"gold-observer/src/models"
)

func TestSpreadSeries_SellMinusBuy(t *testing.T) {
	points := []models.MPricePoint{
		{Date: "2025-01-01", Buy: 100, Sell: 110},
		{Date: "2025-01-02", Buy: 105, Sell: 115},
		{Date: "2025-01-03", Buy: 120, Sell: 118},
	}

	spreads := SpreadSeries(points)
	if len(spreads) != len(points) {
		t.Fatalf("expected length %d, got %d", len(points), len(spreads))
	}
	for k, p := range points {
		if spreads[k] != p.Sell-p.Buy {
			t.Errorf("spread %d: expected %v, got %v", k, p.Sell-p.Buy, spreads[k])
		}
	}
}

func TestSpreadSeries_InvertedMarketSurfacesNegative(t *testing.T) {
	// sell < buy is tolerated and must come through as a negative spread,
	// never hidden or clamped to zero.
	points := []models.MPricePoint{{Date: "2025-01-01", Buy: 120, Sell: 118}}
	spreads := SpreadSeries(points)
	if spreads[0] != -2 {
		t.Errorf("expected spread -2, got %v", spreads[0])
	}
}

func TestSummarizeSpread_SinglePoint(t *testing.T) {
	// The spread engine still works for a one-point series.
	summary, err := SummarizeSpread([]float64{10})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Current != 10 || summary.Max != 10 || summary.Min != 10 || summary.Mean != 10 {
		t.Errorf("expected all fields 10, got %+v", summary)
	}
}

func TestSummarizeSpread_Empty(t *testing.T) {
	_, err := SummarizeSpread(nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSummarizeSpread_Stats(t *testing.T) {
	summary, err := SummarizeSpread([]float64{10, -2, 4})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Current != 4 {
		t.Errorf("expected current 4, got %v", summary.Current)
	}
	if summary.Max != 10 {
		t.Errorf("expected max 10, got %v", summary.Max)
	}
	if summary.Min != -2 {
		t.Errorf("expected min -2, got %v", summary.Min)
	}
	if summary.Mean != 4 {
		t.Errorf("expected mean 4, got %v", summary.Mean)
	}
}
