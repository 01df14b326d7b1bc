package core

import (
	"errors"
	"math"
	"testing"

	"gold-observer/src/models"
)

func TestPriceChange_StartToEnd(t *testing.T) {
	points := []models.MPricePoint{
		{Date: "2025-01-01", Buy: 100, Sell: 110},
		{Date: "2025-01-05", Buy: 104, Sell: 112},
		{Date: "2025-01-07", Buy: 110, Sell: 121},
	}

	change, err := PriceChange(points, 7)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if change.BuyChange != 10 {
		t.Errorf("expected buy change 10, got %v", change.BuyChange)
	}
	if change.SellChange != 11 {
		t.Errorf("expected sell change 11, got %v", change.SellChange)
	}
	if math.Abs(change.BuyChangePercent-10) > 1e-12 {
		t.Errorf("expected buy change 10%%, got %v", change.BuyChangePercent)
	}
	if math.Abs(change.SellChangePercent-10) > 1e-12 {
		t.Errorf("expected sell change 10%%, got %v", change.SellChangePercent)
	}
	if change.PeriodDays != 7 {
		t.Errorf("expected period 7, got %d", change.PeriodDays)
	}
}

func TestPriceChange_InsufficientData(t *testing.T) {
	_, err := PriceChange([]models.MPricePoint{{Date: "2025-01-01"}}, 7)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestVolatility_FlatSeriesIsZero(t *testing.T) {
	points := []models.MPricePoint{
		{Date: "2025-01-01", Buy: 100, Sell: 110},
		{Date: "2025-01-02", Buy: 100, Sell: 110},
	}
	vol, err := Volatility(points, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if vol.BuyStdDev != 0 || vol.SellStdDev != 0 || vol.BuyVolatility != 0 || vol.SellVolatility != 0 {
		t.Errorf("expected zero volatility for flat series, got %+v", vol)
	}
}

func TestVolatility_CoefficientOfVariation(t *testing.T) {
	points := []models.MPricePoint{
		{Date: "2025-01-01", Buy: 90, Sell: 100},
		{Date: "2025-01-02", Buy: 110, Sell: 120},
	}
	vol, err := Volatility(points, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Population std of {90, 110} is 10, mean is 100 -> CV 10%.
	if math.Abs(vol.BuyStdDev-10) > 1e-12 {
		t.Errorf("expected buy std 10, got %v", vol.BuyStdDev)
	}
	if math.Abs(vol.BuyVolatility-10) > 1e-12 {
		t.Errorf("expected buy volatility 10%%, got %v", vol.BuyVolatility)
	}
}

func TestExtremes_TracksDates(t *testing.T) {
	points := []models.MPricePoint{
		{Date: "2025-01-01", Buy: 100, Sell: 111},
		{Date: "2025-01-02", Buy: 95, Sell: 130},
		{Date: "2025-01-03", Buy: 120, Sell: 108},
	}

	ext, err := Extremes(points, 30)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ext.BuyMin != 95 || ext.BuyMinDate != "2025-01-02" {
		t.Errorf("unexpected buy min: %v on %s", ext.BuyMin, ext.BuyMinDate)
	}
	if ext.BuyMax != 120 || ext.BuyMaxDate != "2025-01-03" {
		t.Errorf("unexpected buy max: %v on %s", ext.BuyMax, ext.BuyMaxDate)
	}
	if ext.SellMax != 130 || ext.SellMaxDate != "2025-01-02" {
		t.Errorf("unexpected sell max: %v on %s", ext.SellMax, ext.SellMaxDate)
	}
	if ext.SellMin != 108 || ext.SellMinDate != "2025-01-03" {
		t.Errorf("unexpected sell min: %v on %s", ext.SellMin, ext.SellMinDate)
	}
}

func TestExtremes_Empty(t *testing.T) {
	_, err := Extremes(nil, 30)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}
