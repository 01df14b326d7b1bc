package core

import (
	"errors"
	"testing"
)

func TestDailyDeltas_LengthAndValues(t *testing.T) {
	values := []float64{100, 105, 103, 110}
	deltas, err := DailyDeltas(values)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(deltas) != len(values)-1 {
		t.Fatalf("expected length %d, got %d", len(values)-1, len(deltas))
	}
	want := []float64{5, -2, 7}
	for k := range want {
		if deltas[k] != want[k] {
			t.Errorf("delta %d: expected %v, got %v", k, want[k], deltas[k])
		}
	}
}

func TestDailyDeltas_InsufficientData(t *testing.T) {
	for _, values := range [][]float64{nil, {}, {42}} {
		_, err := DailyDeltas(values)
		if !errors.Is(err, ErrInsufficientData) {
			t.Errorf("len %d: expected ErrInsufficientData, got %v", len(values), err)
		}
	}
}

func TestSummarizeDeltas_ConsistentWithSequence(t *testing.T) {
	// latest/max/min/mean all come from the same delta sequence.
	deltas := []float64{5, -2, 7, -4}
	summary, err := SummarizeDeltas(deltas)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if summary.Latest != -4 {
		t.Errorf("expected latest -4, got %v", summary.Latest)
	}
	if summary.Max != 7 {
		t.Errorf("expected max 7, got %v", summary.Max)
	}
	if summary.Min != -4 {
		t.Errorf("expected min -4, got %v", summary.Min)
	}
	// Mean = (5 - 2 + 7 - 4) / 4 = 1.5
	if summary.Mean != 1.5 {
		t.Errorf("expected mean 1.5, got %v", summary.Mean)
	}
}

func TestSummarizeDeltas_Empty(t *testing.T) {
	_, err := SummarizeDeltas(nil)
	if !errors.Is(err, ErrInsufficientData) {
		t.Errorf("expected ErrInsufficientData, got %v", err)
	}
}

func TestSummarizeDeltas_AllNegative(t *testing.T) {
	// A falling market must not be clamped: max is the smallest loss.
	summary, err := SummarizeDeltas([]float64{-3, -1, -9})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary.Max != -1 {
		t.Errorf("expected max -1, got %v", summary.Max)
	}
	if summary.Min != -9 {
		t.Errorf("expected min -9, got %v", summary.Min)
	}
}
