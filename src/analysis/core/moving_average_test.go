package core

import (
	"errors"
	"testing"
)

func TestMovingAverage_TrailingWindowShrinksAtStart(t *testing.T) {
	got, err := MovingAverage([]float64{10, 20, 30, 40}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []float64{10, 15, 25, 35}
	if len(got) != len(want) {
		t.Fatalf("expected length %d, got %d", len(want), len(got))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("index %d: expected %v, got %v", i, want[i], got[i])
		}
	}
}

func TestMovingAverage_FirstValueEqualsInput(t *testing.T) {
	// Holds for every window size: the shrunk window at index 0 covers one value.
	values := []float64{42.5, 1, 2, 3, 4, 5}
	for _, window := range []int{1, 2, 3, 10} {
		got, err := MovingAverage(values, window)
		if err != nil {
			t.Fatalf("window %d: unexpected error: %v", window, err)
		}
		if got[0] != values[0] {
			t.Errorf("window %d: expected first output %v, got %v", window, values[0], got[0])
		}
		if len(got) != len(values) {
			t.Errorf("window %d: expected length %d, got %d", window, len(values), len(got))
		}
	}
}

func TestMovingAverage_WindowOne_IsIdentity(t *testing.T) {
	values := []float64{5, 7, 9}
	got, err := MovingAverage(values, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := range values {
		if got[i] != values[i] {
			t.Errorf("index %d: expected %v, got %v", i, values[i], got[i])
		}
	}
}

func TestMovingAverage_NoLookahead(t *testing.T) {
	// Value at index i must not depend on anything after i: mutating the tail
	// cannot change the head of the output.
	base := []float64{100, 101, 102, 103, 104}
	altered := []float64{100, 101, 102, 999, -999}

	gotBase, _ := MovingAverage(base, 3)
	gotAltered, _ := MovingAverage(altered, 3)

	for i := 0; i < 3; i++ {
		if gotBase[i] != gotAltered[i] {
			t.Errorf("index %d changed with future values: %v vs %v", i, gotBase[i], gotAltered[i])
		}
	}
}

func TestMovingAverage_InvalidWindow(t *testing.T) {
	for _, window := range []int{0, -1} {
		_, err := MovingAverage([]float64{1, 2, 3}, window)
		if !errors.Is(err, ErrInvalidWindow) {
			t.Errorf("window %d: expected ErrInvalidWindow, got %v", window, err)
		}
	}
}

func TestMovingAverage_EmptyInput(t *testing.T) {
	got, err := MovingAverage(nil, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty output, got %d values", len(got))
	}
}
