package core

// -----------------------------------------------------------------------------

// MovingAverage computes a trailing windowed average over values. The output
// has the same length as the input: for index i the average covers
// values[max(0, i-window+1) .. i], so the window shrinks near the start of
// the series instead of being undefined. The first output value equals
// values[0]. Value i never depends on any value at index > i.
func MovingAverage(values []float64, window int) ([]float64, error) {
	if window < 1 {
		return nil, ErrInvalidWindow
	}

	out := make([]float64, len(values))
	sum := 0.0
	for i, v := range values {
		sum += v
		if i >= window {
			sum -= values[i-window]
		}

		span := i + 1
		if span > window {
			span = window
		}
		out[i] = sum / float64(span)
	}

	return out, nil
}
