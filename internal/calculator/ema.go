package calculator

import "errors"

// EMASeries computes the exponential moving average of the given values with
// the specified span. Smoothing factor is 2/(span+1) and the series is seeded
// by the first value. A span longer than the input is not an error; the
// recurrence simply runs over the bars that are available.
func EMASeries(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}
	if len(values) == 0 {
		return nil, errors.New("no values provided")
	}
	alpha := 2.0 / float64(span+1)
	out := make([]float64, len(values))
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}

// LastEMA returns the most recent EMA value for the given span.
func LastEMA(values []float64, span int) (float64, error) {
	series, err := EMASeries(values, span)
	if err != nil {
		return 0, err
	}
	return series[len(series)-1], nil
}
