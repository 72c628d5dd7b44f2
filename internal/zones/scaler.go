package zones

import (
	"fmt"
	"math"
)

// Scaler standardizes feature columns to zero mean and unit variance
// using statistics fitted on the training set. The fitted statistics
// are persisted with the model and reapplied unchanged at inference.
type Scaler struct {
	Means []float64 `json:"means"`
	Stds  []float64 `json:"stds"`
}

// FitScaler computes per-column mean and population standard deviation.
// A constant column gets a standard deviation of 1 so transforming it
// yields 0 instead of dividing by zero.
func FitScaler(rows [][]float64) *Scaler {
	if len(rows) == 0 {
		return &Scaler{}
	}

	cols := len(rows[0])
	means := make([]float64, cols)
	stds := make([]float64, cols)

	for _, row := range rows {
		for j, x := range row {
			means[j] += x
		}
	}
	for j := range means {
		means[j] /= float64(len(rows))
	}

	for _, row := range rows {
		for j, x := range row {
			d := x - means[j]
			stds[j] += d * d
		}
	}
	for j := range stds {
		stds[j] = math.Sqrt(stds[j] / float64(len(rows)))
		if stds[j] == 0 {
			stds[j] = 1
		}
	}

	return &Scaler{Means: means, Stds: stds}
}

// Transform standardizes one row with the fitted statistics.
func (s *Scaler) Transform(row []float64) ([]float64, error) {
	if len(row) != len(s.Means) {
		return nil, fmt.Errorf("scaler fitted on %d features, got %d", len(s.Means), len(row))
	}
	out := make([]float64, len(row))
	for j, x := range row {
		out[j] = (x - s.Means[j]) / s.Stds[j]
	}
	return out, nil
}

// TransformAll standardizes a whole training matrix.
func (s *Scaler) TransformAll(rows [][]float64) ([][]float64, error) {
	out := make([][]float64, len(rows))
	for i, row := range rows {
		scaled, err := s.Transform(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		out[i] = scaled
	}
	return out, nil
}
