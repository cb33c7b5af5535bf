package model

import (
	"gonum.org/v1/gonum/mat"
)

// Statistics holds normalization statistics for dynamics models:
// the elementwise mean and standard deviation of observations,
// actions, and one-step observation deltas seen in some dataset.
//
// Statistics are computed and updated externally and treated as
// read-only here. Planning agents pass them through to models
// unmodified; only model implementations interpret them.
type Statistics struct {
	ObsMean    mat.Vector
	ObsStd     mat.Vector
	ActionMean mat.Vector
	ActionStd  mat.Vector
	DeltaMean  mat.Vector
	DeltaStd   mat.Vector
}

// standardize returns (x - mean) / std elementwise for a single row
// of the matrix m, writing the result into dst
func standardizeRow(dst []float64, m *mat.Dense, row int, mean,
	std mat.Vector) {
	for j := range dst {
		dst[j] = (m.At(row, j) - mean.AtVec(j)) / std.AtVec(j)
	}
}
