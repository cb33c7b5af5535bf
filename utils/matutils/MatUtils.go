// Package matutils implements utility functions for working with
// mat.Matrix structs
package matutils

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Format formats a matrix for printing
func Format(X mat.Matrix) string {
	fa := mat.Formatted(X, mat.Prefix(""), mat.Squeeze())
	return fmt.Sprintf("%v", fa)
}

// MaxVec finds and returns the index of the maximum value in a vector.
// If multiple equal max values exist, only the first one is returned.
func MaxVec(values mat.Vector) int {
	max, idx := values.AtVec(0), 0

	for i := 0; i < values.Len(); i++ {
		if values.AtVec(i) > max {
			max = values.AtVec(i)
			idx = i
		}
	}
	return idx
}

// TileRows returns a matrix with n rows, each of which is a copy of
// the vector v
func TileRows(v mat.Vector, n int) *mat.Dense {
	row := make([]float64, v.Len())
	for j := range row {
		row[j] = v.AtVec(j)
	}

	tiled := mat.NewDense(n, v.Len(), nil)
	for i := 0; i < n; i++ {
		tiled.SetRow(i, row)
	}
	return tiled
}

// ColMeanVariance computes and returns the mean and the population
// variance of each column of a matrix
func ColMeanVariance(matrix *mat.Dense) (*mat.VecDense, *mat.VecDense) {
	r, c := matrix.Dims()

	means := make([]float64, c)
	variances := make([]float64, c)
	col := make([]float64, r)

	for j := 0; j < c; j++ {
		mat.Col(col, j, matrix)
		means[j], variances[j] = stat.PopMeanVariance(col, nil)
	}

	return mat.NewVecDense(c, means), mat.NewVecDense(c, variances)
}
