package matutils

import (
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestMaxVecTieBreak(t *testing.T) {
	values := mat.NewVecDense(4, []float64{1.0, 3.0, 3.0, 2.0})

	// Ties resolve to the first index holding the maximum
	if idx := MaxVec(values); idx != 1 {
		t.Errorf("incorrect argmax \n\twant(%v) \n\thave(%v)", 1, idx)
	}
}

func TestTileRows(t *testing.T) {
	v := mat.NewVecDense(2, []float64{1.0, -2.0})

	tiled := TileRows(v, 3)
	r, c := tiled.Dims()
	if r != 3 || c != 2 {
		t.Fatalf("incorrect shape \n\twant(%v, %v) \n\thave(%v, %v)", 3, 2,
			r, c)
	}

	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			if tiled.At(i, j) != v.AtVec(j) {
				t.Errorf("incorrect value at (%v, %v) \n\twant(%v) "+
					"\n\thave(%v)", i, j, v.AtVec(j), tiled.At(i, j))
			}
		}
	}
}

func TestColMeanVariance(t *testing.T) {
	matrix := mat.NewDense(2, 2, []float64{
		1.0, 10.0,
		3.0, 10.0,
	})

	mean, variance := ColMeanVariance(matrix)

	if mean.AtVec(0) != 2.0 || mean.AtVec(1) != 10.0 {
		t.Errorf("incorrect column means \n\twant(%v, %v) \n\thave(%v, %v)",
			2.0, 10.0, mean.AtVec(0), mean.AtVec(1))
	}

	// Population variance: {1, 3} has variance 1, not the sample
	// variance 2
	if variance.AtVec(0) != 1.0 || variance.AtVec(1) != 0.0 {
		t.Errorf("incorrect column variances \n\twant(%v, %v) "+
			"\n\thave(%v, %v)", 1.0, 0.0, variance.AtVec(0),
			variance.AtVec(1))
	}
}
