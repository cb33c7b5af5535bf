package weights

import (
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// LinearMV initializes a matrix of weights using samples drawn from a
// multivariate distribution. The distribution should have as many
// dimensions as the matrix has columns; each row of the matrix is set
// to a fresh sample from the distribution.
//
// Drawing each model's weights from a separate seed of the same
// distribution is a simple way to construct a diverse ensemble of
// dynamics models.
type LinearMV struct {
	distmv.Rander
}

// NewLinearMV returns a new LinearMV with weights drawn from the
// distribution defined by rand
func NewLinearMV(rand distmv.Rander) LinearMV {
	if rand == nil {
		panic("rand cannot be nil")
	}
	return LinearMV{rand}
}

// Initialize initializes a matrix of weights
func (l LinearMV) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}
	r, _ := weights.Dims()

	for i := 0; i < r; i++ {
		weights.SetRow(i, l.Rand(nil))
	}
}

// LinearUV initializes a matrix of weights using samples drawn from a
// univariate distribution, elementwise
type LinearUV struct {
	distuv.Rander
}

// NewLinearUV creates and returns a new LinearUV
func NewLinearUV(rand distuv.Rander) LinearUV {
	if rand == nil {
		panic("rand cannot be nil")
	}
	return LinearUV{rand}
}

// Initialize initializes a matrix of weights using values drawn from
// a univariate distribution
func (l LinearUV) Initialize(weights *mat.Dense) {
	if weights == nil {
		return
	}

	backingData := weights.RawMatrix().Data
	for i := 0; i < len(backingData); i++ {
		backingData[i] = l.Rand()
	}
}
