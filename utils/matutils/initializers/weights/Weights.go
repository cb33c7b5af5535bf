// Package weights defines initializers for weight matrices, e.g. the
// weights of linear dynamics models
package weights

import "gonum.org/v1/gonum/mat"

// Initializer initializes weights
type Initializer interface {
	Initialize(weights *mat.Dense) // initializes weights
}
