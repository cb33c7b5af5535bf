// Package model defines dynamics models, which predict how an
// environment's observations evolve under actions
package model

import (
	"gonum.org/v1/gonum/mat"
)

// Model implements a one-step forward dynamics model. Given a batch of
// observations and an equally sized batch of actions (one row per
// sample), Predict returns the predicted next observation for each
// row.
//
// The statistics argument carries externally computed normalization
// statistics. Models that normalize their inputs or predictions should
// use it; models that do not may ignore it. A nil value means no
// statistics are available.
type Model interface {
	Predict(obs, actions *mat.Dense, stats *Statistics) (*mat.Dense, error)
}

// Ensemble is an ordered collection of independently parameterized
// dynamics models whose predictions are combined to reduce the risk of
// acting on a single model's bias
type Ensemble []Model
