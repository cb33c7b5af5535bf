// Package environment outlines the interfaces and structs needed to
// describe environments to planning agents
package environment

import (
	"gonum.org/v1/gonum/mat"
)

// Starter implements a distribution of starting states and samples
// starting states for environments
type Starter interface {
	Start() mat.Vector
}

// Task implements the reward scheme for taking actions in some
// environment. Rewards are computed in batch: given a batch of
// observations and an equally sized batch of actions (one row per
// sample), GetReward returns the reward earned by each row along with
// a flag denoting whether the corresponding sample ended the episode.
//
// GetReward must be a pure function of its inputs so that planning
// algorithms can query it on predicted, rather than experienced,
// observations.
type Task interface {
	GetReward(obs mat.Matrix, actions mat.Matrix) (*mat.VecDense, []bool)
}
