package model

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

const (
	// Keys for weights map: map[string]*mat.Dense
	ObsWeightsKey    string = "observation"
	ActionWeightsKey string = "action"
)

// Linear implements a deterministic linear dynamics model. The model
// predicts the change in observation as a linear function of the
// current observation and action:
//
//	delta = obs * W_obs + action * W_action
//	next  = obs + delta
//
// When normalization statistics are available, the observation and
// action inputs are standardized before the linear map, and the
// predicted delta is treated as a standardized delta which is scaled
// and shifted back by the delta statistics.
type Linear struct {
	obsWeights    *mat.Dense // obsDims x obsDims
	actionWeights *mat.Dense // actionDims x obsDims
	obsDims       int
	actionDims    int
}

// NewLinear creates a new Linear dynamics model with zero weights for
// the given observation and action dimensionality. Weights can be
// initialized afterwards through the Weights method, e.g. with an
// initializer from the utils/matutils/initializers/weights package.
func NewLinear(obsDims, actionDims int) *Linear {
	if obsDims < 1 || actionDims < 1 {
		panic(fmt.Sprintf("newlinear: non-positive dimensions (%v, %v)",
			obsDims, actionDims))
	}

	return &Linear{
		obsWeights:    mat.NewDense(obsDims, obsDims, nil),
		actionWeights: mat.NewDense(actionDims, obsDims, nil),
		obsDims:       obsDims,
		actionDims:    actionDims,
	}
}

// Weights gets and returns the weights of the model
func (l *Linear) Weights() map[string]*mat.Dense {
	weights := make(map[string]*mat.Dense)

	weights[ObsWeightsKey] = l.obsWeights
	weights[ActionWeightsKey] = l.actionWeights

	return weights
}

// Predict returns the predicted next observation for each row of the
// observation and action batches
func (l *Linear) Predict(obs, actions *mat.Dense,
	stats *Statistics) (*mat.Dense, error) {
	n, obsDims := obs.Dims()
	actionRows, actionDims := actions.Dims()

	if obsDims != l.obsDims {
		return nil, fmt.Errorf("predict: invalid observation "+
			"dimensionality \n\twant(%v) \n\thave(%v)", l.obsDims, obsDims)
	}
	if actionDims != l.actionDims {
		return nil, fmt.Errorf("predict: invalid action dimensionality "+
			"\n\twant(%v) \n\thave(%v)", l.actionDims, actionDims)
	}
	if n != actionRows {
		return nil, fmt.Errorf("predict: observation batch has %v rows "+
			"but action batch has %v rows", n, actionRows)
	}

	obsIn, actionsIn := obs, actions
	if stats != nil {
		obsIn = mat.NewDense(n, obsDims, nil)
		actionsIn = mat.NewDense(n, actionDims, nil)
		obsRow := make([]float64, obsDims)
		actionRow := make([]float64, actionDims)
		for i := 0; i < n; i++ {
			standardizeRow(obsRow, obs, i, stats.ObsMean, stats.ObsStd)
			obsIn.SetRow(i, obsRow)

			standardizeRow(actionRow, actions, i, stats.ActionMean,
				stats.ActionStd)
			actionsIn.SetRow(i, actionRow)
		}
	}

	var delta mat.Dense
	delta.Mul(obsIn, l.obsWeights)

	var actionPart mat.Dense
	actionPart.Mul(actionsIn, l.actionWeights)
	delta.Add(&delta, &actionPart)

	next := mat.NewDense(n, obsDims, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < obsDims; j++ {
			d := delta.At(i, j)
			if stats != nil {
				d = stats.DeltaMean.AtVec(j) + stats.DeltaStd.AtVec(j)*d
			}
			next.Set(i, j, obs.At(i, j)+d)
		}
	}

	return next, nil
}
