// Package agent defines the interfaces of action-selecting agents
package agent

import (
	"github.com/samuelfneumann/goplan/model"
	"gonum.org/v1/gonum/mat"
)

// Policy represents a policy that an agent can have.
//
// Policies determine how agents select actions. Given the current
// environment observation, SelectAction returns the next action to
// take. Policies that plan through learned dynamics models may fail
// when a model prediction fails; such failures are returned to the
// caller, which is responsible for any recovery.
type Policy interface {
	SelectAction(obs mat.Vector) (*mat.VecDense, error)
}

// Calibrator is a Policy whose behaviour depends on externally
// computed normalization statistics. Until statistics are set, a
// Calibrator is uncalibrated and falls back to some default behaviour.
// Setting nil statistics returns the policy to the uncalibrated state.
type Calibrator interface {
	Policy
	SetStatistics(*model.Statistics)
	Statistics() *model.Statistics
}
