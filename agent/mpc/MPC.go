// Package mpc implements action selection by model-predictive control.
//
// Each decision, the policy samples candidate action sequences, rolls
// every candidate forward through an ensemble of learned dynamics
// models, scores the candidates by their predicted cumulative reward,
// and executes the first action of the best sequence. The next
// decision replans from scratch (receding-horizon control).
//
// Candidate sequences are sampled either uniformly at random over the
// action bounds (random shooting) or by iterative Gaussian refinement
// with the cross-entropy method, as described in Section 3.3 of
// https://arxiv.org/pdf/1909.11652.pdf
package mpc

import (
	"fmt"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goplan/agent"
	"github.com/samuelfneumann/goplan/environment"
	"github.com/samuelfneumann/goplan/model"
	"github.com/samuelfneumann/goplan/utils/matutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

// MPC implements a model-predictive control policy over a continuous
// action space.
//
// The policy is uncalibrated until normalization statistics are set
// through SetStatistics. While uncalibrated, model predictions are
// meaningless, so SelectAction returns a uniformly random action and
// never queries the reward function or the models.
type MPC struct {
	task   environment.Task
	models model.Ensemble
	stats  *model.Statistics

	strategy     Strategy
	horizon      int
	numSequences int

	cemIterations int
	cemNumElites  int
	cemAlpha      float64

	actionDims int
	sampler    *uniformSampler
	source     rand.Source
	seed       uint64
}

// New creates a new MPC policy which plans through the argument
// ensemble of dynamics models and scores predicted observations with
// the argument task. The action specification supplies the action
// dimensionality and per-dimension bounds over which sequences are
// sampled.
func New(task environment.Task, actionSpec environment.Spec,
	models model.Ensemble, c Config, seed uint64) (*MPC, error) {
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("new: %v", err)
	}
	if task == nil {
		return nil, fmt.Errorf("new: task cannot be nil")
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("new: ensemble cannot be empty")
	}

	actionDims := actionSpec.Shape.Len()
	bounds := make([]r1.Interval, actionDims)
	for i := range bounds {
		low := actionSpec.LowerBound.AtVec(i)
		high := actionSpec.UpperBound.AtVec(i)
		if low > high {
			return nil, fmt.Errorf("new: action bound %v is inverted: "+
				"lower %v > upper %v", i, low, high)
		}
		bounds[i] = r1.Interval{Min: low, Max: high}
	}

	source := rand.NewSource(seed)

	return &MPC{
		task:          task,
		models:        models,
		strategy:      c.Strategy,
		horizon:       c.Horizon,
		numSequences:  c.NumSequences,
		cemIterations: c.CEMIterations,
		cemNumElites:  c.CEMNumElites,
		cemAlpha:      c.CEMAlpha,
		actionDims:    actionDims,
		sampler:       newUniformSampler(bounds, source),
		source:        source,
		seed:          seed,
	}, nil
}

// SetStatistics sets the normalization statistics passed through to
// the dynamics models, calibrating the policy. Setting nil statistics
// returns the policy to the uncalibrated state.
func (m *MPC) SetStatistics(stats *model.Statistics) {
	m.stats = stats
}

// Statistics returns the current normalization statistics, which may
// be nil
func (m *MPC) Statistics() *model.Statistics {
	return m.stats
}

// SelectAction returns the next action to take from the argument
// observation
func (m *MPC) SelectAction(obs mat.Vector) (*mat.VecDense, error) {
	if m.stats == nil {
		return m.sampler.sample(1, 1).First(0), nil
	}

	candidates, err := m.SampleSequences(m.numSequences, m.horizon, obs)
	if err != nil {
		return nil, fmt.Errorf("selectaction: %v", err)
	}

	// A batch of exactly one sequence was already optimized by the
	// sampler; take its first action without further evaluation
	if candidates.Len() == 1 {
		return candidates.First(0), nil
	}

	returns, err := m.EvaluateSequences(candidates, obs)
	if err != nil {
		return nil, fmt.Errorf("selectaction: %v", err)
	}

	// Ties go to the lowest index
	best := matutils.MaxVec(mat.NewVecDense(len(returns), returns))
	return candidates.First(best), nil
}

// SampleSequences generates a batch of n candidate action sequences of
// the given horizon. With the random strategy, or with the cem
// strategy before an observation is available, every sequence is drawn
// uniformly from the action bounds and the batch has n sequences. With
// the cem strategy and a non-nil observation, the batch holds the
// single sequence produced by cross-entropy refinement.
func (m *MPC) SampleSequences(n, horizon int,
	obs mat.Vector) (*Sequences, error) {
	if m.strategy == Random || obs == nil {
		return m.sampler.sample(n, horizon), nil
	}
	return m.refine(n, horizon, obs)
}

// refine runs cross-entropy refinement and returns the batch holding
// the single refined sequence
func (m *MPC) refine(n, horizon int, obs mat.Vector) (*Sequences, error) {
	var mean, variance *mat.Dense           // running distribution
	var eliteMean, eliteVariance *mat.Dense // last iteration's elites

	for i := 0; i < m.cemIterations; i++ {
		var candidates *Sequences
		if i == 0 {
			// No distribution estimate exists yet
			candidates = m.sampler.sample(n, horizon)
		} else {
			candidates = sampleGaussian(mean, variance, n, m.source)
		}

		returns, err := m.EvaluateSequences(candidates, obs)
		if err != nil {
			return nil, fmt.Errorf("refine: %v", err)
		}

		elites := candidates.Select(topIndices(returns, m.cemNumElites))
		eliteMean, eliteVariance = elites.MeanVariance()

		if i == 0 {
			mean = mat.DenseCopyOf(eliteMean)
			variance = mat.DenseCopyOf(eliteVariance)
		} else {
			smooth(mean, eliteMean, m.cemAlpha)
			smooth(variance, eliteVariance, m.cemAlpha)
		}
	}

	// The refined sequence is the elite mean of the final iteration,
	// not the smoothed running mean
	return sequenceFromMean(eliteMean), nil
}

// smooth overwrites running with alpha*update + (1-alpha)*running,
// elementwise
func smooth(running, update *mat.Dense, alpha float64) {
	running.Scale(1.0-alpha, running)

	var scaled mat.Dense
	scaled.Scale(alpha, update)
	running.Add(running, &scaled)
}

// EvaluateSequences returns the predicted return of each candidate
// sequence in the batch, starting from the argument observation. Each
// model in the ensemble rolls out the full batch, the per-model
// returns are averaged elementwise, and the average is further divided
// by the number of candidates. The extra scaling is uniform within a
// batch, so it never changes which sequence ranks highest.
func (m *MPC) EvaluateSequences(seqs *Sequences,
	obs mat.Vector) ([]float64, error) {
	n := seqs.Len()

	returns := make([]float64, n)
	for _, mod := range m.models {
		sums, err := m.sumOfRewards(obs, seqs, mod)
		if err != nil {
			return nil, fmt.Errorf("evaluatesequences: %v", err)
		}
		floats.Add(returns, sums)
	}

	floats.Scale(1.0/float64(len(m.models)), returns)
	floats.Scale(1.0/float64(n), returns)
	return returns, nil
}

// sumOfRewards computes the cumulative reward of every candidate
// sequence under a single dynamics model. The current observation is
// broadcast to all candidates, then for each timestep the batched
// reward is accumulated and the batched observations are advanced one
// step through the model.
func (m *MPC) sumOfRewards(obs mat.Vector, seqs *Sequences,
	mod model.Model) ([]float64, error) {
	if seqs.Horizon() != m.horizon {
		panic(fmt.Sprintf("sumofrewards: sequence horizon %v does not "+
			"match policy horizon %v", seqs.Horizon(), m.horizon))
	}

	n := seqs.Len()
	obsBatch := matutils.TileRows(obs, n)
	sums := make([]float64, n)

	for t := 0; t < m.horizon; t++ {
		actions := seqs.ActionsAt(t)

		// Termination flags are ignored: rollouts always run the full
		// horizon
		rewards, _ := m.task.GetReward(obsBatch, actions)
		floats.Add(sums, rewards.RawVector().Data)

		next, err := mod.Predict(obsBatch, actions, m.stats)
		if err != nil {
			return nil, fmt.Errorf("sumofrewards: could not predict next "+
				"observations at timestep %v: %v", t, err)
		}
		obsBatch = next
	}

	return sums, nil
}

// MPC is a calibratable policy
var _ agent.Calibrator = (*MPC)(nil)
