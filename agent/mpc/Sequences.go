package mpc

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/samuelfneumann/goplan/utils/matutils"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
	"gonum.org/v1/gonum/stat/distmv"
	"gonum.org/v1/gonum/stat/distuv"
)

// SigmaFloor is the minimum standard deviation used when drawing
// actions from a refined Gaussian. Without it the cross-entropy method
// degenerates once every elite agrees elementwise.
const SigmaFloor float64 = 1e-6

// Sequences holds a batch of candidate action sequences. A batch of N
// sequences over horizon H with action dimensionality A is stored as
// one (N x A) matrix per timestep, so that the actions taken by all
// candidates at a given timestep are available as a single matrix for
// batched reward and model queries.
//
// Sequences are created fresh for each decision and discarded after
// scoring and selection.
type Sequences struct {
	actions []*mat.Dense // one (N x A) matrix per timestep
	n       int
	dims    int
}

func newSequences(n, horizon, dims int) *Sequences {
	if n < 1 || horizon < 1 || dims < 1 {
		panic(fmt.Sprintf("newsequences: non-positive batch shape "+
			"(%v, %v, %v)", n, horizon, dims))
	}

	actions := make([]*mat.Dense, horizon)
	for t := range actions {
		actions[t] = mat.NewDense(n, dims, nil)
	}
	return &Sequences{actions, n, dims}
}

// Len returns the number of candidate sequences in the batch
func (s *Sequences) Len() int {
	return s.n
}

// Horizon returns the number of timesteps each sequence covers
func (s *Sequences) Horizon() int {
	return len(s.actions)
}

// Dims returns the action dimensionality
func (s *Sequences) Dims() int {
	return s.dims
}

// ActionsAt returns the actions taken by all candidate sequences at
// timestep t as an (N x A) matrix
func (s *Sequences) ActionsAt(t int) *mat.Dense {
	return s.actions[t]
}

// First returns a copy of the first action of candidate sequence i
func (s *Sequences) First(i int) *mat.VecDense {
	first := make([]float64, s.dims)
	mat.Row(first, i, s.actions[0])
	return mat.NewVecDense(s.dims, first)
}

// Select returns a new batch containing the candidate sequences at the
// argument indices
func (s *Sequences) Select(indices []int) *Sequences {
	selected := newSequences(len(indices), s.Horizon(), s.dims)

	row := make([]float64, s.dims)
	for t := range s.actions {
		for k, i := range indices {
			mat.Row(row, i, s.actions[t])
			selected.actions[t].SetRow(k, row)
		}
	}
	return selected
}

// MeanVariance computes the elementwise mean and population variance
// of the batch across candidate sequences, returning (H x A) matrices
func (s *Sequences) MeanVariance() (*mat.Dense, *mat.Dense) {
	horizon := s.Horizon()
	mean := mat.NewDense(horizon, s.dims, nil)
	variance := mat.NewDense(horizon, s.dims, nil)

	for t := 0; t < horizon; t++ {
		m, v := matutils.ColMeanVariance(s.actions[t])
		mean.SetRow(t, m.RawVector().Data)
		variance.SetRow(t, v.RawVector().Data)
	}
	return mean, variance
}

// sequenceFromMean wraps an (H x A) mean matrix as a batch of exactly
// one candidate sequence
func sequenceFromMean(mean *mat.Dense) *Sequences {
	horizon, dims := mean.Dims()
	seqs := newSequences(1, horizon, dims)

	row := make([]float64, dims)
	for t := 0; t < horizon; t++ {
		mat.Row(row, t, mean)
		seqs.actions[t].SetRow(0, row)
	}
	return seqs
}

// uniformSampler draws action sequences with every component
// independently and uniformly distributed over the action bounds
type uniformSampler struct {
	dist *distmv.Uniform
	dims int
}

func newUniformSampler(bounds []r1.Interval,
	source rand.Source) *uniformSampler {
	return &uniformSampler{distmv.NewUniform(bounds, source), len(bounds)}
}

func (u *uniformSampler) sample(n, horizon int) *Sequences {
	seqs := newSequences(n, horizon, u.dims)

	for t := 0; t < horizon; t++ {
		for i := 0; i < n; i++ {
			seqs.actions[t].SetRow(i, u.dist.Rand(nil))
		}
	}
	return seqs
}

// sampleGaussian draws a batch of n sequences from independent
// per-timestep Gaussians with the argument (H x A) mean and variance.
// Covariance across action dimensions is not modelled.
func sampleGaussian(mean, variance *mat.Dense, n int,
	source rand.Source) *Sequences {
	horizon, dims := mean.Dims()
	seqs := newSequences(n, horizon, dims)

	for t := 0; t < horizon; t++ {
		for j := 0; j < dims; j++ {
			sigma := math.Sqrt(variance.At(t, j))
			if sigma < SigmaFloor {
				sigma = SigmaFloor
			}

			dist := distuv.Normal{
				Mu:    mean.At(t, j),
				Sigma: sigma,
				Src:   source,
			}
			for i := 0; i < n; i++ {
				seqs.actions[t].Set(i, j, dist.Rand())
			}
		}
	}
	return seqs
}

// topIndices returns the indices of the e largest values, in ascending
// order of value. Equal values keep the stable order produced by the
// underlying argsort.
func topIndices(values []float64, e int) []int {
	sorted := make([]float64, len(values))
	copy(sorted, values)

	indices := make([]int, len(values))
	floats.Argsort(sorted, indices)

	return indices[len(indices)-e:]
}
