package neural

import (
	"testing"

	"github.com/samuelfneumann/goplan/model"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
)

func unitStatistics(obsDims, actionDims int) *model.Statistics {
	ones := func(n int) *mat.VecDense {
		v := mat.NewVecDense(n, nil)
		for i := 0; i < n; i++ {
			v.SetVec(i, 1.0)
		}
		return v
	}

	return &model.Statistics{
		ObsMean:    mat.NewVecDense(obsDims, nil),
		ObsStd:     ones(obsDims),
		ActionMean: mat.NewVecDense(actionDims, nil),
		ActionStd:  ones(actionDims),
		DeltaMean:  mat.NewVecDense(obsDims, nil),
		DeltaStd:   ones(obsDims),
	}
}

func TestFeedForwardZeroWeights(t *testing.T) {
	obsDims, actionDims, batch := 2, 1, 3

	// Zero weights predict a zero standardized delta, so with
	// zero-mean delta statistics the observation must not change
	f, err := New(obsDims, actionDims, batch, []int{8}, G.Zeroes())
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	obs := mat.NewDense(batch, obsDims, []float64{
		1.0, 2.0,
		-0.5, 0.25,
		0.0, 3.0,
	})
	actions := mat.NewDense(batch, actionDims, []float64{0.1, -0.2, 0.3})

	next, err := f.Predict(obs, actions, unitStatistics(obsDims, actionDims))
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < batch; i++ {
		for j := 0; j < obsDims; j++ {
			if next.At(i, j) != obs.At(i, j) {
				t.Errorf("prediction changed the observation at (%v, %v) "+
					"\n\twant(%v) \n\thave(%v)", i, j, obs.At(i, j),
					next.At(i, j))
			}
		}
	}
}

func TestFeedForwardDeterministic(t *testing.T) {
	obsDims, actionDims, batch := 2, 2, 4

	f, err := New(obsDims, actionDims, batch, []int{16, 16}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	stats := unitStatistics(obsDims, actionDims)
	obs := mat.NewDense(batch, obsDims, []float64{
		1.0, 0.0,
		0.0, 1.0,
		-1.0, 0.5,
		0.25, -0.25,
	})
	actions := mat.NewDense(batch, actionDims, []float64{
		0.1, 0.2,
		-0.1, -0.2,
		0.0, 0.0,
		0.5, -0.5,
	})

	first, err := f.Predict(obs, actions, stats)
	if err != nil {
		t.Fatal(err)
	}
	second, err := f.Predict(obs, actions, stats)
	if err != nil {
		t.Fatal(err)
	}

	if !mat.Equal(first, second) {
		t.Error("repeated predictions with fixed weights differ")
	}
}

func TestFeedForwardBatchSizeMismatch(t *testing.T) {
	f, err := New(2, 1, 4, []int{8}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	obs := mat.NewDense(3, 2, nil)
	actions := mat.NewDense(3, 1, nil)
	if _, err := f.Predict(obs, actions, unitStatistics(2, 1)); err == nil {
		t.Error("expected an error for a batch size mismatch")
	}
}

func TestFeedForwardRequiresStatistics(t *testing.T) {
	f, err := New(1, 1, 1, []int{4}, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	obs := mat.NewDense(1, 1, nil)
	actions := mat.NewDense(1, 1, nil)
	if _, err := f.Predict(obs, actions, nil); err == nil {
		t.Error("expected an error for nil statistics")
	}
}
