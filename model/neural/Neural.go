// Package neural implements a feedforward neural network dynamics
// model. The network is forward-only: weights are initialized at
// construction (or set from a trained source) and the model is used
// purely for prediction.
package neural

import (
	"fmt"

	"github.com/samuelfneumann/goplan/model"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
	"gorgonia.org/tensor"
)

// fcLayer implements a fully connected layer of a feedforward neural
// network
type fcLayer struct {
	weights *G.Node
	bias    *G.Node
	act     func(x *G.Node) (*G.Node, error)
}

// fwd adds the forward pass of the fcLayer to the computational graph
func (f *fcLayer) fwd(x *G.Node) (*G.Node, error) {
	x = G.Must(G.Mul(x, f.weights))

	// Broadcast the bias weights to all samples along the batch
	// dimension
	x = G.Must(G.BroadcastAdd(x, f.bias, nil, []byte{0}))

	if f.act == nil {
		return x, nil
	}
	return f.act(x)
}

// FeedForward implements a fully connected dynamics model. The network
// takes the standardized observation concatenated with the
// standardized action as input and predicts the standardized change in
// observation, which is shifted and scaled back by the delta
// statistics:
//
//	next = obs + deltaMean + deltaStd * net(standardize(obs, action))
//
// The computational graph is built for a fixed batch size; Predict
// only accepts batches with exactly that many rows.
type FeedForward struct {
	g          *G.ExprGraph
	layers     []*fcLayer
	input      *G.Node
	prediction *G.Node
	predVal    G.Value
	vm         G.VM

	obsDims    int
	actionDims int
	batchSize  int
}

// New creates a new FeedForward dynamics model for observations of
// dimensionality obsDims and actions of dimensionality actionDims,
// operating on batches of batchSize rows. The network has one hidden
// ReLU layer per entry of hiddenSizes followed by a linear output
// layer, with weights drawn from init (Glorot uniform if init is nil).
func New(obsDims, actionDims, batchSize int, hiddenSizes []int,
	init G.InitWFn) (*FeedForward, error) {
	if obsDims < 1 || actionDims < 1 || batchSize < 1 {
		return nil, fmt.Errorf("new: non-positive network shape "+
			"(%v, %v, %v)", obsDims, actionDims, batchSize)
	}
	if len(hiddenSizes) == 0 {
		return nil, fmt.Errorf("new: at least one hidden layer is required")
	}
	for _, size := range hiddenSizes {
		if size < 1 {
			return nil, fmt.Errorf("new: non-positive hidden layer size "+
				"\n\thave(%v)", hiddenSizes)
		}
	}
	if init == nil {
		init = G.GlorotU(1.0)
	}

	g := G.NewGraph()
	features := obsDims + actionDims

	input := G.NewMatrix(g, tensor.Float64,
		G.WithShape(batchSize, features), G.WithName("input"),
		G.WithInit(G.Zeroes()))

	// A final linear layer maps the last hidden layer to the
	// predicted standardized delta
	sizes := make([]int, len(hiddenSizes)+1)
	copy(sizes, hiddenSizes)
	sizes[len(sizes)-1] = obsDims

	layers := make([]*fcLayer, len(sizes))
	in := features
	for l, out := range sizes {
		weights := G.NewMatrix(g, tensor.Float64, G.WithShape(in, out),
			G.WithName(fmt.Sprintf("L%vW", l)), G.WithInit(init))
		bias := G.NewMatrix(g, tensor.Float64, G.WithShape(1, out),
			G.WithName(fmt.Sprintf("L%vB", l)), G.WithInit(G.Zeroes()))

		var act func(x *G.Node) (*G.Node, error) = G.Rectify
		if l == len(sizes)-1 {
			act = nil
		}

		layers[l] = &fcLayer{weights, bias, act}
		in = out
	}

	net := &FeedForward{
		g:          g,
		layers:     layers,
		input:      input,
		obsDims:    obsDims,
		actionDims: actionDims,
		batchSize:  batchSize,
	}

	pred := input
	var err error
	for l, layer := range layers {
		if pred, err = layer.fwd(pred); err != nil {
			return nil, fmt.Errorf("new: could not compute forward pass "+
				"of layer %v: %v", l, err)
		}
	}
	net.prediction = pred
	G.Read(net.prediction, &net.predVal)

	net.vm = G.NewTapeMachine(g)
	return net, nil
}

// Graph returns the computational graph of the model
func (f *FeedForward) Graph() *G.ExprGraph {
	return f.g
}

// BatchSize returns the number of rows per prediction batch
func (f *FeedForward) BatchSize() int {
	return f.batchSize
}

// Close stops the underlying virtual machine. The model cannot be
// used after it is closed.
func (f *FeedForward) Close() error {
	return f.vm.Close()
}

// Predict returns the predicted next observation for each row of the
// observation and action batches. The model standardizes its inputs
// and destandardizes its predictions, so non-nil statistics are
// required.
func (f *FeedForward) Predict(obs, actions *mat.Dense,
	stats *model.Statistics) (*mat.Dense, error) {
	n, obsDims := obs.Dims()
	actionRows, actionDims := actions.Dims()

	if obsDims != f.obsDims {
		return nil, fmt.Errorf("predict: invalid observation "+
			"dimensionality \n\twant(%v) \n\thave(%v)", f.obsDims, obsDims)
	}
	if actionDims != f.actionDims {
		return nil, fmt.Errorf("predict: invalid action dimensionality "+
			"\n\twant(%v) \n\thave(%v)", f.actionDims, actionDims)
	}
	if n != actionRows || n != f.batchSize {
		return nil, fmt.Errorf("predict: invalid batch size "+
			"\n\twant(%v) \n\thave(%v, %v)", f.batchSize, n, actionRows)
	}
	if stats == nil {
		return nil, fmt.Errorf("predict: normalization statistics are " +
			"required but have not been set")
	}

	// Standardized observation and action, concatenated row-wise
	features := f.obsDims + f.actionDims
	in := make([]float64, n*features)
	for i := 0; i < n; i++ {
		row := in[i*features : (i+1)*features]
		for j := 0; j < f.obsDims; j++ {
			row[j] = (obs.At(i, j) - stats.ObsMean.AtVec(j)) /
				stats.ObsStd.AtVec(j)
		}
		for j := 0; j < f.actionDims; j++ {
			row[f.obsDims+j] = (actions.At(i, j) -
				stats.ActionMean.AtVec(j)) / stats.ActionStd.AtVec(j)
		}
	}

	inputTensor := tensor.New(
		tensor.WithBacking(in),
		tensor.WithShape(f.input.Shape()...),
	)
	if err := G.Let(f.input, inputTensor); err != nil {
		return nil, fmt.Errorf("predict: could not set input: %v", err)
	}

	if err := f.vm.RunAll(); err != nil {
		return nil, fmt.Errorf("predict: could not run forward pass: %v",
			err)
	}
	deltas := f.predVal.Data().([]float64)

	next := mat.NewDense(n, f.obsDims, nil)
	for i := 0; i < n; i++ {
		for j := 0; j < f.obsDims; j++ {
			delta := stats.DeltaMean.AtVec(j) +
				stats.DeltaStd.AtVec(j)*deltas[i*f.obsDims+j]
			next.Set(i, j, obs.At(i, j)+delta)
		}
	}
	f.vm.Reset()

	return next, nil
}

// FeedForward is a dynamics model
var _ model.Model = (*FeedForward)(nil)
