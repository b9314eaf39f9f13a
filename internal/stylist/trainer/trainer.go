// Package trainer turns a training corpus into a persisted-ready bundle.
package trainer

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"outfit-workers/internal/stylist/bundle"
	"outfit-workers/internal/stylist/codec"
	"outfit-workers/internal/stylist/dataset"
	"outfit-workers/internal/stylist/tree"

	"gonum.org/v1/gonum/mat"
)

const (
	DefaultMaxDepth = 3
	DefaultTestSize = 0.2
	DefaultSeed     = 42
)

var (
	ErrEmptyCorpus      = errors.New("EMPTY_CORPUS")
	ErrDegenerateTarget = errors.New("DEGENERATE_TARGET")
	ErrInvalidOptions   = errors.New("INVALID_TRAINING_OPTIONS")
)

type Options struct {
	MaxDepth int
	TestSize float64
	Seed     int64
}

func DefaultOptions() Options {
	return Options{MaxDepth: DefaultMaxDepth, TestSize: DefaultTestSize, Seed: DefaultSeed}
}

func (o Options) validate() error {
	if o.MaxDepth < 1 {
		return fmt.Errorf("%w: max depth must be >= 1, got %d", ErrInvalidOptions, o.MaxDepth)
	}
	if o.TestSize <= 0 || o.TestSize >= 1 {
		return fmt.Errorf("%w: test size must be in (0, 1), got %v", ErrInvalidOptions, o.TestSize)
	}
	return nil
}

// Train fits one codec per column, encodes the corpus, holds out an
// evaluation partition and grows a depth-bounded tree on the rest.
func Train(corpus dataset.Corpus, opts Options) (*bundle.Bundle, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if len(corpus) == 0 {
		return nil, ErrEmptyCorpus
	}

	codecs, err := fitCodecs(corpus)
	if err != nil {
		return nil, err
	}
	if codecs.Outfit.Len() < 2 {
		return nil, fmt.Errorf("%w: %d distinct outfit", ErrDegenerateTarget, codecs.Outfit.Len())
	}

	X, y, err := encode(corpus, codecs)
	if err != nil {
		return nil, err
	}

	trainIdx, evalIdx := split(len(corpus), opts.TestSize, opts.Seed)
	Xtrain, ytrain := subset(X, y, trainIdx)
	Xeval, yeval := subset(X, y, evalIdx)

	clf := tree.New(opts.MaxDepth)
	if err := clf.Fit(Xtrain, ytrain, codecs.Outfit.Len()); err != nil {
		return nil, fmt.Errorf("failed to fit classifier: %w", err)
	}

	trainAcc, err := accuracy(clf, Xtrain, ytrain)
	if err != nil {
		return nil, err
	}
	evalAcc, err := accuracy(clf, Xeval, yeval)
	if err != nil {
		return nil, err
	}

	eval := bundle.Evaluation{
		Samples:       len(corpus),
		TrainSize:     len(trainIdx),
		EvalSize:      len(evalIdx),
		TrainAccuracy: trainAcc,
		EvalAccuracy:  evalAcc,
		Depth:         clf.Depth(),
		Leaves:        clf.Leaves(),
		Classes:       codecs.Outfit.Len(),
	}
	params := bundle.Params{MaxDepth: opts.MaxDepth, TestSize: opts.TestSize, Seed: opts.Seed}

	return bundle.New(clf, codecs, params, eval), nil
}

func fitCodecs(corpus dataset.Corpus) (bundle.Codecs, error) {
	fit := func(column string) (*codec.Codec, error) {
		values, err := corpus.Column(column)
		if err != nil {
			return nil, err
		}
		return codec.Fit(values), nil
	}

	var (
		codecs bundle.Codecs
		err    error
	)
	if codecs.Weather, err = fit(dataset.ColumnWeather); err != nil {
		return codecs, err
	}
	if codecs.Event, err = fit(dataset.ColumnEvent); err != nil {
		return codecs, err
	}
	if codecs.SkinTone, err = fit(dataset.ColumnSkinTone); err != nil {
		return codecs, err
	}
	if codecs.Outfit, err = fit(dataset.ColumnOutfit); err != nil {
		return codecs, err
	}
	return codecs, nil
}

func encode(corpus dataset.Corpus, codecs bundle.Codecs) (*mat.Dense, []int, error) {
	X := mat.NewDense(len(corpus), bundle.NumFeatures, nil)
	y := make([]int, len(corpus))

	for i, ex := range corpus {
		w, err := codecs.Weather.Encode(ex.Weather)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		e, err := codecs.Event.Encode(ex.Event)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		s, err := codecs.SkinTone.Encode(ex.SkinTone)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		o, err := codecs.Outfit.Encode(ex.Outfit)
		if err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		X.Set(i, bundle.FeatureWeather, float64(w))
		X.Set(i, bundle.FeatureEvent, float64(e))
		X.Set(i, bundle.FeatureSkinTone, float64(s))
		y[i] = o
	}
	return X, y, nil
}

// split shuffles row indices with seed and holds out ceil(n*testSize) of
// them, keeping at least one row on each side.
func split(n int, testSize float64, seed int64) (train, eval []int) {
	perm := rand.New(rand.NewSource(seed)).Perm(n)

	nEval := int(math.Ceil(float64(n) * testSize))
	if nEval < 1 {
		nEval = 1
	}
	if nEval > n-1 {
		nEval = n - 1
	}
	return perm[nEval:], perm[:nEval]
}

func subset(X *mat.Dense, y []int, idx []int) (*mat.Dense, []int) {
	_, cols := X.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	labels := make([]int, len(idx))
	for k, i := range idx {
		out.SetRow(k, X.RawRowView(i))
		labels[k] = y[i]
	}
	return out, labels
}

func accuracy(clf *tree.Classifier, X *mat.Dense, y []int) (float64, error) {
	if len(y) == 0 {
		return 0, nil
	}
	pred, err := clf.PredictMatrix(X)
	if err != nil {
		return 0, err
	}
	correct := 0
	for i := range y {
		if pred[i] == y[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(y)), nil
}
