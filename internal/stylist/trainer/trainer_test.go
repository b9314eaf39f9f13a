package trainer

import (
	"testing"

	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generate(t *testing.T, n int, seed int64) dataset.Corpus {
	t.Helper()
	corpus, err := dataset.NewSeededGenerator(catalog.DefaultRules(), seed).Generate(n)
	require.NoError(t, err)
	return corpus
}

func TestTrain_DefaultCorpus(t *testing.T) {
	corpus := generate(t, dataset.DefaultSampleCount, 42)

	b, err := Train(corpus, DefaultOptions())
	require.NoError(t, err)
	require.NoError(t, b.Validate())

	assert.ElementsMatch(t, catalog.Weathers, b.Codecs.Weather.Classes())
	assert.Equal(t, []string{"Casual", "Gym", "Office", "Party", "Wedding"}, b.Codecs.Event.Classes())
	assert.Equal(t, []string{"Dark", "Light", "Medium"}, b.Codecs.SkinTone.Classes())
	assert.Equal(t, len(catalog.DefaultRules().Outfits()), b.Codecs.Outfit.Len())

	ev := b.Evaluation
	assert.Equal(t, 5000, ev.Samples)
	assert.Equal(t, 1000, ev.EvalSize)
	assert.Equal(t, 4000, ev.TrainSize)
	assert.LessOrEqual(t, ev.Depth, DefaultMaxDepth)
	assert.LessOrEqual(t, ev.Leaves, 1<<DefaultMaxDepth)
	assert.Greater(t, ev.TrainAccuracy, 0.0)
	assert.GreaterOrEqual(t, ev.EvalAccuracy, 0.0)
	assert.LessOrEqual(t, ev.EvalAccuracy, 1.0)

	assert.Equal(t, DefaultMaxDepth, b.Params.MaxDepth)
	assert.Equal(t, int64(DefaultSeed), b.Params.Seed)
}

func TestTrain_Deterministic(t *testing.T) {
	corpus := generate(t, 1500, 5)

	a, err := Train(corpus, DefaultOptions())
	require.NoError(t, err)
	b, err := Train(corpus, DefaultOptions())
	require.NoError(t, err)

	assert.Equal(t, a.Classifier, b.Classifier)
	assert.Equal(t, a.Evaluation, b.Evaluation)
	assert.NotEqual(t, a.ModelID, b.ModelID)
}

func TestTrain_PredictionsAreTrainedLabels(t *testing.T) {
	corpus := generate(t, 2000, 11)
	b, err := Train(corpus, DefaultOptions())
	require.NoError(t, err)

	for w := 0; w < b.Codecs.Weather.Len(); w++ {
		for e := 0; e < b.Codecs.Event.Len(); e++ {
			for s := 0; s < b.Codecs.SkinTone.Len(); s++ {
				code, err := b.Classifier.Predict([]int{w, e, s})
				require.NoError(t, err)
				_, err = b.Codecs.Outfit.Decode(code)
				assert.NoError(t, err)
			}
		}
	}
}

func TestTrain_EmptyCorpus(t *testing.T) {
	_, err := Train(nil, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyCorpus)

	_, err = Train(dataset.Corpus{}, DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyCorpus)
}

func TestTrain_DegenerateTarget(t *testing.T) {
	corpus := dataset.Corpus{
		{Weather: "Hot", Event: "Gym", SkinTone: "Light", Outfit: "Linen Suit"},
		{Weather: "Cold", Event: "Office", SkinTone: "Dark", Outfit: "Linen Suit"},
		{Weather: "Rainy", Event: "Party", SkinTone: "Medium", Outfit: "Linen Suit"},
	}

	_, err := Train(corpus, DefaultOptions())
	assert.ErrorIs(t, err, ErrDegenerateTarget)
}

func TestTrain_InvalidOptions(t *testing.T) {
	corpus := generate(t, 10, 1)

	_, err := Train(corpus, Options{MaxDepth: 0, TestSize: 0.2})
	assert.ErrorIs(t, err, ErrInvalidOptions)

	_, err = Train(corpus, Options{MaxDepth: 3, TestSize: 1})
	assert.ErrorIs(t, err, ErrInvalidOptions)
}

func TestTrain_TinyCorpusKeepsBothPartitions(t *testing.T) {
	corpus := dataset.Corpus{
		{Weather: "Hot", Event: "Gym", SkinTone: "Light", Outfit: "Dri-Fit Tee + Shorts"},
		{Weather: "Cold", Event: "Gym", SkinTone: "Light", Outfit: "Hoodie + Joggers"},
	}

	b, err := Train(corpus, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, 1, b.Evaluation.TrainSize)
	assert.Equal(t, 1, b.Evaluation.EvalSize)
}

func TestSplit(t *testing.T) {
	train, eval := split(10, 0.2, 42)
	assert.Len(t, train, 8)
	assert.Len(t, eval, 2)

	seen := map[int]bool{}
	for _, i := range append(append([]int{}, train...), eval...) {
		assert.False(t, seen[i])
		seen[i] = true
	}
	assert.Len(t, seen, 10)

	train2, eval2 := split(10, 0.2, 42)
	assert.Equal(t, train, train2)
	assert.Equal(t, eval, eval2)
}
