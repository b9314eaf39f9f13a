package bootstrap

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"outfit-workers/internal/common/config"
	"outfit-workers/internal/common/errors"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/stylist/bundle"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/dataset"
	"outfit-workers/internal/stylist/trainer"
	"outfit-workers/pkg/registry"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func modelConfig(dir string) config.ModelConfig {
	return config.ModelConfig{
		CorpusPath: filepath.Join(dir, "data", "clothing_data.csv"),
		BundlePath: filepath.Join(dir, "models", "outfit_model.json"),
		Samples:    800,
		Seed:       42,
		MaxDepth:   3,
		TestSize:   0.2,
		Storage:    config.StorageFile,
	}
}

func TestOpenStore(t *testing.T) {
	cfg := modelConfig(t.TempDir())

	store, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	assert.IsType(t, &bundle.FileStore{}, store)
	assert.Equal(t, cfg.BundlePath, store.Location())

	cfg.Storage = "ftp"
	_, err = OpenStore(context.Background(), cfg)
	assert.ErrorContains(t, err, `unknown model storage "ftp"`)
}

// fakeS3 answers path-style object PUT and GET like an S3-compatible store.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch r.Method {
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[r.URL.Path] = body
	case http.MethodGet:
		data, ok := f.objects[r.URL.Path]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		_, _ = w.Write(data)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func s3ModelConfig(t *testing.T) (config.ModelConfig, *fakeS3) {
	t.Helper()
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")
	t.Setenv("AWS_EC2_METADATA_DISABLED", "true")
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(t.TempDir(), "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "credentials"))

	fake := &fakeS3{objects: map[string][]byte{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	cfg := modelConfig(t.TempDir())
	cfg.Storage = config.StorageS3
	cfg.S3 = config.S3Config{Bucket: "models", Key: "outfit/latest.json", Region: "us-east-1", Endpoint: srv.URL}
	return cfg, fake
}

func TestOpenStore_S3RoundTrip(t *testing.T) {
	ctx := context.Background()
	cfg, fake := s3ModelConfig(t)

	store, err := OpenStore(ctx, cfg)
	require.NoError(t, err)
	assert.IsType(t, &bundle.S3Store{}, store)
	assert.Equal(t, "s3://models/outfit/latest.json", store.Location())

	_, err = store.Load(ctx)
	assert.ErrorIs(t, err, bundle.ErrNotFound)

	corpus, err := Corpus(cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	saved, err := trainer.Train(corpus, TrainOptions(cfg))
	require.NoError(t, err)
	require.NoError(t, store.Save(ctx, saved))
	assert.Contains(t, fake.objects, "/models/outfit/latest.json")

	loaded, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, saved.ModelID, loaded.ModelID)
	assert.Equal(t, saved.Codecs.Outfit.Classes(), loaded.Codecs.Outfit.Classes())
}

func TestLoadBundle_TrainsOnMissingInS3(t *testing.T) {
	ctx := context.Background()
	cfg, fake := s3ModelConfig(t)
	cfg.TrainOnMissing = true

	store, err := OpenStore(ctx, cfg)
	require.NoError(t, err)

	first, err := LoadBundle(ctx, store, cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	require.Contains(t, fake.objects, "/models/outfit/latest.json")

	second, err := LoadBundle(ctx, store, cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, first.ModelID, second.ModelID)
}

func TestLoadBundle_TrainsOnMissing(t *testing.T) {
	ctx := context.Background()
	cfg := modelConfig(t.TempDir())
	cfg.TrainOnMissing = true
	store := bundle.NewFileStore(cfg.BundlePath)

	first, err := LoadBundle(ctx, store, cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, 800, first.Evaluation.Samples)
	assert.LessOrEqual(t, first.Evaluation.Depth, 3)

	second, err := LoadBundle(ctx, store, cfg, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Equal(t, first.ModelID, second.ModelID)
}

func TestLoadBundle_MissingWithoutTraining(t *testing.T) {
	cfg := modelConfig(t.TempDir())

	_, err := LoadBundle(context.Background(), bundle.NewFileStore(cfg.BundlePath), cfg, logger.NewTestLogger(t))
	require.Error(t, err)
	assert.Equal(t, errors.ErrCodeBundleLoadFailed, errors.FromError(err).Code)
	assert.True(t, errors.FromError(err).Retryable)
}

func TestCorpus_PrefersFileOnDisk(t *testing.T) {
	cfg := modelConfig(t.TempDir())
	log := logger.NewTestLogger(t)

	onDisk, err := dataset.NewSeededGenerator(catalog.DefaultRules(), 1).Generate(30)
	require.NoError(t, err)
	require.NoError(t, dataset.SaveFile(cfg.CorpusPath, onDisk))

	corpus, err := Corpus(cfg, log)
	require.NoError(t, err)
	assert.Equal(t, onDisk, corpus)

	cfg.CorpusPath = filepath.Join(t.TempDir(), "absent.csv")
	corpus, err = Corpus(cfg, log)
	require.NoError(t, err)
	assert.Len(t, corpus, cfg.Samples)
}

func TestCorpus_GeneratedCorpusIsWritten(t *testing.T) {
	cfg := modelConfig(t.TempDir())
	log := logger.NewTestLogger(t)

	generated, err := Corpus(cfg, log)
	require.NoError(t, err)
	require.FileExists(t, cfg.CorpusPath)

	onDisk, err := dataset.LoadFile(cfg.CorpusPath)
	require.NoError(t, err)
	assert.Equal(t, generated, onDisk)

	again, err := Corpus(cfg, log)
	require.NoError(t, err)
	assert.Equal(t, generated, again)
}

func TestRules_FromRegistry(t *testing.T) {
	rules := catalog.DefaultRules()
	key := catalog.Key{Weather: catalog.WeatherHot, Occasion: catalog.OccasionGym}
	rules[key] = []string{"Running Vest + Shorts"}

	path := filepath.Join(t.TempDir(), "rules.json")
	require.NoError(t, registry.SaveRegistry(path, registry.FromRuleTable(rules, "1")))

	got, err := Rules(config.ModelConfig{RulesPath: path})
	require.NoError(t, err)
	assert.Equal(t, []string{"Running Vest + Shorts"}, got[key])

	got, err = Rules(config.ModelConfig{})
	require.NoError(t, err)
	assert.Equal(t, catalog.DefaultRules(), got)
}

func TestNewStylist(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := &config.Config{
		Model: modelConfig(t.TempDir()),
		Weather: config.WeatherConfig{
			GeocodingURL: "http://127.0.0.1:0/geo",
			ForecastURL:  "http://127.0.0.1:0/forecast",
			Timeout:      200,
			CacheTTL:     60,
			CacheEnabled: true,
		},
		Database: config.DatabaseConfig{Redis: config.RedisConfig{Address: mr.Addr()}},
	}
	cfg.Model.TrainOnMissing = true

	s, err := NewStylist(context.Background(), cfg, nil, logger.NewTestLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NotNil(t, s.Redis)
	assert.Equal(t, s.Bundle, s.Predictor.Bundle())
	assert.Same(t, s.Predictor, s.Advisor.Predictor())
}

func TestNewStylist_RedisDown(t *testing.T) {
	cfg := &config.Config{
		Model:    modelConfig(t.TempDir()),
		Weather:  config.WeatherConfig{CacheEnabled: true, Timeout: 200},
		Database: config.DatabaseConfig{Redis: config.RedisConfig{Address: "127.0.0.1:1"}},
	}
	cfg.Model.TrainOnMissing = true

	s, err := NewStylist(context.Background(), cfg, nil, logger.NewTestLogger(t))
	require.NoError(t, err)
	assert.Nil(t, s.Redis)
	assert.NoError(t, s.Close())
}
