// Package bootstrap assembles the stylist from configuration. Every binary
// shares it so they agree on where the model lives and how it is rebuilt.
package bootstrap

import (
	"context"
	stderrors "errors"
	"fmt"
	"os"

	"outfit-workers/internal/common/aws"
	"outfit-workers/internal/common/config"
	"outfit-workers/internal/common/database"
	"outfit-workers/internal/common/errors"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/common/metrics"
	"outfit-workers/internal/common/observability"
	"outfit-workers/internal/common/weather"
	"outfit-workers/internal/stylist/advisor"
	"outfit-workers/internal/stylist/bundle"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/dataset"
	"outfit-workers/internal/stylist/predictor"
	"outfit-workers/internal/stylist/trainer"
	"outfit-workers/pkg/registry"
)

// OpenStore returns the bundle store selected by cfg.Storage.
func OpenStore(ctx context.Context, cfg config.ModelConfig) (bundle.Store, error) {
	switch cfg.Storage {
	case config.StorageS3:
		client, err := aws.NewS3Client(ctx, cfg.S3.Region, cfg.S3.Endpoint)
		if err != nil {
			return nil, err
		}
		return bundle.NewS3Store(client, cfg.S3.Bucket, cfg.S3.Key), nil
	case config.StorageFile, "":
		return bundle.NewFileStore(cfg.BundlePath), nil
	default:
		return nil, fmt.Errorf("unknown model storage %q", cfg.Storage)
	}
}

// Rules returns the rule table at cfg.RulesPath, or the built-in one.
func Rules(cfg config.ModelConfig) (catalog.RuleTable, error) {
	if cfg.RulesPath == "" {
		return catalog.DefaultRules(), nil
	}
	return registry.LoadRuleTable(cfg.RulesPath)
}

func TrainOptions(cfg config.ModelConfig) trainer.Options {
	return trainer.Options{MaxDepth: cfg.MaxDepth, TestSize: cfg.TestSize, Seed: cfg.Seed}
}

// Corpus reads cfg.CorpusPath when it exists and otherwise generates
// cfg.Samples rows from the rule table and writes them to cfg.CorpusPath.
func Corpus(cfg config.ModelConfig, log logger.Logger) (dataset.Corpus, error) {
	if cfg.CorpusPath != "" {
		corpus, err := dataset.LoadFile(cfg.CorpusPath)
		if err == nil {
			log.Info("corpus loaded", map[string]interface{}{"path": cfg.CorpusPath, "rows": len(corpus)})
			return corpus, nil
		}
		if !stderrors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	rules, err := Rules(cfg)
	if err != nil {
		return nil, err
	}
	corpus, err := dataset.NewSeededGenerator(rules, cfg.Seed).Generate(cfg.Samples)
	if err != nil {
		return nil, err
	}
	log.Info("corpus generated", map[string]interface{}{"rows": len(corpus), "seed": cfg.Seed})

	if cfg.CorpusPath != "" {
		if err := dataset.SaveFile(cfg.CorpusPath, corpus); err != nil {
			return nil, err
		}
		log.Info("corpus saved", map[string]interface{}{"path": cfg.CorpusPath})
	}
	return corpus, nil
}

// LoadBundle loads the current bundle. When none is stored and
// cfg.TrainOnMissing is set it trains one and saves it.
func LoadBundle(ctx context.Context, store bundle.Store, cfg config.ModelConfig, log logger.Logger) (*bundle.Bundle, error) {
	b, err := store.Load(ctx)
	switch {
	case err == nil:
	case stderrors.Is(err, bundle.ErrNotFound) && cfg.TrainOnMissing:
		log.Warn("no bundle stored, training a fresh one", map[string]interface{}{"location": store.Location()})
		b, err = train(ctx, store, cfg, log)
		if err != nil {
			return nil, errors.NewBundleLoadFailedError(store.Location(), err)
		}
	default:
		return nil, errors.NewBundleLoadFailedError(store.Location(), err)
	}

	metrics.ModelInfo.WithLabelValues(b.ModelID).Set(b.Evaluation.EvalAccuracy)
	log.Info("bundle ready", map[string]interface{}{
		"location":     store.Location(),
		"modelId":      b.ModelID,
		"evalAccuracy": b.Evaluation.EvalAccuracy,
		"depth":        b.Evaluation.Depth,
	})
	return b, nil
}

func train(ctx context.Context, store bundle.Store, cfg config.ModelConfig, log logger.Logger) (*bundle.Bundle, error) {
	corpus, err := Corpus(cfg, log)
	if err != nil {
		return nil, err
	}
	b, err := trainer.Train(corpus, TrainOptions(cfg))
	if err != nil {
		return nil, err
	}
	if err := store.Save(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

// Stylist holds the long-lived collaborators of a running binary.
type Stylist struct {
	Bundle    *bundle.Bundle
	Predictor *predictor.Service
	Weather   *weather.Client
	Advisor   *advisor.Advisor
	Redis     *database.RedisClient
}

// NewStylist loads the bundle and wires the weather client, with a Redis
// cache when cfg.Weather.CacheEnabled. obs may be nil.
func NewStylist(ctx context.Context, cfg *config.Config, obs *observability.Observability, log logger.Logger) (*Stylist, error) {
	store, err := OpenStore(ctx, cfg.Model)
	if err != nil {
		return nil, err
	}
	b, err := LoadBundle(ctx, store, cfg.Model, log)
	if err != nil {
		return nil, err
	}
	svc, err := predictor.New(b, log)
	if err != nil {
		return nil, err
	}

	s := &Stylist{Bundle: b, Predictor: svc}

	var cache weather.Cache
	if cfg.Weather.CacheEnabled {
		rc, err := database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return nil, err
		}
		if err := rc.Ping(ctx); err != nil {
			log.Warn("redis unavailable, weather cache disabled", map[string]interface{}{"error": err.Error()})
			rc.Close()
		} else {
			s.Redis = rc
			cache = rc
		}
	}

	s.Weather = weather.NewClient(cfg.Weather, cache, log)
	s.Advisor = advisor.New(s.Weather, svc, obs, log)
	return s, nil
}

func (s *Stylist) Close() error {
	if s.Redis != nil {
		return s.Redis.Close()
	}
	return nil
}
