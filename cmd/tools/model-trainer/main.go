// cmd/tools/model-trainer/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"outfit-workers/internal/bootstrap"
	"outfit-workers/internal/common/config"
	"outfit-workers/internal/common/logger"
	"outfit-workers/internal/stylist/bundle"
	"outfit-workers/internal/stylist/trainer"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	corpusPath := flag.String("corpus", cfg.Model.CorpusPath, "Training CSV (generated from the rule table when missing)")
	out := flag.String("out", cfg.Model.BundlePath, "Output bundle path")
	maxDepth := flag.Int("max-depth", cfg.Model.MaxDepth, "Maximum tree depth")
	testSize := flag.Float64("test-size", cfg.Model.TestSize, "Held-out fraction in (0, 1)")
	seed := flag.Int64("seed", cfg.Model.Seed, "Split and generation seed")
	printTree := flag.Bool("print-tree", false, "Print the learned decision procedure")
	upload := flag.Bool("upload", false, "Also upload the bundle to the configured S3 location")
	verbose := flag.Bool("v", false, "Verbose logging")
	flag.Parse()

	level := "warn"
	if *verbose {
		level = "debug"
	}
	log := logger.NewStructured(level, "console")

	mcfg := cfg.Model
	mcfg.CorpusPath = *corpusPath
	mcfg.BundlePath = *out
	mcfg.MaxDepth = *maxDepth
	mcfg.TestSize = *testSize
	mcfg.Seed = *seed

	corpus, err := bootstrap.Corpus(mcfg, log)
	if err != nil {
		fmt.Printf("Error reading corpus: %v\n", err)
		os.Exit(1)
	}

	b, err := trainer.Train(corpus, bootstrap.TrainOptions(mcfg))
	if err != nil {
		fmt.Printf("Error training model: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if err := bundle.NewFileStore(*out).Save(ctx, b); err != nil {
		fmt.Printf("Error saving bundle: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Model saved: %s (id %s)\n", *out, b.ModelID)

	if *upload {
		mcfg.Storage = config.StorageS3
		if mcfg.S3.Bucket == "" {
			fmt.Println("Error: -upload requires model.s3.bucket (or MODEL_S3_BUCKET)")
			os.Exit(1)
		}
		store, err := bootstrap.OpenStore(ctx, mcfg)
		if err != nil {
			fmt.Printf("Error opening S3 store: %v\n", err)
			os.Exit(1)
		}
		if err := store.Save(ctx, b); err != nil {
			fmt.Printf("Error uploading bundle: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Model uploaded: %s\n", store.Location())
	}

	report(b)
	if *printTree {
		fmt.Println()
		if err := b.Classifier.Render(os.Stdout, b.Labels()); err != nil {
			fmt.Printf("Error rendering tree: %v\n", err)
			os.Exit(1)
		}
	}
}

func report(b *bundle.Bundle) {
	e := b.Evaluation
	fmt.Println()
	fmt.Println("Evaluation")
	fmt.Printf("  samples:        %d (train %d / eval %d)\n", e.Samples, e.TrainSize, e.EvalSize)
	fmt.Printf("  train accuracy: %.4f\n", e.TrainAccuracy)
	fmt.Printf("  eval accuracy:  %.4f\n", e.EvalAccuracy)
	fmt.Printf("  tree:           depth %d, %d leaves, %d classes\n", e.Depth, e.Leaves, e.Classes)
	fmt.Printf("  params:         max_depth=%d test_size=%.2f seed=%d\n", b.Params.MaxDepth, b.Params.TestSize, b.Params.Seed)
}
