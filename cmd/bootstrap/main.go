// Package main 合同规则导入工具：读取 CSV，建集合并写入 Milvus
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	flag "github.com/spf13/pflag"

	"cancel-decision-api/internal/application/retrieval"
	"cancel-decision-api/internal/config"
	"cancel-decision-api/internal/infrastructure/persistence/redis"
	"cancel-decision-api/internal/wire"
	"cancel-decision-api/pkg/logger"
)

func main() {
	var (
		csvPath    string
		ensureOnly bool
		flushCache bool
		timeout    time.Duration
	)
	flag.StringVar(&csvPath, "csv", "data/rules.csv", "rules CSV path (header must include know_id,text)")
	flag.BoolVar(&ensureOnly, "ensure-only", false, "only create the collection and index, do not import")
	flag.BoolVar(&flushCache, "flush-cache", false, "delete cached embeddings for the configured model before importing")
	flag.DurationVar(&timeout, "timeout", 10*time.Minute, "overall timeout")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Init(cfg.Observability.Logging.Level, cfg.Observability.Logging.Format)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	app, cleanup, err := wire.InitializeIndexer(ctx, cfg)
	if err != nil {
		logger.Fatal(ctx, "failed to initialize indexer", err)
	}
	defer cleanup()

	if err := app.Vector.EnsureRulesCollection(ctx); err != nil {
		logger.Fatal(ctx, "failed to ensure rules collection", err)
	}
	logger.Info(ctx, "rules collection ready", "collection", cfg.Vector.Milvus.Collection)
	if ensureOnly {
		return
	}

	if flushCache {
		if app.Cache == nil {
			logger.Warn(ctx, "redis disabled, nothing to flush")
		} else {
			n, err := app.Cache.InvalidatePattern(ctx, redis.EmbeddingKeyPattern(cfg.Embedding.Model))
			if err != nil {
				logger.Fatal(ctx, "failed to flush embedding cache", err)
			}
			logger.Info(ctx, "embedding cache flushed", "keys", n)
		}
	}

	f, err := os.Open(csvPath)
	if err != nil {
		logger.Fatal(ctx, "failed to open rules csv", err, "path", csvPath)
	}
	defer f.Close()

	rules, err := retrieval.ReadRulesCSV(f)
	if err != nil {
		logger.Fatal(ctx, "failed to parse rules csv", err, "path", csvPath)
	}

	res, err := app.Indexer.IndexRules(ctx, rules)
	if err != nil {
		logger.Fatal(ctx, "failed to index rules", err)
	}
	logger.Info(ctx, "rules imported",
		"path", csvPath,
		"rows", len(rules),
		"indexed", res.Indexed,
		"skipped", res.Skipped,
	)
}
