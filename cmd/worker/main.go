package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	cfg "github.com/langtutor/content-pipeline/config"
	"github.com/langtutor/content-pipeline/internal/service/content"
	"github.com/langtutor/content-pipeline/pkg/logger"
	"github.com/langtutor/content-pipeline/pkg/worker"
)

func main() {
	log, err := logger.NewLogger(
		logger.WithLevel("info"),
		logger.WithEncoding("json"),
		logger.WithOutputPaths([]string{"stdout", "logs/worker.log"}),
	)
	if err != nil {
		panic(err)
	}
	defer log.Sync()

	contentService, err := content.GetService(log)
	if err != nil {
		log.Error("Failed to create content service", logger.Error(err))
		os.Exit(1)
	}

	redisCfg := cfg.GetRedisConfig()
	pipelineCfg := cfg.GetPipelineConfig()

	workerCfg := &worker.Config{
		RedisAddr:     redisCfg.Addr,
		RedisPassword: redisCfg.Password,
		RedisDB:       redisCfg.DB,
		Concurrency:   pipelineCfg.MaxConcurrentJobs,
		Queues: map[string]int{
			"critical": 6,
			"default":  3,
			"low":      1,
		},
	}

	contentWorker, err := worker.NewContentWorker(workerCfg, contentService, log)
	if err != nil {
		log.Error("Failed to create content worker", logger.Error(err))
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := contentWorker.Start(ctx); err != nil {
		log.Error("Failed to start worker", logger.Error(err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down worker...")
	contentWorker.Stop()
	log.Info("Worker stopped")
}
