// Package main runs the background email worker.
package main

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/srbmaury-team/Hackathon-Portal/config"
	"github.com/srbmaury-team/Hackathon-Portal/internal/worker"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/mailer"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/queue"
	"github.com/srbmaury-team/Hackathon-Portal/pkg/redis"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	rdb, err := redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
	if err != nil {
		logger.Fatal("redis", zap.Error(err))
	}
	defer rdb.Close()

	sender := mailer.New(cfg.Mail.Domain, cfg.Mail.APIKey, cfg.Mail.From, cfg.Mail.EURegion, logger)
	if _, ok := sender.(*mailer.LogSender); ok {
		logger.Warn("mailgun not configured, emails will only be logged")
	}
	processor := worker.NewEmailProcessor(sender, queue.NewQueue(rdb.Client, logger), logger)

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for i := 0; i < cfg.Worker.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			processor.Run(workerCtx)
		}()
	}
	logger.Info("worker started", zap.Int("concurrency", cfg.Worker.Concurrency))

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	wg.Wait()
	logger.Info("worker stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
