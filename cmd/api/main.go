package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"Yatube/internal/config"
	"Yatube/internal/pkg"
	"Yatube/internal/pkg/logger"
	"Yatube/internal/repository/mysql"
	"Yatube/internal/repository/redis"
	"Yatube/internal/router"
	"Yatube/internal/service"
	"Yatube/internal/storage"
)

func main() {
	logger.Init(os.Stdout)
	defer logger.Sync()
	cfg := config.Load()

	db, err := mysql.Open(cfg.DB)
	if err != nil {
		logger.Error("db_connect_failed", err, map[string]any{"driver": cfg.DB.Driver})
		os.Exit(1)
	}
	if err := mysql.Migrate(db); err != nil {
		logger.Error("db_migrate_failed", err, nil)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// feed cache: redis when reachable, otherwise every request composes
	var (
		cache service.FeedCache   = service.NopCache{}
		inv   service.Invalidator = service.NopCache{}
		lock  service.RebuildLocker
	)
	if cfg.Redis.Enabled {
		rdb, err := redis.NewClient(cfg.Redis)
		if err != nil {
			logger.Warn("redis_unavailable", map[string]any{"addr": cfg.Redis.Addr, "error": err.Error()})
		} else {
			defer rdb.Close()
			feedCache := redis.NewFeedCacheRepository(rdb, cfg.Feed.CacheTTL)
			cache, inv, lock = feedCache, feedCache, feedCache.Lock()
		}
	}

	var images service.ImageStore
	if cfg.MinIO.Enabled {
		store, err := storage.NewMinIOImageStore(ctx, cfg.MinIO)
		if err != nil {
			logger.Error("minio_connect_failed", err, map[string]any{"endpoint": cfg.MinIO.Endpoint})
			os.Exit(1)
		}
		images = store
	}

	senders := []service.Sender{service.LogSender}
	if cfg.Kafka.Enabled {
		producer, err := pkg.NewEventProducer(pkg.KafkaConfig{Brokers: cfg.Kafka.Brokers, Topic: cfg.Kafka.Topic})
		if err != nil {
			logger.Error("kafka_producer_failed", err, nil)
			os.Exit(1)
		}
		defer producer.Close()
		senders = []service.Sender{service.KafkaSender(producer)}
	}
	if cfg.SMTP.Enabled {
		mailer := pkg.NewMailer(pkg.SMTPConfig{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
		})
		senders = append(senders, service.CommentNoticeSender(db, mailer.Send))
	}
	relayer := service.NewOutboxRelayer(db, service.Fanout(senders...), cfg.Outbox.Interval, cfg.Outbox.BatchSize)
	go relayer.Run(ctx)

	graph := service.NewFollowService(db, inv)
	composer := service.NewCachedComposer(service.NewComposer(db, cfg.Feed.PageSize), cache, lock)

	r := router.InitRouter(router.Services{
		Feeds:    service.NewFeedService(db, composer, graph),
		Posts:    service.NewPostService(db, images, inv, service.PostOptions{EnforceEditOwnership: cfg.Feed.EnforceEditOwnership}),
		Follows:  graph,
		Groups:   service.NewGroupService(db, inv),
		Verifier: pkg.NewTokenVerifier(cfg.JWT.Secret),
	})

	srv := &http.Server{Addr: ":" + cfg.Server.Port, Handler: r}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	logger.Info("server_started", map[string]any{"port": cfg.Server.Port, "driver": cfg.DB.Driver})
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("server_failed", err, nil)
		os.Exit(1)
	}
}
