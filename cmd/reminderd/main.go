package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"reminderd/handler"
	"reminderd/pkg/auth"
	"reminderd/pkg/config"
	"reminderd/pkg/httpserver"
	"reminderd/pkg/logger"
	"reminderd/pkg/pushover"
	"reminderd/pkg/queue"
	"reminderd/pkg/redisconn"
)

type appConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`
}

func main() {
	var (
		appCfg   appConfig
		authCfg  auth.Config
		httpCfg  httpserver.Config
		redisCfg redisconn.Config
		queueCfg queue.Config
		pushCfg  pushover.Config
	)
	config.MustLoad(&appCfg)
	config.MustLoad(&authCfg)
	config.MustLoad(&httpCfg)
	config.MustLoad(&redisCfg)
	config.MustLoad(&queueCfg)
	config.MustLoad(&pushCfg)

	log := logger.New(logger.WithEnvironment(appCfg.Env, "reminderd"))
	logger.SetAsDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb, err := redisconn.Connect(ctx, redisCfg)
	if err != nil {
		log.Error("failed to connect to redis", logger.Error(err))
		os.Exit(1)
	}
	defer rdb.Close()

	storage := queue.NewRedisStorage(rdb, queueCfg.Name)

	gateway, err := queue.NewGateway(storage, queueCfg, authCfg.APIKey)
	if err != nil {
		log.Error("failed to build queue gateway", logger.Error(err))
		os.Exit(1)
	}

	dispatcher, err := queue.NewDispatcher(storage,
		queue.WithPollInterval(queueCfg.PollInterval),
		queue.WithClaimBatchSize(queueCfg.ClaimBatchSize),
		queue.WithMaxConcurrent(queueCfg.MaxConcurrentTasks),
		queue.WithHTTPClient(httpClientWithTimeout(queueCfg)),
		queue.WithLogger(log),
	)
	if err != nil {
		log.Error("failed to build dispatcher", logger.Error(err))
		os.Exit(1)
	}

	pusher, err := pushover.New(pushCfg)
	if err != nil {
		log.Error("failed to build pushover client", logger.Error(err))
		os.Exit(1)
	}

	h := handler.New(gateway, pusher, log)
	router := h.Routes(authCfg.APIKey, redisconn.Healthcheck(rdb))

	srv := httpserver.NewFromConfig(httpCfg, httpserver.WithLogger(log))

	log.Info("starting reminderd",
		slog.String("addr", httpCfg.Addr),
		slog.String("queue", queueCfg.Name),
		slog.String("timezone", queueCfg.Timezone))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(dispatcher.Run(ctx))
	g.Go(func() error { return srv.Run(ctx, router) })

	if err := g.Wait(); err != nil {
		log.Error("service stopped with error", logger.Error(err))
		os.Exit(1)
	}
	log.Info("service stopped")
}

func httpClientWithTimeout(cfg queue.Config) *http.Client {
	timeout := cfg.DeliveryTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{Timeout: timeout}
}
