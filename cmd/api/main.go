package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"

	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	amqp "github.com/rabbitmq/amqp091-go"
	goredis "github.com/redis/go-redis/v9"

	_ "cartflow/docs"
	"cartflow/pkg/api"
	"cartflow/pkg/cart"
	cartmem "cartflow/pkg/cart/memory"
	cartredis "cartflow/pkg/cart/redis"
	"cartflow/pkg/config"
	"cartflow/pkg/events"
	"cartflow/pkg/logger"
	"cartflow/pkg/merchant"
	"cartflow/pkg/metrics"
	"cartflow/pkg/order"
	ordermem "cartflow/pkg/order/memory"
	pg "cartflow/pkg/order/postgres"
	"cartflow/pkg/otel"
)

// @title Cartflow API
// @version 1.0
// @description Shopping cart and WhatsApp checkout for the restaurant ordering page
// @host localhost:8443
// @BasePath /
// @securityDefinitions.apikey AdminToken
// @in header
// @name X-Admin-Token
func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		logger.New(os.Stderr, logger.LevelError, "cartflow", nil).Error(ctx, "load config", "error", err)
		os.Exit(1)
	}

	log := logger.New(os.Stdout, logger.ParseLevel(cfg.LogLevel), "cartflow", otel.GetTraceID)
	defer log.Sync()

	tp, shutdown, err := otel.InitTracing(log, otel.Config{ServiceName: "cartflow", Host: cfg.OTELHost, Probability: cfg.OTELProbability})
	if err != nil {
		log.Error(ctx, "init tracing", "error", err)
		os.Exit(1)
	}
	defer shutdown(ctx)

	kv, closeKV, err := cartKV(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "cart storage", "error", err)
		os.Exit(1)
	}
	defer closeKV()

	repo, closeRepo, err := orderRepository(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "order archive", "error", err)
		os.Exit(1)
	}
	defer closeRepo()

	notifier, closeNotifier, err := orderNotifier(ctx, cfg, log)
	if err != nil {
		log.Error(ctx, "order events", "error", err)
		os.Exit(1)
	}
	defer closeNotifier()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg, "api")

	svc := order.NewService(
		order.NewComposer(cfg.Hours),
		merchant.NewWhatsApp(cfg.MerchantPhone),
		repo,
		log,
		order.WithNotifier(notifier),
		order.WithRecorder(m),
	)

	h := api.New(kv, svc, repo, log,
		api.WithTracer(tp.Tracer("cartflow")),
		api.WithMetrics(m),
		api.WithAdminToken(cfg.AdminToken),
	)
	r := h.Router()
	r.Handle("/metrics", metrics.Handler(reg)).Methods(http.MethodGet)

	log.Info(ctx, "listening", "addr", cfg.Addr, "tls", cfg.TLSCert != "")
	if cfg.TLSCert != "" {
		err = http.ListenAndServeTLS(cfg.Addr, cfg.TLSCert, cfg.TLSKey, r)
	} else {
		err = http.ListenAndServe(cfg.Addr, r)
	}
	if err != nil {
		log.Error(ctx, "server closed", "error", err)
	}
}

func cartKV(ctx context.Context, cfg config.Config, log *logger.Logger) (cart.KV, func(), error) {
	if cfg.RedisAddr == "" {
		log.Info(ctx, "cart storage", "backend", "memory")
		return cartmem.New(), func() {}, nil
	}
	client := goredis.NewClient(&goredis.Options{Addr: cfg.RedisAddr})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, err
	}
	log.Info(ctx, "cart storage", "backend", "redis", "addr", cfg.RedisAddr, "ttl", cfg.CartTTL.String())
	return cartredis.New(client, "cartflow:", cfg.CartTTL), func() { client.Close() }, nil
}

func orderRepository(ctx context.Context, cfg config.Config, log *logger.Logger) (order.Repository, func(), error) {
	if cfg.DatabaseURL == "" {
		log.Info(ctx, "order archive", "backend", "memory")
		return ordermem.New(), func() {}, nil
	}
	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	repo := pg.New(db)
	if err := repo.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, nil, err
	}
	log.Info(ctx, "order archive", "backend", "postgres")
	return repo, func() { db.Close() }, nil
}

func orderNotifier(ctx context.Context, cfg config.Config, log *logger.Logger) (order.Notifier, func(), error) {
	var (
		fan     events.Fanout
		closers []func() error
	)
	if cfg.AMQPURL != "" {
		conn, err := amqp.Dial(cfg.AMQPURL)
		if err != nil {
			return nil, nil, err
		}
		pub, err := events.NewRabbitPublisher(conn)
		if err != nil {
			conn.Close()
			return nil, nil, err
		}
		fan = append(fan, pub)
		closers = append(closers, pub.Close, conn.Close)
		log.Info(ctx, "order events", "backend", "rabbitmq", "queue", events.OrderPlacedQueue)
	}
	if cfg.KafkaBrokers != "" {
		pub := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		fan = append(fan, pub)
		closers = append(closers, pub.Close)
		log.Info(ctx, "order events", "backend", "kafka", "topic", cfg.KafkaTopic)
	}
	closeAll := func() {
		for _, c := range closers {
			if err := c(); err != nil {
				log.Warn(ctx, "close publisher", "error", err)
			}
		}
	}
	if len(fan) == 0 {
		return events.Nop{}, closeAll, nil
	}
	return fan, closeAll, nil
}
