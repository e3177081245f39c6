package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"pharmacy-service/internal/config"
	httpapi "pharmacy-service/internal/controllers/http"
	mmysql "pharmacy-service/internal/infra/mysql"
	"pharmacy-service/internal/infra/rabbitmq"
	"pharmacy-service/internal/infra/redisstore"
	mysqlrepo "pharmacy-service/internal/repository/mysql"
	"pharmacy-service/internal/services"

	"github.com/gin-gonic/gin"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := mmysql.NewDB(cfg.DB)
	if err != nil {
		log.Fatalf("db: connect: %v", err)
	}
	store := mysqlrepo.NewStore(db)

	catalog := services.NewCatalogService(store)
	if cfg.SeedCatalog {
		products, err := services.LoadCatalog(cfg.CatalogFile)
		if err != nil {
			log.Fatalf("catalog: %v", err)
		}
		n, err := catalog.Seed(ctx, products)
		if err != nil {
			log.Fatalf("catalog: seed: %v", err)
		}
		log.Printf("Catalog seeded: %d new products", n)
	}

	redisClient := redisstore.NewClient(ctx, cfg.RedisAddr)
	if redisClient != nil {
		defer redisClient.Close()
	}

	var publisher rabbitmq.PublisherInterface = rabbitmq.NopPublisher{}
	if cfg.RabbitMQURL != "" {
		p, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.OrderExchange)
		if err != nil {
			log.Fatalf("failed to init publisher: %v", err)
		}
		defer p.Close()
		publisher = p
	}

	auth := services.NewAuthService(store, cfg.JWTSecret, cfg.TokenTTL, redisstore.NewTokenRevocations(redisClient))
	if cfg.AdminUserID != "" {
		if err := auth.EnsureAdmin(ctx, cfg.AdminUserID, cfg.AdminPassword); err != nil {
			log.Fatalf("bootstrap admin: %v", err)
		}
	}

	orders := services.NewOrderService(store, publisher)
	limiter := redisstore.NewLimiter(redisClient, "rate_limit:", cfg.LoginRateLimit, cfg.LoginRatePeriod)
	handler := httpapi.NewHandler(orders, catalog, auth, limiter)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), gin.Logger(), httpapi.RequestID())
	handler.RegisterRoutes(r)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Printf("Starting pharmacy service on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		log.Println("Shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server run: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}
}
