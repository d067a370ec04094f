package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"zapagenda/conversation-service/internal/config"
	"zapagenda/conversation-service/internal/engine"
	"zapagenda/conversation-service/internal/httpapi"
	"zapagenda/conversation-service/internal/store/postgres"
	"zapagenda/conversation-service/internal/telemetry"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

func main() {
	cfg := config.Load()

	pool, err := pgxpool.New(context.Background(), cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer pool.Close()

	shutdownTracing := telemetry.Setup("conversation-service")

	st := postgres.NewStore(pool, postgres.Options{
		HoldTTL: cfg.HoldTTL,
	})
	eng := engine.New(st, engine.Options{
		CountryCode: cfg.CountryCode,
		HoldTTL:     cfg.HoldTTL,
	})
	handler := httpapi.NewHandler(eng, httpapi.Options{
		DayStartHour: cfg.DayStartHour,
		DayEndHour:   cfg.DayEndHour,
	})
	limiter := httpapi.NewRateLimiter(httpapi.RateLimitConfig{
		IPPerMinute:       cfg.RateLimitPerMinute,
		IPBurst:           cfg.RateLimitBurst,
		InstancePerMinute: cfg.InstanceRateLimitPerMinute,
		InstanceBurst:     cfg.InstanceRateLimitBurst,
	})

	otelHandler := otelhttp.NewHandler(httpapi.LoggingMiddleware(limiter.Middleware(handler.Routes())), "conversation-service")
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      otelHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("conversation-service listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	go func() {
		if cfg.HoldSweepInterval <= 0 {
			return
		}
		ticker := time.NewTicker(cfg.HoldSweepInterval)
		defer ticker.Stop()
		for range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			count, err := eng.SweepExpiredHolds(ctx)
			cancel()
			if err != nil {
				log.Printf("hold sweep error: %v", err)
				continue
			}
			if count > 0 {
				log.Printf("hold sweep released %d expired holds", count)
			}
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	if err := shutdownTracing(ctx); err != nil {
		log.Printf("tracer shutdown error: %v", err)
	}
}
