// README: Entry point; loads config, wires services, starts the HTTP server.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"lifeline/internal/config"
	httptransport "lifeline/internal/http"
	"lifeline/internal/infra"
	"lifeline/internal/logger"
	"lifeline/internal/metrics"
	"lifeline/internal/modules/dispatch"
	"lifeline/internal/modules/hospital"
	"lifeline/internal/modules/matching"
	"lifeline/internal/modules/request"
)

func main() {
	_ = godotenv.Load()

	log := logger.New("lifeline-api")

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("config load")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := infra.NewDB(ctx, cfg.DB.DSN)
	if err != nil {
		log.Fatal().Err(err).Msg("postgres init")
	}
	defer dbPool.Close()

	redisClient := infra.NewRedis(cfg.Redis.Addr)
	defer redisClient.Close()

	sink, err := metrics.NewPromSink(nil)
	if err != nil {
		log.Fatal().Err(err).Msg("metrics init")
	}

	hospitalStore := hospital.NewStore(dbPool)
	rosterCache := hospital.NewRosterCache(redisClient, time.Duration(cfg.Redis.RosterTTLSeconds)*time.Second)
	hospitalSvc := hospital.NewService(hospitalStore, rosterCache, logger.New("hospital"))

	policy := request.PolicyOverwrite
	if cfg.Dispatch.StrictResolution {
		policy = request.PolicyStrict
	}
	requestStore := request.NewStore(dbPool)
	ledger := request.NewService(requestStore, policy, logger.New("request"))

	matcher := matching.NewService(hospitalSvc)
	dispatchSvc := dispatch.NewService(matcher, ledger, hospitalSvc, sink, cfg.Dispatch, logger.New("dispatch"))

	router := httptransport.NewRouter(httptransport.RouterDeps{
		Dispatch:    dispatchSvc,
		Hospitals:   hospitalSvc,
		CORSOrigins: cfg.HTTP.CORSOrigins,
		Log:         logger.New("http"),
	})

	server := &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error().Err(err).Msg("server shutdown")
		}
	}()

	log.Info().Str("addr", cfg.HTTP.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server")
	}
}
