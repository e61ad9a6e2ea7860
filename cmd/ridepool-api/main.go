// README: Entry point; loads config, wires storage, cache, auth and AI, starts the HTTP server.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"ridepool/internal/ai"
	"ridepool/internal/config"
	httptransport "ridepool/internal/http"
	"ridepool/internal/infra"
	"ridepool/internal/modules/aiusage"
	"ridepool/internal/modules/run"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}
	gin.SetMode(gin.ReleaseMode)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := openStores(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer st.close()

	var cache run.Cache = run.NopCache{}
	if cfg.Redis.Addr != "" {
		redisClient, err := infra.NewRedis(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Fatal(err)
		}
		defer redisClient.Close()
		cache = run.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
	}

	var provider ai.Provider
	gemini, err := ai.NewGeminiProvider(ctx, cfg.AI.GeminiKey)
	switch {
	case errors.Is(err, ai.ErrNotConfigured):
		log.Printf("[API] GEMINI_API_KEY not set; insights disabled")
	case err != nil:
		log.Fatalf("gemini init: %v", err)
	default:
		defer gemini.Close()
		provider = gemini
	}

	verifier, err := buildVerifier(ctx, cfg)
	if err != nil {
		log.Fatal(err)
	}
	if verifier == nil {
		log.Printf("[API] no auth configured; API is open")
	}

	var quota run.Quota
	if cfg.AI.InsightQuota > 0 {
		quota = aiusage.NewService(st.usage, cfg.AI.InsightQuota)
	}

	handler := httptransport.NewServer(httptransport.ServerDeps{
		Runs:          run.NewService(st.runs, cache, provider, quota),
		Verifier:      verifier,
		MaxConcurrent: cfg.HTTP.MaxConcurrent,
		DefaultSort:   cfg.Simulation.SortInput,
	})

	server := &http.Server{Addr: cfg.HTTP.Addr, Handler: handler.Routes()}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	log.Printf("[API] listening on %s", cfg.HTTP.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
}

type stores struct {
	runs  run.Store
	usage aiusage.Store
	close func()
}

// openStores prefers PostgreSQL when a DSN is configured and falls back to a
// local SQLite file.
func openStores(ctx context.Context, cfg config.Config) (stores, error) {
	if cfg.DB.DSN != "" {
		pool, err := infra.NewDB(ctx, cfg.DB.DSN)
		if err != nil {
			return stores{}, err
		}
		runs := run.NewPostgresStore(pool)
		usage := aiusage.NewPostgresStore(pool)
		if err := runs.Migrate(ctx); err != nil {
			pool.Close()
			return stores{}, err
		}
		if err := usage.Migrate(ctx); err != nil {
			pool.Close()
			return stores{}, err
		}
		log.Printf("[API] run history in postgres")
		return stores{runs: runs, usage: usage, close: pool.Close}, nil
	}

	db, err := infra.OpenSQLite(cfg.DB.SQLitePath)
	if err != nil {
		return stores{}, err
	}
	runs := run.NewSQLiteStore(db)
	usage := aiusage.NewSQLiteStore(db)
	if err := runs.Migrate(ctx); err != nil {
		_ = db.Close()
		return stores{}, err
	}
	if err := usage.Migrate(ctx); err != nil {
		_ = db.Close()
		return stores{}, err
	}
	return stores{runs: runs, usage: usage, close: func() { _ = db.Close() }}, nil
}

func buildVerifier(ctx context.Context, cfg config.Config) (infra.TokenVerifier, error) {
	var verifiers []infra.TokenVerifier
	if cfg.Firebase.ProjectID != "" {
		fv, err := infra.NewFirebaseVerifier(ctx, cfg.Firebase.ProjectID, cfg.Firebase.CredentialsFile)
		if err != nil {
			return nil, err
		}
		verifiers = append(verifiers, fv)
	}
	if cfg.Auth.JWTSecret != "" {
		verifiers = append(verifiers, infra.NewJWTVerifier(cfg.Auth.JWTSecret))
	}
	if len(verifiers) == 0 {
		return nil, nil
	}
	return infra.ChainVerifiers(verifiers...), nil
}
