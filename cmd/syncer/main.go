package main

import (
	"context"
	"database/sql"
	"sync"

	_ "github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/semaphore"

	"waypoint/internal/adapters/directory"
	"waypoint/internal/adapters/observability"
	redisad "waypoint/internal/adapters/redis"
	"waypoint/internal/app"
	"waypoint/internal/domain"
	"waypoint/internal/shared"
	mysqlrepo "waypoint/internal/storage/mysql"
)

func main() {
	ctx := context.Background()
	cfg := shared.Load()

	log.Logger = observability.NewLogger(cfg.AppEnv)

	log.Info().
		Str("base", cfg.BackendBase).
		Int("workers", cfg.Workers).
		Int("page_limit", cfg.SyncPageLimit).
		Msg("syncer starting")

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("sql.Open failed")
	}
	if err := db.Ping(); err != nil {
		log.Fatal().Err(err).Msg("db.Ping failed")
	}
	log.Info().Msg("db ping ok")

	repo := mysqlrepo.New(db)

	client, err := directory.New(cfg.BackendBase, cfg.BackendKey, 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize directory client")
	}
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	svc := app.NewSyncService(client, repo, cache)
	sem := semaphore.NewWeighted(int64(cfg.Workers))
	var wg sync.WaitGroup

	for _, t := range domain.AllItemTypes {
		t := t

		// acquire before launching the goroutine; release inside it
		if err := sem.Acquire(ctx, 1); err != nil {
			log.Fatal().Err(err).Msg("semaphore acquire failed")
		}

		wg.Add(1)
		go func(t domain.ItemType) {
			defer wg.Done()
			defer sem.Release(1)

			n, err := svc.SyncType(ctx, t, cfg.SyncPageLimit)
			if err != nil {
				observability.ObserveSync(string(t), 500)
				log.Warn().Str("type", string(t)).Err(err).Msg("sync failed")
				return
			}
			observability.ObserveSync(string(t), 200)
			log.Info().Str("type", string(t)).Int("listings", n).Msg("sync ok")
		}(t)
	}

	wg.Wait()
	log.Info().Msg("sync completed")
}
