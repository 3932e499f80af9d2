package main

import (
	"github.com/rs/zerolog/log"

	"github.com/rvasily/incident-capture-service/internal/config"
	"github.com/rvasily/incident-capture-service/internal/httpserver"
	"github.com/rvasily/incident-capture-service/internal/incident"
	"github.com/rvasily/incident-capture-service/internal/logger"
	"github.com/rvasily/incident-capture-service/internal/store"
)

// main boots the service: config → logger → storage → schema → HTTP server.
func main() {
	cfg := config.Load()
	logger.Init(cfg)

	// DB_URL picks the backend: Postgres URL in production, SQLite file
	// (the default) everywhere else.
	st, err := store.Open(cfg.DBURL)
	if err != nil {
		log.Fatal().Err(err).Msg("open store")
	}
	defer st.Close()

	// Ensure required tables/indexes exist so a fresh checkout just runs.
	if err := st.EnsureSchema(); err != nil {
		log.Fatal().Err(err).Msg("apply schema")
	}

	svc := incident.NewService(st)
	router := httpserver.NewRouter(st, svc)

	log.Info().Str("addr", cfg.Addr).Msg("server started")
	if err := router.Run(cfg.Addr); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
