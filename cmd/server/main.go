package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/DoyleJ11/ff-draft-tracker/internal/engine"
	"github.com/DoyleJ11/ff-draft-tracker/internal/httpapi"
	"github.com/DoyleJ11/ff-draft-tracker/internal/store"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Warn().Err(err).Msg("could not load .env file")
	}

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg := loadConfig()
	zerolog.SetGlobalLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New(ctx, engine.NewState(), clockwork.NewRealClock())

	// Build the router *with* the store injected
	handler := httpapi.SetupRoutes(st, cfg.WSOriginPatterns)

	server := &http.Server{Addr: cfg.Addr, Handler: handler}
	go func() {
		<-ctx.Done()
		st.Inbox() <- store.Shutdown{}
		_ = server.Shutdown(context.Background())
	}()

	log.Info().Str("addr", cfg.Addr).Msg("listening")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server failed")
	}
}
