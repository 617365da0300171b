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

	"github.com/crudlab/dualstore/internal/config"
	"github.com/crudlab/dualstore/internal/httpapi"
	"github.com/crudlab/dualstore/internal/store/mongo"
	"github.com/crudlab/dualstore/internal/store/postgres"
)

func main() {
	cfg := config.Load()

	pg, err := postgres.Open(cfg.PostgresDSN, cfg.Development())
	if err != nil {
		log.Printf("[postgres] connection failed: %v", err)
		os.Exit(1)
	}
	log.Printf("[postgres] connected")

	mg, err := mongo.Connect(cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		_ = pg.Close()
		log.Printf("[mongo] connection failed: %v", err)
		os.Exit(1)
	}
	log.Printf("[mongo] connected to %s", cfg.MongoDB)

	router := httpapi.Router(cfg, pg.Stores(), mg.Stores())
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Printf("[server] listening on :%s (%s)", cfg.Port, cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("[server] %v", err)
			stop()
		}
	}()

	<-ctx.Done()
	log.Printf("[server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("[server] shutdown: %v", err)
	}
	if err := pg.Close(); err != nil {
		log.Printf("[postgres] close: %v", err)
	}
	if err := mg.Close(shutdownCtx); err != nil {
		log.Printf("[mongo] disconnect: %v", err)
	}
	log.Printf("[server] stopped")
}
