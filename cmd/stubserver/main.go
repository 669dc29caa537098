package main

import (
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"liffapp/internal/stub"
)

func main() {
	_ = godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	cfg := stub.Load()
	store := stub.NewStore()
	if cfg.SeedCalendar {
		store.SeedCalendar(time.Now())
	}

	router := chi.NewRouter()
	router.Use(stub.RequestID)
	router.Use(stub.Logger(logger))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	router.Route("/api", func(r chi.Router) {
		stub.NewHandler(store, cfg, logger).RegisterRoutes(r)
	})

	logger.Info("stub backend listening", "addr", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, router); err != nil {
		logger.Error("server failed", "err", err)
		os.Exit(1)
	}
}
