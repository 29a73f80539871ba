// Package main boots the catalog API server: it loads configuration,
// wires the store and catalog service, and runs the HTTP server with
// graceful shutdown.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"github.com/meli-challenge/catalog-api/configs"
	"github.com/meli-challenge/catalog-api/internal/catalog"
	"github.com/meli-challenge/catalog-api/internal/handler"
	"github.com/meli-challenge/catalog-api/internal/store"
)

func main() {
	configFile := flag.String("config", "", "path to a YAML or JSON config file")
	flag.Parse()

	cfg, vc, err := loadConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := newLogger(cfg.Log)
	if vc != nil {
		vc.Subscribe(func(newCfg *configs.Config) {
			if lvl, err := zerolog.ParseLevel(newCfg.Log.Level); err == nil {
				zerolog.SetGlobalLevel(lvl)
				log.Info().Str("level", newCfg.Log.Level).Msg("log level updated from config reload")
			}
		})
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st := store.New(cfg.Data.Dir, log)
	if cfg.Data.Watch {
		if err := st.Watch(ctx); err != nil {
			log.Warn().Err(err).Msg("data directory watcher disabled")
		}
	}

	service := catalog.New(st, log)
	router := handler.NewRouter(cfg, service, log)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("catalog server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("http server error")
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	log.Info().Str("signal", s.String()).Msg("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancelShutdown()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http shutdown error")
	}
	log.Info().Msg("catalog server stopped")
}

// loadConfig returns the effective configuration. Without a config file
// the defaults are used; with one, the viper loader adds environment
// overrides and hot reloading.
func loadConfig(configFile string) (*configs.Config, *configs.ViperConfig, error) {
	if configFile == "" {
		return configs.DefaultConfig(), nil, nil
	}
	vc, err := configs.LoadViperConfig(configFile, true)
	if err != nil {
		return nil, nil, err
	}
	return vc.Get(), vc, nil
}

func newLogger(cfg configs.LogConfig) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	var log zerolog.Logger
	if cfg.Format == "console" {
		log = zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger()
	} else {
		log = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
	return log
}
