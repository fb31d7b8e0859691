package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nurpe/ops-admin/internal/auth"
	"github.com/nurpe/ops-admin/internal/backend"
	"github.com/nurpe/ops-admin/internal/config"
	"github.com/nurpe/ops-admin/internal/db"
	"github.com/nurpe/ops-admin/internal/excel"
	httphandler "github.com/nurpe/ops-admin/internal/http"
	"github.com/nurpe/ops-admin/internal/http/middleware"
	"github.com/nurpe/ops-admin/internal/logger"
	"github.com/nurpe/ops-admin/internal/maintenance"
	"github.com/nurpe/ops-admin/internal/pdf"
	"github.com/nurpe/ops-admin/internal/printout"
	"github.com/nurpe/ops-admin/internal/repository"
	"github.com/nurpe/ops-admin/internal/service"
	"github.com/nurpe/ops-admin/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Environment)

	client, err := backend.New(backend.Config{
		BaseURL:          cfg.Backend.BaseURL,
		Timeout:          cfg.Backend.Timeout,
		BreakerFailures:  cfg.Backend.BreakerFailures,
		BreakerOpenAfter: cfg.Backend.BreakerOpenAfter,
	}, log)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to init backend client")
	}

	var store session.Store = session.NewMemoryStore()
	if cfg.Session.Store == config.SessionStorePostgres {
		database, err := db.New(cfg, log)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect database")
		}
		store = repository.NewSessionRepository(database, cfg.Session.ElevatedRoles)
	}
	sessions := session.NewManager(store, auth.NewParser(), cfg.Session.TTL, cfg.Session.ElevatedRoles, log)

	shop := printout.Shop{Name: cfg.Shop.Name, Address: cfg.Shop.Address, TaxID: cfg.Shop.TaxID}
	materials := service.NewMaterialService(client, log)
	contracts := service.NewContractService(client, maintenance.NewCalculator(time.Now), excel.NewGenerator(), log)
	tickets := service.NewTicketService(client, materials, log)

	handler := httphandler.NewHandler(httphandler.Deps{
		Sessions:      sessions,
		Contracts:     contracts,
		Tickets:       tickets,
		Materials:     materials,
		Users:         client,
		Receipts:      pdf.NewGenerator(shop),
		Health:        client,
		Shop:          shop,
		SecureCookies: !cfg.IsDevelopment(),
		SessionTTL:    cfg.Session.TTL,
	}, log)
	router := httphandler.NewRouter(handler, middleware.Auth(sessions, log), cfg.Environment, cfg.HTTP.AllowedOrigins, log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	go sessions.Sweep(ctx, time.Minute)

	addr := fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      cfg.Backend.Timeout + 30*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Str("backend", cfg.Backend.BaseURL).Msg("starting ops-admin gateway")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("forced shutdown")
		os.Exit(1)
	}
}
