package server

import (
	"context"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"loftmanager/config"
	"loftmanager/internal/audit"
	"loftmanager/internal/auth"
	"loftmanager/internal/db"
	"loftmanager/internal/diag"
	"loftmanager/internal/health"
	"loftmanager/internal/logs"
	"loftmanager/internal/middleware"
	"loftmanager/internal/repo"
	"loftmanager/internal/web"

	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

type App struct {
	cfg        *config.Config
	db         *gorm.DB
	Router     *mux.Router
	httpServer *http.Server

	ctx    context.Context
	cancel context.CancelFunc
}

func (a *App) Initialize(cfg *config.Config) {
	a.cfg = cfg

	/* 1) Logging */
	logs.Init(logs.Options{
		Level:  a.cfg.Logging.Level,
		Format: a.cfg.Logging.Format,
		File:   a.cfg.Logging.File,
	})

	/* 2) DB */
	d, err := db.Open(a.cfg.Database.Driver, a.cfg.Database.URL)
	if err != nil {
		log.Fatalf("db open failed: %v", err)
	}
	a.db = d

	// Schema is provisioned on first use, not at boot: a database that is
	// down at startup must not keep the process from serving /healthz.
	prov := db.NewProvisioner(a.db, a.cfg.Auth.DemoPassword)

	/* 3) Domain services */
	rec := audit.NewRecorder(a.db)

	authSvc, err := auth.NewService(
		auth.NewGormUserStore(a.db),
		auth.NewGormSessionStore(a.db),
		auth.ServiceConfig{
			SessionTTL:    a.cfg.Auth.SessionTTL,
			ResetTTL:      a.cfg.Auth.ResetTTL,
			SecureCookies: a.cfg.Production(),
			DemoFallback:  a.cfg.Auth.DemoFallback,
			DemoPassword:  a.cfg.Auth.DemoPassword,
			Schema:        prov,
			Audit:         rec,
		})
	if err != nil {
		log.Fatalf("auth service: %v", err)
	}

	/* 4) Router + middleware */
	a.Router = mux.NewRouter().StrictSlash(true)
	a.Router.Use(
		middleware.RequestID,
		middleware.Recoverer,
		middleware.LoggerMW,
	)

	/* 5) Health + diagnostics */
	health.RegisterRoutesWithDB(a.Router, a.db) // /healthz, /readyz
	diag.RegisterRoutes(a.Router, diag.New(a.db, prov, rec))

	/* 6) Web UI */
	web.Attach(a.Router, web.Dependencies{
		DB:           a.db,
		Auth:         authSvc,
		Owners:       repo.NewOwnerStore(a.db),
		Lofts:        repo.NewLoftStore(a.db),
		Tasks:        repo.NewTaskStore(a.db),
		Teams:        repo.NewTeamStore(a.db),
		Transactions: repo.NewTransactionStore(a.db),
		Categories:   repo.NewCategoryStore(a.db),
		Users:        repo.NewUserDirectory(a.db),
		Audit:        rec,
		CFG:          a.cfg,
	})

	/* (optional) log the known routes at startup */
	_ = a.Router.Walk(func(rt *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		path, _ := rt.GetPathTemplate()
		methods, _ := rt.GetMethods()
		if len(methods) == 0 {
			methods = []string{"ANY"}
		}
		log.Printf("route: %-6v %s", methods, path)
		return nil
	})
}

func (a *App) Run() error {
	if a.Router == nil || a.cfg == nil {
		return fmt.Errorf("server not initialized")
	}

	bind := net.JoinHostPort(a.cfg.Server.Address, a.cfg.Server.HTTPPort)

	a.ctx, a.cancel = context.WithCancel(context.Background())
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		s := <-sigs
		logs.Logger.Infof("shutdown signal: %s", s)
		a.cancel()
	}()

	// Hard timeouts matter in production.
	a.httpServer = &http.Server{
		Addr:              bind,
		Handler:           a.Router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logs.Logger.Infof("HTTP listening on %s", bind)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logs.Logger.Fatalf("http server error: %v", err)
		}
	}()

	<-a.ctx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.httpServer.Shutdown(ctx); err != nil {
		logs.Logger.Errorf("http shutdown: %v", err)
	}
	return nil
}
