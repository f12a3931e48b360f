package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mkravets/agency_crm/internal/config"
	"github.com/mkravets/agency_crm/internal/es"
	"github.com/mkravets/agency_crm/internal/events"
	"github.com/mkravets/agency_crm/internal/httpserver"
	"github.com/mkravets/agency_crm/internal/middleware"
	"github.com/mkravets/agency_crm/internal/repo"
	"github.com/mkravets/agency_crm/internal/service"
	"github.com/mkravets/agency_crm/pkg/logging"
	loggingmw "github.com/mkravets/agency_crm/pkg/middleware/logging"
)

func main() {
	cfg := config.Load()
	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gdb, err := config.InitDB(initCtx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers)
	}

	gormRepo := repo.GormRepo{DB: gdb}

	authSvc := &service.AuthService{Repo: gormRepo, JWTSecret: cfg.JWTSecret}
	orgSvc := &service.OrgService{Repo: gormRepo, Producer: producer}
	recordSvc := &service.RecordService{Repo: gormRepo, Producer: producer}

	if cfg.ESURL != "" {
		esClient, err := es.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		recordSvc.ES = esClient
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler:   &httpserver.AuthHTTP{Svc: authSvc, SecureCookie: cfg.Production()},
		OrgHandler:    &httpserver.OrgHTTP{Svc: orgSvc},
		RecordHandler: &httpserver.RecordHTTP{Svc: recordSvc},
		SessionAuth:   middleware.NewSessionAuth(authSvc, cfg.Production()),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if producer != nil {
		if err := producer.Close(); err != nil {
			logger.Error("kafka close error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
