package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/nimra/cashandcarry/internal/catalog"
	"github.com/nimra/cashandcarry/internal/checkout"
	"github.com/nimra/cashandcarry/internal/config"
	"github.com/nimra/cashandcarry/internal/customer"
	"github.com/nimra/cashandcarry/internal/db"
	"github.com/nimra/cashandcarry/internal/employee"
	"github.com/nimra/cashandcarry/internal/handlers"
	"github.com/nimra/cashandcarry/internal/logging"
	"github.com/nimra/cashandcarry/internal/middleware/auth"
	"github.com/nimra/cashandcarry/internal/middleware/csrf"
	"github.com/nimra/cashandcarry/internal/notify"
	"github.com/nimra/cashandcarry/internal/order"
	"github.com/nimra/cashandcarry/internal/profile"
	"github.com/nimra/cashandcarry/internal/search"
	httpserver "github.com/nimra/cashandcarry/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	log := logging.New(cfg.LogLevel)
	slog.SetDefault(log)

	gdb, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Error("database init failed", "error", err)
		os.Exit(1)
	}

	var sender notify.Sender = notify.Discard{}
	var kafkaSender *notify.KafkaSender
	if cfg.KafkaAddress != "" {
		kafkaSender = notify.NewKafkaSender(cfg.KafkaAddress)
		sender = kafkaSender
	} else {
		log.Warn("KAFKA_ADDRESS not set, order notifications disabled")
	}

	var indexer catalog.Indexer
	catalogRepo := &catalog.GormRepo{DB: gdb}
	var searchHandler *handlers.SearchHandler
	if cfg.ESURL != "" {
		esClient, err := search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword)
		if err != nil {
			log.Error("elasticsearch init failed", "error", err)
			os.Exit(1)
		}
		indexer = &search.Index{ES: esClient}
		searchHandler = &handlers.SearchHandler{ES: esClient, Catalog: catalogRepo}
	} else {
		log.Warn("ES_URL not set, product search disabled")
	}

	catalogSvc := &catalog.Service{Repo: catalogRepo, Index: indexer, Log: log}
	customerSvc := &customer.Service{Repo: &customer.GormRepo{DB: gdb}}
	orderSvc := &order.Service{Repo: &order.GormRepo{DB: gdb}}
	employeeSvc := &employee.Service{DB: gdb}
	profileRepo := &profile.GormRepo{DB: gdb}
	checkoutSvc := &checkout.Service{
		Orders:    orderSvc,
		Customers: customerSvc,
		Profiles:  profileRepo,
		Notifier:  sender,
		Log:       log,
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(httpserver.RequestContext(log))
	e.Use(csrf.Middleware(csrf.Config{Secure: cfg.SecureCookies}))

	deps := httpserver.Deps{
		Verifier:  &auth.Verifier{Secret: []byte(cfg.JWTSecret)},
		Catalog:   &handlers.CatalogHandler{Catalog: catalogSvc},
		Cart:      &handlers.CartHandler{Catalog: catalogSvc, SecureCookies: cfg.SecureCookies},
		Checkout:  &handlers.CheckoutHandler{Checkout: checkoutSvc, SecureCookies: cfg.SecureCookies},
		Orders:    &handlers.OrderHandler{Orders: orderSvc},
		Customers: &handlers.CustomerHandler{Customers: customerSvc},
		Employees: &handlers.EmployeeHandler{Employees: employeeSvc},
		Profile:   &handlers.ProfileHandler{Profiles: profileRepo},
		Search:    searchHandler,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		log.Info("http server listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := gdb.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			log.Error("db close error", "error", err)
		}
	}
	if kafkaSender != nil {
		if err := kafkaSender.Close(); err != nil {
			log.Error("kafka close error", "error", err)
		}
	}

	log.Info("shutdown complete")
}
