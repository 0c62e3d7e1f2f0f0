package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	ecM "github.com/labstack/echo/v4/middleware"

	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/api"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cache"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/cart"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/checkout"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/config"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/httpserver"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/logging"
	"github.com/Truongdat815/Web-b-n-hoa-sub001/internal/middleware/loggingmw"
)

func main() {
	cfg := config.Load()

	logger := logging.New(cfg.LogLevel)

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		log.Fatalf("invalid TIMEZONE %q: %v", cfg.Timezone, err)
	}

	registry := cache.New()
	client := api.NewClient(cfg.APIBaseURL, registry)

	e := echo.New()
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second
	e.Pre(ecM.RemoveTrailingSlash())
	e.Use(ecM.Recover(), ecM.RequestID(), loggingmw.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		Catalog: &httpserver.CatalogHandler{API: client},
		Cart:    &httpserver.CartHandler{API: client, Reconciler: cart.NewReconciler(client)},
		Checkout: &httpserver.CheckoutHandler{
			API:         client,
			Flows:       checkout.NewManager(),
			ShippingFee: cfg.ShippingFee,
			Location:    loc,
		},
		Order:     &httpserver.OrderHandler{API: client},
		Admin:     &httpserver.AdminHandler{API: client},
		JWTSecret: cfg.JWTSecret,
	})

	go func() {
		if err := e.Start(cfg.ListenAddr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Fatalf("shutdown: %v", err)
	}
}
