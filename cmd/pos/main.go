package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	cartapp "github.com/nicolasrigourd/pos-mobile/internal/cart/app"
	catalogapp "github.com/nicolasrigourd/pos-mobile/internal/catalog/app"
	catalogdomain "github.com/nicolasrigourd/pos-mobile/internal/catalog/domain"
	"github.com/nicolasrigourd/pos-mobile/internal/catalog/infra/memory"
	checkoutapp "github.com/nicolasrigourd/pos-mobile/internal/checkout/app"
	checkoutadapter "github.com/nicolasrigourd/pos-mobile/internal/checkout/infra/adapter"
	creationapp "github.com/nicolasrigourd/pos-mobile/internal/creation/app"
	"github.com/nicolasrigourd/pos-mobile/internal/gateway"
	scanapp "github.com/nicolasrigourd/pos-mobile/internal/scan/app"
	scanadapter "github.com/nicolasrigourd/pos-mobile/internal/scan/infra/adapter"
	"github.com/nicolasrigourd/pos-mobile/internal/scan/infra/sim"

	"github.com/nicolasrigourd/pos-mobile/pkg/config"
	"github.com/nicolasrigourd/pos-mobile/pkg/logger"
	"github.com/nicolasrigourd/pos-mobile/pkg/shutdown"
)

func main() {
	cfg := config.Load()
	log := logger.New(logger.Options{Service: "pos", Env: cfg.AppEnv, Level: cfg.LogLevel, AddSource: true})

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	// Catalog
	catalogSvc := catalogapp.NewService(memory.NewProductRepo())
	n, err := catalogSvc.Seed(ctx, seedProducts())
	if err != nil {
		log.Error("catalog seed failed", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("catalog seeded", slog.Int("products", n))

	// Cart + creation flow; the flow writes the catalog and retries the
	// saved code against the cart.
	cartSvc := cartapp.NewService(catalogSvc, log)
	creationSvc := creationapp.NewService(catalogSvc, cartSvc, log)
	cartSvc.SetMissHandler(creationSvc)

	// Quote (re-pricing adapters)
	quoteSvc := checkoutapp.NewService(
		checkoutadapter.NewCartServiceReader(cartSvc),
		checkoutadapter.NewCatalogServiceReader(catalogSvc),
		10,
	)

	// Scan session controller over the simulated camera rig.
	scanner := scanapp.NewController(
		sim.NewCamera(log),
		sim.NewSurface(),
		sim.NewDecoder(cfg.ScanSimCodes, cfg.ScanSimInterval),
		scanadapter.NewCartSink(cartSvc, log),
		log,
		scanapp.Options{
			ReadyWait: cfg.DisplayReadyWait,
			Feedback:  sim.NewFeedback(log),
		},
	)
	defer scanner.Close()

	srv := gateway.NewServer(cartSvc, catalogSvc, creationSvc, quoteSvc, scanner, log)

	addr := fmt.Sprintf(":%d", cfg.HTTPPort)
	server := &http.Server{
		Addr:              addr,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	var g errgroup.Group

	g.Go(func() error {
		log.Info("http server starting", slog.String("addr", addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			cancel()
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		log.Info("shutdown requested")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("server error", slog.Any("err", err))
		os.Exit(1)
	}
	log.Info("bye")
}

// seedProducts is the fixed initial catalog.
func seedProducts() []catalogdomain.Product {
	return []catalogdomain.Product{
		{Code: "7791234567890", Name: "Coca Cola 500ml", Description: "Botella 500ml", UnitPrice: decimal.NewFromInt(1500)},
		{Code: "7790000000001", Name: "Galletitas", Description: "Paquete surtido", UnitPrice: decimal.NewFromInt(900)},
		{Code: "7790000000002", Name: "Yerba 1kg", Description: "Paquete 1kg", UnitPrice: decimal.NewFromInt(3200)},
	}
}
