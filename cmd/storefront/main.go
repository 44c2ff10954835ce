package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/auth"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/cart"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/category"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/config"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/db"
	handler "github.com/vasiliy-maslov/ecommerce-storefront/internal/handler/http"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/order"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/product"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/report"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/transport"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/user"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	setupLogger(cfg.App)

	log.Info().Str("env", cfg.App.Env).Msg("Starting storefront...")

	if err := run(cfg); err != nil {
		log.Fatal().Err(err).Msg("Storefront stopped with error")
	}
	log.Info().Msg("Storefront stopped gracefully.")
}

func run(cfg *config.Config) error {
	if err := db.ApplyMigrations(cfg.Postgres); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pg, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		return err
	}
	defer pg.Close()

	tokens := auth.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)

	userSvc := user.NewService(user.NewRepository(pg.Pool))
	categorySvc := category.NewService(category.NewRepository(pg.Pool))
	productSvc := product.NewService(product.NewRepository(pg.Pool))
	orderSvc := order.NewService(order.NewRepository(pg.Pool), order.WithStrictTransitions(cfg.Orders.StrictTransitions))
	cartSvc := cart.NewService(cart.NewRepository(pg.Pool), orderSvc)
	reportSvc := report.NewService(report.NewRepository(pg.SQLX()))

	router := transport.NewRouter(transport.Handlers{
		Health:     handler.NewHealthHandler(pg),
		Auth:       handler.NewAuthHandler(userSvc, tokens, cfg.Auth.CookieSecure),
		Categories: handler.NewCategoryHandler(categorySvc),
		Products:   handler.NewProductHandler(productSvc),
		Orders:     handler.NewOrderHandler(orderSvc),
		Cart:       handler.NewCartHandler(cartSvc),
		Users:      handler.NewUserHandler(userSvc),
		Dashboard:  handler.NewDashboardHandler(reportSvc),
	}, handler.NewGate(tokens))

	server := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("port", cfg.App.Port).Msg("Starting HTTP server")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info().Msg("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func setupLogger(cfg config.AppConfig) {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Env == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})
	}
}
