// Command seed fills the database with an admin account and a demo catalog.
package main

import (
	"context"
	"flag"
	"os"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/vasiliy-maslov/ecommerce-storefront/internal/category"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/config"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/db"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/product"
	"github.com/vasiliy-maslov/ecommerce-storefront/internal/user"
)

func main() {
	var opts options
	flag.StringVar(&opts.adminEmail, "admin-email", "admin@example.com", "email of the admin account")
	flag.StringVar(&opts.adminPassword, "admin-password", "admin123", "password of the admin account (used only when it is created)")
	flag.StringVar(&opts.adminName, "admin-name", "Administrator", "display name of the admin account")
	flag.IntVar(&opts.productsPerCategory, "products", 5, "products to create per category")
	flag.BoolVar(&opts.reset, "reset", false, "truncate all tables before seeding")
	flag.Parse()

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load config")
	}
	if err := db.ApplyMigrations(cfg.Postgres); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply migrations")
	}

	ctx := context.Background()
	pg, err := db.New(ctx, cfg.Postgres)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer pg.Close()

	if opts.reset {
		if _, err := pg.Pool.Exec(ctx, "TRUNCATE TABLE cart_items, order_items, orders, products, categories, users RESTART IDENTITY CASCADE"); err != nil {
			log.Fatal().Err(err).Msg("Failed to reset database")
		}
		log.Warn().Msg("All tables truncated")
	}

	userRepo := user.NewRepository(pg.Pool)
	s := &seeder{
		userRepo:   userRepo,
		users:      user.NewService(userRepo),
		categories: category.NewService(category.NewRepository(pg.Pool)),
		products:   product.NewService(product.NewRepository(pg.Pool)),
	}

	rows, err := s.run(ctx, opts)
	if err != nil {
		log.Fatal().Err(err).Msg("Seeding failed")
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Kind", "Name", "Key", "Result")
	for _, r := range rows {
		if err := table.Append(r.kind, r.name, r.key, r.result); err != nil {
			log.Fatal().Err(err).Msg("Failed to render summary")
		}
	}
	if err := table.Render(); err != nil {
		log.Fatal().Err(err).Msg("Failed to render summary")
	}
}
