package report

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
)

type Service interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Dashboard runs the three read queries concurrently on the shared pool.
func (s *service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		t, err := s.repo.Totals(gctx)
		if err != nil {
			return err
		}
		d.Totals = t
		return nil
	})
	g.Go(func() error {
		counts, err := s.repo.OrdersByStatus(gctx)
		if err != nil {
			return err
		}
		d.OrdersByStatus = counts
		return nil
	})
	g.Go(func() error {
		recent, err := s.repo.RecentOrders(gctx, recentOrdersLimit)
		if err != nil {
			return err
		}
		d.RecentOrders = recent
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error().Err(err).Msg("service: failed to build dashboard")
		return nil, fmt.Errorf("service: failed to build dashboard: %w", err)
	}
	return &d, nil
}
