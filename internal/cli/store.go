package cli

import (
	"context"
	"fmt"

	"memorabilia-auction/internal/config"
	"memorabilia-auction/internal/devstore"
	"memorabilia-auction/internal/repository"

	"github.com/spf13/cobra"
)

const redisKeyPrefix = "memorabilia:"

func (a *app) storeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "store",
		Short: "Run the development auction store",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			ctx := c.Context()
			if ctx == nil {
				ctx = context.Background()
			}

			repo, closeRepo, err := a.newRepo(ctx)
			if err != nil {
				return err
			}
			defer closeRepo()

			svc := devstore.NewStoreService(repo, nil)
			if a.cfg.Seed {
				if err := devstore.Seed(ctx, svc); err != nil {
					return err
				}
			}

			return runHTTP(ctx, "auction store", a.cfg.StoreAddr, devstore.SetupRouter(svc))
		},
	}
}

// newRepo opens the configured storage backend
func (a *app) newRepo(ctx context.Context) (repository.AuctionDB, func(), error) {
	switch a.cfg.StoreBackend {
	case config.BackendRedis:
		client, err := repository.NewRedisClient(ctx, a.cfg.RedisAddr, a.cfg.RedisPassword, a.cfg.RedisDB)
		if err != nil {
			return nil, nil, fmt.Errorf("store: %w", err)
		}
		repo := repository.NewRedisRepo(client, redisKeyPrefix, nil)
		return repo, func() { _ = repo.Close() }, nil
	default:
		return repository.NewMemoryRepo(), func() {}, nil
	}
}
