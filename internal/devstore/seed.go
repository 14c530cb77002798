package devstore

import (
	"context"
	"fmt"
	"time"

	"memorabilia-auction/internal/models"
	"memorabilia-auction/utils"

	"github.com/shopspring/decimal"
)

// Seed adds sample auctions so a fresh store has something to bid on
func Seed(ctx context.Context, svc *StoreService) error {
	now := svc.now().UTC()
	samples := []models.NewAuction{
		{
			Title:         "Signed Championship Jersey",
			Description:   "Game-worn jersey signed by the starting lineup",
			StartingPrice: decimal.NewFromInt(50),
			StartTime:     now.Add(-time.Hour),
			EndTime:       now.Add(24 * time.Hour),
			Tags:          []string{"sports", "memorabilia", "basketball", "signed"},
		},
		{
			Title:         "Home Run Ball",
			Description:   "Ball from the final game of the season",
			StartingPrice: decimal.NewFromInt(200),
			StartTime:     now.Add(-30 * time.Minute),
			EndTime:       now.Add(2 * time.Hour),
			Tags:          []string{"sports", "baseball"},
		},
		{
			Title:         "Rookie Card, Mint Condition",
			Description:   "Graded rookie card",
			StartingPrice: decimal.RequireFromString("149.99"),
			StartTime:     now.Add(time.Hour),
			EndTime:       now.Add(48 * time.Hour),
			Tags:          []string{"cards"},
		},
	}

	for _, sample := range samples {
		id, err := svc.CreateAuction(ctx, sample)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		utils.Debug("seed: auction created", map[string]any{"auction_id": id, "title": sample.Title})
	}
	return nil
}
