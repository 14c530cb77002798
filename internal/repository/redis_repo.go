package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
)

// maxTxRetries bounds optimistic-lock retries when concurrent bids touch the same auction
const maxTxRetries = 16

// RedisRepo is a Redis-backed AuctionDB. Bids are arbitrated with WATCH/MULTI so
// two concurrent bids on one auction can never both be accepted against the same price.
type RedisRepo struct {
	client *redis.Client
	prefix string
	now    Clock
}

// NewRedisClient connects to Redis and verifies the connection
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := client.Ping(pingCtx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("repo: failed to ping redis: %w", err)
	}

	return client, nil
}

// NewRedisRepo wraps client; keys are namespaced under prefix
func NewRedisRepo(client *redis.Client, prefix string, now Clock) *RedisRepo {
	if now == nil {
		now = time.Now
	}
	return &RedisRepo{client: client, prefix: prefix, now: now}
}

// Close closes the underlying client
func (r *RedisRepo) Close() error {
	if r.client != nil {
		return r.client.Close()
	}
	return nil
}

func (r *RedisRepo) auctionKey(id string) string { return r.prefix + "auction:" + id }
func (r *RedisRepo) bidsKey(id string) string    { return r.prefix + "auction:" + id + ":bids" }
func (r *RedisRepo) indexKey() string            { return r.prefix + "auctions" }

// CreateAuction stores a new auction and appends it to the index
func (r *RedisRepo) CreateAuction(ctx context.Context, auction models.Auction) error {
	if auction.ID == "" {
		return fmt.Errorf("repo: create auction: %w - empty auction ID", biddingerrors.ErrInvalidAuction)
	}

	auction.CurrentPrice = decimal.NullDecimal{}
	auction.TopBids = nil
	payload, err := json.Marshal(auction)
	if err != nil {
		return fmt.Errorf("repo: create auction %s: %w", auction.ID, err)
	}

	created, err := r.client.SetNX(ctx, r.auctionKey(auction.ID), payload, 0).Result()
	if err != nil {
		return fmt.Errorf("repo: create auction %s: %w", auction.ID, err)
	}
	if !created {
		return fmt.Errorf("repo: create auction %s: %w - duplicate auction ID", auction.ID, biddingerrors.ErrInvalidAuction)
	}

	if err := r.client.RPush(ctx, r.indexKey(), auction.ID).Err(); err != nil {
		return fmt.Errorf("repo: index auction %s: %w", auction.ID, err)
	}
	return nil
}

// ListAuctions returns auction summaries in creation order
func (r *RedisRepo) ListAuctions(ctx context.Context) ([]models.Auction, error) {
	ids, err := r.client.LRange(ctx, r.indexKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("repo: list auctions: %w", err)
	}

	auctions := make([]models.Auction, 0, len(ids))
	if len(ids) == 0 {
		return auctions, nil
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = r.auctionKey(id)
	}
	values, err := r.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("repo: list auctions: %w", err)
	}

	now := r.now()
	for i, v := range values {
		raw, ok := v.(string)
		if !ok {
			continue
		}
		var a models.Auction
		if err := json.Unmarshal([]byte(raw), &a); err != nil {
			return nil, fmt.Errorf("repo: decode auction %s: %w", ids[i], err)
		}
		a.Status = DeriveStatus(a.StartTime.Time, a.EndTime.Time, now)
		auctions = append(auctions, a)
	}
	return auctions, nil
}

// GetAuction returns one auction with its highest bids
func (r *RedisRepo) GetAuction(ctx context.Context, auctionID string) (models.Auction, error) {
	a, err := r.load(ctx, r.client, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("repo: get auction %s: %w", auctionID, err)
	}

	// accepted bids only ever increase, so the tail of the list holds the highest
	raws, err := r.client.LRange(ctx, r.bidsKey(auctionID), -TopBidsLimit, -1).Result()
	if err != nil {
		return models.Auction{}, fmt.Errorf("repo: get bids for %s: %w", auctionID, err)
	}
	bids := make([]models.Bid, 0, len(raws))
	for i := len(raws) - 1; i >= 0; i-- {
		var b models.Bid
		if err := json.Unmarshal([]byte(raws[i]), &b); err != nil {
			return models.Auction{}, fmt.Errorf("repo: decode bid for %s: %w", auctionID, err)
		}
		bids = append(bids, b)
	}

	a.Status = DeriveStatus(a.StartTime.Time, a.EndTime.Time, r.now())
	a.TopBids = bids
	return a, nil
}

// PlaceBid arbitrates a bid inside an optimistic transaction on the auction key
func (r *RedisRepo) PlaceBid(ctx context.Context, auctionID string, bid models.Bid) (decimal.Decimal, error) {
	key := r.auctionKey(auctionID)

	txf := func(tx *redis.Tx) error {
		a, err := r.load(ctx, tx, auctionID)
		if err != nil {
			return err
		}
		if err := checkBid(a, bid.Amount, r.now()); err != nil {
			return err
		}

		a.CurrentPrice = decimal.NewNullDecimal(bid.Amount)
		auctionPayload, err := json.Marshal(a)
		if err != nil {
			return err
		}
		bidPayload, err := json.Marshal(bid)
		if err != nil {
			return err
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, auctionPayload, 0)
			pipe.RPush(ctx, r.bidsKey(auctionID), bidPayload)
			return nil
		})
		return err
	}

	for i := 0; i < maxTxRetries; i++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return bid.Amount, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return decimal.Decimal{}, fmt.Errorf("repo: place bid on %s: %w", auctionID, err)
	}
	return decimal.Decimal{}, fmt.Errorf("repo: place bid on %s: too much contention", auctionID)
}

// getter is the read both *redis.Client and *redis.Tx provide
type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *RedisRepo) load(ctx context.Context, c getter, auctionID string) (models.Auction, error) {
	raw, err := c.Get(ctx, r.auctionKey(auctionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return models.Auction{}, biddingerrors.ErrAuctionNotFound
	}
	if err != nil {
		return models.Auction{}, err
	}

	var a models.Auction
	if err := json.Unmarshal(raw, &a); err != nil {
		return models.Auction{}, fmt.Errorf("decode auction: %w", err)
	}
	return a, nil
}
