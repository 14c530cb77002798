// Package auctionclient talks to the remote auction store: listing auctions,
// fetching one auction and submitting bids.
package auctionclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/internal/metrics"
	"memorabilia-auction/internal/models"
	"memorabilia-auction/utils"

	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"
)

const (
	// DefaultTimeout bounds a single store request, including reading the body
	DefaultTimeout = 10 * time.Second

	// maxBodySize caps how much of a store response is read
	maxBodySize = 1 << 20

	fallbackRejection = "Failed to place bid"
	emptyRejection    = "Bid failed"
)

// operation names used for logs and metrics
const (
	opListAuctions = "list_auctions"
	opGetAuction   = "get_auction"
	opSubmitBid    = "submit_bid"
	opCreate       = "create_auction"
)

// AuctionStore is the remote store contract the client side depends on
type AuctionStore interface {
	ListAuctions(ctx context.Context) ([]models.Auction, error)
	GetAuction(ctx context.Context, id string) (models.Auction, error)
	SubmitBid(ctx context.Context, auctionID, bidderName string, amount decimal.Decimal) (decimal.Decimal, error)
	CreateAuction(ctx context.Context, auction models.NewAuction) (string, error)
}

var _ AuctionStore = (*Client)(nil)

// Client is the HTTP implementation of AuctionStore. No call is retried:
// a retried bid could be placed twice.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	metrics    metrics.Recorder
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client (tests use the httptest server's client)
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout sets the per-request timeout
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithRateLimit throttles outbound requests to limit per second with the given burst
func WithRateLimit(limit rate.Limit, burst int) Option {
	return func(c *Client) {
		if limit > 0 && burst > 0 {
			c.limiter = rate.NewLimiter(limit, burst)
		}
	}
}

// WithMetrics records per-call outcomes and latency
func WithMetrics(r metrics.Recorder) Option {
	return func(c *Client) {
		if r != nil {
			c.metrics = r
		}
	}
}

// New creates a Client for the store at baseURL, e.g. "http://localhost:8000"
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		metrics:    metrics.Nop{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// ListAuctions returns auction summaries; top bids may be omitted
func (c *Client) ListAuctions(ctx context.Context) ([]models.Auction, error) {
	start := time.Now()

	resp, err := c.do(ctx, http.MethodGet, "/auctions", nil)
	if err != nil {
		c.record(opListAuctions, metrics.OutcomeTransport, start)
		return nil, fmt.Errorf("client: list auctions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.record(opListAuctions, metrics.OutcomeTransport, start)
		return nil, fmt.Errorf("client: list auctions: %w - status %d", biddingerrors.ErrTransport, resp.StatusCode)
	}

	var auctions []models.Auction
	if err := decodeBody(resp.Body, &auctions); err != nil {
		c.record(opListAuctions, metrics.OutcomeTransport, start)
		return nil, fmt.Errorf("client: list auctions: %w", err)
	}
	if auctions == nil {
		auctions = []models.Auction{}
	}

	c.record(opListAuctions, metrics.OutcomeOK, start)
	utils.Debug("client: auctions listed", map[string]any{"count": len(auctions)})
	return auctions, nil
}

// GetAuction returns the full detail of one auction, including its top bids
func (c *Client) GetAuction(ctx context.Context, id string) (models.Auction, error) {
	start := time.Now()

	resp, err := c.do(ctx, http.MethodGet, "/auctions/"+url.PathEscape(id), nil)
	if err != nil {
		c.record(opGetAuction, metrics.OutcomeTransport, start)
		return models.Auction{}, fmt.Errorf("client: get auction %s: %w", id, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		c.record(opGetAuction, metrics.OutcomeNotFound, start)
		return models.Auction{}, fmt.Errorf("client: get auction %s: %w", id, biddingerrors.ErrAuctionNotFound)
	case resp.StatusCode != http.StatusOK:
		c.record(opGetAuction, metrics.OutcomeTransport, start)
		return models.Auction{}, fmt.Errorf("client: get auction %s: %w - status %d", id, biddingerrors.ErrTransport, resp.StatusCode)
	}

	var auction models.Auction
	if err := decodeBody(resp.Body, &auction); err != nil {
		c.record(opGetAuction, metrics.OutcomeTransport, start)
		return models.Auction{}, fmt.Errorf("client: get auction %s: %w", id, err)
	}
	if auction.ID == "" {
		auction.ID = id
	}

	c.record(opGetAuction, metrics.OutcomeOK, start)
	return auction, nil
}

// SubmitBid asks the store to arbitrate a bid. On acceptance it returns the
// store's new current price. A non-success response becomes a RejectionError
// (ErrBidRejected); no response, or an unreadable success body, is ErrTransport.
func (c *Client) SubmitBid(ctx context.Context, auctionID, bidderName string, amount decimal.Decimal) (decimal.Decimal, error) {
	start := time.Now()

	payload := placeBidRequest{BidderName: bidderName, Amount: models.JSONAmount(amount)}
	resp, err := c.do(ctx, http.MethodPost, "/auctions/"+url.PathEscape(auctionID)+"/bids", payload)
	if err != nil {
		c.record(opSubmitBid, metrics.OutcomeTransport, start)
		utils.Warn("client: bid submission got no response", map[string]any{
			"auction_id": auctionID,
			"error":      err.Error(),
		})
		return decimal.Decimal{}, fmt.Errorf("client: submit bid on %s: %w", auctionID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(opSubmitBid, metrics.OutcomeRejected, start)
		rejection := &biddingerrors.RejectionError{
			Reason:     rejectionReason(resp.Body),
			StatusCode: resp.StatusCode,
		}
		utils.Info("client: bid rejected by store", map[string]any{
			"auction_id": auctionID,
			"status":     resp.StatusCode,
			"reason":     rejection.Reason,
		})
		return decimal.Decimal{}, fmt.Errorf("client: submit bid on %s: %w", auctionID, rejection)
	}

	var accepted placeBidResponse
	if err := decodeBody(resp.Body, &accepted); err != nil {
		c.record(opSubmitBid, metrics.OutcomeTransport, start)
		return decimal.Decimal{}, fmt.Errorf("client: submit bid on %s: %w", auctionID, err)
	}
	if !accepted.CurrentPrice.Valid {
		c.record(opSubmitBid, metrics.OutcomeTransport, start)
		return decimal.Decimal{}, fmt.Errorf("client: submit bid on %s: %w - response missing current_price", auctionID, biddingerrors.ErrTransport)
	}

	c.record(opSubmitBid, metrics.OutcomeOK, start)
	utils.Info("client: bid accepted", map[string]any{
		"auction_id":    auctionID,
		"amount":        amount.String(),
		"current_price": accepted.CurrentPrice.Decimal.String(),
	})
	return accepted.CurrentPrice.Decimal, nil
}

// CreateAuction creates an auction and returns its store-assigned id
func (c *Client) CreateAuction(ctx context.Context, auction models.NewAuction) (string, error) {
	start := time.Now()

	tags := auction.Tags
	if tags == nil {
		tags = []string{}
	}
	payload := createAuctionRequest{
		Title:         auction.Title,
		Description:   auction.Description,
		ImageURL:      auction.ImageURL,
		StartingPrice: models.JSONAmount(auction.StartingPrice),
		StartTime:     auction.StartTime.UTC().Format(time.RFC3339Nano),
		EndTime:       auction.EndTime.UTC().Format(time.RFC3339Nano),
		Tags:          tags,
	}

	resp, err := c.do(ctx, http.MethodPost, "/auctions", payload)
	if err != nil {
		c.record(opCreate, metrics.OutcomeTransport, start)
		return "", fmt.Errorf("client: create auction: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		c.record(opCreate, metrics.OutcomeRejected, start)
		return "", fmt.Errorf("client: create auction: %w - %s", biddingerrors.ErrInvalidAuction, rejectionReason(resp.Body))
	}

	var created createAuctionResponse
	if err := decodeBody(resp.Body, &created); err != nil {
		c.record(opCreate, metrics.OutcomeTransport, start)
		return "", fmt.Errorf("client: create auction: %w", err)
	}
	if created.ID == "" {
		c.record(opCreate, metrics.OutcomeTransport, start)
		return "", fmt.Errorf("client: create auction: %w - response missing id", biddingerrors.ErrTransport)
	}

	c.record(opCreate, metrics.OutcomeOK, start)
	utils.Info("client: auction created", map[string]any{"auction_id": created.ID, "title": auction.Title})
	return created.ID, nil
}

// do sends one request. Every failure before a response arrives is ErrTransport,
// and cancellation stays visible through errors.Is(err, context.Canceled).
func (c *Client) do(ctx context.Context, method, path string, payload any) (*http.Response, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: rate limiter: %w", biddingerrors.ErrTransport, err)
		}
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", biddingerrors.ErrTransport, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", biddingerrors.ErrTransport, err)
	}
	return resp, nil
}

func (c *Client) record(op, outcome string, start time.Time) {
	c.metrics.RecordStoreRequest(op, outcome, time.Since(start))
}

func decodeBody(r io.Reader, v any) error {
	if err := json.NewDecoder(io.LimitReader(r, maxBodySize)).Decode(v); err != nil {
		return fmt.Errorf("%w: decode response: %w", biddingerrors.ErrTransport, err)
	}
	return nil
}

// rejectionReason extracts the store's detail text from a non-success body
func rejectionReason(r io.Reader) string {
	var body errorResponse
	if err := json.NewDecoder(io.LimitReader(r, maxBodySize)).Decode(&body); err != nil {
		return fallbackRejection
	}

	var detail string
	if err := json.Unmarshal(body.Detail, &detail); err != nil || strings.TrimSpace(detail) == "" {
		return emptyRejection
	}
	return detail
}

// IsTransport reports whether err means no authoritative answer was obtained
func IsTransport(err error) bool {
	return errors.Is(err, biddingerrors.ErrTransport)
}
