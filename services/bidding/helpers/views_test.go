package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	bidding "memorabilia-auction/internal/biddingService"
	"memorabilia-auction/internal/biddingerrors"
	"memorabilia-auction/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func TestBuildListView(t *testing.T) {
	t.Parallel()

	auctions := []models.Auction{
		{
			ID:            "a1",
			Title:         `<img src=x onerror=alert(1)>Home Run Ball`,
			ImageURL:      "https://img.example/ball.png",
			StartingPrice: decimal.NewFromInt(200),
			EndTime:       models.NewTimestamp(now.Add(3 * time.Hour)),
			Status:        models.StatusLive,
			Tags:          []string{"sports", "", "baseball", "signed", "vintage"},
		},
		{
			ID:            "a2",
			Title:         "Rookie Card",
			StartingPrice: decimal.RequireFromString("149.99"),
			CurrentPrice:  decimal.NewNullDecimal(decimal.RequireFromString("150.5")),
			EndTime:       models.NewTimestamp(now.Add(-10 * time.Minute)),
			Status:        models.StatusEnded,
		},
	}

	view := BuildListView(auctions, now)
	require.Len(t, view.Auctions, 2)
	require.Empty(t, view.Error)

	first := view.Auctions[0]
	require.Equal(t, "Home Run Ball", first.Title)
	require.Equal(t, "https://img.example/ball.png", first.ImageURL)
	require.Equal(t, []string{"sports", "baseball", "signed"}, first.Tags)
	require.Equal(t, "$200.00", first.Price)
	require.Equal(t, "LIVE", first.Status)
	require.Equal(t, "3 hours from now", first.Ends)

	second := view.Auctions[1]
	require.Equal(t, "$150.50", second.Price)
	require.Equal(t, "ENDED", second.Status)
	require.Equal(t, "10 minutes ago", second.Ends)
	require.NotNil(t, second.Tags)
}

func TestBuildDetailView(t *testing.T) {
	t.Parallel()

	auction := models.Auction{
		ID:            "a1",
		Title:         "Signed Jersey",
		Description:   "<p>Game <b>worn</b></p>",
		ImageURL:      "ftp://img.example/jersey.png",
		StartingPrice: decimal.NewFromInt(50),
		CurrentPrice:  decimal.NewNullDecimal(decimal.NewFromInt(80)),
		Status:        models.StatusLive,
		TopBids: []models.Bid{
			{ID: "b2", BidderName: "Ben", Amount: decimal.NewFromInt(80), CreatedAt: models.NewTimestamp(now.Add(-time.Minute))},
			{ID: "b1", BidderName: "Ana", Amount: decimal.NewFromInt(75)},
		},
	}

	tests := []struct {
		name      string
		panel     bidding.PanelView
		wantLabel string
		disabled  bool
	}{
		{name: "idle", panel: bidding.PanelView{State: bidding.StateIdle}, wantLabel: "Place Bid"},
		{name: "submitting", panel: bidding.PanelView{State: bidding.StateSubmitting, Amount: "90"}, wantLabel: "Bidding...", disabled: true},
		{name: "showing_error", panel: bidding.PanelView{State: bidding.StateShowingError, Error: "Bid must be higher than $80.00"}, wantLabel: "Place Bid"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			view := BuildDetailView(auction, tc.panel, now)
			require.Equal(t, "Game worn", view.Description)
			require.Empty(t, view.ImageURL)
			require.Equal(t, "$50.00", view.StartingPrice)
			require.Equal(t, "$80.00", view.CurrentPrice)
			require.Empty(t, view.Ends)
			require.Len(t, view.TopBids, 2)
			require.Equal(t, BidRow{BidderName: "Ben", Amount: "$80.00", Placed: "1 minute ago"}, view.TopBids[0])
			require.Empty(t, view.TopBids[1].Placed)

			require.Equal(t, tc.panel.State.String(), view.Panel.State)
			require.Equal(t, tc.panel.Error, view.Panel.Error)
			require.Equal(t, ">$80.00", view.Panel.Placeholder)
			require.Equal(t, tc.wantLabel, view.Panel.SubmitLabel)
			require.Equal(t, tc.disabled, view.Panel.Disabled)
		})
	}
}

func TestBuildDetailView_PlainTextPunctuation(t *testing.T) {
	t.Parallel()

	auction := models.Auction{
		ID:            "a1",
		Title:         "Jordan & Pippen Signed Ball",
		Description:   `5'11" guard's <i>jersey</i>`,
		StartingPrice: decimal.NewFromInt(50),
		Status:        models.StatusLive,
		Tags:          []string{"Rock & Roll"},
		TopBids: []models.Bid{
			{ID: "b1", BidderName: "Shaquille O'Neal", Amount: decimal.NewFromInt(60)},
		},
	}

	view := BuildDetailView(auction, bidding.PanelView{}, now)
	require.Equal(t, "Jordan & Pippen Signed Ball", view.Title)
	require.Equal(t, `5'11" guard's jersey`, view.Description)
	require.Equal(t, "Shaquille O'Neal", view.TopBids[0].BidderName)

	card := BuildListView([]models.Auction{auction}, now).Auctions[0]
	require.Equal(t, "Jordan & Pippen Signed Ball", card.Title)
	require.Equal(t, []string{"Rock & Roll"}, card.Tags)
}

func TestRawAmount_UnmarshalJSON(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want RawAmount
		fail bool
	}{
		{name: "string", body: `{"amount": " 75.50 "}`, want: " 75.50 "},
		{name: "number_keeps_text", body: `{"amount": 75.50}`, want: "75.50"},
		{name: "garbage_string_reaches_validator", body: `{"amount": "fifty"}`, want: "fifty"},
		{name: "missing", body: `{}`, want: ""},
		{name: "object", body: `{"amount": {}}`, fail: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var req PlaceBidRequest
			err := json.Unmarshal([]byte(tc.body), &req)
			if tc.fail {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.want, req.Amount)
		})
	}
}

func TestMapErrorToHTTP(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		want int
	}{
		{err: fmt.Errorf("controller: %w", &biddingerrors.RejectionError{Reason: "Auction has ended", StatusCode: http.StatusConflict}), want: http.StatusConflict},
		{err: biddingerrors.ErrSubmissionInFlight, want: http.StatusConflict},
		{err: biddingerrors.ErrSessionClosed, want: http.StatusConflict},
		{err: biddingerrors.ErrNoSnapshot, want: http.StatusConflict},
		{err: &biddingerrors.TooLowError{Floor: decimal.NewFromInt(5)}, want: http.StatusUnprocessableEntity},
		{err: biddingerrors.ErrMissingBidder, want: http.StatusUnprocessableEntity},
		{err: biddingerrors.ErrInvalidAmount, want: http.StatusUnprocessableEntity},
		{err: biddingerrors.ErrInvalidAuction, want: http.StatusUnprocessableEntity},
		{err: biddingerrors.ErrAuctionNotFound, want: http.StatusNotFound},
		{err: fmt.Errorf("%w: dial tcp: refused", biddingerrors.ErrTransport), want: http.StatusBadGateway},
		{err: errors.New("boom"), want: http.StatusInternalServerError},
	}

	for _, tc := range tests {
		status, message := MapErrorToHTTP(tc.err)
		require.Equal(t, tc.want, status, tc.err.Error())
		require.NotEmpty(t, message)
	}
}
