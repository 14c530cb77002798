package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestAuction_PriceFloor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		body  string
		floor string
	}{
		{name: "no_current_price", body: `{"id":"a1","starting_price":50}`, floor: "50.00"},
		{name: "null_current_price", body: `{"id":"a1","starting_price":50,"current_price":null}`, floor: "50.00"},
		{name: "current_price_set", body: `{"id":"a1","starting_price":50,"current_price":75.5}`, floor: "75.50"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			var a Auction
			require.NoError(t, json.Unmarshal([]byte(tc.body), &a))
			require.Equal(t, tc.floor, a.PriceFloor().StringFixed(2))
		})
	}
}

func TestAuction_DecodeFullDetail(t *testing.T) {
	t.Parallel()

	body := `{
		"id": "a1",
		"title": "Signed Jersey",
		"description": "Game worn",
		"image_url": "https://img.example/jersey.png",
		"starting_price": 50,
		"current_price": 80,
		"start_time": "2026-10-19T10:00:00",
		"end_time": "2026-10-19T11:00:00Z",
		"status": "live",
		"tags": ["sports", "memorabilia"],
		"top_bids": [
			{"id": "b2", "bidder_name": "Ben", "amount": 80},
			{"id": "b1", "bidder_name": "Ana", "amount": 75}
		]
	}`

	var a Auction
	require.NoError(t, json.Unmarshal([]byte(body), &a))
	require.Equal(t, StatusLive, a.Status)
	require.Equal(t, time.Date(2026, 10, 19, 10, 0, 0, 0, time.UTC), a.StartTime.Time)
	require.Equal(t, time.Date(2026, 10, 19, 11, 0, 0, 0, time.UTC), a.EndTime.Time)
	require.Len(t, a.TopBids, 2)
	require.Equal(t, "Ben", a.TopBids[0].BidderName)
	require.True(t, a.TopBids[0].Amount.Equal(decimal.NewFromInt(80)))
	require.True(t, a.TopBids[0].CreatedAt.IsZero())
}

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		amount decimal.Decimal
		want   string
	}{
		{name: "integer", amount: decimal.NewFromInt(50), want: "$50.00"},
		{name: "one_decimal", amount: decimal.RequireFromString("75.5"), want: "$75.50"},
		{name: "extra_precision_rounds_for_display", amount: decimal.RequireFromString("80.005"), want: "$80.01"},
		{name: "zero", amount: decimal.Zero, want: "$0.00"},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.want, FormatMoney(tc.amount))
		})
	}

	// display formatting leaves the value untouched
	amount := decimal.RequireFromString("80.005")
	_ = FormatMoney(amount)
	require.Equal(t, "80.005", amount.String())
}

func TestJSONAmount_KeepsPrecision(t *testing.T) {
	t.Parallel()

	payload, err := json.Marshal(map[string]any{"amount": JSONAmount(decimal.RequireFromString("80.125"))})
	require.NoError(t, err)
	require.JSONEq(t, `{"amount": 80.125}`, string(payload))
}

func TestTimestamp_RoundTripAndInvalid(t *testing.T) {
	t.Parallel()

	ts := NewTimestamp(time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC))
	payload, err := json.Marshal(ts)
	require.NoError(t, err)
	require.Equal(t, `"2026-01-02T03:04:05Z"`, string(payload))

	var zero Timestamp
	payload, err = json.Marshal(zero)
	require.NoError(t, err)
	require.Equal(t, "null", string(payload))

	var bad Timestamp
	require.Error(t, json.Unmarshal([]byte(`"yesterday"`), &bad))
}

func TestNewListing(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 10, 19, 14, 0, 0, 0, time.FixedZone("CEST", 2*60*60))
	listing := NewListing("Signed Jersey", decimal.NewFromInt(50), 30*time.Minute, "", now)

	require.Equal(t, DefaultDescription, listing.Description)
	require.Equal(t, []string{"sports", "memorabilia"}, listing.Tags)
	require.Equal(t, time.UTC, listing.StartTime.Location())
	require.True(t, listing.StartTime.Equal(now))
	require.Equal(t, 30*time.Minute, listing.EndTime.Sub(listing.StartTime))
}
