package helpers

import (
	"html"
	"net/url"
	"strings"
	"time"

	bidding "memorabilia-auction/internal/biddingService"
	"memorabilia-auction/internal/models"

	"github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
)

// cardTagLimit is how many tags a list card shows
const cardTagLimit = 3

const (
	submitLabel     = "Place Bid"
	submittingLabel = "Bidding..."
)

// store text is untrusted; strip all markup before it reaches a view
var textPolicy = bluemonday.StrictPolicy()

// sanitize strips markup; views are JSON and terminal text, so entities are decoded back
func sanitize(s string) string {
	return strings.TrimSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}

// imageURL keeps only absolute http(s) links
func imageURL(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ""
	}
	return u.String()
}

func relTime(t models.Timestamp, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	return humanize.RelTime(t.Time, now, "ago", "from now")
}

func statusLabel(s models.AuctionStatus) string {
	if s == "" {
		return "UNKNOWN"
	}
	return strings.ToUpper(string(s))
}

func sanitizeTags(tags []string, limit int) []string {
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		if limit > 0 && len(out) == limit {
			break
		}
		if clean := sanitize(tag); clean != "" {
			out = append(out, clean)
		}
	}
	return out
}

// BuildListView renders auction summaries as cards
func BuildListView(auctions []models.Auction, now time.Time) ListView {
	cards := make([]AuctionCard, 0, len(auctions))
	for _, a := range auctions {
		cards = append(cards, AuctionCard{
			ID:       a.ID,
			Title:    sanitize(a.Title),
			ImageURL: imageURL(a.ImageURL),
			Status:   statusLabel(a.Status),
			Tags:     sanitizeTags(a.Tags, cardTagLimit),
			Price:    models.FormatMoney(a.PriceFloor()),
			Ends:     relTime(a.EndTime, now),
		})
	}
	return ListView{Auctions: cards}
}

// BuildDetailView renders one auction snapshot together with its bid panel
func BuildDetailView(a models.Auction, panel bidding.PanelView, now time.Time) AuctionDetailView {
	bids := make([]BidRow, 0, len(a.TopBids))
	for _, b := range a.TopBids {
		bids = append(bids, BidRow{
			BidderName: sanitize(b.BidderName),
			Amount:     models.FormatMoney(b.Amount),
			Placed:     relTime(b.CreatedAt, now),
		})
	}

	return AuctionDetailView{
		ID:            a.ID,
		Title:         sanitize(a.Title),
		Description:   sanitize(a.Description),
		ImageURL:      imageURL(a.ImageURL),
		Status:        statusLabel(a.Status),
		Tags:          sanitizeTags(a.Tags, 0),
		StartingPrice: models.FormatMoney(a.StartingPrice),
		CurrentPrice:  models.FormatMoney(a.PriceFloor()),
		Ends:          relTime(a.EndTime, now),
		TopBids:       bids,
		Panel:         buildPanel(a, panel),
	}
}

func buildPanel(a models.Auction, panel bidding.PanelView) BidPanel {
	label := submitLabel
	submitting := panel.State == bidding.StateSubmitting
	if submitting {
		label = submittingLabel
	}

	return BidPanel{
		State:       panel.State.String(),
		Error:       panel.Error,
		BidderName:  panel.BidderName,
		Amount:      panel.Amount,
		Placeholder: ">" + models.FormatMoney(a.PriceFloor()),
		SubmitLabel: label,
		Disabled:    submitting,
	}
}
