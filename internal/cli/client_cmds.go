package cli

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	bidding "memorabilia-auction/internal/biddingService"
	"memorabilia-auction/internal/metrics"
	"memorabilia-auction/internal/models"
	"memorabilia-auction/services/bidding/helpers"
	"memorabilia-auction/utils"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

// navigator builds a navigator for a one-shot command; logs go to stderr so stdout stays clean
func (a *app) navigator(c *cobra.Command) (*bidding.Navigator, context.Context) {
	utils.SetOutput(c.ErrOrStderr())

	ctx := c.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	return bidding.NewNavigator(a.newClient(metrics.Nop{}), nil), ctx
}

func (a *app) listCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List auctions",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			nav, ctx := a.navigator(c)

			auctions, err := nav.List(ctx)
			if err != nil {
				return err
			}

			view := helpers.BuildListView(auctions, time.Now())
			if len(view.Auctions) == 0 {
				fmt.Fprintln(c.OutOrStdout(), "No auctions yet.")
				return nil
			}

			w := tabwriter.NewWriter(c.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSTATUS\tPRICE\tTITLE\tENDS")
			for _, card := range view.Auctions {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", card.ID, card.Status, card.Price, card.Title, card.Ends)
			}
			return w.Flush()
		},
	}
}

func (a *app) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <auction-id>",
		Short: "Show one auction with its top bids",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			nav, ctx := a.navigator(c)
			defer nav.Leave()

			detail, err := nav.Open(ctx, args[0])
			if err != nil {
				return err
			}
			printDetail(c.OutOrStdout(), detail)
			return nil
		},
	}
}

func (a *app) bidCmd() *cobra.Command {
	var bidderName, amount string

	cmd := &cobra.Command{
		Use:   "bid <auction-id>",
		Short: "Place a bid on an auction",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			nav, ctx := a.navigator(c)
			defer nav.Leave()

			detail, err := nav.Open(ctx, args[0])
			if err != nil {
				return err
			}

			price, err := detail.Controller.Submit(ctx, bidderName, amount)
			if err != nil {
				fmt.Fprintln(c.OutOrStdout(), bidding.ErrorMessage(err))
				return err
			}
			fmt.Fprintf(c.OutOrStdout(), "Bid accepted. Current price: %s\n", models.FormatMoney(price))
			return nil
		},
	}

	cmd.Flags().StringVar(&bidderName, "name", "", "Bidder name")
	cmd.Flags().StringVar(&amount, "amount", "", "Bid amount")
	return cmd
}

func (a *app) createCmd() *cobra.Command {
	var (
		title    string
		price    string
		duration int
		imageURL string
	)

	cmd := &cobra.Command{
		Use:   "create",
		Short: "List a new auction that opens now",
		Args:  cobra.NoArgs,
		RunE: func(c *cobra.Command, args []string) error {
			startingPrice, err := decimal.NewFromString(price)
			if err != nil {
				return fmt.Errorf("invalid --price %q: %w", price, err)
			}
			if duration <= 0 {
				return fmt.Errorf("invalid --duration %d: must be positive", duration)
			}

			nav, ctx := a.navigator(c)
			defer nav.Leave()

			listing := models.NewListing(title, startingPrice, time.Duration(duration)*time.Minute, imageURL, time.Now())
			detail, err := nav.Create(ctx, listing)
			if err != nil {
				return err
			}
			fmt.Fprintln(c.OutOrStdout(), detail.Session.AuctionID())
			return nil
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "Auction title")
	cmd.Flags().StringVar(&price, "price", "", "Starting price")
	cmd.Flags().IntVar(&duration, "duration", 30, "Duration in minutes")
	cmd.Flags().StringVar(&imageURL, "image", "", "Image URL")
	_ = cmd.MarkFlagRequired("title")
	_ = cmd.MarkFlagRequired("price")
	return cmd
}

func printDetail(out io.Writer, detail *bidding.Detail) {
	auction, _ := detail.Session.Snapshot()
	view := helpers.BuildDetailView(auction, detail.Controller.View(), time.Now())

	fmt.Fprintf(out, "%s [%s]\n", view.Title, view.Status)
	if view.Description != "" {
		fmt.Fprintln(out, view.Description)
	}
	fmt.Fprintf(out, "Current price: %s\n", view.CurrentPrice)
	if view.Ends != "" {
		fmt.Fprintf(out, "Ends: %s\n", view.Ends)
	}
	if len(view.TopBids) == 0 {
		return
	}

	fmt.Fprintln(out, "Top bids:")
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, b := range view.TopBids {
		fmt.Fprintf(w, "  %s\t%s\t%s\n", b.BidderName, b.Amount, b.Placed)
	}
	_ = w.Flush()
}
