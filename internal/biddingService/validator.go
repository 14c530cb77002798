package bidding

import (
	"fmt"
	"strings"

	"memorabilia-auction/internal/biddingerrors"

	"github.com/shopspring/decimal"
)

// ValidateBid checks a candidate bid against the locally known price floor,
// before anything reaches the network. Rules apply in order: bidder name
// present, amount a finite number, amount strictly above the floor.
func ValidateBid(rawAmount, bidderName string, floor decimal.Decimal) (decimal.Decimal, error) {
	if strings.TrimSpace(bidderName) == "" {
		return decimal.Decimal{}, fmt.Errorf("validator: %w", biddingerrors.ErrMissingBidder)
	}

	amount, err := decimal.NewFromString(strings.TrimSpace(rawAmount))
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("validator: %w - %q is not a number", biddingerrors.ErrInvalidAmount, rawAmount)
	}

	if !amount.GreaterThan(floor) {
		return decimal.Decimal{}, fmt.Errorf("validator: %w", &biddingerrors.TooLowError{Floor: floor})
	}

	return amount, nil
}
