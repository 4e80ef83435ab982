package pricing

import (
	"time"

	"github.com/shopspring/decimal"

	"bookutu/internal/domain/models"
	"bookutu/internal/utils"
)

// Calculator derives fares and cancellation fees from a company policy.
// The policy is injected per call site; there is no global settings
// object.
//
// Factor order is fixed and documented: base fare × peak × demand × seat
// multiplier, then the early-bird discount, then a single rounding to
// 2 decimal places (half away from zero, i.e. half-up for the positive
// amounts money deals in).
type Calculator struct {
	Policy models.CompanyPolicy
}

// Quote is the fare breakdown stored on a booking. Components are rounded
// individually; Total is their sum, so the breakdown always adds up.
type Quote struct {
	BaseFare   float64 `json:"baseFare"`
	SeatFee    float64 `json:"seatFee"`
	ServiceFee float64 `json:"serviceFee"`
	Total      float64 `json:"total"`
}

// FinalFare computes base × peak × demand × seat multiplier with the
// early-bird discount applied last. Neutral factors (multipliers 1.0,
// discount 0) leave base × seat multiplier.
func (c Calculator) FinalFare(baseFare, seatMultiplier float64, p models.TripPricing, departureAt, now time.Time) float64 {
	fare := adjustedBase(baseFare, p).Mul(decimal.NewFromFloat(seatMultiplier))
	fare = applyEarlyBird(fare, p, departureAt, now)
	return utils.MoneyFloat(fare)
}

// BookingQuote splits the final fare into the stored breakdown: base fare
// (with trip factors and discount applied), seat fee (the multiplier
// surcharge), and the policy's flat service fee.
func (c Calculator) BookingQuote(baseFare, seatMultiplier float64, p models.TripPricing, departureAt, now time.Time) Quote {
	base := applyEarlyBird(adjustedBase(baseFare, p), p, departureAt, now)
	seatFee := base.Mul(decimal.NewFromFloat(seatMultiplier - 1))

	q := Quote{
		BaseFare:   utils.MoneyFloat(base),
		SeatFee:    utils.MoneyFloat(seatFee),
		ServiceFee: utils.MoneyFloat(decimal.NewFromFloat(c.Policy.ServiceFee)),
	}
	q.Total = utils.MoneyFloat(decimal.NewFromFloat(q.BaseFare).
		Add(decimal.NewFromFloat(q.SeatFee)).
		Add(decimal.NewFromFloat(q.ServiceFee)))
	return q
}

// CancellationFee applies the company policy: free when the departure is
// at least FreeCancellationHours away, otherwise total × fee percent.
// Refund is the remainder.
func (c Calculator) CancellationFee(totalAmount float64, departureAt, now time.Time) (fee, refund float64) {
	total := decimal.NewFromFloat(totalAmount)

	hoursUntil := departureAt.Sub(now).Hours()
	if hoursUntil >= float64(c.Policy.FreeCancellationHours) {
		return 0, utils.MoneyFloat(total)
	}

	pct := decimal.NewFromFloat(c.Policy.CancellationFeePercent).Div(decimal.NewFromInt(100))
	feeDec := utils.RoundMoney(total.Mul(pct))
	return utils.MoneyFloat(feeDec), utils.MoneyFloat(total.Sub(feeDec))
}

func adjustedBase(baseFare float64, p models.TripPricing) decimal.Decimal {
	return decimal.NewFromFloat(baseFare).
		Mul(decimal.NewFromFloat(p.PeakMultiplier)).
		Mul(decimal.NewFromFloat(p.DemandMultiplier))
}

func applyEarlyBird(fare decimal.Decimal, p models.TripPricing, departureAt, now time.Time) decimal.Decimal {
	if p.EarlyBirdDiscount <= 0 || p.EarlyBirdDays <= 0 {
		return fare
	}
	if daysUntil(departureAt, now) < p.EarlyBirdDays {
		return fare
	}
	return fare.Mul(decimal.NewFromInt(1).Sub(decimal.NewFromFloat(p.EarlyBirdDiscount)))
}

// daysUntil counts whole calendar days between the two instants' dates,
// matching a date subtraction rather than a 24h-bucket division.
func daysUntil(departureAt, now time.Time) int {
	d := truncateToDate(departureAt)
	n := truncateToDate(now)
	return int(d.Sub(n).Hours() / 24)
}

func truncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
