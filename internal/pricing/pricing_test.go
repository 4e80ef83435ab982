package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bookutu/internal/domain/models"
)

func neutralCalc() Calculator {
	return Calculator{Policy: models.DefaultCompanyPolicy(1)}
}

func TestFinalFareSeatMultiplierOnly(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	fare := neutralCalc().FinalFare(20000, 1.2, models.ZeroTripPricing(1), departure, now)
	assert.Equal(t, 24000.00, fare)
}

func TestFinalFareNeutralFactors(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	fare := neutralCalc().FinalFare(15000, 1.0, models.ZeroTripPricing(1), departure, now)
	assert.Equal(t, 15000.00, fare)
}

func TestFinalFareAllFactorsDiscountLast(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	departure := now.AddDate(0, 0, 10)

	p := models.TripPricing{
		TripID:            1,
		PeakMultiplier:    1.5,
		DemandMultiplier:  1.1,
		EarlyBirdDiscount: 0.10,
		EarlyBirdDays:     7,
	}

	// 100 * 1.5 * 1.1 * 1.2 = 198, then * 0.9 = 178.2
	fare := neutralCalc().FinalFare(100, 1.2, p, departure, now)
	assert.Equal(t, 178.20, fare)
}

func TestFinalFareEarlyBirdCutoff(t *testing.T) {
	now := time.Date(2026, 3, 1, 23, 0, 0, 0, time.UTC)
	p := models.TripPricing{
		TripID:            1,
		PeakMultiplier:    1.0,
		DemandMultiplier:  1.0,
		EarlyBirdDiscount: 0.20,
		EarlyBirdDays:     7,
	}

	// Exactly 7 calendar days out qualifies even when fewer than 7*24h
	// remain on the clock.
	departure := time.Date(2026, 3, 8, 6, 0, 0, 0, time.UTC)
	assert.Equal(t, 80.00, neutralCalc().FinalFare(100, 1.0, p, departure, now))

	// 6 days out does not.
	departure = time.Date(2026, 3, 7, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, 100.00, neutralCalc().FinalFare(100, 1.0, p, departure, now))
}

func TestFinalFareRoundsHalfUp(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	departure := now.Add(24 * time.Hour)

	// 10.01 * 1.5 = 15.015 -> 15.02 under half-up.
	fare := neutralCalc().FinalFare(10.01, 1.5, models.ZeroTripPricing(1), departure, now)
	assert.Equal(t, 15.02, fare)
}

func TestBookingQuoteBreakdownAddsUp(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	calc := Calculator{Policy: models.CompanyPolicy{
		CompanyID:              1,
		FreeCancellationHours:  24,
		CancellationFeePercent: 10,
		ServiceFee:             500,
	}}

	q := calc.BookingQuote(20000, 1.2, models.ZeroTripPricing(1), departure, now)
	assert.Equal(t, 20000.00, q.BaseFare)
	assert.Equal(t, 4000.00, q.SeatFee)
	assert.Equal(t, 500.00, q.ServiceFee)
	assert.Equal(t, 24500.00, q.Total)
}

func TestCancellationFeeFreeWindow(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(48 * time.Hour)

	fee, refund := neutralCalc().CancellationFee(50000, departure, now)
	assert.Equal(t, 0.00, fee)
	assert.Equal(t, 50000.00, refund)
}

func TestCancellationFeeLateCancel(t *testing.T) {
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	departure := now.Add(1 * time.Hour)

	// 24h free window, 10% fee: 1 hour out costs 10%.
	fee, refund := neutralCalc().CancellationFee(50000, departure, now)
	assert.Equal(t, 5000.00, fee)
	assert.Equal(t, 45000.00, refund)
}
