package utils

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// NewBookingReference builds a human-readable, globally unique booking
// reference: "BK" + yyyymmdd + 6-char random suffix. Immutable once
// assigned.
func NewBookingReference(now time.Time) string {
	return "BK" + now.Format("20060102") + randomSuffix(6)
}

// NewPaymentReference builds a payment record reference:
// "PAY" + yyyymmddhhmm + 4-char random suffix.
func NewPaymentReference(now time.Time) string {
	return "PAY" + now.Format("200601021504") + randomSuffix(4)
}

func randomSuffix(n int) string {
	s := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	if n > len(s) {
		n = len(s)
	}
	return s[:n]
}
