package models

// Company is the owning tenant for vehicles, trips and bookings.
type Company struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// CompanyPolicy holds the per-company booking rules that feed the pricing
// calculator. It is loaded per request and passed explicitly, never read
// from a process-wide singleton.
type CompanyPolicy struct {
	CompanyID              int64   `json:"companyId"`
	FreeCancellationHours  int     `json:"freeCancellationHours"`
	CancellationFeePercent float64 `json:"cancellationFeePercent"`
	ServiceFee             float64 `json:"serviceFee"`
}

// DefaultCompanyPolicy mirrors the defaults applied when a company has no
// settings row yet: 24h free cancellation, 10% late fee, no service fee.
func DefaultCompanyPolicy(companyID int64) CompanyPolicy {
	return CompanyPolicy{
		CompanyID:              companyID,
		FreeCancellationHours:  24,
		CancellationFeePercent: 10.0,
		ServiceFee:             0,
	}
}
