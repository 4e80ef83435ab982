package services

import (
	"fmt"
	"strings"

	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
	"bookutu/internal/repositories"
	"bookutu/internal/utils"
)

// CompanyService exposes the tenant record and its booking rules.
type CompanyService struct {
	CompanyRepo repositories.CompanyRepository
	RequestID   string
}

// Create registers a new operator. The slug is derived from the name
// when not supplied.
func (s CompanyService) Create(c models.Company) (models.Company, error) {
	c.Name = strings.TrimSpace(c.Name)
	if c.Name == "" {
		return models.Company{}, domain.ValidationError{Field: "name", Msg: "name is required"}
	}
	if strings.TrimSpace(c.Slug) == "" {
		c.Slug = slugify(c.Name)
	}

	created, err := s.CompanyRepo.Create(c)
	if err != nil {
		return models.Company{}, err
	}
	utils.LogEvent(s.RequestID, "companies", "create", fmt.Sprintf("company=%d slug=%s", created.ID, created.Slug))
	return created, nil
}

func slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			b.WriteByte('-')
		}
	}
	return strings.Trim(b.String(), "-")
}

// Get returns the company together with its effective cancellation
// policy (stored row or platform defaults).
func (s CompanyService) Get(id int64) (models.Company, models.CompanyPolicy, error) {
	c, err := s.CompanyRepo.GetByID(id)
	if err != nil {
		return models.Company{}, models.CompanyPolicy{}, err
	}
	p, err := s.CompanyRepo.GetPolicy(id)
	if err != nil {
		return models.Company{}, models.CompanyPolicy{}, err
	}
	return c, p, nil
}

// UpdatePolicy validates and stores the per-company booking rules. The
// new policy applies to cancellations from this point on; fees already
// charged are not revisited.
func (s CompanyService) UpdatePolicy(companyID int64, p models.CompanyPolicy) (models.CompanyPolicy, error) {
	if _, err := s.CompanyRepo.GetByID(companyID); err != nil {
		return models.CompanyPolicy{}, err
	}
	if p.FreeCancellationHours < 0 {
		return models.CompanyPolicy{}, domain.ValidationError{Field: "free_cancellation_hours", Msg: "must not be negative"}
	}
	if p.CancellationFeePercent < 0 || p.CancellationFeePercent > 100 {
		return models.CompanyPolicy{}, domain.ValidationError{Field: "cancellation_fee_percent", Msg: "must be between 0 and 100"}
	}
	if p.ServiceFee < 0 {
		return models.CompanyPolicy{}, domain.ValidationError{Field: "service_fee", Msg: "must not be negative"}
	}

	p.CompanyID = companyID
	if err := s.CompanyRepo.SavePolicy(p); err != nil {
		return models.CompanyPolicy{}, err
	}
	utils.LogEvent(s.RequestID, "companies", "update_policy",
		fmt.Sprintf("company=%d free_hours=%d fee_pct=%.1f", companyID, p.FreeCancellationHours, p.CancellationFeePercent))
	return p, nil
}
