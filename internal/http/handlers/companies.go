package handlers

import (
	"net/http"

	"bookutu/internal/domain/models"

	"github.com/gin-gonic/gin"
)

type createCompanyRequest struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// POST /api/admin/companies
func (a API) CreateCompany(c *gin.Context) {
	var req createCompanyRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	company, err := a.companies(c).Create(models.Company{Name: req.Name, Slug: req.Slug})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"company": company})
}

// GET /api/companies/:id — company details plus the effective
// cancellation policy.
func (a API) GetCompany(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	company, policy, err := a.companies(c).Get(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"company": company, "policy": policy})
}

// GET /api/companies/:id/vehicles — the company's fleet.
func (a API) ListCompanyVehicles(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	vehicles, err := a.catalog(c).ListVehicles(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": vehicles})
}

type companySettingsRequest struct {
	FreeCancellationHours  int     `json:"free_cancellation_hours"`
	CancellationFeePercent float64 `json:"cancellation_fee_percent"`
	ServiceFee             float64 `json:"service_fee"`
}

// PUT /api/admin/companies/:id/settings
func (a API) UpdateCompanySettings(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req companySettingsRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	policy, err := a.companies(c).UpdatePolicy(id, models.CompanyPolicy{
		FreeCancellationHours:  req.FreeCancellationHours,
		CancellationFeePercent: req.CancellationFeePercent,
		ServiceFee:             req.ServiceFee,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"policy": policy})
}
