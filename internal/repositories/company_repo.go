package repositories

import (
	"database/sql"

	intconfig "bookutu/internal/config"
	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
)

type CompanyRepository struct {
	DB *sql.DB
}

func (r CompanyRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r CompanyRepository) Create(c models.Company) (models.Company, error) {
	res, err := r.db().Exec(`
		INSERT INTO companies (name, slug) VALUES (?, ?)
	`, c.Name, c.Slug)
	if err != nil {
		return models.Company{}, err
	}
	c.ID, _ = res.LastInsertId()
	return c, nil
}

func (r CompanyRepository) GetByID(id int64) (models.Company, error) {
	var c models.Company
	err := r.db().QueryRow(`
		SELECT id, name, slug
		FROM companies
		WHERE id=? LIMIT 1
	`, id).Scan(&c.ID, &c.Name, &c.Slug)
	if err == sql.ErrNoRows {
		return c, domain.NotFoundError{Resource: "company"}
	}
	return c, err
}

// GetPolicy loads the company's cancellation policy; companies without a
// settings row get the platform defaults.
func (r CompanyRepository) GetPolicy(companyID int64) (models.CompanyPolicy, error) {
	var p models.CompanyPolicy
	err := r.db().QueryRow(`
		SELECT company_id, free_cancellation_hours, cancellation_fee_percent, service_fee
		FROM company_settings
		WHERE company_id=? LIMIT 1
	`, companyID).Scan(&p.CompanyID, &p.FreeCancellationHours, &p.CancellationFeePercent, &p.ServiceFee)
	if err == sql.ErrNoRows {
		return models.DefaultCompanyPolicy(companyID), nil
	}
	return p, err
}

func (r CompanyRepository) SavePolicy(p models.CompanyPolicy) error {
	_, err := r.db().Exec(`
		INSERT INTO company_settings (company_id, free_cancellation_hours, cancellation_fee_percent, service_fee)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			free_cancellation_hours=VALUES(free_cancellation_hours),
			cancellation_fee_percent=VALUES(cancellation_fee_percent),
			service_fee=VALUES(service_fee)
	`, p.CompanyID, p.FreeCancellationHours, p.CancellationFeePercent, p.ServiceFee)
	return err
}
