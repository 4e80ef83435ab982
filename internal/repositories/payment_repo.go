package repositories

import (
	"database/sql"
	"strings"

	intconfig "bookutu/internal/config"
	"bookutu/internal/domain"
	"bookutu/internal/domain/models"
)

type PaymentRepository struct {
	DB *sql.DB
}

func (r PaymentRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Insert appends one settlement report. Payments are append-only; a
// booking can accumulate several rows (failed attempts, then success).
func (r PaymentRepository) Insert(p models.Payment) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO payments (reference, booking_id, amount, method, status, gateway_id)
		VALUES (?, ?, ?, ?, ?, ?)
	`, p.Reference, p.BookingID, p.Amount, p.Method, p.Status, p.GatewayID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r PaymentRepository) GetByReference(ref string) (models.Payment, error) {
	var p models.Payment
	err := r.db().QueryRow(`
		SELECT id, reference, booking_id, amount, method, status, gateway_id, created_at
		FROM payments
		WHERE reference=? LIMIT 1
	`, strings.TrimSpace(ref)).Scan(&p.ID, &p.Reference, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.GatewayID, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return p, domain.NotFoundError{Resource: "payment"}
	}
	return p, err
}

func (r PaymentRepository) ListByBooking(bookingID int64) ([]models.Payment, error) {
	rows, err := r.db().Query(`
		SELECT id, reference, booking_id, amount, method, status, gateway_id, created_at
		FROM payments
		WHERE booking_id=?
		ORDER BY id ASC
	`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []models.Payment{}
	for rows.Next() {
		var p models.Payment
		if err := rows.Scan(&p.ID, &p.Reference, &p.BookingID, &p.Amount, &p.Method, &p.Status, &p.GatewayID, &p.CreatedAt); err != nil {
			return out, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
