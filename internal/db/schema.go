package db

import (
	"database/sql"
	"fmt"
)

// EnsureSchema creates the tables the booking core needs. Statements are
// idempotent so startup can always run them.
//
// Two constraints carry the correctness of the whole system:
//
//   - seat_reservations has UNIQUE KEY (trip_id, seat_id); the reserve
//     operation is a single conditional upsert against it, so two
//     simultaneous reservers resolve to exactly one winner.
//   - bookings has a stored generated column active_seat_key that is
//     non-NULL only while status is PENDING or CONFIRMED, with a unique
//     key on it. MySQL unique keys ignore NULLs, so terminal bookings
//     never collide, while two active bookings for one (trip, seat) are
//     impossible regardless of application races.
func EnsureSchema(db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS companies (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(200) NOT NULL,
	slug VARCHAR(200) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_company_slug (slug)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS company_settings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	company_id BIGINT NOT NULL,
	free_cancellation_hours INT NOT NULL DEFAULT 24,
	cancellation_fee_percent DECIMAL(5,2) NOT NULL DEFAULT 10.00,
	service_fee DECIMAL(10,2) NOT NULL DEFAULT 0,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_settings_company (company_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS vehicles (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	company_id BIGINT NOT NULL,
	license_plate VARCHAR(50) NOT NULL,
	total_seats INT NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_vehicle_plate (license_plate),
	KEY idx_vehicle_company (company_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS seats (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	vehicle_id BIGINT NOT NULL,
	seat_number VARCHAR(10) NOT NULL,
	row_no INT NOT NULL,
	position VARCHAR(20) NOT NULL,
	seat_type VARCHAR(20) NOT NULL DEFAULT 'REGULAR',
	is_window TINYINT(1) NOT NULL DEFAULT 0,
	is_aisle TINYINT(1) NOT NULL DEFAULT 0,
	price_multiplier DECIMAL(3,2) NOT NULL DEFAULT 1.00,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_vehicle_seat (vehicle_id, seat_number),
	KEY idx_seat_vehicle (vehicle_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS trips (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	company_id BIGINT NOT NULL,
	vehicle_id BIGINT NOT NULL,
	origin VARCHAR(100) NOT NULL,
	destination VARCHAR(100) NOT NULL,
	departure_at DATETIME NOT NULL,
	arrival_at DATETIME NOT NULL,
	base_fare DECIMAL(10,2) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'SCHEDULED',
	capacity INT NOT NULL,
	booked_seats INT NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	KEY idx_trip_company_departure (company_id, departure_at),
	KEY idx_trip_status (status)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS trip_pricing (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	peak_multiplier DECIMAL(3,2) NOT NULL DEFAULT 1.00,
	demand_multiplier DECIMAL(3,2) NOT NULL DEFAULT 1.00,
	early_bird_discount DECIMAL(3,2) NOT NULL DEFAULT 0.00,
	early_bird_days INT NOT NULL DEFAULT 7,
	updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_pricing_trip (trip_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS seat_reservations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	trip_id BIGINT NOT NULL,
	seat_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	expires_at DATETIME NOT NULL,
	is_active TINYINT(1) NOT NULL DEFAULT 1,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_reservation_trip_seat (trip_id, seat_id),
	KEY idx_reservation_expiry (is_active, expires_at)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS bookings (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	reference VARCHAR(20) NOT NULL,
	company_id BIGINT NOT NULL,
	trip_id BIGINT NOT NULL,
	seat_id BIGINT NOT NULL,
	user_id BIGINT NOT NULL,
	passenger_name VARCHAR(200) NOT NULL,
	passenger_phone VARCHAR(20) NOT NULL,
	passenger_email VARCHAR(254) NOT NULL DEFAULT '',
	status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	source VARCHAR(20) NOT NULL DEFAULT 'MOBILE_APP',
	payment_status VARCHAR(20) NOT NULL DEFAULT 'pending',
	base_fare DECIMAL(10,2) NOT NULL,
	seat_fee DECIMAL(10,2) NOT NULL DEFAULT 0,
	service_fee DECIMAL(10,2) NOT NULL DEFAULT 0,
	total_amount DECIMAL(10,2) NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	confirmed_at DATETIME NULL,
	cancelled_at DATETIME NULL,
	active_seat_key VARCHAR(64) GENERATED ALWAYS AS (
		CASE WHEN status IN ('PENDING','CONFIRMED')
		     THEN CONCAT(trip_id, '-', seat_id) END
	) STORED,
	UNIQUE KEY uniq_booking_reference (reference),
	UNIQUE KEY uniq_active_seat (active_seat_key),
	KEY idx_booking_trip_status (trip_id, status),
	KEY idx_booking_user (user_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS booking_cancellations (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	booking_id BIGINT NOT NULL,
	reason TEXT,
	cancelled_by BIGINT NOT NULL,
	cancellation_fee DECIMAL(10,2) NOT NULL DEFAULT 0,
	refund_amount DECIMAL(10,2) NOT NULL DEFAULT 0,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_cancellation_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS payments (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	reference VARCHAR(50) NOT NULL,
	booking_id BIGINT NOT NULL,
	amount DECIMAL(10,2) NOT NULL,
	method VARCHAR(20) NOT NULL,
	status VARCHAR(20) NOT NULL DEFAULT 'PENDING',
	gateway_id VARCHAR(200) NOT NULL DEFAULT '',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_payment_reference (reference),
	KEY idx_payment_booking (booking_id)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,

		`CREATE TABLE IF NOT EXISTS users (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	name VARCHAR(200) NOT NULL,
	email VARCHAR(254) NOT NULL,
	phone VARCHAR(20) NOT NULL DEFAULT '',
	password_hash VARCHAR(100) NOT NULL,
	role VARCHAR(20) NOT NULL DEFAULT 'passenger',
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
	UNIQUE KEY uniq_user_email (email)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4 COLLATE=utf8mb4_unicode_ci;`,
	}

	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
