package repositories

import (
	"database/sql"
	"strings"

	intconfig "bookutu/internal/config"
	"bookutu/internal/domain"
)

type User struct {
	ID           int64  `json:"id"`
	Name         string `json:"name"`
	Email        string `json:"email"`
	Phone        string `json:"phone"`
	PasswordHash string `json:"-"`
	Role         string `json:"role"`
}

type UserRepository struct {
	DB *sql.DB
}

func (r UserRepository) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

func (r UserRepository) Create(u User) (int64, error) {
	res, err := r.db().Exec(`
		INSERT INTO users (name, email, phone, password_hash, role)
		VALUES (?, ?, ?, ?, ?)
	`, strings.TrimSpace(u.Name), normalizeEmail(u.Email), strings.TrimSpace(u.Phone), u.PasswordHash, u.Role)
	if err != nil {
		if isDuplicateKey(err, "uniq_user_email") {
			return 0, domain.ValidationError{Field: "email", Msg: "email already registered"}
		}
		return 0, err
	}
	return res.LastInsertId()
}

func (r UserRepository) GetByEmail(email string) (User, error) {
	var u User
	err := r.db().QueryRow(`
		SELECT id, name, email, phone, password_hash, role
		FROM users
		WHERE email=? LIMIT 1
	`, normalizeEmail(email)).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return u, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func (r UserRepository) GetByID(id int64) (User, error) {
	var u User
	err := r.db().QueryRow(`
		SELECT id, name, email, phone, password_hash, role
		FROM users
		WHERE id=? LIMIT 1
	`, id).Scan(&u.ID, &u.Name, &u.Email, &u.Phone, &u.PasswordHash, &u.Role)
	if err == sql.ErrNoRows {
		return u, domain.NotFoundError{Resource: "user"}
	}
	return u, err
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
