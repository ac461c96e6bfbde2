package sqlite

import (
	"context"
	"database/sql"
	"strings"

	"github.com/crituk/authcore/internal/auth/domain"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, email, username, first_name, last_name, password_hash, created_at`

func (r *usersRepo) FindByEmail(ctx context.Context, email string) (domain.CredentialRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email = ?`,
		strings.TrimSpace(email),
	)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.CredentialRecord) (domain.CredentialRecord, error) {
	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (id, email, username, first_name, last_name, password_hash)
		 VALUES (?, ?, ?, ?, ?, ?)
		 RETURNING `+userColumns,
		u.ID, strings.TrimSpace(u.Email), u.Username, u.FirstName, u.LastName, u.PasswordHash,
	)

	var out domain.CredentialRecord
	err := row.Scan(&out.ID, &out.Email, &out.Username, &out.FirstName, &out.LastName, &out.PasswordHash, &out.CreatedAt)
	if err != nil {
		return domain.CredentialRecord{}, mapConstraint(err)
	}
	return out, nil
}

func scanUser(row *sql.Row) (domain.CredentialRecord, error) {
	var u domain.CredentialRecord
	err := row.Scan(&u.ID, &u.Email, &u.Username, &u.FirstName, &u.LastName, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		return domain.CredentialRecord{}, mapNotFound(err)
	}
	return u, nil
}
