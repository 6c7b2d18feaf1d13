package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/pau-interconnect/cv-analyzer/internal/domain/users"
)

// UserRepository is the Postgres variant of the analysis-history store.
// Expected tables:
//
//	users       (email_key PK, name, email)
//	cv_analyses (seq BIGSERIAL PK, id, email_key, file_name, created_at, analysis)
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) AppendAnalysis(ctx context.Context, name, email string, entry users.Analysis) error {
	key := users.NormalizeEmail(email)

	const insertUser = `
INSERT INTO users (email_key, name, email)
VALUES ($1,$2,$3)
ON CONFLICT (email_key) DO NOTHING;
`
	if _, err := r.db.ExecContext(ctx, insertUser, key, name, email); err != nil {
		return err
	}

	createdAt := entry.Date.Time().UTC()
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}

	const insertEntry = `
INSERT INTO cv_analyses (id, email_key, file_name, created_at, analysis)
VALUES ($1,$2,$3,$4,$5);
`
	_, err := r.db.ExecContext(ctx, insertEntry,
		uuid.New().String(), key, entry.FileName, createdAt, entry.Analysis)
	return err
}

func (r *UserRepository) Get(ctx context.Context, email string) (*users.User, error) {
	key := users.NormalizeEmail(email)

	u := &users.User{}
	err := r.db.QueryRowContext(ctx,
		`SELECT name, email FROM users WHERE email_key=$1`, key).
		Scan(&u.Name, &u.Email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	rows, err := r.db.QueryContext(ctx, `
SELECT file_name, created_at, analysis
FROM cv_analyses
WHERE email_key=$1
ORDER BY seq`, key)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var a users.Analysis
		var createdAt time.Time
		if err := rows.Scan(&a.FileName, &createdAt, &a.Analysis); err != nil {
			return nil, err
		}
		a.Date = users.Timestamp(createdAt.UTC())
		u.Analyses = append(u.Analyses, a)
	}
	return u, rows.Err()
}
