package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"user-registry/internal/domain/entity"
	"user-registry/internal/domain/repository"
	"user-registry/internal/domain/valueobject"
)

type UserRepository struct {
	pool *pgxpool.Pool
}

func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, full_name, email, created_at, is_deleted, last_modified_at`

func scanUser(row pgx.Row) (*entity.User, error) {
	u := &entity.User{}
	var rawEmail string
	if err := row.Scan(&u.ID, &u.FullName, &rawEmail, &u.CreatedAt, &u.IsDeleted, &u.LastModifiedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, err
	}
	email, err := valueobject.NewEmail(rawEmail)
	if err != nil {
		return nil, err
	}
	u.Email = email
	return u, nil
}

func (r *UserRepository) Add(u *entity.User) (int, error) {
	ctx := context.Background()
	row := r.pool.QueryRow(ctx, `
		INSERT INTO users (full_name, email, created_at, is_deleted, last_modified_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`, u.FullName, u.Email.Address(), u.CreatedAt, u.IsDeleted, u.LastModifiedAt)

	if err := row.Scan(&u.ID); err != nil {
		return 0, err
	}
	return u.ID, nil
}

// GetByID fetches the row first and applies the deletion filter after,
// so a deleted row with includeDeleted=false reads as not found.
func (r *UserRepository) GetByID(id int, includeDeleted bool) (*entity.User, error) {
	ctx := context.Background()
	u, err := scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE id = $1
	`, id))
	if err != nil {
		return nil, err
	}
	if u.IsDeleted && !includeDeleted {
		return nil, repository.ErrNotFound
	}
	return u, nil
}

func (r *UserRepository) GetAll(includeDeleted bool) ([]entity.User, error) {
	ctx := context.Background()
	q := `SELECT ` + userColumns + ` FROM users`
	if !includeDeleted {
		q += ` WHERE is_deleted = false`
	}
	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) GetByEmail(email string) (*entity.User, error) {
	ctx := context.Background()
	return scanUser(r.pool.QueryRow(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE email = $1
	`, email))
}

func (r *UserRepository) GetOnlyDeleted() ([]entity.User, error) {
	ctx := context.Background()
	rows, err := r.pool.Query(ctx, `
		SELECT `+userColumns+`
		FROM users
		WHERE is_deleted = true
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *UserRepository) Update(u *entity.User) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `
		UPDATE users
		SET full_name = $1, email = $2, is_deleted = $3, last_modified_at = $4
		WHERE id = $5
	`, u.FullName, u.Email.Address(), u.IsDeleted, u.LastModifiedAt, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// Delete removes the row physically. The lifecycle service never calls
// this; soft deletion goes through Update.
func (r *UserRepository) Delete(u *entity.User) error {
	ctx := context.Background()
	res, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, u.ID)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func collectUsers(rows pgx.Rows) ([]entity.User, error) {
	var out []entity.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *u)
	}
	return out, rows.Err()
}

var _ repository.UserRepository = (*UserRepository)(nil)
