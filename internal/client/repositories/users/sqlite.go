package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/magicletters/internal/client/models"
	"github.com/dmitrijs2005/magicletters/internal/common"
	"github.com/dmitrijs2005/magicletters/internal/dbx"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const userColumns = `id, role, name, COALESCE(email, ''), phone, is_protected, created_at, updated_at`

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	if !errors.As(err, &se) {
		return false
	}
	switch se.Code() {
	case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
		return true
	}
	return false
}

func (r *SQLiteRepository) Create(ctx context.Context, u models.User) error {
	now := common.Now()
	if u.CreatedAt.IsZero() {
		u.CreatedAt = now
	}
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO users (id, role, name, email, phone, is_protected, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, string(u.Role), u.Name, u.Email, u.Phone, boolInt(u.Protected),
		common.FormatTime(u.CreatedAt), common.FormatTime(now))
	if isUniqueViolation(err) {
		return fmt.Errorf("user with phone %s: %w", u.Phone, common.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) GetByPhone(ctx context.Context, phone string) (*models.User, error) {
	return r.getOne(ctx, `SELECT `+userColumns+` FROM users WHERE phone = ?`, phone)
}

func (r *SQLiteRepository) getOne(ctx context.Context, query string, arg string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRowContext(ctx, query, arg))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return u, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanUser(row scanner) (*models.User, error) {
	var (
		u                models.User
		role             string
		created, updated string
	)
	if err := row.Scan(&u.ID, &role, &u.Name, &u.Email, &u.Phone, &u.Protected, &created, &updated); err != nil {
		return nil, err
	}
	u.Role = models.Role(role)
	var err error
	if u.CreatedAt, err = common.ParseTime(created); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = common.ParseTime(updated); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SQLiteRepository) ListByRole(ctx context.Context, role models.Role) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY name COLLATE NOCASE, id`, string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var result []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, u models.User) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET name = ?, email = ?, phone = ?, updated_at = ? WHERE id = ?`,
		u.Name, u.Email, u.Phone, common.FormatTime(common.Now()), u.ID)
	if isUniqueViolation(err) {
		return fmt.Errorf("user with phone %s: %w", u.Phone, common.ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("user %s: %w", u.ID, common.ErrNotFound)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) error {
	return dbx.InTx(ctx, r.db, func(ctx context.Context, tx dbx.DBTX) error {
		var protected bool
		err := tx.QueryRowContext(ctx, `SELECT is_protected FROM users WHERE id = ?`, id).Scan(&protected)
		if errors.Is(err, sql.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to get user: %w", err)
		}
		if protected {
			return fmt.Errorf("user %s: %w", id, common.ErrProtectedUser)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM session WHERE user_id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete session: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, id); err != nil {
			return fmt.Errorf("failed to delete user: %w", err)
		}
		return nil
	})
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
