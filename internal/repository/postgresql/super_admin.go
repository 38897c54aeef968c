package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type superAdminRepositoryImpl struct {
	db *database.DB
}

func NewSuperAdminRepository(db *database.DB) auth.SuperAdminRepository {
	return &superAdminRepositoryImpl{db: db}
}

func (s *superAdminRepositoryImpl) GetByUsername(ctx context.Context, username string) (auth.SuperAdminAccount, error) {
	q := GetQuerier(ctx, s.db)

	query := `SELECT id, username, password_hash, created_at FROM super_admins WHERE username = $1`

	var a auth.SuperAdminAccount
	err := q.QueryRow(ctx, query, username).Scan(&a.ID, &a.Username, &a.PasswordHash, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return auth.SuperAdminAccount{}, auth.ErrInvalidCredentials
		}
		return auth.SuperAdminAccount{}, fmt.Errorf("failed to get super admin by username: %w", err)
	}
	return a, nil
}

func (s *superAdminRepositoryImpl) Create(ctx context.Context, account auth.SuperAdminAccount) (auth.SuperAdminAccount, error) {
	q := GetQuerier(ctx, s.db)

	query := `
		INSERT INTO super_admins (username, password_hash)
		VALUES ($1, $2)
		RETURNING id, created_at
	`
	err := q.QueryRow(ctx, query, account.Username, account.PasswordHash).Scan(&account.ID, &account.CreatedAt)
	if err != nil {
		return auth.SuperAdminAccount{}, fmt.Errorf("failed to create super admin: %w", err)
	}
	return account, nil
}

func (s *superAdminRepositoryImpl) Count(ctx context.Context) (int64, error) {
	q := GetQuerier(ctx, s.db)

	var n int64
	if err := q.QueryRow(ctx, `SELECT COUNT(*) FROM super_admins`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count super admins: %w", err)
	}
	return n, nil
}
