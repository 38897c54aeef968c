package auth

import (
	"context"
	"time"
)

type SuperAdminAccount struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
}

type SuperAdminRepository interface {
	GetByUsername(ctx context.Context, username string) (SuperAdminAccount, error)
	Create(ctx context.Context, account SuperAdminAccount) (SuperAdminAccount, error)
	Count(ctx context.Context) (int64, error)
}
