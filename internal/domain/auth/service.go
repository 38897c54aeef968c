package auth

import "context"

type AuthService interface {
	LoginSuperAdmin(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// LoginCompanyAdmin fails with ErrCompanySuspended when the tenant is not active.
	LoginCompanyAdmin(ctx context.Context, req LoginRequest) (TokenResponse, error)
	// LoginEmployee binds the device on first login and rejects any other device afterwards.
	LoginEmployee(ctx context.Context, req EmployeeLoginRequest) (TokenResponse, error)
	// BootstrapSuperAdmin creates the platform owner account when none exists.
	BootstrapSuperAdmin(ctx context.Context, username, password string) error
}
