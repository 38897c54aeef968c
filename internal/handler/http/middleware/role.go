package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
)

func requireIdentity(check func(ctx context.Context) error) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := check(r.Context()); err != nil {
				response.HandleError(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireSuperAdmin requires the platform owner
func RequireSuperAdmin(next http.Handler) http.Handler {
	return requireIdentity(func(ctx context.Context) error {
		_, err := auth.SuperAdminFromContext(ctx)
		return err
	})(next)
}

// RequireCompanyAdmin requires a company admin
func RequireCompanyAdmin(next http.Handler) http.Handler {
	return requireIdentity(func(ctx context.Context) error {
		_, err := auth.CompanyAdminFromContext(ctx)
		return err
	})(next)
}

// RequireEmployee requires an employee of some company
func RequireEmployee(next http.Handler) http.Handler {
	return requireIdentity(func(ctx context.Context) error {
		_, err := auth.EmployeeFromContext(ctx)
		return err
	})(next)
}

// RequireAdmin accepts a company admin or the platform owner.
func RequireAdmin(next http.Handler) http.Handler {
	return requireIdentity(func(ctx context.Context) error {
		identity, ok := auth.IdentityFromContext(ctx)
		if !ok {
			return auth.ErrUnauthenticated
		}
		switch identity.(type) {
		case auth.SuperAdmin, auth.CompanyAdmin:
			return nil
		default:
			return auth.ErrForbidden
		}
	})(next)
}
