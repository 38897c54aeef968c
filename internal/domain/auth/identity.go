package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
)

// Identity is the authenticated caller. Exactly one of SuperAdmin, CompanyAdmin,
// Employee or Device.
type Identity interface {
	// Subject is the identifier carried in the token "sub" claim (or device UID).
	Subject() string
	isIdentity()
}

type SuperAdmin struct {
	Username string
}

type CompanyAdmin struct {
	Username  string
	CompanyID int64
}

type Employee struct {
	EmployeeID string
	CompanyID  int64
}

// Device is a door terminal authenticated by header secret, never by token.
type Device struct {
	DeviceUID string
	CompanyID int64
}

func (SuperAdmin) isIdentity()   {}
func (CompanyAdmin) isIdentity() {}
func (Employee) isIdentity()     {}
func (Device) isIdentity()       {}

func (s SuperAdmin) Subject() string   { return s.Username }
func (c CompanyAdmin) Subject() string { return c.Username }
func (e Employee) Subject() string     { return e.EmployeeID }
func (d Device) Subject() string       { return d.DeviceUID }

const (
	RoleSuperAdmin   = "super_admin"
	RoleCompanyAdmin = "company_admin"
	RoleEmployee     = "employee"
)

type identityKey struct{}

// WithIdentity stores id on ctx.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the identity placed by the auth middleware.
func IdentityFromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// IdentityFromClaims builds the identity variant named by the "role" claim.
func IdentityFromClaims(claims map[string]interface{}) (Identity, error) {
	if tokenType, _ := claims["type"].(string); tokenType != "access" {
		return nil, ErrInvalidToken
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, ErrInvalidToken
	}

	role, _ := claims["role"].(string)
	switch role {
	case RoleSuperAdmin:
		return SuperAdmin{Username: sub}, nil
	case RoleCompanyAdmin, RoleEmployee:
		companyID, err := claimInt64(claims["company_id"])
		if err != nil || companyID <= 0 {
			return nil, ErrInvalidToken
		}
		if role == RoleCompanyAdmin {
			return CompanyAdmin{Username: sub, CompanyID: companyID}, nil
		}
		return Employee{EmployeeID: sub, CompanyID: companyID}, nil
	default:
		return nil, ErrInvalidToken
	}
}

// claimInt64 accepts the numeric forms a JSON decoder may hand back.
func claimInt64(v interface{}) (int64, error) {
	switch n := v.(type) {
	case float64:
		return int64(n), nil
	case int64:
		return n, nil
	case int:
		return int64(n), nil
	case json.Number:
		return n.Int64()
	case string:
		return strconv.ParseInt(n, 10, 64)
	default:
		return 0, fmt.Errorf("unexpected company_id claim type %T", v)
	}
}

// SuperAdminFromContext requires the platform owner identity.
func SuperAdminFromContext(ctx context.Context) (SuperAdmin, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return SuperAdmin{}, ErrUnauthenticated
	}
	s, ok := id.(SuperAdmin)
	if !ok {
		return SuperAdmin{}, ErrForbidden
	}
	return s, nil
}

// CompanyAdminFromContext requires a company admin identity.
func CompanyAdminFromContext(ctx context.Context) (CompanyAdmin, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return CompanyAdmin{}, ErrUnauthenticated
	}
	c, ok := id.(CompanyAdmin)
	if !ok {
		return CompanyAdmin{}, ErrForbidden
	}
	return c, nil
}

// EmployeeFromContext requires an employee identity.
func EmployeeFromContext(ctx context.Context) (Employee, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return Employee{}, ErrUnauthenticated
	}
	e, ok := id.(Employee)
	if !ok {
		return Employee{}, ErrForbidden
	}
	return e, nil
}
