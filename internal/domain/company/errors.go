package company

import "errors"

var (
	ErrCompanyNotFound    = errors.New("company not found")
	ErrCompanyNameTaken   = errors.New("company name taken")
	ErrAdminUsernameTaken = errors.New("admin username taken")
	ErrAdminNotFound      = errors.New("company admin not found")
	ErrCompanyDeleted     = errors.New("company has been deleted")
)
