package employee

import "errors"

var (
	ErrEmployeeNotFound    = errors.New("employee not found")
	ErrEmployeeIDExists    = errors.New("employee ID already exists")
	ErrEmployeeNotDeleted  = errors.New("employee is not deleted")
	ErrEmployeeSoftDeleted = errors.New("employee ID belongs to a deleted employee, restore it instead")
)
