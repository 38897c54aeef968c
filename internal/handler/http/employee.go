package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/employee"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type EmployeeHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Create(w http.ResponseWriter, r *http.Request)
	Restore(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ResetDevice(w http.ResponseWriter, r *http.Request)
}

type employeeHandlerImpl struct {
	employeeService employee.EmployeeService
}

func NewEmployeeHandler(employeeService employee.EmployeeService) EmployeeHandler {
	return &employeeHandlerImpl{
		employeeService: employeeService,
	}
}

// List implements EmployeeHandler.
func (e *employeeHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	result, err := e.employeeService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Get implements EmployeeHandler.
func (e *employeeHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	result, err := e.employeeService.Get(r.Context(), chi.URLParam(r, "employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Create implements EmployeeHandler.
func (e *employeeHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := e.employeeService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Employee Added", result)
}

// Restore implements EmployeeHandler.
func (e *employeeHandlerImpl) Restore(w http.ResponseWriter, r *http.Request) {
	var req employee.CreateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := e.employeeService.Restore(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee Restored", result)
}

// Update implements EmployeeHandler.
func (e *employeeHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req employee.UpdateEmployeeRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.EmployeeID = chi.URLParam(r, "employee_id")

	result, err := e.employeeService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee updated", result)
}

// Delete implements EmployeeHandler.
func (e *employeeHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := e.employeeService.Delete(r.Context(), chi.URLParam(r, "employee_id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Employee deleted", nil)
}

// ResetDevice implements EmployeeHandler.
func (e *employeeHandlerImpl) ResetDevice(w http.ResponseWriter, r *http.Request) {
	if err := e.employeeService.ResetDevice(r.Context(), chi.URLParam(r, "employee_id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Device binding reset", nil)
}
