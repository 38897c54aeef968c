package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
)

// SaasHandler serves the platform owner console.
type SaasHandler interface {
	CreateCompany(w http.ResponseWriter, r *http.Request)
	ListCompanies(w http.ResponseWriter, r *http.Request)
	UpdateCompany(w http.ResponseWriter, r *http.Request)
	DeleteCompany(w http.ResponseWriter, r *http.Request)
	ListHardware(w http.ResponseWriter, r *http.Request)
	UpdateHardware(w http.ResponseWriter, r *http.Request)
	SyncZKTeco(w http.ResponseWriter, r *http.Request)
}

type saasHandlerImpl struct {
	companyService company.CompanyService
	deviceService  device.DeviceService
}

func NewSaasHandler(companyService company.CompanyService, deviceService device.DeviceService) SaasHandler {
	return &saasHandlerImpl{
		companyService: companyService,
		deviceService:  deviceService,
	}
}

// CreateCompany implements SaasHandler.
func (s *saasHandlerImpl) CreateCompany(w http.ResponseWriter, r *http.Request) {
	var req company.ProvisionCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := s.companyService.Provision(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Company created", result)
}

// ListCompanies implements SaasHandler.
func (s *saasHandlerImpl) ListCompanies(w http.ResponseWriter, r *http.Request) {
	result, err := s.companyService.List(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateCompany implements SaasHandler.
func (s *saasHandlerImpl) UpdateCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req company.UpdateCompanyRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := s.companyService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Company updated", result)
}

// DeleteCompany implements SaasHandler.
func (s *saasHandlerImpl) DeleteCompany(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	if err := s.companyService.Delete(r.Context(), id); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Company deleted", nil)
}

// ListHardware implements SaasHandler.
func (s *saasHandlerImpl) ListHardware(w http.ResponseWriter, r *http.Request) {
	result, err := s.deviceService.ListAllDevices(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateHardware implements SaasHandler.
func (s *saasHandlerImpl) UpdateHardware(w http.ResponseWriter, r *http.Request) {
	id, ok := int64Param(w, r, "id")
	if !ok {
		return
	}

	var req device.UpdateHardwareRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	req.ID = id

	result, err := s.deviceService.UpdateHardware(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Hardware updated", result)
}

// SyncZKTeco implements SaasHandler.
func (s *saasHandlerImpl) SyncZKTeco(w http.ResponseWriter, r *http.Request) {
	result, err := s.deviceService.SyncZKTeco(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, result.Message, result)
}
