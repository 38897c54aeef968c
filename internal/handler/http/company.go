package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/company"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
)

// CompanyHandler serves the company admin console.
type CompanyHandler interface {
	GetSettings(w http.ResponseWriter, r *http.Request)
	UpdateGeofence(w http.ResponseWriter, r *http.Request)
	UpdateSchedule(w http.ResponseWriter, r *http.Request)
	ListDevices(w http.ResponseWriter, r *http.Request)
	ListDoorEvents(w http.ResponseWriter, r *http.Request)
	EmergencyOpen(w http.ResponseWriter, r *http.Request)
}

type companyHandlerImpl struct {
	companyService company.CompanyService
	deviceService  device.DeviceService
}

func NewCompanyHandler(companyService company.CompanyService, deviceService device.DeviceService) CompanyHandler {
	return &companyHandlerImpl{
		companyService: companyService,
		deviceService:  deviceService,
	}
}

// GetSettings implements CompanyHandler.
func (c *companyHandlerImpl) GetSettings(w http.ResponseWriter, r *http.Request) {
	result, err := c.companyService.GetSettings(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// UpdateGeofence implements CompanyHandler.
func (c *companyHandlerImpl) UpdateGeofence(w http.ResponseWriter, r *http.Request) {
	var req company.UpdateGeofenceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := c.companyService.UpdateGeofence(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Office Location Updated", result)
}

// UpdateSchedule implements CompanyHandler.
func (c *companyHandlerImpl) UpdateSchedule(w http.ResponseWriter, r *http.Request) {
	var req company.UpdateScheduleRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := c.companyService.UpdateSchedule(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Schedule Updated", result)
}

// ListDevices implements CompanyHandler.
func (c *companyHandlerImpl) ListDevices(w http.ResponseWriter, r *http.Request) {
	result, err := c.deviceService.ListCompanyDevices(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// ListDoorEvents implements CompanyHandler.
func (c *companyHandlerImpl) ListDoorEvents(w http.ResponseWriter, r *http.Request) {
	result, err := c.deviceService.ListDoorEvents(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// EmergencyOpen implements CompanyHandler. The platform owner route shares it.
func (c *companyHandlerImpl) EmergencyOpen(w http.ResponseWriter, r *http.Request) {
	var req device.EmergencyOpenRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := c.deviceService.EmergencyOpen(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Emergency Command Logged", result)
}
