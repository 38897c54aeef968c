package http

import (
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/attendance"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	// Employee endpoints
	Me(w http.ResponseWriter, r *http.Request)
	History(w http.ResponseWriter, r *http.Request)
	CheckIn(w http.ResponseWriter, r *http.Request)
	UnlockDoor(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	EmergencyCheckout(w http.ResponseWriter, r *http.Request)
	SubmitLateReason(w http.ResponseWriter, r *http.Request)
	RequestShortLeave(w http.ResponseWriter, r *http.Request)
	ReturnFromShortLeave(w http.ResponseWriter, r *http.Request)

	// Company admin endpoints
	ManualAttendance(w http.ResponseWriter, r *http.Request)
	AuditAttendance(w http.ResponseWriter, r *http.Request)
	AuditShortLeaves(w http.ResponseWriter, r *http.Request)
	EmployeeHistory(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// Me implements AttendanceHandler.
func (h *attendanceHandlerImpl) Me(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.Today(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// History implements AttendanceHandler.
func (h *attendanceHandlerImpl) History(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.History(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	var req attendance.CheckInRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, result.Message, result)
}

// UnlockDoor implements AttendanceHandler.
func (h *attendanceHandlerImpl) UnlockDoor(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.UnlockDoor(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Door unlocked", result)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.CheckOut(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Checked Out", result)
}

// EmergencyCheckout implements AttendanceHandler.
func (h *attendanceHandlerImpl) EmergencyCheckout(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.EmergencyCheckout(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Emergency checkout recorded", result)
}

// SubmitLateReason implements AttendanceHandler.
func (h *attendanceHandlerImpl) SubmitLateReason(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.SubmitLateReason(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Late reason saved", result)
}

// RequestShortLeave implements AttendanceHandler.
func (h *attendanceHandlerImpl) RequestShortLeave(w http.ResponseWriter, r *http.Request) {
	var req attendance.ReasonRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.RequestShortLeave(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Short leave started", result)
}

// ReturnFromShortLeave implements AttendanceHandler.
func (h *attendanceHandlerImpl) ReturnFromShortLeave(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.ReturnFromShortLeave(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Welcome back", result)
}

// ManualAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) ManualAttendance(w http.ResponseWriter, r *http.Request) {
	var req attendance.ManualAttendanceRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := h.attendanceService.ManualAttendance(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Attendance marked", result)
}

// AuditAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) AuditAttendance(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.AuditAttendance(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// AuditShortLeaves implements AttendanceHandler.
func (h *attendanceHandlerImpl) AuditShortLeaves(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.AuditShortLeaves(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// EmployeeHistory implements AttendanceHandler.
func (h *attendanceHandlerImpl) EmployeeHistory(w http.ResponseWriter, r *http.Request) {
	result, err := h.attendanceService.EmployeeHistory(r.Context(), chi.URLParam(r, "employee_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}
