package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/middleware"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
)

// HardwareHandler serves door terminals. Business outcomes are always 200 with open_door set.
type HardwareHandler interface {
	PushLog(w http.ResponseWriter, r *http.Request)
}

type hardwareHandlerImpl struct {
	deviceService device.DeviceService
}

func NewHardwareHandler(deviceService device.DeviceService) HardwareHandler {
	return &hardwareHandlerImpl{
		deviceService: deviceService,
	}
}

// PushLog implements HardwareHandler.
func (h *hardwareHandlerImpl) PushLog(w http.ResponseWriter, r *http.Request) {
	dev, ok := middleware.DeviceFromContext(r.Context())
	if !ok {
		response.Raw(w, http.StatusUnauthorized, device.Denied("Unauthorized Device"))
		return
	}

	var req device.PushLogRequest
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Warn("Hardware payload decode error", "device_uid", dev.DeviceUID, "error", err)
		response.Raw(w, http.StatusOK, device.Denied("Bad Request"))
		return
	}

	response.Raw(w, http.StatusOK, h.deviceService.PushLog(r.Context(), dev, req))
}
