package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/auth"
	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
)

const (
	HeaderDeviceID  = "X-DEVICE-ID"
	HeaderDeviceKey = "X-DEVICE-KEY"
)

type DeviceAuthenticator interface {
	Authenticate(ctx context.Context, deviceUID, secretKey string) (device.HardwareDevice, error)
}

type deviceKey struct{}

// DeviceAuth authenticates door terminals by header pair. Every credential failure gets the same 401
// in the terminal's own {status, open_door, message} shape.
func DeviceAuth(authenticator DeviceAuthenticator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			d, err := authenticator.Authenticate(r.Context(), r.Header.Get(HeaderDeviceID), r.Header.Get(HeaderDeviceKey))
			if errors.Is(err, device.ErrDeviceUnauthorized) {
				response.Raw(w, http.StatusUnauthorized, device.Denied("Unauthorized Device"))
				return
			}
			if err != nil {
				response.HandleError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), deviceKey{}, d)
			ctx = auth.WithIdentity(ctx, auth.Device{DeviceUID: d.DeviceUID, CompanyID: d.CompanyID})
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// DeviceFromContext returns the terminal placed by DeviceAuth.
func DeviceFromContext(ctx context.Context) (device.HardwareDevice, bool) {
	d, ok := ctx.Value(deviceKey{}).(device.HardwareDevice)
	return d, ok
}
