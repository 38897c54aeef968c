package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/device"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAuthenticator struct {
	device device.HardwareDevice
	err    error
}

func (s stubAuthenticator) Authenticate(ctx context.Context, deviceUID, secretKey string) (device.HardwareDevice, error) {
	return s.device, s.err
}

func serveDevice(authn DeviceAuthenticator) *httptest.ResponseRecorder {
	h := DeviceAuth(authn)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		d, _ := DeviceFromContext(r.Context())
		w.Write([]byte(d.DeviceUID))
	}))
	req := httptest.NewRequest(http.MethodPost, "/api/v1/hardware/push-log", nil)
	req.Header.Set(HeaderDeviceID, "ZK_AAAA1111")
	req.Header.Set(HeaderDeviceKey, "secret")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestDeviceAuth(t *testing.T) {
	t.Run("unauthorized device gets the terminal body", func(t *testing.T) {
		w := serveDevice(stubAuthenticator{err: device.ErrDeviceUnauthorized})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		var body device.PushLogResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
		assert.Equal(t, device.Denied("Unauthorized Device"), body)
	})

	t.Run("lookup failure is a server error", func(t *testing.T) {
		w := serveDevice(stubAuthenticator{err: errors.New("connection refused")})
		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})

	t.Run("known device reaches the handler", func(t *testing.T) {
		w := serveDevice(stubAuthenticator{device: device.HardwareDevice{DeviceUID: "ZK_AAAA1111", CompanyID: 7}})
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "ZK_AAAA1111", w.Body.String())
	})
}
