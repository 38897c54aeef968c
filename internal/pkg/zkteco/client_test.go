package zkteco

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFetchPunches_NotConfigured(t *testing.T) {
	c := NewClient("", "http://unused")
	assert.False(t, c.Configured())

	_, err := c.FetchPunches(context.Background(), time.Now())
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestFetchPunches_SendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer secret-key", r.Header.Get("Authorization"))
		assert.Equal(t, "/iclock/api/transactions/", r.URL.Path)
		assert.Equal(t, "2024-03-10T03:00:00Z", r.URL.Query().Get("start_time"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"data":[{"terminal_sn":"ZK_0A1B2C3D","emp_code":"E-001","punch_time":"2024-03-10T03:05:00Z"}]}`))
	}))
	defer srv.Close()

	c := NewClient("secret-key", srv.URL+"/")
	punches, err := c.FetchPunches(context.Background(), time.Date(2024, 3, 10, 3, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, punches, 1)
	assert.Equal(t, "ZK_0A1B2C3D", punches[0].DeviceSN)
	assert.Equal(t, "E-001", punches[0].EmployeeCode)
	assert.True(t, punches[0].PunchTime.Equal(time.Date(2024, 3, 10, 3, 5, 0, 0, time.UTC)))
}

func TestFetchPunches_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "token expired", http.StatusUnauthorized)
	}))
	defer srv.Close()

	_, err := NewClient("k", srv.URL).FetchPunches(context.Background(), time.Now())
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "token expired", apiErr.Message)
}
