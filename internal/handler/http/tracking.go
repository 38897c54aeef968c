package http

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/attendance-saas-go/internal/domain/tracking"
	"github.com/cmlabs-hris/attendance-saas-go/internal/handler/http/response"
	"github.com/cmlabs-hris/attendance-saas-go/internal/pkg/sse"
)

const streamKeepalive = 30 * time.Second

type TrackingHandler interface {
	Start(w http.ResponseWriter, r *http.Request)
	Stop(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Live(w http.ResponseWriter, r *http.Request)
	Stream(w http.ResponseWriter, r *http.Request)
}

type trackingHandlerImpl struct {
	trackingService tracking.TrackingService
}

func NewTrackingHandler(trackingService tracking.TrackingService) TrackingHandler {
	return &trackingHandlerImpl{
		trackingService: trackingService,
	}
}

// Start implements TrackingHandler.
func (t *trackingHandlerImpl) Start(w http.ResponseWriter, r *http.Request) {
	var req tracking.StartSessionRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	result, err := t.trackingService.StartSession(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Tracking started", result)
}

// Stop implements TrackingHandler.
func (t *trackingHandlerImpl) Stop(w http.ResponseWriter, r *http.Request) {
	closed, err := t.trackingService.StopSession(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Tracking stopped", map[string]int64{"closed_sessions": closed})
}

// Update implements TrackingHandler.
func (t *trackingHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req tracking.LocationUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	if err := t.trackingService.RecordLocation(r.Context(), req); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Location recorded", nil)
}

// Live implements TrackingHandler.
func (t *trackingHandlerImpl) Live(w http.ResponseWriter, r *http.Request) {
	result, err := t.trackingService.LiveLocations(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, result)
}

// Stream implements TrackingHandler. It serves the company live feed as Server-Sent Events.
func (t *trackingHandlerImpl) Stream(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		response.InternalServerError(w, "Streaming not supported")
		return
	}

	events, cleanup, err := t.trackingService.Subscribe(r.Context())
	if err != nil {
		response.HandleError(w, err)
		return
	}
	defer cleanup()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")

	fmt.Fprintf(w, "event: %s\ndata: {\"status\":\"connected\"}\n\n", sse.EventConnected)
	flusher.Flush()

	keepalive := time.NewTicker(streamKeepalive)
	defer keepalive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event.Data)
			if err != nil {
				slog.Warn("Dropping unencodable live event", "event", event.Event, "error", err)
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event.Event, data)
			flusher.Flush()

		case <-keepalive.C:
			fmt.Fprintf(w, "event: %s\ndata: {\"timestamp\":%d}\n\n", sse.EventPing, time.Now().Unix())
			flusher.Flush()

		case <-r.Context().Done():
			return
		}
	}
}
