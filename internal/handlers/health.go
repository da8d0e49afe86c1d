package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// HealthResponse describes health payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
	Error     string    `json:"error,omitempty"`
}

// Pinger checks a dependency.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

// Ping calls f.
func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler returns OK response with metadata.
func HealthHandler(service string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeHealth(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Service:   service,
			Timestamp: time.Now().UTC(),
		})
	}
}

// ReadyHandler reports unavailable while any dependency fails its ping.
func ReadyHandler(service string, deps ...Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		for _, dep := range deps {
			if err := dep.Ping(ctx); err != nil {
				writeHealth(w, http.StatusServiceUnavailable, HealthResponse{
					Status:    "unavailable",
					Service:   service,
					Timestamp: time.Now().UTC(),
					Error:     err.Error(),
				})
				return
			}
		}
		writeHealth(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Service:   service,
			Timestamp: time.Now().UTC(),
		})
	}
}

func writeHealth(w http.ResponseWriter, status int, resp HealthResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
