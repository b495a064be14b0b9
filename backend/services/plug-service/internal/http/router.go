package httpserver

import (
	"net/http"

	"plugsim/backend/services/plug-service/internal/http/handlers"
)

// Routes collects the plug endpoints.
type Routes struct {
	Device       *handlers.DeviceHandlers
	StatusStream http.HandlerFunc
	Health       http.HandlerFunc
}

// NewRouter wires the Shelly Plug S surface. auth guards everything except /health.
func NewRouter(routes Routes, auth func(http.Handler) http.Handler) http.Handler {
	if auth == nil {
		auth = func(h http.Handler) http.Handler { return h }
	}
	mux := http.NewServeMux()

	if routes.Health != nil {
		mux.Handle("/health", method(http.MethodGet, routes.Health))
	}
	if d := routes.Device; d != nil {
		mux.Handle("/settings", auth(method(http.MethodGet, d.Settings)))
		mux.Handle("/settings/relay/{id}", auth(method(http.MethodPut, d.RelaySettings)))
		mux.Handle("/status", auth(method(http.MethodGet, d.Status)))
		mux.Handle("/meter/{id}", auth(method(http.MethodGet, d.Meter)))
		mux.Handle("/relay/{id}", auth(method(http.MethodGet, d.Relay)))
	}
	if routes.StatusStream != nil {
		mux.Handle("/ws/status", auth(method(http.MethodGet, routes.StatusStream)))
	}
	return mux
}

func method(expected string, handler http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != expected {
			w.Header().Set("Allow", expected)
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		handler(w, r)
	})
}
