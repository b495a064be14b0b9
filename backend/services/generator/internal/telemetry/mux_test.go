package telemetry

import (
	"encoding/json"
	"net/http"
	"strconv"

	"plugsim/backend/libs/shelly"
)

func newMeterMux(device *shelly.Device) *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /meter/{id}", func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.PathValue("id"))
		if err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		doc, err := device.Meter(id)
		if err != nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		_ = json.NewEncoder(w).Encode(doc)
	})
	return mux
}
