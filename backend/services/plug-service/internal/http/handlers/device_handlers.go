package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"plugsim/backend/libs/shelly"
)

// Device is the plug whose documents are served.
type Device interface {
	Settings() shelly.SettingsDoc
	RelaySettings(id int) shelly.RelaySettingsDoc
	Status() shelly.StatusDoc
	Meter(id int) (shelly.MeterDoc, error)
	Relay(id int) shelly.RelayDoc
}

// DeviceHandlers serves the Shelly Plug S endpoints.
type DeviceHandlers struct {
	device Device
	logger *zap.Logger
}

// NewDeviceHandlers returns handlers bound to device.
func NewDeviceHandlers(device Device, logger *zap.Logger) *DeviceHandlers {
	return &DeviceHandlers{device: device, logger: logger}
}

// Settings handles GET /settings.
func (h *DeviceHandlers) Settings(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.device.Settings())
}

// RelaySettings handles PUT /settings/relay/{id}.
func (h *DeviceHandlers) RelaySettings(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.device.RelaySettings(id))
}

// Status handles GET /status.
func (h *DeviceHandlers) Status(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.device.Status())
}

// Meter handles GET /meter/{id}.
func (h *DeviceHandlers) Meter(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	doc, err := h.device.Meter(id)
	if err != nil {
		if errors.Is(err, shelly.ErrMeterUnavailable) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("meter read failed", zap.Int("meter_id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "meter read failed")
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// Relay handles GET /relay/{id}.
func (h *DeviceHandlers) Relay(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, h.device.Relay(id))
}

// NewHealthHandler returns GET /health handler.
func NewHealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
