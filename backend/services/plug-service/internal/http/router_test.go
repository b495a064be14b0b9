package httpserver

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"plugsim/backend/libs/random"
	"plugsim/backend/libs/shelly"
	"plugsim/backend/services/plug-service/internal/http/handlers"
)

func newTestRouter(t *testing.T) http.Handler {
	logger := zaptest.NewLogger(t)
	device := shelly.NewDevice(random.New(0), logger)
	return NewRouter(Routes{
		Device: handlers.NewDeviceHandlers(device, logger),
		Health: handlers.NewHealthHandler(),
	}, nil)
}

func serve(h http.Handler, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestRouterSettings(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/settings")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var doc shelly.SettingsDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, 3500.0, doc.MaxPower)
	require.Len(t, doc.Relays, 1)
	assert.Nil(t, doc.Relays[0].Name)
}

func TestRouterRelaySettings(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodPut, "/settings/relay/5")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc shelly.RelaySettingsDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.NotNil(t, doc.Name)
	assert.Equal(t, "5", *doc.Name)

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodPut, "/settings/relay/abc").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(router, http.MethodGet, "/settings/relay/5").Code)
}

func TestRouterStatus(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/status")
	require.Equal(t, http.StatusOK, rec.Code)

	var doc shelly.StatusDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	require.Len(t, doc.Meters, 1)
	assert.GreaterOrEqual(t, doc.Meters[0].Counters[0], 30.0)
	assert.True(t, doc.Relays[0].IsOn)
}

func TestRouterMeter(t *testing.T) {
	router := newTestRouter(t)

	rec := serve(router, http.MethodGet, "/meter/0")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc shelly.MeterDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Zero(t, doc.Power)
	assert.GreaterOrEqual(t, doc.Counters[1], 1.5*doc.Counters[0])

	rec = serve(router, http.MethodGet, "/meter/1")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Contains(t, body["error"], "not available")

	assert.Equal(t, http.StatusBadRequest, serve(router, http.MethodGet, "/meter/zero").Code)
	assert.Equal(t, http.StatusMethodNotAllowed, serve(router, http.MethodPost, "/meter/0").Code)
}

func TestRouterRelay(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/relay/3")
	require.Equal(t, http.StatusOK, rec.Code)
	var doc shelly.RelayDoc
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.False(t, doc.IsOn)
	assert.Equal(t, "http", doc.Source)
}

func TestRouterHealth(t *testing.T) {
	rec := serve(newTestRouter(t), http.MethodGet, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
