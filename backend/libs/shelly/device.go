// Package shelly mocks the HTTP API of a Shelly Plug S. Every call builds a fresh document;
// numeric telemetry is redrawn from the configured random source each time.
package shelly

import (
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"plugsim/backend/libs/random"
)

const (
	// MeterID is the only meter a Plug S exposes.
	MeterID = 0

	maxPower          = 3500
	overpowerWatts    = 23.78
	meterTotal        = 4
	sensorCelsius     = 41.94
	sensorFahrenheit  = 107.5
	relaySource       = "http"
	defaultState      = "off"
	applianceGeneral  = "General"
	minTemperatureC   = 18.0
	maxTemperatureC   = 50.0
	minCounterWatts   = 30.0
	maxCounterWatts   = 100.0
	minSecondMinRatio = 1.5
	maxSecondMinRatio = 2.5
	minThirdMinRatio  = 1.1
	maxThirdMinRatio  = 1.3
)

// ErrMeterUnavailable is returned for any meter read that does not produce a reading.
var ErrMeterUnavailable = errors.New("meter unavailable")

// MeterError describes a failed meter read. StatusCode is set when the failure came over HTTP.
type MeterError struct {
	ID         int
	StatusCode int
}

func (e *MeterError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("meter %d: unexpected status %d", e.ID, e.StatusCode)
	}
	return fmt.Sprintf("meter %d is not available", e.ID)
}

func (e *MeterError) Unwrap() error {
	return ErrMeterUnavailable
}

// Device is a stateless Shelly Plug S.
type Device struct {
	rnd    random.Source
	logger *zap.Logger
}

// NewDevice returns a device drawing its telemetry from rnd.
func NewDevice(rnd random.Source, logger *zap.Logger) *Device {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Device{rnd: rnd, logger: logger}
}

// Settings returns the device settings document.
func (d *Device) Settings() SettingsDoc {
	return SettingsDoc{
		MaxPower:        maxPower,
		LEDPowerDisable: false,
		Actions: ActionsDoc{
			Active: false,
			Names:  []string{"btn_on_url", "out_on_url", "out_off_url"},
		},
		Relays: []RelaySettingsDoc{relaySettings(nil)},
	}
}

// RelaySettings returns the settings of relay id. The id is not range checked; it becomes the
// relay name.
func (d *Device) RelaySettings(id int) RelaySettingsDoc {
	name := strconv.Itoa(id)
	return relaySettings(&name)
}

func relaySettings(name *string) RelaySettingsDoc {
	return RelaySettingsDoc{
		Name:          name,
		ApplianceType: applianceGeneral,
		DefaultState:  defaultState,
		ScheduleRules: []string{},
	}
}

// Status returns the live relay, meter and temperature state.
func (d *Device) Status() StatusDoc {
	meter := MeterDoc{
		Power:     d.rnd.Uniform(minCounterWatts, maxCounterWatts),
		Overpower: overpowerWatts,
		IsValid:   true,
		Counters:  d.counters(),
		Total:     meterTotal,
	}
	relay := relayState(true)

	return StatusDoc{
		Relays:      []RelayDoc{relay},
		Meters:      []MeterDoc{meter},
		Temperature: d.rnd.Uniform(minTemperatureC, maxTemperatureC),
		Tmp: TemperatureDoc{
			Celsius:    sensorCelsius,
			Fahrenheit: sensorFahrenheit,
			IsValid:    true,
		},
	}
}

// Meter reads meter id. Only MeterID exists; any other id yields a *MeterError.
// The instantaneous power field is always 0 on this endpoint.
func (d *Device) Meter(id int) (MeterDoc, error) {
	d.logger.Debug("meter requested", zap.Int("meter_id", id))
	if id != MeterID {
		d.logger.Info("meter is not available", zap.Int("meter_id", id))
		return MeterDoc{}, &MeterError{ID: id}
	}

	return MeterDoc{
		Power:     0,
		Overpower: overpowerWatts,
		IsValid:   true,
		Timestamp: 0,
		Counters:  d.counters(),
		Total:     meterTotal,
	}, nil
}

// Relay returns the state of relay id, which is always off with no timer.
func (d *Device) Relay(id int) RelayDoc {
	d.logger.Debug("relay requested", zap.Int("relay_id", id))
	return relayState(false)
}

func relayState(on bool) RelayDoc {
	return RelayDoc{IsOn: on, Source: relaySource}
}

// counters draws the three chained trailing-window values.
func (d *Device) counters() [3]float64 {
	p1 := d.rnd.Uniform(minCounterWatts, maxCounterWatts)
	p2 := p1 * d.rnd.Uniform(minSecondMinRatio, maxSecondMinRatio)
	p3 := p2 * d.rnd.Uniform(minThirdMinRatio, maxThirdMinRatio)
	return [3]float64{p1, p2, p3}
}
