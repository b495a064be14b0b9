// Package telemetry is where the generator gets meter readings from. The generator depends only
// on Source, so the device can be called in-process or over HTTP.
package telemetry

import (
	"context"
	"fmt"

	"plugsim/backend/libs/shelly"
)

// Source reads a plug meter. Failed reads wrap shelly.ErrMeterUnavailable.
type Source interface {
	ReadMeter(ctx context.Context, meterID int) (shelly.MeterDoc, error)
}

// InProcess calls a device directly.
type InProcess struct {
	device *shelly.Device
}

// NewInProcess returns a Source backed by device.
func NewInProcess(device *shelly.Device) *InProcess {
	return &InProcess{device: device}
}

// ReadMeter implements Source.
func (s *InProcess) ReadMeter(ctx context.Context, meterID int) (shelly.MeterDoc, error) {
	if err := ctx.Err(); err != nil {
		return shelly.MeterDoc{}, err
	}
	return s.device.Meter(meterID)
}

// MeterClient is the HTTP client surface the networked source needs.
type MeterClient interface {
	Meter(ctx context.Context, id int) (shelly.MeterDoc, error)
}

// HTTP reads the meter of a plug-service instance.
type HTTP struct {
	client MeterClient
}

// NewHTTP returns a Source backed by client.
func NewHTTP(client MeterClient) *HTTP {
	return &HTTP{client: client}
}

// ReadMeter implements Source.
func (s *HTTP) ReadMeter(ctx context.Context, meterID int) (shelly.MeterDoc, error) {
	doc, err := s.client.Meter(ctx, meterID)
	if err != nil {
		return shelly.MeterDoc{}, fmt.Errorf("telemetry: %w", err)
	}
	return doc, nil
}
