package service

import (
	"context"
	"math"
	"time"

	"domotica/internal/models"
	"domotica/internal/registry"
)

// DriftRateCPerSec is how fast the simulated room temperature approaches
// the thermostat target.
const DriftRateCPerSec = 0.1

// SimulatorService nudges the thermostat's measured temperature toward its
// target over time, so telemetry shows a living value instead of a constant.
type SimulatorService struct {
	reg *registry.Registry
}

func NewSimulatorService(reg *registry.Registry) *SimulatorService {
	return &SimulatorService{reg: reg}
}

// Run ticks at the given interval until ctx is cancelled.
func (s *SimulatorService) Run(ctx context.Context, tick time.Duration) {
	t := time.NewTicker(tick)
	defer t.Stop()
	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			elapsed := now.Sub(last).Seconds()
			last = now
			s.step(elapsed)
		}
	}
}

// step moves the measured temperature toward the target by at most
// rate*elapsed degrees, snapping when the gap is smaller than the step.
func (s *SimulatorService) step(elapsed float64) {
	var thermostat *models.Device
	for _, d := range s.reg.List() {
		if d.Type == models.TypeThermostat {
			dev := d
			thermostat = &dev
			break
		}
	}
	if thermostat == nil {
		return
	}
	gap := thermostat.TargetTemperature - thermostat.Temperature
	if gap == 0 {
		return
	}
	step := DriftRateCPerSec * elapsed
	next := thermostat.TargetTemperature
	if math.Abs(gap) > step {
		if gap > 0 {
			next = thermostat.Temperature + step
		} else {
			next = thermostat.Temperature - step
		}
	}
	_ = s.reg.SetCurrentTemperature(next)
}
