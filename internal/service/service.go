package service

import (
	"context"
	"time"

	"domotica/internal/models"
	"domotica/internal/registry"
)

// Devices exposes the control operations: power, auto-off and the
// type-specific parameters. Values are validated here before they reach
// the registry.
type Devices interface {
	SetPower(id, state string) error
	SetAutoOff(id string, seconds int) error
	SetBrightness(id string, brightness int) error
	SetColor(id, color string) error
	SetCurtainPosition(position int) error
	SetTargetTemperature(target float64) error
}

// Monitoring exposes read-only device state.
type Monitoring interface {
	List() []models.Device
	Get(id string) (models.Device, error)
	Snapshot() models.Snapshot
}

// EventLog exposes the registry's recent event history, newest last.
type EventLog interface {
	Recent(limit int) []models.EventLogEntry
}

// Authorization validates credentials against the static user table and
// issues/parses bearer tokens for the HTTP facade.
type Authorization interface {
	Login(username, password string) error
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (string, error)
}

// Simulator runs the background loop that drifts the thermostat's measured
// temperature toward its target. Stop via context cancellation.
type Simulator interface {
	Run(ctx context.Context, tick time.Duration)
}

// Service aggregates all sub-services.
type Service struct {
	Devices
	Monitoring
	EventLog
	Authorization
	Simulator
}

// NewService wires the registry into the concrete services.
func NewService(reg *registry.Registry, users map[string]string, signingKey string, tokenTTL time.Duration) (*Service, error) {
	auth, err := NewAuthService(users, signingKey, tokenTTL)
	if err != nil {
		return nil, err
	}
	return &Service{
		Devices:       NewDeviceService(reg),
		Monitoring:    NewMonitoringService(reg),
		EventLog:      NewEventLogService(reg),
		Authorization: auth,
		Simulator:     NewSimulatorService(reg),
	}, nil
}
