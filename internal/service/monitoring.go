package service

import (
	"time"

	"domotica/internal/models"
	"domotica/internal/registry"
)

// MonitoringService serves read-only snapshots out of the registry.
type MonitoringService struct {
	reg *registry.Registry
}

func NewMonitoringService(reg *registry.Registry) *MonitoringService {
	return &MonitoringService{reg: reg}
}

func (s *MonitoringService) List() []models.Device {
	return s.reg.List()
}

func (s *MonitoringService) Get(id string) (models.Device, error) {
	return s.reg.Get(id)
}

// Snapshot is the telemetry payload: the full device set plus the instant
// it was taken.
func (s *MonitoringService) Snapshot() models.Snapshot {
	return models.Snapshot{
		Timestamp: time.Now(),
		Devices:   s.reg.List(),
	}
}
