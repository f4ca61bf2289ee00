package service

import (
	"domotica/internal/models"
	"domotica/internal/registry"
)

// EventLogService reads the registry's capped event history.
type EventLogService struct {
	reg *registry.Registry
}

func NewEventLogService(reg *registry.Registry) *EventLogService {
	return &EventLogService{reg: reg}
}

// Recent returns up to limit entries, newest last. limit <= 0 returns the
// whole retained history.
func (s *EventLogService) Recent(limit int) []models.EventLogEntry {
	return s.reg.RecentLog(limit)
}
