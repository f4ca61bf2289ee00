package models

import (
	"fmt"
	"time"
)

// SystemSource is the device id used for log entries not tied to a device.
const SystemSource = "SISTEMA"

// EventLogEntry is a single entry of the registry's event log.
type EventLogEntry struct {
	EventID    string    `json:"event_id"`
	OccurredAt time.Time `json:"occurred_at"`
	DeviceID   string    `json:"device_id"` // device id or SystemSource
	Message    string    `json:"message"`
}

// String renders the entry in the text protocol's log line format.
func (e EventLogEntry) String() string {
	return fmt.Sprintf("[%s] %s: %s", e.OccurredAt.Format("2006-01-02 15:04:05"), e.DeviceID, e.Message)
}
