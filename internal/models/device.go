package models

import (
	"fmt"
	"strconv"
	"time"
)

// Device types as they appear on the wire.
const (
	TypeLight      = "luz"
	TypeOutlet     = "enchufe"
	TypeCurtain    = "cortinas"
	TypeThermostat = "termostato"
)

// Power states. Devices without an ON/OFF state report StateNA and never
// transition.
const (
	StateOn  = "ON"
	StateOff = "OFF"
	StateNA  = "N/A"
)

// Device is one controllable unit. ID and Type are fixed at startup; the
// remaining fields are mutated only by the registry, and only the subset
// that applies to the device's type is ever meaningful.
type Device struct {
	ID          string    `json:"id"`
	Type        string    `json:"type"`
	State       string    `json:"estado"`
	AutoOff     int       `json:"auto_off"` // configured auto-off seconds, 0 = disabled
	LastChanged time.Time `json:"ultimo_cambio"`

	Brightness        int     `json:"brightness"`         // 0-100, lights only
	Color             string  `json:"color"`              // #RRGGBB, lights only
	Curtains          int     `json:"curtains"`           // 0-100 position, curtain only
	Temperature       float64 `json:"temperature"`        // °C, thermostat only
	TargetTemperature float64 `json:"target_temperature"` // °C, thermostat only
}

// NewDevice builds a device of the given type with its startup defaults.
func NewDevice(id, deviceType string) Device {
	d := Device{
		ID:          id,
		Type:        deviceType,
		State:       StateOff,
		Color:       "#000000",
		LastChanged: time.Now(),
	}
	switch deviceType {
	case TypeLight:
		d.Brightness = 40
		d.Color = "#ffffff"
	case TypeCurtain:
		d.State = StateNA
		d.Curtains = 50
	case TypeThermostat:
		d.State = StateNA
		d.Temperature = 19
		d.TargetTemperature = 21
	}
	return d
}

// Switchable reports whether the device has an ON/OFF power state.
func (d Device) Switchable() bool {
	switch d.Type {
	case TypeLight, TypeOutlet:
		return true
	default:
		return false
	}
}

// ProtocolString renders the device for the text protocol LIST response:
// id,estado,auto_off,brightness,color,curtains,temp,target_temp
func (d Device) ProtocolString() string {
	return fmt.Sprintf("%s,%s,%d,%d,%s,%d,%s,%s",
		d.ID, d.State, d.AutoOff, d.Brightness, d.Color, d.Curtains,
		formatTemp(d.Temperature), formatTemp(d.TargetTemperature))
}

func formatTemp(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Snapshot is the telemetry payload broadcast on the datagram channel and
// pushed on the websocket: the full device set at one instant.
type Snapshot struct {
	Timestamp time.Time `json:"timestamp"`
	Devices   []Device  `json:"devices"`
}
