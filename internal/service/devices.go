package service

import (
	"fmt"

	"domotica/internal/models"
	"domotica/internal/registry"
)

// Domain errors, shared with the registry so callers can match either layer
// with errors.Is.
var (
	ErrNotFound        = registry.ErrNotFound
	ErrInvalidArgument = registry.ErrInvalidArgument
)

// DeviceService validates command values and forwards them to the registry.
// The registry is never called with an out-of-range or malformed value.
type DeviceService struct {
	reg *registry.Registry
}

func NewDeviceService(reg *registry.Registry) *DeviceService {
	return &DeviceService{reg: reg}
}

func (s *DeviceService) SetPower(id, state string) error {
	if state != models.StateOn && state != models.StateOff {
		return fmt.Errorf("%w: state must be ON or OFF", ErrInvalidArgument)
	}
	return s.reg.SetPower(id, state)
}

func (s *DeviceService) SetAutoOff(id string, seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("%w: seconds must be >= 0", ErrInvalidArgument)
	}
	return s.reg.SetAutoOff(id, seconds)
}

func (s *DeviceService) SetBrightness(id string, brightness int) error {
	if brightness < 0 || brightness > 100 {
		return fmt.Errorf("%w: brightness must be between 0 and 100", ErrInvalidArgument)
	}
	return s.reg.SetBrightness(id, brightness)
}

func (s *DeviceService) SetColor(id, color string) error {
	if !ValidColor(color) {
		return fmt.Errorf("%w: color must match #RRGGBB", ErrInvalidArgument)
	}
	return s.reg.SetColor(id, color)
}

func (s *DeviceService) SetCurtainPosition(position int) error {
	if position < 0 || position > 100 {
		return fmt.Errorf("%w: position must be between 0 and 100", ErrInvalidArgument)
	}
	return s.reg.SetCurtainPosition(position)
}

func (s *DeviceService) SetTargetTemperature(target float64) error {
	if target < registry.MinTargetTempC || target > registry.MaxTargetTempC {
		return fmt.Errorf("%w: temperature must be between %.0f and %.0f", ErrInvalidArgument,
			registry.MinTargetTempC, registry.MaxTargetTempC)
	}
	return s.reg.SetTargetTemperature(target)
}

// ValidColor reports whether s is a '#' followed by six hex digits.
func ValidColor(s string) bool {
	if len(s) != 7 || s[0] != '#' {
		return false
	}
	for _, c := range s[1:] {
		switch {
		case c >= '0' && c <= '9', c >= 'a' && c <= 'f', c >= 'A' && c <= 'F':
		default:
			return false
		}
	}
	return true
}
