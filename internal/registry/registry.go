// Package registry owns all device state and the event log. Every operation
// takes the registry's single lock for its full duration, so callers always
// observe atomic snapshots and auto-off expiry can never interleave with a
// manual state change.
package registry

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"domotica/internal/logger"
	"domotica/internal/models"

	"github.com/google/uuid"
)

// Domain errors surfaced by registry operations.
var (
	ErrNotFound        = errors.New("device not found")
	ErrInvalidArgument = errors.New("invalid argument")
)

// logCapacity bounds the event log; oldest entries are dropped first.
const logCapacity = 100

// Thermostat target bounds in °C.
const (
	MinTargetTempC = 16.0
	MaxTargetTempC = 30.0
)

// Registry is the process-wide owner of all devices. The inventory is fixed
// at construction; only field values change afterwards.
type Registry struct {
	log *logger.Logger

	mu      sync.Mutex
	devices map[string]*models.Device
	order   []string
	events  []models.EventLogEntry

	// One live auto-off timer per device at most. timerGen invalidates
	// callbacks of timers that were cancelled or superseded after firing.
	timers   map[string]*time.Timer
	timerGen map[string]uint64
}

// New builds a registry owning the given inventory, in insertion order.
func New(log *logger.Logger, inventory []models.Device) *Registry {
	r := &Registry{
		log:      log,
		devices:  make(map[string]*models.Device, len(inventory)),
		timers:   make(map[string]*time.Timer),
		timerGen: make(map[string]uint64),
	}
	for _, d := range inventory {
		if _, ok := r.devices[d.ID]; ok {
			continue
		}
		dev := d
		r.devices[dev.ID] = &dev
		r.order = append(r.order, dev.ID)
	}
	r.appendLog(models.SystemSource, "Dispositivos inicializados")
	return r
}

// Close cancels every pending auto-off timer. Devices keep their state.
func (r *Registry) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for id, t := range r.timers {
		t.Stop()
		r.timerGen[id]++
		delete(r.timers, id)
	}
}

// List returns snapshots of all devices in insertion order.
func (r *Registry) List() []models.Device {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Device, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.devices[id])
	}
	return out
}

// Get returns a snapshot of one device.
func (r *Registry) Get(id string) (models.Device, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return models.Device{}, ErrNotFound
	}
	return *d, nil
}

// SetPower switches a device ON or OFF. Any pending auto-off timer is
// cancelled and the configured auto-off is reset to zero.
func (r *Registry) SetPower(id, state string) error {
	if state != models.StateOn && state != models.StateOff {
		return fmt.Errorf("%w: state %q", ErrInvalidArgument, state)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok || !d.Switchable() {
		return ErrNotFound
	}
	r.cancelTimer(id)
	d.AutoOff = 0
	d.State = state
	d.LastChanged = time.Now()
	r.appendLog(id, "Estado cambiado a "+state)
	return nil
}

// SetAutoOff arms (seconds > 0) or disarms (seconds == 0) the deferred
// power-off for a device. Arming replaces any previous timer atomically.
func (r *Registry) SetAutoOff(id string, seconds int) error {
	if seconds < 0 {
		return fmt.Errorf("%w: seconds must be >= 0", ErrInvalidArgument)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok {
		return ErrNotFound
	}
	r.cancelTimer(id)
	d.AutoOff = seconds
	if seconds > 0 {
		gen := r.timerGen[id] + 1
		r.timerGen[id] = gen
		r.timers[id] = time.AfterFunc(time.Duration(seconds)*time.Second, func() {
			r.expireAutoOff(id, gen)
		})
		r.appendLog(id, fmt.Sprintf("Auto-apagado programado en %ds", seconds))
	} else {
		r.appendLog(id, "Auto-apagado cancelado")
	}
	return nil
}

// expireAutoOff runs on the timer goroutine when an armed auto-off elapses.
// A stale generation means the timer was cancelled or re-armed after firing;
// a device no longer ON was switched manually in the meantime. Both are
// silent no-ops.
func (r *Registry) expireAutoOff(id string, gen uint64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timerGen[id] != gen {
		return
	}
	delete(r.timers, id)
	d, ok := r.devices[id]
	if !ok || d.State != models.StateOn {
		return
	}
	d.State = models.StateOff
	d.AutoOff = 0
	d.LastChanged = time.Now()
	r.appendLog(id, "Auto-apagado ejecutado")
}

// SetBrightness updates a light's brightness. The value must already be
// validated to 0-100 by the caller.
func (r *Registry) SetBrightness(id string, brightness int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok || d.Type != models.TypeLight {
		return ErrNotFound
	}
	d.Brightness = brightness
	d.LastChanged = time.Now()
	r.appendLog(id, fmt.Sprintf("Brillo cambiado a %d%%", brightness))
	return nil
}

// SetColor updates a light's color. The #RRGGBB format is validated by the
// caller; the registry stores it as given.
func (r *Registry) SetColor(id, color string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.devices[id]
	if !ok || d.Type != models.TypeLight {
		return ErrNotFound
	}
	d.Color = color
	d.LastChanged = time.Now()
	r.appendLog(id, "Color cambiado a "+color)
	return nil
}

// SetCurtainPosition moves the curtain to the given position, clamped to
// 0-100 (0 = fully closed).
func (r *Registry) SetCurtainPosition(position int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.findByType(models.TypeCurtain)
	if d == nil {
		return ErrNotFound
	}
	d.Curtains = clampInt(position, 0, 100)
	d.LastChanged = time.Now()
	r.appendLog(d.ID, fmt.Sprintf("Posición ajustada a %d%%", d.Curtains))
	return nil
}

// SetTargetTemperature updates the thermostat's target, clamped to the
// supported range.
func (r *Registry) SetTargetTemperature(target float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.findByType(models.TypeThermostat)
	if d == nil {
		return ErrNotFound
	}
	d.TargetTemperature = clampFloat(target, MinTargetTempC, MaxTargetTempC)
	d.LastChanged = time.Now()
	r.appendLog(d.ID, "Temperatura objetivo: "+strconv.FormatFloat(d.TargetTemperature, 'f', -1, 64)+"°C")
	return nil
}

// SetCurrentTemperature is the simulator hook: it adjusts the thermostat's
// measured temperature without logging an event.
func (r *Registry) SetCurrentTemperature(current float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := r.findByType(models.TypeThermostat)
	if d == nil {
		return ErrNotFound
	}
	d.Temperature = current
	return nil
}

// RecentLog returns up to limit of the most recent entries, newest last.
func (r *Registry) RecentLog(limit int) []models.EventLogEntry {
	r.mu.Lock()
	defer r.mu.Unlock()
	if limit <= 0 || limit > len(r.events) {
		limit = len(r.events)
	}
	out := make([]models.EventLogEntry, limit)
	copy(out, r.events[len(r.events)-limit:])
	return out
}

// cancelTimer stops and forgets a pending timer. Bumping the generation
// makes an already-fired callback a no-op. Caller holds the lock.
func (r *Registry) cancelTimer(id string) {
	if t, ok := r.timers[id]; ok {
		t.Stop()
		delete(r.timers, id)
	}
	r.timerGen[id]++
}

// appendLog records an event and trims the log to capacity. Caller holds
// the lock (or is the constructor).
func (r *Registry) appendLog(deviceID, message string) {
	e := models.EventLogEntry{
		EventID:    uuid.NewString(),
		OccurredAt: time.Now(),
		DeviceID:   deviceID,
		Message:    message,
	}
	r.events = append(r.events, e)
	if len(r.events) > logCapacity {
		r.events = r.events[len(r.events)-logCapacity:]
	}
	if r.log != nil {
		r.log.Debugw("event", "device", deviceID, "message", message)
	}
}

func (r *Registry) findByType(deviceType string) *models.Device {
	for _, id := range r.order {
		if d := r.devices[id]; d.Type == deviceType {
			return d
		}
	}
	return nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func clampFloat(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
