package service

import (
	"errors"
	"testing"

	"domotica/internal/models"
	"domotica/internal/registry"
)

func newTestRegistry() *registry.Registry {
	return registry.New(nil, []models.Device{
		models.NewDevice("luz_salon", models.TypeLight),
		models.NewDevice("enchufe_tv", models.TypeOutlet),
		models.NewDevice("cortinas", models.TypeCurtain),
		models.NewDevice("termostato", models.TypeThermostat),
	})
}

func TestSetBrightnessBoundaries(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Close()
	svc := NewDeviceService(reg)

	for _, v := range []int{-1, 101} {
		if err := svc.SetBrightness("luz_salon", v); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("brightness %d: expected ErrInvalidArgument, got %v", v, err)
		}
	}
	// The registry must not have been touched by the rejected values.
	if d, _ := reg.Get("luz_salon"); d.Brightness != 40 {
		t.Fatalf("rejected value reached the registry: brightness=%d", d.Brightness)
	}

	for _, v := range []int{0, 100} {
		if err := svc.SetBrightness("luz_salon", v); err != nil {
			t.Fatalf("brightness %d: unexpected error %v", v, err)
		}
	}
	if d, _ := reg.Get("luz_salon"); d.Brightness != 100 {
		t.Fatalf("expected brightness 100, got %d", d.Brightness)
	}
}

func TestSetColorValidation(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Close()
	svc := NewDeviceService(reg)

	for _, c := range []string{"ffffff", "#fffff", "#fffffff", "#ggFFFF", "rojo"} {
		if err := svc.SetColor("luz_salon", c); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("color %q: expected ErrInvalidArgument, got %v", c, err)
		}
	}
	if err := svc.SetColor("luz_salon", "#00FFaa"); err != nil {
		t.Fatalf("valid color rejected: %v", err)
	}
	if err := svc.SetColor("enchufe_tv", "#00ff00"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("color on outlet: expected ErrNotFound, got %v", err)
	}
}

func TestSetPowerValidation(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Close()
	svc := NewDeviceService(reg)

	if err := svc.SetPower("luz_salon", "MAYBE"); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := svc.SetPower("luz_salon", models.StateOn); err != nil {
		t.Fatalf("SetPower ON: %v", err)
	}
	if err := svc.SetPower("desconocido", models.StateOff); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCurtainAndTemperatureValidation(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Close()
	svc := NewDeviceService(reg)

	if err := svc.SetCurtainPosition(101); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("position 101: expected ErrInvalidArgument, got %v", err)
	}
	if err := svc.SetCurtainPosition(0); err != nil {
		t.Fatalf("position 0: %v", err)
	}
	if err := svc.SetTargetTemperature(15.9); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("temp 15.9: expected ErrInvalidArgument, got %v", err)
	}
	if err := svc.SetTargetTemperature(30); err != nil {
		t.Fatalf("temp 30: %v", err)
	}
	if d, _ := reg.Get("termostato"); d.TargetTemperature != 30 {
		t.Fatalf("expected target 30, got %.1f", d.TargetTemperature)
	}
}

func TestSetAutoOffValidation(t *testing.T) {
	reg := newTestRegistry()
	defer reg.Close()
	svc := NewDeviceService(reg)

	if err := svc.SetAutoOff("enchufe_tv", -5); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := svc.SetAutoOff("enchufe_tv", 0); err != nil {
		t.Fatalf("disarm: %v", err)
	}
}
