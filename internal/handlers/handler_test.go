package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"domotica/internal/models"
	"domotica/internal/registry"
	"domotica/internal/service"

	"github.com/gin-gonic/gin"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestRouter(t *testing.T) (*gin.Engine, *registry.Registry) {
	t.Helper()
	reg := registry.New(nil, []models.Device{
		models.NewDevice("luz_salon", models.TypeLight),
		models.NewDevice("enchufe_tv", models.TypeOutlet),
		models.NewDevice("enchufe_calefactor", models.TypeOutlet),
		models.NewDevice("cortinas", models.TypeCurtain),
		models.NewDevice("termostato", models.TypeThermostat),
	})
	t.Cleanup(reg.Close)
	svc, err := service.NewService(reg, map[string]string{
		"admin": "admin123",
		"user":  "pass123",
	}, "test-signing-key", time.Hour)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return NewHandler(svc, nil).InitRoutes(), reg
}

func doJSON(t *testing.T, router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func signIn(t *testing.T, router *gin.Engine, username, password string) string {
	t.Helper()
	w := doJSON(t, router, http.MethodPost, "/auth/sign-in", "", gin.H{
		"username": username, "password": password,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("sign-in status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode sign-in response: %v", err)
	}
	if resp.Token == "" {
		t.Fatalf("empty token")
	}
	return resp.Token
}

func TestHealth(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/health", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d", w.Code)
	}
}

func TestGetStatus(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodGet, "/api/v1/status", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Success bool            `json:"success"`
		Devices []models.Device `json:"devices"`
		Total   int             `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.Success || resp.Total != 5 || len(resp.Devices) != 5 {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if resp.Devices[0].ID != "luz_salon" {
		t.Fatalf("expected insertion order, got %s first", resp.Devices[0].ID)
	}
}

func TestGetDevice(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/v1/device/termostato", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Device models.Device `json:"device"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Device.Temperature != 19 || resp.Device.TargetTemperature != 21 {
		t.Fatalf("unexpected thermostat defaults: %+v", resp.Device)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/device/nevera", "", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", w.Code, w.Body.String())
	}
	if !bytes.Contains(w.Body.Bytes(), []byte("Dispositivo no encontrado")) {
		t.Fatalf("missing not-found message: %s", w.Body.String())
	}
}

func TestSignInRejectsBadCredentials(t *testing.T) {
	router, _ := newTestRouter(t)
	w := doJSON(t, router, http.MethodPost, "/auth/sign-in", "", gin.H{
		"username": "admin", "password": "wrong",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}
	w = doJSON(t, router, http.MethodPost, "/auth/sign-in", "", gin.H{"username": "admin"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing password, got %d", w.Code)
	}
}

func TestMutationsRequireToken(t *testing.T) {
	router, reg := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/v1/control", "", gin.H{
		"id": "luz_salon", "action": "ON",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/control", "not-a-token", gin.H{
		"id": "luz_salon", "action": "ON",
	})
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for garbage token, got %d", w.Code)
	}

	d, err := reg.Get("luz_salon")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.State != models.StateOff {
		t.Fatalf("unauthorized request mutated state: %+v", d)
	}
}

func TestControl(t *testing.T) {
	router, reg := newTestRouter(t)
	token := signIn(t, router, "admin", "admin123")

	w := doJSON(t, router, http.MethodPost, "/api/v1/control", token, gin.H{
		"id": "enchufe_tv", "action": "ON",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	d, err := reg.Get("enchufe_tv")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.State != models.StateOn {
		t.Fatalf("expected ON, got %s", d.State)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/control", token, gin.H{
		"id": "enchufe_tv", "action": "TOGGLE",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad action, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/control", token, gin.H{
		"id": "nevera", "action": "ON",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown device, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/control", token, gin.H{
		"id": "cortinas", "action": "ON",
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-switchable device, got %d: %s", w.Code, w.Body.String())
	}
}

func TestAutoOff(t *testing.T) {
	router, reg := newTestRouter(t)
	token := signIn(t, router, "user", "pass123")

	w := doJSON(t, router, http.MethodPost, "/api/v1/auto_off", token, gin.H{
		"id": "luz_salon", "seconds": 30,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	d, _ := reg.Get("luz_salon")
	if d.AutoOff != 30 {
		t.Fatalf("expected auto_off 30, got %d", d.AutoOff)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/auto_off", token, gin.H{
		"id": "luz_salon", "seconds": -1,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative seconds, got %d: %s", w.Code, w.Body.String())
	}
}

func TestBrightnessAndColor(t *testing.T) {
	router, reg := newTestRouter(t)
	token := signIn(t, router, "admin", "admin123")

	w := doJSON(t, router, http.MethodPost, "/api/v1/brightness", token, gin.H{
		"id": "luz_salon", "brightness": 75,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	d, _ := reg.Get("luz_salon")
	if d.Brightness != 75 {
		t.Fatalf("expected brightness 75, got %d", d.Brightness)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/brightness", token, gin.H{
		"id": "luz_salon", "brightness": 101,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range brightness, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/color", token, gin.H{
		"id": "luz_salon", "color": "#00ff00",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	d, _ = reg.Get("luz_salon")
	if d.Color != "#00ff00" {
		t.Fatalf("expected #00ff00, got %s", d.Color)
	}

	// Brightness on a non-light is a 404, same as an unknown id.
	w = doJSON(t, router, http.MethodPost, "/api/v1/brightness", token, gin.H{
		"id": "enchufe_tv", "brightness": 50,
	})
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for non-light, got %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/color", token, gin.H{
		"id": "luz_salon", "color": "azul",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for bad color, got %d: %s", w.Code, w.Body.String())
	}
}

func TestCurtainsAndTemperature(t *testing.T) {
	router, reg := newTestRouter(t)
	token := signIn(t, router, "admin", "admin123")

	w := doJSON(t, router, http.MethodPost, "/api/v1/curtains", token, gin.H{"position": 80})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	d, _ := reg.Get("cortinas")
	if d.Curtains != 80 {
		t.Fatalf("expected position 80, got %d", d.Curtains)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/curtains", token, gin.H{"position": 130})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range position, got %d", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/temperature", token, gin.H{"temperature": 24.5})
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	d, _ = reg.Get("termostato")
	if d.TargetTemperature != 24.5 {
		t.Fatalf("expected target 24.5, got %v", d.TargetTemperature)
	}

	w = doJSON(t, router, http.MethodPost, "/api/v1/temperature", token, gin.H{"temperature": 40})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for out-of-range temperature, got %d", w.Code)
	}
}

func TestGetLogs(t *testing.T) {
	router, reg := newTestRouter(t)

	for i := 0; i < 5; i++ {
		state := models.StateOn
		if i%2 == 1 {
			state = models.StateOff
		}
		if err := reg.SetPower("luz_salon", state); err != nil {
			t.Fatalf("SetPower: %v", err)
		}
	}

	w := doJSON(t, router, http.MethodGet, "/api/v1/logs", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Logs  []string `json:"logs"`
		Count int      `json:"count"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	// 1 init entry + 5 power changes.
	if resp.Count != 6 {
		t.Fatalf("expected 6 log lines, got %d", resp.Count)
	}

	w = doJSON(t, router, http.MethodGet, "/api/v1/logs?limit=2", "", nil)
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Count != 2 {
		t.Fatalf("expected 2 log lines, got %d", resp.Count)
	}
}
