// Package protocol implements the newline-delimited command protocol: one
// request line in, one response line out (LOG is the only multi-line
// response). Responses start with OK or ERROR and are produced in the same
// order the commands arrive.
package protocol

import (
	"fmt"
	"strconv"
	"strings"

	"domotica/internal/models"
	"domotica/internal/service"
)

// Banner is sent once per connection, before the first command.
const Banner = "SERVIDOR DOMOTICO v2.0\n" +
	"Comandos: LOGIN, LIST, STATUS, SET, AUTO_OFF, BRIGHTNESS, COLOR, CURTAINS, TEMP, LOG, EXIT\n"

// logTail is how many entries the LOG command returns.
const logTail = 20

// Interpreter executes one command line at a time against the services.
// It carries no state of its own; everything per-connection lives in the
// Session.
type Interpreter struct {
	svc *service.Service
}

func NewInterpreter(svc *service.Service) *Interpreter {
	return &Interpreter{svc: svc}
}

// Execute runs one command line with the given session. It returns the
// response (without trailing newline) and whether the connection should
// close after the response is written.
func (i *Interpreter) Execute(line string, sess *Session) (string, bool) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return "ERROR Comando vacío", false
	}
	cmd := strings.ToUpper(parts[0])

	switch cmd {
	case "LOGIN":
		return i.execLogin(parts, sess), false
	case "EXIT":
		return "OK Hasta pronto", true
	case "LIST":
		return i.execList(), false
	case "STATUS":
		return i.execStatus(parts), false
	case "LOG":
		return i.execLog(), false
	}

	// Everything below mutates device state.
	if !sess.Authenticated {
		return fmt.Sprintf("ERROR %s: Requiere autenticación (usar LOGIN primero)", cmd), false
	}

	switch cmd {
	case "SET":
		return i.execSet(parts), false
	case "AUTO_OFF":
		return i.execAutoOff(parts), false
	case "BRIGHTNESS":
		return i.execBrightness(parts), false
	case "COLOR":
		return i.execColor(parts), false
	case "CURTAINS":
		return i.execCurtains(parts), false
	case "TEMP":
		return i.execTemp(parts), false
	}

	return fmt.Sprintf("ERROR Comando '%s' no reconocido", cmd), false
}

func (i *Interpreter) execLogin(parts []string, sess *Session) string {
	if len(parts) != 3 {
		return "ERROR LOGIN: Uso: LOGIN <usuario> <contraseña>"
	}
	user, password := parts[1], parts[2]
	if err := i.svc.Login(user, password); err != nil {
		return "ERROR LOGIN: Credenciales inválidas"
	}
	sess.Authenticated = true
	sess.Username = user
	return "OK LOGIN Bienvenido " + user
}

func (i *Interpreter) execList() string {
	devices := i.svc.List()
	fields := make([]string, 0, len(devices))
	for _, d := range devices {
		fields = append(fields, d.ProtocolString())
	}
	return fmt.Sprintf("OK %d %s", len(devices), strings.Join(fields, ";"))
}

func (i *Interpreter) execStatus(parts []string) string {
	if len(parts) != 2 {
		return "ERROR STATUS: Uso: STATUS <device_id>"
	}
	d, err := i.svc.Get(parts[1])
	if err != nil {
		return notFound(parts[1])
	}
	return fmt.Sprintf("OK %s %s %d", d.ID, d.State, d.AutoOff)
}

func (i *Interpreter) execLog() string {
	entries := i.svc.Recent(logTail)
	lines := make([]string, 0, len(entries)+1)
	lines = append(lines, "OK LOG")
	for _, e := range entries {
		lines = append(lines, e.String())
	}
	return strings.Join(lines, "\n")
}

func (i *Interpreter) execSet(parts []string) string {
	if len(parts) < 3 {
		return "ERROR SET: Uso: SET <device_id> <ON|OFF|BRIGHTNESS|COLOR> [value] o SET cortinas LEVEL <0-100> o SET termostato TEMP <16-30>"
	}
	deviceID := parts[1]
	sub := strings.ToUpper(parts[2])

	// The curtain and thermostat ids (old aliases included) only take
	// their type-specific subcommand.
	switch strings.ToLower(deviceID) {
	case "cortinas", "persianas":
		return i.execSetCurtains(parts, sub)
	case "termostato", "clima":
		return i.execSetThermostat(parts, sub)
	}

	switch sub {
	case models.StateOn, models.StateOff:
		if err := i.svc.SetPower(deviceID, sub); err != nil {
			return notFound(deviceID)
		}
		return fmt.Sprintf("OK SET %s %s", deviceID, sub)
	case "BRIGHTNESS":
		return i.execSetBrightness(parts, deviceID)
	case "COLOR":
		return i.execSetColor(parts, deviceID)
	}

	return fmt.Sprintf("ERROR SET: Subcomando '%s' no reconocido. Use: ON, OFF, BRIGHTNESS, COLOR, LEVEL (persianas), TEMP (clima)", sub)
}

func (i *Interpreter) execSetCurtains(parts []string, sub string) string {
	if sub != "LEVEL" || len(parts) != 4 {
		return "ERROR SET: Uso: SET cortinas LEVEL <0-100>"
	}
	level, err := strconv.Atoi(parts[3])
	if err != nil {
		return "ERROR SET: El nivel debe ser un número entero"
	}
	if level < 0 || level > 100 {
		return "ERROR SET: El nivel de cortinas debe estar entre 0 y 100"
	}
	if err := i.svc.SetCurtainPosition(level); err != nil {
		return "ERROR Dispositivo cortinas no encontrado"
	}
	return fmt.Sprintf("OK SET cortinas LEVEL %d", level)
}

func (i *Interpreter) execSetThermostat(parts []string, sub string) string {
	if sub != "TEMP" || len(parts) != 4 {
		return "ERROR SET: Uso: SET termostato TEMP <16-30>"
	}
	temp, err := strconv.ParseFloat(parts[3], 64)
	if err != nil {
		return "ERROR SET: La temperatura debe ser un número"
	}
	if temp < 16 || temp > 30 {
		return "ERROR SET: La temperatura debe estar entre 16 y 30°C"
	}
	if err := i.svc.SetTargetTemperature(temp); err != nil {
		return "ERROR Dispositivo termostato no encontrado"
	}
	return "OK SET termostato TEMP " + formatNumber(temp)
}

func (i *Interpreter) execSetBrightness(parts []string, deviceID string) string {
	if len(parts) != 4 {
		return "ERROR SET: Uso: SET <device_id> BRIGHTNESS <0-100>"
	}
	brightness, err := strconv.Atoi(parts[3])
	if err != nil {
		return "ERROR SET: El brillo debe ser un número entero"
	}
	if brightness < 0 || brightness > 100 {
		return "ERROR SET: El brillo debe estar entre 0 y 100"
	}
	if err := i.svc.SetBrightness(deviceID, brightness); err != nil {
		return notALight(deviceID)
	}
	// Convenience of this form only: a visible brightness also switches the
	// light ON. The bare BRIGHTNESS command does not.
	if brightness > 0 {
		_ = i.svc.SetPower(deviceID, models.StateOn)
	}
	return fmt.Sprintf("OK SET %s BRIGHTNESS %d", deviceID, brightness)
}

func (i *Interpreter) execSetColor(parts []string, deviceID string) string {
	if len(parts) != 4 {
		return "ERROR SET: Uso: SET <device_id> COLOR <#RRGGBB>"
	}
	color := parts[3]
	if !service.ValidColor(color) {
		return "ERROR SET: El color debe estar en formato #RRGGBB"
	}
	if err := i.svc.SetColor(deviceID, color); err != nil {
		return notALight(deviceID)
	}
	return fmt.Sprintf("OK SET %s COLOR %s", deviceID, color)
}

func (i *Interpreter) execAutoOff(parts []string) string {
	if len(parts) != 3 {
		return "ERROR AUTO_OFF: Uso: AUTO_OFF <device_id> <segundos>"
	}
	deviceID := parts[1]
	seconds, err := strconv.Atoi(parts[2])
	if err != nil {
		return "ERROR AUTO_OFF: Los segundos deben ser un número entero"
	}
	if seconds < 0 {
		return "ERROR AUTO_OFF: Los segundos deben ser >= 0"
	}
	if err := i.svc.SetAutoOff(deviceID, seconds); err != nil {
		return notFound(deviceID)
	}
	return fmt.Sprintf("OK AUTO_OFF %s %ds", deviceID, seconds)
}

func (i *Interpreter) execBrightness(parts []string) string {
	if len(parts) != 3 {
		return "ERROR BRIGHTNESS: Uso: BRIGHTNESS <device_id> <0-100>"
	}
	deviceID := parts[1]
	brightness, err := strconv.Atoi(parts[2])
	if err != nil {
		return "ERROR BRIGHTNESS: El valor debe ser un número entero"
	}
	if brightness < 0 || brightness > 100 {
		return "ERROR BRIGHTNESS: El valor debe estar entre 0 y 100"
	}
	if err := i.svc.SetBrightness(deviceID, brightness); err != nil {
		return notALight(deviceID)
	}
	return fmt.Sprintf("OK BRIGHTNESS %s %d", deviceID, brightness)
}

func (i *Interpreter) execColor(parts []string) string {
	if len(parts) != 3 {
		return "ERROR COLOR: Uso: COLOR <device_id> <#RRGGBB>"
	}
	deviceID, color := parts[1], parts[2]
	if !service.ValidColor(color) {
		return "ERROR COLOR: El color debe estar en formato #RRGGBB"
	}
	if err := i.svc.SetColor(deviceID, color); err != nil {
		return notALight(deviceID)
	}
	return fmt.Sprintf("OK COLOR %s %s", deviceID, color)
}

func (i *Interpreter) execCurtains(parts []string) string {
	if len(parts) != 2 {
		return "ERROR CURTAINS: Uso: CURTAINS <0-100>"
	}
	position, err := strconv.Atoi(parts[1])
	if err != nil {
		return "ERROR CURTAINS: El valor debe ser un número entero"
	}
	if position < 0 || position > 100 {
		return "ERROR CURTAINS: El valor debe estar entre 0 y 100"
	}
	if err := i.svc.SetCurtainPosition(position); err != nil {
		return "ERROR No se pudo ajustar las cortinas"
	}
	return fmt.Sprintf("OK CURTAINS %d", position)
}

func (i *Interpreter) execTemp(parts []string) string {
	if len(parts) != 2 {
		return "ERROR TEMP: Uso: TEMP <16-30>"
	}
	temp, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return "ERROR TEMP: La temperatura debe ser un número"
	}
	if temp < 16 || temp > 30 {
		return "ERROR TEMP: La temperatura debe estar entre 16 y 30°C"
	}
	if err := i.svc.SetTargetTemperature(temp); err != nil {
		return "ERROR No se pudo ajustar la temperatura"
	}
	return "OK TEMP " + formatNumber(temp)
}

func notFound(deviceID string) string {
	return fmt.Sprintf("ERROR Dispositivo '%s' no encontrado", deviceID)
}

func notALight(deviceID string) string {
	return fmt.Sprintf("ERROR Dispositivo '%s' no encontrado o no es una luz", deviceID)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
