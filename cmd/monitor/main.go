// Monitor listens for the UDP telemetry broadcast of the home-automation
// server and prints each snapshot as it arrives. It needs no credentials
// and no TCP connection.
//
// Usage:
//
//	monitor [--port 5001]
package main

import (
	"encoding/json"
	"fmt"
	"net"
	"os"
	"time"

	"domotica/internal/models"

	"github.com/spf13/cobra"
)

var port int

var rootCmd = &cobra.Command{
	Use:   "monitor",
	Short: "Telemetry listener for the home-automation server",
	Long: `Binds the telemetry UDP port and prints every device snapshot the
server broadcasts. Useful to watch state changes live without logging in.`,
	RunE: runMonitor,
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.Flags().IntVar(&port, "port", 5001, "Telemetry UDP port")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMonitor(cmd *cobra.Command, args []string) error {
	conn, err := net.ListenPacket("udp", fmt.Sprintf(":%d", port))
	if err != nil {
		return fmt.Errorf("listen udp port %d: %w", port, err)
	}
	defer conn.Close()

	fmt.Printf("Listening for telemetry on UDP port %d (Ctrl+C to stop)\n\n", port)

	buf := make([]byte, 4096)
	packets := 0
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			return fmt.Errorf("read packet: %w", err)
		}
		packets++

		var snapshot models.Snapshot
		if err := json.Unmarshal(buf[:n], &snapshot); err != nil {
			fmt.Printf("bad payload from %s: %v\n", addr, err)
			continue
		}
		printSnapshot(packets, addr, snapshot)
	}
}

func printSnapshot(packet int, addr net.Addr, snapshot models.Snapshot) {
	fmt.Printf("--- packet #%d from %s at %s ---\n",
		packet, addr, snapshot.Timestamp.Format("2006-01-02 15:04:05"))
	for _, d := range snapshot.Devices {
		fmt.Printf("  %-20s %-4s", d.ID, d.State)
		switch d.Type {
		case models.TypeLight:
			fmt.Printf("  brillo %d%%  color %s", d.Brightness, d.Color)
		case models.TypeCurtain:
			fmt.Printf("  posición %d%%", d.Curtains)
		case models.TypeThermostat:
			fmt.Printf("  %.1f°C -> %.1f°C", d.Temperature, d.TargetTemperature)
		}
		if d.AutoOff > 0 {
			fmt.Printf("  auto-off %ds", d.AutoOff)
		}
		fmt.Println()
	}
	fmt.Printf("  recibido %s\n\n", time.Now().Format("15:04:05"))
}
